package env

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Interface collects the configuration the orchestrator needs.  Values come
// from DNSMIGRATOR_* environment variables or an optional config file; all
// have workable defaults except the topology and record paths.
type Interface interface {
	TopologyPath() string
	RecordPath() string
	LeasePath() string

	ProbeTimeout() time.Duration
	ApplyTimeout() time.Duration
	ConditionTimeout() time.Duration
	PollInterval() time.Duration

	GetEnv(string) string
	Logger() *logrus.Entry
}

type env struct {
	cfg *viper.Viper
	log *logrus.Entry
}

// New returns an Interface reading configuration from cfg.  configFile, when
// non-empty, is merged in before environment variables are applied.
func New(log *logrus.Entry, cfg *viper.Viper, configFile string) (Interface, error) {
	cfg.SetEnvPrefix("dnsmigrator")
	cfg.AutomaticEnv()

	cfg.SetDefault("topology_path", "topology.yaml")
	cfg.SetDefault("record_path", "phaserecords.jsonl")
	cfg.SetDefault("lease_path", "phaserecords.lease")
	cfg.SetDefault("probe_timeout", "30s")
	cfg.SetDefault("apply_timeout", "5m")
	cfg.SetDefault("condition_timeout", "10m")
	cfg.SetDefault("poll_interval", "10s")

	if configFile != "" {
		cfg.SetConfigFile(configFile)
		err := cfg.ReadInConfig()
		if err != nil {
			return nil, err
		}
	}

	return &env{
		cfg: cfg,
		log: log,
	}, nil
}

func (e *env) TopologyPath() string {
	return e.cfg.GetString("topology_path")
}

func (e *env) RecordPath() string {
	return e.cfg.GetString("record_path")
}

func (e *env) LeasePath() string {
	return e.cfg.GetString("lease_path")
}

func (e *env) ProbeTimeout() time.Duration {
	return e.cfg.GetDuration("probe_timeout")
}

func (e *env) ApplyTimeout() time.Duration {
	return e.cfg.GetDuration("apply_timeout")
}

func (e *env) ConditionTimeout() time.Duration {
	return e.cfg.GetDuration("condition_timeout")
}

func (e *env) PollInterval() time.Duration {
	return e.cfg.GetDuration("poll_interval")
}

func (e *env) GetEnv(name string) string {
	return e.cfg.GetString(name)
}

func (e *env) Logger() *logrus.Entry {
	return e.log
}
