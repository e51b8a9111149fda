package main

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"os"

	"github.com/Azure/go-autorest/autorest/azure/auth"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/collab/azure"
	"github.com/Azure/dnsmigrator/pkg/collab/dnsprobe"
	"github.com/Azure/dnsmigrator/pkg/env"
	"github.com/Azure/dnsmigrator/pkg/forwarding"
	"github.com/Azure/dnsmigrator/pkg/migration"
)

func newManager(ctx context.Context, log *logrus.Entry) (migration.Interface, error) {
	_env, err := env.New(log, viper.New(), os.Getenv("DNSMIGRATOR_CONFIG"))
	if err != nil {
		return nil, err
	}

	for _, key := range []string{
		"AZURE_SUBSCRIPTION_ID",
		"RESOURCEGROUP",
	} {
		if _, found := os.LookupEnv(key); !found {
			return nil, fmt.Errorf("environment variable %q unset", key)
		}
	}

	doc, err := api.LoadTopologyDocument(_env.TopologyPath())
	if err != nil {
		return nil, err
	}

	authorizer, err := auth.NewAuthorizerFromEnvironment()
	if err != nil {
		return nil, err
	}

	subscriptionID := os.Getenv("AZURE_SUBSCRIPTION_ID")
	resourceGroup := os.Getenv("RESOURCEGROUP")

	provisioner := azure.NewProvisioner(log.WithField("component", "provisioner"), subscriptionID, resourceGroup, authorizer)
	probe := azure.NewLinkProbe(log.WithField("component", "linkprobe"), subscriptionID, resourceGroup, authorizer)
	dnsadmin := azure.NewDnsAdmin(log.WithField("component", "dnsadmin"), subscriptionID, resourceGroup, authorizer)
	resolver := dnsprobe.NewResolver(log.WithField("component", "resolver"))

	return migration.New(ctx, log, _env, doc, provisioner, probe, dnsadmin, resolver)
}

func plan(ctx context.Context, log *logrus.Entry) error {
	m, err := newManager(ctx, log)
	if err != nil {
		return err
	}

	rs, err := m.Plan(ctx)
	if err != nil {
		return err
	}

	b, err := forwarding.Marshal(rs)
	if err != nil {
		return err
	}

	_, err = os.Stdout.Write(append(b, '\n'))
	return err
}

func advance(ctx context.Context, log *logrus.Entry) error {
	m, err := newManager(ctx, log)
	if err != nil {
		return err
	}

	return m.Advance(ctx)
}

func run(ctx context.Context, log *logrus.Entry, phase string) error {
	m, err := newManager(ctx, log)
	if err != nil {
		return err
	}

	return m.Run(ctx, api.Phase(phase))
}

func validateCmd(ctx context.Context, log *logrus.Entry) error {
	m, err := newManager(ctx, log)
	if err != nil {
		return err
	}

	return m.Validate(ctx)
}

func status(ctx context.Context, log *logrus.Entry) error {
	m, err := newManager(ctx, log)
	if err != nil {
		return err
	}

	records, err := m.Status(ctx)
	if err != nil {
		return err
	}

	for _, record := range records {
		fmt.Printf("%s\t%s\t%s\t%s\n", record.Timestamp, record.Phase, record.Result, record.SnapshotHash)
	}

	return nil
}
