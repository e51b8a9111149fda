package database

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/Azure/dnsmigrator/pkg/api"
)

// PhaseRecords is the database interface for the phase record log: a flat,
// append-only, human-diffable sequence of records.  It is the only durable
// state the orchestrator owns.
type PhaseRecords interface {
	Append(api.PhaseRecord) error
	List() ([]api.PhaseRecord, error)
	Latest() (*api.PhaseRecord, error)
	LatestCommitted(api.Phase) (*api.PhaseRecord, error)
	IsCommitted(api.Phase, string) (bool, error)

	Lease() error
	RenewLease() error
	EndLease() error
}

type phaseRecords struct {
	log *logrus.Entry

	path      string
	leasePath string
	uuid      string
}

// NewPhaseRecords returns a PhaseRecords backed by a JSON-lines file at path
// and a lease file at leasePath.  uuid identifies this orchestrator instance
// as lease owner.
func NewPhaseRecords(log *logrus.Entry, path, leasePath, uuid string) PhaseRecords {
	return &phaseRecords{
		log: log,

		path:      path,
		leasePath: leasePath,
		uuid:      uuid,
	}
}

// Append writes one record to the log.  The file is opened with O_APPEND and
// never rewritten: history is monotonic.
func (p *phaseRecords) Append(record api.PhaseRecord) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(p.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return errors.Wrap(err, "opening phase record log")
	}
	defer f.Close()

	_, err = f.Write(append(b, '\n'))
	if err != nil {
		return errors.Wrap(err, "appending phase record")
	}

	return f.Sync()
}

func (p *phaseRecords) List() ([]api.PhaseRecord, error) {
	f, err := os.Open(p.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "opening phase record log")
	}
	defer f.Close()

	var records []api.PhaseRecord

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var record api.PhaseRecord
		err = json.Unmarshal(line, &record)
		if err != nil {
			return nil, errors.Wrap(err, "parsing phase record log")
		}
		records = append(records, record)
	}

	return records, scanner.Err()
}

func (p *phaseRecords) Latest() (*api.PhaseRecord, error) {
	records, err := p.List()
	if err != nil || len(records) == 0 {
		return nil, err
	}

	return &records[len(records)-1], nil
}

// LatestCommitted returns the most recent Pass record for the given phase,
// or nil when the phase has never committed.
func (p *phaseRecords) LatestCommitted(phase api.Phase) (*api.PhaseRecord, error) {
	records, err := p.List()
	if err != nil {
		return nil, err
	}

	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Phase == phase && records[i].Result == api.PhaseResultPass {
			return &records[i], nil
		}
	}

	return nil, nil
}

// IsCommitted reports whether the phase has a Pass record with the given
// topology snapshot hash.  The phase machine uses this to turn re-runs of
// already-committed phases into no-ops.
func (p *phaseRecords) IsCommitted(phase api.Phase, snapshotHash string) (bool, error) {
	record, err := p.LatestCommitted(phase)
	if err != nil || record == nil {
		return false, err
	}

	return record.SnapshotHash == snapshotHash, nil
}
