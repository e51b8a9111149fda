package database

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/Azure/dnsmigrator/pkg/api"
)

// leaseDuration matches the renewal window the record log's writers get;
// RenewLease is called on step boundaries during a phase transition.
const leaseDuration = 60 * time.Second

type lease struct {
	Owner   string `json:"owner"`
	Expires int64  `json:"expires"`
}

// Lease takes the exclusive orchestration lease.  Exactly one orchestrator
// drives a topology at a time: if another live owner holds the lease, a
// LeaseHeldError is returned and no state is touched.  An expired lease is
// taken over.
func (p *phaseRecords) Lease() error {
	current, err := p.readLease()
	if err != nil {
		return err
	}

	if current != nil && current.Owner != p.uuid && time.Now().Unix() < current.Expires {
		return &api.LeaseHeldError{Owner: current.Owner}
	}

	return p.writeLease()
}

// RenewLease extends the lease.  Only the owner may renew.
func (p *phaseRecords) RenewLease() error {
	current, err := p.readLease()
	if err != nil {
		return err
	}

	if current == nil || current.Owner != p.uuid {
		return errors.New("cannot renew a lease we do not hold")
	}

	return p.writeLease()
}

// EndLease releases the lease if we hold it.
func (p *phaseRecords) EndLease() error {
	current, err := p.readLease()
	if err != nil {
		return err
	}

	if current == nil || current.Owner != p.uuid {
		return nil
	}

	return os.Remove(p.leasePath)
}

func (p *phaseRecords) readLease() (*lease, error) {
	b, err := os.ReadFile(p.leasePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading lease")
	}

	var l lease
	err = json.Unmarshal(b, &l)
	if err != nil {
		return nil, errors.Wrap(err, "parsing lease")
	}

	return &l, nil
}

func (p *phaseRecords) writeLease() error {
	b, err := json.Marshal(&lease{
		Owner:   p.uuid,
		Expires: time.Now().Add(leaseDuration).Unix(),
	})
	if err != nil {
		return err
	}

	return os.WriteFile(p.leasePath, b, 0644)
}
