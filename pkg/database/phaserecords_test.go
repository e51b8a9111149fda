package database

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Azure/dnsmigrator/pkg/api"
	utilerror "github.com/Azure/dnsmigrator/test/util/error"
	utillog "github.com/Azure/dnsmigrator/test/util/log"
)

func testDB(t *testing.T, uuid string) (PhaseRecords, string) {
	t.Helper()

	dir := t.TempDir()
	_, log := utillog.NewCapturingLogger()
	return NewPhaseRecords(log, filepath.Join(dir, "phaserecords.jsonl"), filepath.Join(dir, "phaserecords.lease"), uuid), dir
}

func TestAppendAndList(t *testing.T) {
	db, _ := testDB(t, "owner-1")

	records, err := db.List()
	if err != nil {
		t.Fatal(err)
	}
	if records != nil {
		t.Errorf("fresh log not empty: %v", records)
	}

	want := []api.PhaseRecord{
		{Phase: api.PhaseInfrastructure, Timestamp: "2026-08-29T10:00:00Z", SnapshotHash: "aaa", Result: api.PhaseResultPass},
		{Phase: api.PhaseConnectivity, Timestamp: "2026-08-29T10:05:00Z", SnapshotHash: "aaa", Result: api.PhaseResultFail, Diagnostics: []string{"link not reachable: no path from segment hub to segment onprem"}},
		{Phase: api.PhaseConnectivity, Timestamp: "2026-08-29T10:15:00Z", SnapshotHash: "aaa", Result: api.PhaseResultPass},
	}
	for _, record := range want {
		err = db.Append(record)
		if err != nil {
			t.Fatal(err)
		}
	}

	records, err = db.List()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Error(diff)
	}

	latest, err := db.Latest()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(&want[2], latest); diff != "" {
		t.Error(diff)
	}
}

func TestAppendNeverRewrites(t *testing.T) {
	db, dir := testDB(t, "owner-1")
	path := filepath.Join(dir, "phaserecords.jsonl")

	err := db.Append(api.PhaseRecord{Phase: api.PhaseInfrastructure, Result: api.PhaseResultPass})
	if err != nil {
		t.Fatal(err)
	}

	before, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	err = db.Append(api.PhaseRecord{Phase: api.PhaseConnectivity, Result: api.PhaseResultPass})
	if err != nil {
		t.Fatal(err)
	}

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	if !strings.HasPrefix(string(after), string(before)) {
		t.Error("append rewrote existing records")
	}
	if strings.Count(string(after), "\n") != 2 {
		t.Errorf("log: %q", string(after))
	}
}

func TestLatestCommitted(t *testing.T) {
	db, _ := testDB(t, "owner-1")

	for _, record := range []api.PhaseRecord{
		{Phase: api.PhaseInfrastructure, SnapshotHash: "aaa", Result: api.PhaseResultPass},
		{Phase: api.PhaseConnectivity, SnapshotHash: "aaa", Result: api.PhaseResultFail},
		{Phase: api.PhaseConnectivity, SnapshotHash: "bbb", Result: api.PhaseResultPass},
	} {
		err := db.Append(record)
		if err != nil {
			t.Fatal(err)
		}
	}

	record, err := db.LatestCommitted(api.PhaseConnectivity)
	if err != nil {
		t.Fatal(err)
	}
	if record == nil || record.SnapshotHash != "bbb" {
		t.Errorf("record: %v", record)
	}

	record, err = db.LatestCommitted(api.PhaseCutover)
	if err != nil {
		t.Fatal(err)
	}
	if record != nil {
		t.Errorf("got a record for a phase which never ran: %v", record)
	}

	for _, tt := range []*struct {
		phase api.Phase
		hash  string
		want  bool
	}{
		{phase: api.PhaseConnectivity, hash: "bbb", want: true},
		{phase: api.PhaseConnectivity, hash: "aaa", want: false},
		{phase: api.PhaseCutover, hash: "bbb", want: false},
	} {
		committed, err := db.IsCommitted(tt.phase, tt.hash)
		if err != nil {
			t.Fatal(err)
		}
		if committed != tt.want {
			t.Errorf("IsCommitted(%s, %s) = %t", tt.phase, tt.hash, committed)
		}
	}
}

func TestLeaseExcludesSecondOwner(t *testing.T) {
	dir := t.TempDir()
	_, log := utillog.NewCapturingLogger()

	recordPath := filepath.Join(dir, "phaserecords.jsonl")
	leasePath := filepath.Join(dir, "phaserecords.lease")

	first := NewPhaseRecords(log, recordPath, leasePath, "owner-1")
	second := NewPhaseRecords(log, recordPath, leasePath, "owner-2")

	err := first.Lease()
	if err != nil {
		t.Fatal(err)
	}

	err = second.Lease()
	utilerror.AssertErrorMessage(t, err, "topology is leased by another orchestrator (owner owner-1)")

	// re-taking and renewing our own lease is fine
	err = first.Lease()
	if err != nil {
		t.Fatal(err)
	}
	err = first.RenewLease()
	if err != nil {
		t.Fatal(err)
	}

	// only the owner renews
	err = second.RenewLease()
	utilerror.AssertErrorMessage(t, err, "cannot renew a lease we do not hold")

	// releasing somebody else's lease is a no-op
	err = second.EndLease()
	if err != nil {
		t.Fatal(err)
	}
	err = second.Lease()
	utilerror.AssertErrorMessage(t, err, "topology is leased by another orchestrator (owner owner-1)")

	err = first.EndLease()
	if err != nil {
		t.Fatal(err)
	}

	err = second.Lease()
	if err != nil {
		t.Fatal(err)
	}
}
