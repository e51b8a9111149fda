package forwarding

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/connectivity"
	"github.com/Azure/dnsmigrator/pkg/topology"
	utillog "github.com/Azure/dnsmigrator/test/util/log"
)

// fixture is an onprem authority plus a hub resolver in separate segments,
// with a single spoke holding no DNS server of its own.
func fixture(t *testing.T) (*topology.Model, *connectivity.Tracker) {
	t.Helper()

	model, err := topology.FromDocument(&api.TopologyDocument{
		Segments: []api.Segment{
			{ID: "hub"},
			{ID: "onprem"},
			{ID: "spoke-1"},
		},
		DNSServers: []api.DNSServer{
			{ID: "hub-dns", SegmentID: "hub", Address: "10.0.0.4"},
			{ID: "onprem-dns", SegmentID: "onprem", Address: "192.168.0.53"},
		},
		Zones: []api.Zone{
			{Name: "corp.example.com", AuthorityID: "onprem-dns"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, log := utillog.NewCapturingLogger()
	tracker := connectivity.NewTracker(log, nil)
	err = tracker.DeclareLink("hub", "onprem")
	if err != nil {
		t.Fatal(err)
	}

	return model, tracker
}

func TestComputeFailsClosedWithoutVerifiedLink(t *testing.T) {
	model, tracker := fixture(t)

	// The link hub-onprem is declared but not verified, so the hub server
	// has no path to the zone's authority and no fallback exists.
	rs, err := (&Engine{}).Compute(model, tracker)
	if rs != nil {
		t.Error("got a rule set despite unreachable authority")
	}
	if err == nil || !strings.Contains(err.Error(), "no reachable authority for zone corp.example.com from server hub-dns") {
		t.Errorf("err: %v", err)
	}
}

func TestComputeTargetsAuthorityOverVerifiedLink(t *testing.T) {
	model, tracker := fixture(t)
	tracker.RestoreVerified([]api.Link{{SegmentA: "hub", SegmentB: "onprem"}})

	rs, err := (&Engine{}).Compute(model, tracker)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string][]api.ForwardingRule{
		"hub-dns": {
			{ZonePattern: "corp.example.com", TargetID: "onprem-dns", TargetAddress: "192.168.0.53"},
		},
		"onprem-dns": {},
	}
	if diff := cmp.Diff(want, rs.ServerRules); diff != "" {
		t.Error(diff)
	}
	if rs.SnapshotHash != model.Snapshot() {
		t.Error("rule set does not carry the model snapshot")
	}
}

func TestComputeAfterAuthorityMove(t *testing.T) {
	model, tracker := fixture(t)
	tracker.RestoreVerified([]api.Link{{SegmentA: "hub", SegmentB: "onprem"}})

	// Move the zone authority to the hub.
	err := model.SetZoneAuthority("corp.example.com", "hub-dns")
	if err != nil {
		t.Fatal(err)
	}
	err = model.CommitAuthority("corp.example.com")
	if err != nil {
		t.Fatal(err)
	}

	rs, err := (&Engine{}).Compute(model, tracker)
	if err != nil {
		t.Fatal(err)
	}

	// onprem-dns reaches the new authority directly; hub-dns is authoritative
	// and holds no rule for its own zone.
	want := map[string][]api.ForwardingRule{
		"hub-dns": {},
		"onprem-dns": {
			{ZonePattern: "corp.example.com", TargetID: "hub-dns", TargetAddress: "10.0.0.4"},
		},
	}
	if diff := cmp.Diff(want, rs.ServerRules); diff != "" {
		t.Error(diff)
	}
}

func TestComputePreviousAuthorityKeepsZoneResolvable(t *testing.T) {
	model, err := topology.FromDocument(&api.TopologyDocument{
		Segments: []api.Segment{
			{ID: "hub"},
			{ID: "onprem"},
			{ID: "spoke-1"},
		},
		DNSServers: []api.DNSServer{
			{ID: "hub-dns", SegmentID: "hub", Address: "10.0.0.4"},
			{ID: "onprem-dns", SegmentID: "onprem", Address: "192.168.0.53"},
			{ID: "spoke-1-dns", SegmentID: "spoke-1", Address: "10.1.0.4"},
		},
		Zones: []api.Zone{
			{Name: "corp.example.com", AuthorityID: "onprem-dns"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	_, log := utillog.NewCapturingLogger()
	tracker := connectivity.NewTracker(log, nil)
	// spoke-1 reaches onprem but has no link to the hub
	for _, pair := range [][2]string{{"hub", "onprem"}, {"spoke-1", "onprem"}} {
		err = tracker.DeclareLink(pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
	}
	tracker.RestoreVerified([]api.Link{
		{SegmentA: "hub", SegmentB: "onprem"},
		{SegmentA: "spoke-1", SegmentB: "onprem"},
	})

	err = model.SetZoneAuthority("corp.example.com", "hub-dns")
	if err != nil {
		t.Fatal(err)
	}
	err = model.CommitAuthority("corp.example.com")
	if err != nil {
		t.Fatal(err)
	}

	rs, err := (&Engine{}).Compute(model, tracker)
	if err != nil {
		t.Fatal(err)
	}

	// The spoke cannot reach the new authority, so its rule falls back to
	// the retained previous authority instead of failing.
	want := []api.ForwardingRule{
		{ZonePattern: "corp.example.com", TargetID: "onprem-dns", TargetAddress: "192.168.0.53"},
	}
	if diff := cmp.Diff(want, rs.ServerRules["spoke-1-dns"]); diff != "" {
		t.Error(diff)
	}
}

func TestComputeUsesUpstreamAsLastResort(t *testing.T) {
	model, tracker := fixture(t)

	rs, err := (&Engine{Upstream: "168.63.129.16"}).Compute(model, tracker)
	if err != nil {
		t.Fatal(err)
	}

	want := []api.ForwardingRule{
		{ZonePattern: "corp.example.com", TargetAddress: "168.63.129.16", Upstream: true},
	}
	if diff := cmp.Diff(want, rs.ServerRules["hub-dns"]); diff != "" {
		t.Error(diff)
	}
}

func TestComputeDeterministic(t *testing.T) {
	model, tracker := fixture(t)
	tracker.RestoreVerified([]api.Link{{SegmentA: "hub", SegmentB: "onprem"}})

	e := &Engine{Upstream: "168.63.129.16"}

	first, err := e.Compute(model, tracker)
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Compute(model, tracker)
	if err != nil {
		t.Fatal(err)
	}

	b1, err := Marshal(first)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := Marshal(second)
	if err != nil {
		t.Fatal(err)
	}

	if !bytes.Equal(b1, b2) {
		t.Error("identical inputs produced different serialized rule sets")
	}
}
