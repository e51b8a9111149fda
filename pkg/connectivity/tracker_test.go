package connectivity

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"

	"github.com/Azure/dnsmigrator/pkg/api"
	mock_collab "github.com/Azure/dnsmigrator/pkg/util/mocks/collab"
	utilerror "github.com/Azure/dnsmigrator/test/util/error"
	utillog "github.com/Azure/dnsmigrator/test/util/log"
)

func TestDeclareLink(t *testing.T) {
	_, log := utillog.NewCapturingLogger()
	tracker := NewTracker(log, nil)

	err := tracker.DeclareLink("hub", "hub")
	utilerror.AssertErrorMessage(t, err, "topology invariant violation on link hub: a segment cannot be linked to itself")

	err = tracker.DeclareLink("spoke-1", "hub")
	if err != nil {
		t.Fatal(err)
	}

	// redeclaring, in either order, is a no-op
	err = tracker.DeclareLink("hub", "spoke-1")
	if err != nil {
		t.Fatal(err)
	}

	want := []api.ConnectivityEdge{
		{SegmentA: "hub", SegmentB: "spoke-1", Status: api.EdgePlanned},
	}
	if diff := cmp.Diff(want, tracker.Edges()); diff != "" {
		t.Error(diff)
	}
}

func TestConfirmLink(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []*struct {
		name       string
		mocks      func(*mock_collab.MockLinkProbe)
		wantStatus api.EdgeStatus
		wantErr    string
	}{
		{
			name: "both directions reachable",
			mocks: func(probe *mock_collab.MockLinkProbe) {
				probe.EXPECT().Probe(gomock.Any(), "hub", "spoke-1").Return(true, nil)
				probe.EXPECT().Probe(gomock.Any(), "spoke-1", "hub").Return(true, nil)
			},
			wantStatus: api.EdgeVerified,
		},
		{
			name: "forward direction unreachable",
			mocks: func(probe *mock_collab.MockLinkProbe) {
				probe.EXPECT().Probe(gomock.Any(), "hub", "spoke-1").Return(false, nil)
			},
			wantStatus: api.EdgePlanned,
			wantErr:    "link not reachable: no path from segment hub to segment spoke-1",
		},
		{
			name: "reverse direction unreachable",
			mocks: func(probe *mock_collab.MockLinkProbe) {
				probe.EXPECT().Probe(gomock.Any(), "hub", "spoke-1").Return(true, nil)
				probe.EXPECT().Probe(gomock.Any(), "spoke-1", "hub").Return(false, nil)
			},
			wantStatus: api.EdgeEstablished,
			wantErr:    "link not reachable: no path from segment spoke-1 to segment hub",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			controller := gomock.NewController(t)
			defer controller.Finish()

			probe := mock_collab.NewMockLinkProbe(controller)
			tt.mocks(probe)

			_, log := utillog.NewCapturingLogger()
			tracker := NewTracker(log, probe)

			err := tracker.DeclareLink("hub", "spoke-1")
			if err != nil {
				t.Fatal(err)
			}

			err = tracker.ConfirmLink(ctx, "hub", "spoke-1")
			utilerror.AssertErrorMessage(t, err, tt.wantErr)

			edges := tracker.Edges()
			if len(edges) != 1 || edges[0].Status != tt.wantStatus {
				t.Errorf("edges: %v", edges)
			}

			if tt.wantErr != "" && tracker.IsReachable("hub", "spoke-1") {
				t.Error("unverified link reported reachable")
			}
		})
	}
}

func TestConfirmLinkUndeclared(t *testing.T) {
	_, log := utillog.NewCapturingLogger()
	tracker := NewTracker(log, nil)

	err := tracker.ConfirmLink(context.Background(), "hub", "spoke-1")
	utilerror.AssertErrorMessage(t, err, "topology invariant violation on link hub-spoke-1: link has not been declared")
}

func TestIsReachable(t *testing.T) {
	controller := gomock.NewController(t)
	defer controller.Finish()

	probe := mock_collab.NewMockLinkProbe(controller)
	probe.EXPECT().Probe(gomock.Any(), "hub", "spoke-1").Return(true, nil)
	probe.EXPECT().Probe(gomock.Any(), "spoke-1", "hub").Return(true, nil)

	_, log := utillog.NewCapturingLogger()
	tracker := NewTracker(log, probe)

	// a segment always reaches itself, even one the tracker has never seen
	if !tracker.IsReachable("onprem", "onprem") {
		t.Error("segment does not reach itself")
	}

	err := tracker.DeclareLink("hub", "spoke-1")
	if err != nil {
		t.Fatal(err)
	}

	if tracker.IsReachable("hub", "spoke-1") {
		t.Error("planned link reported reachable")
	}

	err = tracker.ConfirmLink(context.Background(), "hub", "spoke-1")
	if err != nil {
		t.Fatal(err)
	}

	if !tracker.IsReachable("hub", "spoke-1") || !tracker.IsReachable("spoke-1", "hub") {
		t.Error("verified link not reachable in both orders")
	}

	if tracker.IsReachable("hub", "onprem") {
		t.Error("undeclared link reported reachable")
	}
}

func TestRestoreVerified(t *testing.T) {
	_, log := utillog.NewCapturingLogger()
	tracker := NewTracker(log, nil)

	for _, pair := range [][2]string{{"hub", "spoke-1"}, {"hub", "onprem"}} {
		err := tracker.DeclareLink(pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
	}

	if tracker.AllVerified() {
		t.Error("planned links reported verified")
	}

	// only hub-onprem was recorded at commit time; hub-spoke-1 was
	// declared later and must stay Planned
	tracker.RestoreVerified([]api.Link{
		{SegmentA: "hub", SegmentB: "onprem"},
		{SegmentA: "hub", SegmentB: "undeclared"},
	})

	if !tracker.IsReachable("hub", "onprem") {
		t.Error("restored link not reachable")
	}
	if tracker.IsReachable("hub", "spoke-1") {
		t.Error("unrecorded link reported reachable after restore")
	}
	if tracker.AllVerified() {
		t.Error("partial restore reported all links verified")
	}

	if diff := cmp.Diff([]api.Link{{SegmentA: "hub", SegmentB: "onprem"}}, tracker.Verified()); diff != "" {
		t.Error(diff)
	}
}
