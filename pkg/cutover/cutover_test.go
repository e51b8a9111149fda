package cutover

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/topology"
	mock_collab "github.com/Azure/dnsmigrator/pkg/util/mocks/collab"
	utilerror "github.com/Azure/dnsmigrator/test/util/error"
	utillog "github.com/Azure/dnsmigrator/test/util/log"
)

func testModel(t *testing.T) *topology.Model {
	t.Helper()

	model, err := topology.FromDocument(&api.TopologyDocument{
		Segments: []api.Segment{
			{ID: "hub", ResourceContainer: "rg-hub"},
			{ID: "onprem", ResourceContainer: "rg-onprem"},
		},
		DNSServers: []api.DNSServer{
			{ID: "hub-dns", SegmentID: "hub", Address: "10.0.0.4"},
			{ID: "onprem-dns", SegmentID: "onprem", Address: "192.168.0.53"},
		},
		Zones: []api.Zone{
			{
				Name:        "corp.example.com",
				AuthorityID: "onprem-dns",
				Records: []api.Record{
					{Name: "app", Type: "A", Value: "192.168.1.10", TTL: 3600},
				},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	return model
}

func testRuleSet() *api.RuleSet {
	return &api.RuleSet{
		ServerRules: map[string][]api.ForwardingRule{
			"hub-dns": {
				{ZonePattern: "corp.example.com", TargetID: "onprem-dns", TargetAddress: "192.168.0.53"},
			},
			"onprem-dns": {},
		},
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()

	controller := gomock.NewController(t)
	defer controller.Finish()

	model := testModel(t)
	rs := testRuleSet()

	dnsadmin := mock_collab.NewMockDnsAdmin(controller)
	dnsadmin.EXPECT().PushForwardingRules(gomock.Any(), model.Servers()[0], rs.ServerRules["hub-dns"]).Return(nil)
	dnsadmin.EXPECT().PushForwardingRules(gomock.Any(), model.Servers()[1], rs.ServerRules["onprem-dns"]).Return(nil)
	dnsadmin.EXPECT().PushZoneFile(gomock.Any(), model.Servers()[1], "corp.example.com", model.ZoneRecords("corp.example.com")).Return(nil)
	dnsadmin.EXPECT().SetDefaultResolver(gomock.Any(), gomock.Any(), model.Servers()[0]).Return(nil)
	dnsadmin.EXPECT().SetDefaultResolver(gomock.Any(), gomock.Any(), model.Servers()[1]).Return(nil)

	_, log := utillog.NewCapturingLogger()
	c := NewController(log, dnsadmin)

	err := c.Apply(ctx, model, rs)
	if err != nil {
		t.Fatal(err)
	}

	// successful resolver pushes are recorded on the model
	segment, _ := model.Segment("hub")
	if segment.ResolverAddress != "10.0.0.4" {
		t.Errorf("hub resolver address: %s", segment.ResolverAddress)
	}
	segment, _ = model.Segment("onprem")
	if segment.ResolverAddress != "192.168.0.53" {
		t.Errorf("onprem resolver address: %s", segment.ResolverAddress)
	}
}

func TestApplyRetriesTransientErrors(t *testing.T) {
	ctx := context.Background()

	controller := gomock.NewController(t)
	defer controller.Finish()

	model := testModel(t)
	rs := testRuleSet()
	hubDNS := model.Servers()[0]

	dnsadmin := mock_collab.NewMockDnsAdmin(controller)
	dnsadmin.EXPECT().PushForwardingRules(gomock.Any(), hubDNS, rs.ServerRules["hub-dns"]).
		Return(api.TransientError(context.DeadlineExceeded)).Times(2)
	dnsadmin.EXPECT().PushForwardingRules(gomock.Any(), hubDNS, rs.ServerRules["hub-dns"]).Return(nil)
	dnsadmin.EXPECT().PushForwardingRules(gomock.Any(), model.Servers()[1], rs.ServerRules["onprem-dns"]).Return(nil)
	dnsadmin.EXPECT().PushZoneFile(gomock.Any(), model.Servers()[1], "corp.example.com", gomock.Any()).Return(nil)
	dnsadmin.EXPECT().SetDefaultResolver(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, log := utillog.NewCapturingLogger()
	c := NewController(log, dnsadmin)
	defaultBackoff.Duration = 0 // no need to sleep in tests

	err := c.Apply(ctx, model, rs)
	if err != nil {
		t.Fatal(err)
	}
}

func TestApplyAbortsOnRejection(t *testing.T) {
	ctx := context.Background()

	controller := gomock.NewController(t)
	defer controller.Finish()

	model := testModel(t)
	rs := testRuleSet()

	dnsadmin := mock_collab.NewMockDnsAdmin(controller)
	dnsadmin.EXPECT().PushForwardingRules(gomock.Any(), model.Servers()[0], rs.ServerRules["hub-dns"]).
		Return(&api.ApplyRejectedError{Server: "hub-dns", Reason: "unparseable forwarder list"})
	dnsadmin.EXPECT().PushForwardingRules(gomock.Any(), model.Servers()[1], rs.ServerRules["onprem-dns"]).Return(nil)
	dnsadmin.EXPECT().PushZoneFile(gomock.Any(), model.Servers()[1], "corp.example.com", gomock.Any()).Return(nil)

	_, log := utillog.NewCapturingLogger()
	c := NewController(log, dnsadmin)

	err := c.Apply(ctx, model, rs)
	utilerror.AssertErrorMessage(t, err, "configuration rejected by server hub-dns: unparseable forwarder list")
}

func TestApplyHonoursCancellationBeforeFirstPush(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, log := utillog.NewCapturingLogger()
	c := NewController(log, mock_collab.NewMockDnsAdmin(gomock.NewController(t)))

	err := c.Apply(ctx, testModel(t), testRuleSet())
	utilerror.AssertErrorMessage(t, err, "context canceled")
}

func TestApplyRunsToCompletionOnceStarted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	controller := gomock.NewController(t)
	defer controller.Finish()

	model := testModel(t)
	rs := testRuleSet()

	dnsadmin := mock_collab.NewMockDnsAdmin(controller)
	dnsadmin.EXPECT().PushForwardingRules(gomock.Any(), model.Servers()[0], rs.ServerRules["hub-dns"]).
		DoAndReturn(func(ctx context.Context, server api.DNSServer, rules []api.ForwardingRule) error {
			// cancel mid-flight; the remaining pushes must still happen
			cancel()
			return ctx.Err()
		})
	dnsadmin.EXPECT().PushForwardingRules(gomock.Any(), model.Servers()[1], rs.ServerRules["onprem-dns"]).
		DoAndReturn(func(ctx context.Context, server api.DNSServer, rules []api.ForwardingRule) error {
			return ctx.Err()
		})
	dnsadmin.EXPECT().PushZoneFile(gomock.Any(), model.Servers()[1], "corp.example.com", gomock.Any()).Return(nil)
	dnsadmin.EXPECT().SetDefaultResolver(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, log := utillog.NewCapturingLogger()
	c := NewController(log, dnsadmin)

	err := c.Apply(ctx, model, rs)
	if err != nil {
		t.Fatal(err)
	}
}

func TestApplySerializesSharedContainer(t *testing.T) {
	ctx := context.Background()

	controller := gomock.NewController(t)
	defer controller.Finish()

	// both servers share one resource container
	model, err := topology.FromDocument(&api.TopologyDocument{
		Segments: []api.Segment{
			{ID: "hub", ResourceContainer: "rg-shared"},
			{ID: "spoke-1", ResourceContainer: "rg-shared"},
		},
		DNSServers: []api.DNSServer{
			{ID: "hub-dns", SegmentID: "hub", Address: "10.0.0.4"},
			{ID: "spoke-1-dns", SegmentID: "spoke-1", Address: "10.1.0.4"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	var mu sync.Mutex
	var inflight, maxInflight int

	track := func(ctx context.Context, server api.DNSServer, rules []api.ForwardingRule) error {
		mu.Lock()
		inflight++
		if inflight > maxInflight {
			maxInflight = inflight
		}
		mu.Unlock()

		// stay "in flight" long enough that an unserialized sibling push
		// would be observed overlapping
		time.Sleep(50 * time.Millisecond)

		mu.Lock()
		inflight--
		mu.Unlock()
		return nil
	}

	dnsadmin := mock_collab.NewMockDnsAdmin(controller)
	dnsadmin.EXPECT().PushForwardingRules(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(track).Times(2)
	dnsadmin.EXPECT().SetDefaultResolver(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).Times(2)

	_, log := utillog.NewCapturingLogger()
	c := NewController(log, dnsadmin)

	err = c.Apply(ctx, model, &api.RuleSet{ServerRules: map[string][]api.ForwardingRule{}})
	if err != nil {
		t.Fatal(err)
	}

	if maxInflight != 1 {
		t.Errorf("pushes to a shared container overlapped: max inflight %d", maxInflight)
	}
}

func TestResolverFor(t *testing.T) {
	model := testModel(t)

	// onprem hosts the zone authority
	server, ok := ResolverFor(model, "onprem")
	if !ok || server.ID != "onprem-dns" {
		t.Errorf("got (%s, %t)", server.ID, ok)
	}

	// hub has one non-authoritative server
	server, ok = ResolverFor(model, "hub")
	if !ok || server.ID != "hub-dns" {
		t.Errorf("got (%s, %t)", server.ID, ok)
	}

	// a segment without servers keeps its existing resolver
	_, ok = ResolverFor(model, "nowhere")
	if ok {
		t.Error("got a resolver for a segment without servers")
	}
}
