package validate

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/mock/gomock"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/topology"
	mock_collab "github.com/Azure/dnsmigrator/pkg/util/mocks/collab"
	utillog "github.com/Azure/dnsmigrator/test/util/log"
)

func testModel(t *testing.T) *topology.Model {
	t.Helper()

	model, err := topology.FromDocument(&api.TopologyDocument{
		Segments: []api.Segment{
			{ID: "hub", ResolverAddress: "10.0.0.4"},
			{ID: "onprem", ResolverAddress: "192.168.0.53"},
		},
		DNSServers: []api.DNSServer{
			{ID: "onprem-dns", SegmentID: "onprem", Address: "192.168.0.53"},
		},
		Zones: []api.Zone{
			{
				Name:        "corp.example.com",
				AuthorityID: "onprem-dns",
				Records: []api.Record{
					{Name: "app", Type: "A", Value: "192.168.1.10", TTL: 3600},
					{Name: "mail", Type: "MX", Value: "mx.corp.example.com", TTL: 3600},
				},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	return model
}

func TestSuiteFor(t *testing.T) {
	model := testModel(t)

	// One tuple per segment per A record; the MX record is skipped.
	// Authoritative answers are expected only from the authority's own
	// segment.
	want := []ProbeTuple{
		{Segment: "hub", Name: "app.corp.example.com", ExpectedTarget: "192.168.1.10"},
		{Segment: "onprem", Name: "app.corp.example.com", ExpectedTarget: "192.168.1.10", ExpectedAuthoritative: true},
	}
	if diff := cmp.Diff(want, SuiteFor(model)); diff != "" {
		t.Error(diff)
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	for _, tt := range []*struct {
		name     string
		mocks    func(*mock_collab.MockResolver)
		wantErrs []string
	}{
		{
			name: "all pass",
			mocks: func(resolver *mock_collab.MockResolver) {
				resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), "app.corp.example.com").Return("192.168.1.10", false, nil)
				resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), "app.corp.example.com").Return("192.168.1.10", true, nil)
			},
		},
		{
			name: "wrong address",
			mocks: func(resolver *mock_collab.MockResolver) {
				resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), "app.corp.example.com").Return("10.9.9.9", false, nil)
				resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), "app.corp.example.com").Return("192.168.1.10", true, nil)
			},
			wantErrs: []string{
				"validation failed for app.corp.example.com in segment hub: expected (192.168.1.10, authoritative=false), got (10.9.9.9, authoritative=false)",
			},
		},
		{
			name: "wrong authority bit",
			mocks: func(resolver *mock_collab.MockResolver) {
				resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), "app.corp.example.com").Return("192.168.1.10", false, nil)
				resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), "app.corp.example.com").Return("192.168.1.10", false, nil)
			},
			wantErrs: []string{
				"validation failed for app.corp.example.com in segment onprem: expected (192.168.1.10, authoritative=true), got (192.168.1.10, authoritative=false)",
			},
		},
		{
			name: "every failing tuple is reported",
			mocks: func(resolver *mock_collab.MockResolver) {
				resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), "app.corp.example.com").Return("10.9.9.9", false, nil)
				resolver.EXPECT().Resolve(gomock.Any(), gomock.Any(), "app.corp.example.com").Return("10.9.9.9", true, nil)
			},
			wantErrs: []string{
				"validation failed for app.corp.example.com in segment hub: expected (192.168.1.10, authoritative=false), got (10.9.9.9, authoritative=false)",
				"validation failed for app.corp.example.com in segment onprem: expected (192.168.1.10, authoritative=true), got (10.9.9.9, authoritative=true)",
			},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			controller := gomock.NewController(t)
			defer controller.Finish()

			resolver := mock_collab.NewMockResolver(controller)
			tt.mocks(resolver)

			_, log := utillog.NewCapturingLogger()
			model := testModel(t)
			v := NewValidator(log, resolver)

			err := v.Run(ctx, model, SuiteFor(model))
			if len(tt.wantErrs) == 0 {
				if err != nil {
					t.Fatal(err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected an error")
			}
			for _, want := range tt.wantErrs {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not contain %q", err.Error(), want)
				}
			}
		})
	}
}
