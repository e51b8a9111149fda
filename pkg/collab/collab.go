package collab

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	"github.com/Azure/dnsmigrator/pkg/api"
)

//go:generate mockgen -destination=../util/mocks/collab/collab.go -package=mock_collab github.com/Azure/dnsmigrator/pkg/collab Provisioner,LinkProbe,DnsAdmin,Resolver

// ResourceSpec is a declarative description of a resource the provisioner
// should converge on.  Calling CreateOrUpdate twice with the same spec is
// safe.
type ResourceSpec struct {
	Type       string
	Name       string
	Container  string
	Properties map[string]interface{}
}

// ResourceHandle identifies a provisioned resource.
type ResourceHandle string

// Provisioner realizes segments, DNS servers and private endpoint bindings.
// It is assumed declarative and convergent.
type Provisioner interface {
	CreateOrUpdate(ctx context.Context, spec ResourceSpec) (ResourceHandle, error)
	Delete(ctx context.Context, handle ResourceHandle) error
}

// LinkProbe checks whether a data path exists from segmentA to segmentB.
// Used exclusively by the connectivity tracker; probes are explicit so cost
// and side effects stay with the caller.
type LinkProbe interface {
	Probe(ctx context.Context, segmentA, segmentB string) (bool, error)
}

// DnsAdmin pushes configuration to DNS servers and to network-level default
// resolver settings.  Used by the cutover controller.
type DnsAdmin interface {
	PushZoneFile(ctx context.Context, server api.DNSServer, zone string, records []api.Record) error
	PushForwardingRules(ctx context.Context, server api.DNSServer, rules []api.ForwardingRule) error
	SetDefaultResolver(ctx context.Context, segment api.Segment, server api.DNSServer) error
}

// Resolver issues a resolution probe scoped to a segment.  Success and
// failure are values, never parsed strings.
type Resolver interface {
	Resolve(ctx context.Context, segment api.Segment, name string) (address string, isAuthoritative bool, err error)
}
