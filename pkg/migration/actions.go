package migration

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/collab"
	"github.com/Azure/dnsmigrator/pkg/validate"
)

// provisionSegments realizes every declared segment.  Segments are
// independent resources; creates run concurrently.
func (m *manager) provisionSegments(ctx context.Context) error {
	var g errgroup.Group

	for _, segment := range m.doc.Segments {
		g.Go(func() error {
			_, err := m.provisioner.CreateOrUpdate(ctx, collab.ResourceSpec{
				Type:      "segment",
				Name:      segment.ID,
				Container: segment.ResourceContainer,
				Properties: map[string]interface{}{
					"addressRange": segment.AddressRange,
				},
			})
			return err
		})
	}

	return g.Wait()
}

func (m *manager) provisionDNSServers(ctx context.Context) error {
	var g errgroup.Group

	for _, server := range m.doc.DNSServers {
		segment, ok := m.model.Segment(server.SegmentID)
		if !ok {
			return &api.TopologyInvariantViolationError{
				Target:  "dns server " + server.ID,
				Message: fmt.Sprintf("server references unknown segment %q", server.SegmentID),
			}
		}

		g.Go(func() error {
			_, err := m.provisioner.CreateOrUpdate(ctx, collab.ResourceSpec{
				Type:      "dnsserver",
				Name:      server.ID,
				Container: segment.ResourceContainer,
				Properties: map[string]interface{}{
					"segment": server.SegmentID,
					"address": server.Address,
				},
			})
			return err
		})
	}

	return g.Wait()
}

func (m *manager) provisionEndpoints(ctx context.Context) error {
	var g errgroup.Group

	for _, binding := range m.doc.Endpoints {
		segment, ok := m.model.Segment(binding.SegmentID)
		if !ok {
			return &api.TopologyInvariantViolationError{
				Target:  "endpoint binding " + binding.Name,
				Message: fmt.Sprintf("binding references unknown segment %q", binding.SegmentID),
			}
		}

		g.Go(func() error {
			_, err := m.provisioner.CreateOrUpdate(ctx, collab.ResourceSpec{
				Type:      "privateendpoint",
				Name:      binding.Name,
				Container: segment.ResourceContainer,
				Properties: map[string]interface{}{
					"segment": binding.SegmentID,
					"ip":      binding.IP,
					"zone":    binding.ZoneName,
				},
			})
			return err
		})
	}

	return g.Wait()
}

// provisionLinks realizes the declared peerings.  Unlike segments, peering
// operations which share a resource container hold a provider-side lock;
// they run sequentially.
func (m *manager) provisionLinks(ctx context.Context) error {
	for _, link := range m.doc.Links {
		_, err := m.provisioner.CreateOrUpdate(ctx, collab.ResourceSpec{
			Type: "peering",
			Name: link.SegmentA + "-" + link.SegmentB,
			Properties: map[string]interface{}{
				"segmentA": link.SegmentA,
				"segmentB": link.SegmentB,
			},
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *manager) declareLinks(ctx context.Context) error {
	for _, link := range m.model.Links() {
		err := m.tracker.DeclareLink(link.SegmentA, link.SegmentB)
		if err != nil {
			return err
		}
	}

	return nil
}

// confirmLinks probes every unverified edge.  A LinkNotReachable result is
// transient; the retrying step wrapper re-runs this action, and edges
// verified in an earlier attempt are not probed again.
func (m *manager) confirmLinks(ctx context.Context) error {
	for _, edge := range m.tracker.Edges() {
		if edge.Status == api.EdgeVerified {
			continue
		}

		err := m.tracker.ConfirmLink(ctx, edge.SegmentA, edge.SegmentB)
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *manager) allLinksVerified(ctx context.Context) (bool, error) {
	if !m.tracker.AllVerified() {
		return false, fmt.Errorf("not all declared links are verified")
	}
	return true, nil
}

// computeForwardingRules is the DnsConfig guard: the engine must produce a
// rule set with zero NoReachableAuthority diagnostics.  On failure the
// aggregated diagnostics name every blocked (server, zone) pair so the
// operator can fix declared connectivity.
func (m *manager) computeForwardingRules(ctx context.Context) error {
	rs, err := m.engine.Compute(m.model, m.tracker)
	if err != nil {
		return err
	}

	m.ruleSet = rs
	return nil
}

func (m *manager) applyForwardingRules(ctx context.Context) error {
	if m.ruleSet == nil || m.ruleSet.SnapshotHash != m.model.Snapshot() {
		err := m.computeForwardingRules(ctx)
		if err != nil {
			return err
		}
	}

	return m.cutover.Apply(ctx, m.model, m.ruleSet)
}

func (m *manager) validateResolution(ctx context.Context) error {
	return m.validator.Run(ctx, m.model, validate.SuiteFor(m.model))
}

// migrateZones moves authority for each planned zone, one zone at a time:
// stage the move, commit it, recompute and apply forwarding, then validate
// against the new authority.  The suite for the pre-move state has already
// passed as the previous step, so there is no window in which either
// authority fails validation.
func (m *manager) migrateZones(ctx context.Context) error {
	for _, migration := range m.doc.Migrations {
		m.log.Infof("migrating zone %s authority to %s", migration.Zone, migration.NewAuthorityID)

		err := m.model.SetZoneAuthority(migration.Zone, migration.NewAuthorityID)
		if err != nil {
			return err
		}

		err = m.model.CommitAuthority(migration.Zone)
		if err != nil {
			return err
		}

		err = m.applyForwardingRules(ctx)
		if err != nil {
			return err
		}

		err = m.validateResolution(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

// dropLegacyAuthorities removes the previous-authority fallback for every
// migrated zone and re-applies forwarding.  The engine fails closed if any
// server still depends on a legacy target, so a premature decommission
// cannot strand a resolver.
func (m *manager) dropLegacyAuthorities(ctx context.Context) error {
	for _, migration := range m.doc.Migrations {
		err := m.model.DropPreviousAuthority(migration.Zone)
		if err != nil {
			return err
		}
	}

	err := m.applyForwardingRules(ctx)
	if err != nil {
		return err
	}

	return m.validateResolution(ctx)
}

// revertZoneAction returns the action for a RevertZone phase: a forward
// phase restoring the zone's previous authority.
func (m *manager) revertZoneAction(zoneName string) func(context.Context) error {
	return func(ctx context.Context) error {
		zone, ok := m.model.Zone(zoneName)
		if !ok {
			return &api.TopologyInvariantViolationError{Target: "zone " + zoneName, Message: "zone does not exist"}
		}
		if zone.PreviousAuthorityID == "" {
			return &api.TopologyInvariantViolationError{Target: "zone " + zoneName, Message: "zone has no previous authority to revert to"}
		}

		err := m.model.SetZoneAuthority(zoneName, zone.PreviousAuthorityID)
		if err != nil {
			return err
		}

		err = m.model.CommitAuthority(zoneName)
		if err != nil {
			return err
		}

		err = m.applyForwardingRules(ctx)
		if err != nil {
			return err
		}

		return m.validateResolution(ctx)
	}
}
