package forwarding

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"encoding/json"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/connectivity"
	"github.com/Azure/dnsmigrator/pkg/topology"
)

// Engine computes the forwarding rules every DNS server must hold for the
// current phase.  It is pure and re-entrant: identical inputs yield
// byte-identical output.
type Engine struct {
	// Upstream is the external forwarder address used for names no private
	// authority can serve.  Empty means no upstream is configured and rule 3
	// is unavailable.
	Upstream string
}

// Compute walks every (server, zone) pair where the server is not
// authoritative for the zone and determines the forwarding target:
//
//  1. the zone's current authority, if its segment has a verified path to
//     the server's segment;
//  2. otherwise the zone's previous authority, if one is retained and
//     reachable (keeps names resolvable during the migration window);
//  3. otherwise the upstream forwarder.
//
// If none of the three applies for any pair, Compute fails closed: it
// returns the aggregated NoReachableAuthority diagnostics and no rule set at
// all, so a rule pointing at an address with no network path can never be
// applied.
func (e *Engine) Compute(model *topology.Model, tracker *connectivity.Tracker) (*api.RuleSet, error) {
	rs := &api.RuleSet{
		ServerRules:  map[string][]api.ForwardingRule{},
		SnapshotHash: model.Snapshot(),
	}

	var diagnostics *multierror.Error

	for _, server := range model.Servers() {
		rules := []api.ForwardingRule{}

		for _, zone := range model.Zones() {
			if zone.AuthorityID == server.ID {
				continue
			}

			rule, ok := e.ruleFor(model, tracker, server, zone)
			if !ok {
				diagnostics = multierror.Append(diagnostics, &api.NoReachableAuthorityError{
					Server: server.ID,
					Zone:   zone.Name,
				})
				continue
			}
			rules = append(rules, rule)
		}

		sort.Slice(rules, func(i, j int) bool { return rules[i].ZonePattern < rules[j].ZonePattern })
		rs.ServerRules[server.ID] = rules
	}

	if diagnostics != nil {
		return nil, diagnostics.ErrorOrNil()
	}

	return rs, nil
}

func (e *Engine) ruleFor(model *topology.Model, tracker *connectivity.Tracker, server api.DNSServer, zone api.Zone) (api.ForwardingRule, bool) {
	if target, ok := e.reachableServer(model, tracker, server, zone.AuthorityID); ok {
		return api.ForwardingRule{
			ZonePattern:   zone.Name,
			TargetID:      target.ID,
			TargetAddress: target.Address,
		}, true
	}

	if target, ok := e.reachableServer(model, tracker, server, zone.PreviousAuthorityID); ok {
		return api.ForwardingRule{
			ZonePattern:   zone.Name,
			TargetID:      target.ID,
			TargetAddress: target.Address,
		}, true
	}

	if e.Upstream != "" {
		return api.ForwardingRule{
			ZonePattern:   zone.Name,
			TargetAddress: e.Upstream,
			Upstream:      true,
		}, true
	}

	return api.ForwardingRule{}, false
}

func (e *Engine) reachableServer(model *topology.Model, tracker *connectivity.Tracker, from api.DNSServer, targetID string) (api.DNSServer, bool) {
	if targetID == "" {
		return api.DNSServer{}, false
	}

	target, ok := model.Server(targetID)
	if !ok {
		return api.DNSServer{}, false
	}

	if !tracker.IsReachable(target.SegmentID, from.SegmentID) {
		return api.DNSServer{}, false
	}

	return target, true
}

// Marshal returns the canonical serialized form of a rule set.  Map keys are
// sorted by encoding/json and rule slices are sorted at computation time, so
// equal rule sets marshal to equal bytes.
func Marshal(rs *api.RuleSet) ([]byte, error) {
	return json.MarshalIndent(rs, "", "    ")
}
