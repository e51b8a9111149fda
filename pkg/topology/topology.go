package topology

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"fmt"
	"sort"

	"github.com/Azure/dnsmigrator/pkg/api"
)

// Model is the in-memory graph of segments, DNS servers, zones and endpoint
// bindings.  All mutations are validated against the invariants before any
// state changes; a violated invariant returns a
// TopologyInvariantViolationError and leaves the model untouched.
type Model struct {
	segments map[string]*api.Segment
	servers  map[string]*api.DNSServer
	zones    map[string]*api.Zone
	bindings map[string]*api.PrivateEndpointBinding
	links    map[linkKey]api.Link

	// pendingAuthority tracks zones with an uncommitted SetZoneAuthority.
	// A second call for the same zone before CommitAuthority is a caller
	// bug.
	pendingAuthority map[string]string
}

// NewModel returns an empty topology model.
func NewModel() *Model {
	return &Model{
		segments:         map[string]*api.Segment{},
		servers:          map[string]*api.DNSServer{},
		zones:            map[string]*api.Zone{},
		bindings:         map[string]*api.PrivateEndpointBinding{},
		links:            map[linkKey]api.Link{},
		pendingAuthority: map[string]string{},
	}
}

// linkKey is the normalized unordered segment pair.
type linkKey struct {
	a, b string
}

func newLinkKey(segmentA, segmentB string) linkKey {
	if segmentB < segmentA {
		segmentA, segmentB = segmentB, segmentA
	}
	return linkKey{a: segmentA, b: segmentB}
}

// FromDocument builds a model from a declarative topology document.
func FromDocument(doc *api.TopologyDocument) (*Model, error) {
	m := NewModel()

	for _, segment := range doc.Segments {
		err := m.AddSegment(segment)
		if err != nil {
			return nil, err
		}
	}

	for _, server := range doc.DNSServers {
		err := m.AddDNSServer(server)
		if err != nil {
			return nil, err
		}
	}

	for _, zone := range doc.Zones {
		err := m.AddZone(zone)
		if err != nil {
			return nil, err
		}
	}

	for _, binding := range doc.Endpoints {
		err := m.AddPrivateEndpointBinding(binding)
		if err != nil {
			return nil, err
		}
	}

	for _, link := range doc.Links {
		err := m.AddLink(link)
		if err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Model) AddSegment(segment api.Segment) error {
	if segment.ID == "" {
		return &api.TopologyInvariantViolationError{Target: "segment", Message: "segment must have an id"}
	}
	if _, ok := m.segments[segment.ID]; ok {
		return &api.TopologyInvariantViolationError{Target: "segment " + segment.ID, Message: "segment already exists"}
	}

	m.segments[segment.ID] = &segment
	return nil
}

func (m *Model) AddDNSServer(server api.DNSServer) error {
	if server.ID == "" {
		return &api.TopologyInvariantViolationError{Target: "dns server", Message: "server must have an id"}
	}
	if _, ok := m.servers[server.ID]; ok {
		return &api.TopologyInvariantViolationError{Target: "dns server " + server.ID, Message: "server already exists"}
	}
	if _, ok := m.segments[server.SegmentID]; !ok {
		return &api.TopologyInvariantViolationError{
			Target:  "dns server " + server.ID,
			Message: fmt.Sprintf("server references unknown segment %q", server.SegmentID),
		}
	}

	m.servers[server.ID] = &server
	return nil
}

func (m *Model) AddZone(zone api.Zone) error {
	if zone.Name == "" {
		return &api.TopologyInvariantViolationError{Target: "zone", Message: "zone must have a name"}
	}
	if _, ok := m.zones[zone.Name]; ok {
		return &api.TopologyInvariantViolationError{Target: "zone " + zone.Name, Message: "zone already exists"}
	}
	if _, ok := m.servers[zone.AuthorityID]; !ok {
		return &api.TopologyInvariantViolationError{
			Target:  "zone " + zone.Name,
			Message: fmt.Sprintf("zone references unknown authoritative server %q", zone.AuthorityID),
		}
	}

	m.zones[zone.Name] = &zone
	return nil
}

// SetZoneAuthority stages an authority move for the named zone.  The move
// does not take effect until CommitAuthority is called by the phase machine
// after validation has passed against both the old and the new authority.
// Staging a second move for the same zone before the first commits is
// rejected: that would create two candidate authorities for one zone.
func (m *Model) SetZoneAuthority(zoneName, serverID string) error {
	zone, ok := m.zones[zoneName]
	if !ok {
		return &api.TopologyInvariantViolationError{Target: "zone " + zoneName, Message: "zone does not exist"}
	}
	if _, ok := m.servers[serverID]; !ok {
		return &api.TopologyInvariantViolationError{
			Target:  "zone " + zoneName,
			Message: fmt.Sprintf("new authoritative server %q does not exist", serverID),
		}
	}
	if pending, ok := m.pendingAuthority[zoneName]; ok {
		return &api.TopologyInvariantViolationError{
			Target:  "zone " + zoneName,
			Message: fmt.Sprintf("authority move to %q is already staged and uncommitted", pending),
		}
	}
	if zone.AuthorityID == serverID {
		return &api.TopologyInvariantViolationError{
			Target:  "zone " + zoneName,
			Message: fmt.Sprintf("server %q is already authoritative", serverID),
		}
	}

	m.pendingAuthority[zoneName] = serverID
	return nil
}

// PendingAuthority returns the staged new authority for a zone, if any.
func (m *Model) PendingAuthority(zoneName string) (string, bool) {
	serverID, ok := m.pendingAuthority[zoneName]
	return serverID, ok
}

// CommitAuthority applies a staged authority move.  The displaced server is
// retained as the zone's previous authority so forwarding can fall back to
// it until an explicit decommission phase removes it.
func (m *Model) CommitAuthority(zoneName string) error {
	zone, ok := m.zones[zoneName]
	if !ok {
		return &api.TopologyInvariantViolationError{Target: "zone " + zoneName, Message: "zone does not exist"}
	}
	serverID, ok := m.pendingAuthority[zoneName]
	if !ok {
		return &api.TopologyInvariantViolationError{Target: "zone " + zoneName, Message: "no staged authority move to commit"}
	}

	zone.PreviousAuthorityID = zone.AuthorityID
	zone.AuthorityID = serverID
	delete(m.pendingAuthority, zoneName)
	return nil
}

// DropPreviousAuthority removes the legacy fallback for a zone.  Run by the
// DecommissionLegacy phase once the operator decides the migration window is
// over.
func (m *Model) DropPreviousAuthority(zoneName string) error {
	zone, ok := m.zones[zoneName]
	if !ok {
		return &api.TopologyInvariantViolationError{Target: "zone " + zoneName, Message: "zone does not exist"}
	}

	zone.PreviousAuthorityID = ""
	return nil
}

func (m *Model) AddPrivateEndpointBinding(binding api.PrivateEndpointBinding) error {
	if binding.Name == "" {
		return &api.TopologyInvariantViolationError{Target: "endpoint binding", Message: "binding must have a name"}
	}
	if _, ok := m.bindings[binding.Name]; ok {
		return &api.TopologyInvariantViolationError{Target: "endpoint binding " + binding.Name, Message: "binding already exists"}
	}
	if _, ok := m.segments[binding.SegmentID]; !ok {
		return &api.TopologyInvariantViolationError{
			Target:  "endpoint binding " + binding.Name,
			Message: fmt.Sprintf("binding references unknown segment %q", binding.SegmentID),
		}
	}
	if _, ok := m.zones[binding.ZoneName]; !ok {
		return &api.TopologyInvariantViolationError{
			Target:  "endpoint binding " + binding.Name,
			Message: fmt.Sprintf("binding references unknown zone %q", binding.ZoneName),
		}
	}

	m.bindings[binding.Name] = &binding
	return nil
}

// AddLink declares a data path between two segments.  Links are unordered
// pairs; declaring an existing link again is a no-op.
func (m *Model) AddLink(link api.Link) error {
	if link.SegmentA == link.SegmentB {
		return &api.TopologyInvariantViolationError{
			Target:  "link " + link.SegmentA,
			Message: "a segment cannot be linked to itself",
		}
	}
	for _, id := range []string{link.SegmentA, link.SegmentB} {
		if _, ok := m.segments[id]; !ok {
			return &api.TopologyInvariantViolationError{
				Target:  "link " + link.SegmentA + "-" + link.SegmentB,
				Message: fmt.Sprintf("link references unknown segment %q", id),
			}
		}
	}

	key := newLinkKey(link.SegmentA, link.SegmentB)
	m.links[key] = api.Link{SegmentA: key.a, SegmentB: key.b}
	return nil
}

// SetResolverAddress records the segment's current default resolver.  Called
// by the cutover controller after SetDefaultResolver succeeds.
func (m *Model) SetResolverAddress(segmentID, address string) error {
	segment, ok := m.segments[segmentID]
	if !ok {
		return &api.TopologyInvariantViolationError{Target: "segment " + segmentID, Message: "segment does not exist"}
	}

	segment.ResolverAddress = address
	return nil
}

// Segment returns a copy of the named segment.
func (m *Model) Segment(id string) (api.Segment, bool) {
	segment, ok := m.segments[id]
	if !ok {
		return api.Segment{}, false
	}
	return *segment, true
}

// Server returns a copy of the named DNS server.
func (m *Model) Server(id string) (api.DNSServer, bool) {
	server, ok := m.servers[id]
	if !ok {
		return api.DNSServer{}, false
	}
	return *server, true
}

// Zone returns a copy of the named zone.
func (m *Model) Zone(name string) (api.Zone, bool) {
	zone, ok := m.zones[name]
	if !ok {
		return api.Zone{}, false
	}
	return *zone, true
}

// Segments returns all segments sorted by id.
func (m *Model) Segments() []api.Segment {
	segments := make([]api.Segment, 0, len(m.segments))
	for _, segment := range m.segments {
		segments = append(segments, *segment)
	}
	sort.Slice(segments, func(i, j int) bool { return segments[i].ID < segments[j].ID })
	return segments
}

// Servers returns all DNS servers sorted by id.
func (m *Model) Servers() []api.DNSServer {
	servers := make([]api.DNSServer, 0, len(m.servers))
	for _, server := range m.servers {
		servers = append(servers, *server)
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })
	return servers
}

// Zones returns all zones sorted by name.
func (m *Model) Zones() []api.Zone {
	zones := make([]api.Zone, 0, len(m.zones))
	for _, zone := range m.zones {
		zones = append(zones, *zone)
	}
	sort.Slice(zones, func(i, j int) bool { return zones[i].Name < zones[j].Name })
	return zones
}

// Bindings returns all endpoint bindings sorted by name.
func (m *Model) Bindings() []api.PrivateEndpointBinding {
	bindings := make([]api.PrivateEndpointBinding, 0, len(m.bindings))
	for _, binding := range m.bindings {
		bindings = append(bindings, *binding)
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Name < bindings[j].Name })
	return bindings
}

// Links returns all declared links sorted by segment pair.
func (m *Model) Links() []api.Link {
	links := make([]api.Link, 0, len(m.links))
	for _, link := range m.links {
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].SegmentA != links[j].SegmentA {
			return links[i].SegmentA < links[j].SegmentA
		}
		return links[i].SegmentB < links[j].SegmentB
	})
	return links
}

// ServersIn returns the DNS servers hosted in the given segment, sorted by
// id.
func (m *Model) ServersIn(segmentID string) []api.DNSServer {
	var servers []api.DNSServer
	for _, server := range m.servers {
		if server.SegmentID == segmentID {
			servers = append(servers, *server)
		}
	}
	sort.Slice(servers, func(i, j int) bool { return servers[i].ID < servers[j].ID })
	return servers
}

// ZoneRecords returns the zone's declared records plus the synthetic records
// contributed by endpoint bindings, sorted by record name.
func (m *Model) ZoneRecords(zoneName string) []api.Record {
	zone, ok := m.zones[zoneName]
	if !ok {
		return nil
	}

	records := append([]api.Record{}, zone.Records...)
	for _, binding := range m.Bindings() {
		if binding.ZoneName == zoneName {
			records = append(records, api.Record{
				Name:  binding.RecordName,
				Type:  "A",
				Value: binding.IP,
				TTL:   300,
			})
		}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Name < records[j].Name })
	return records
}
