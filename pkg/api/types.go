package api

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

// Segment is a network partition (on-prem, hub, spoke-N).  Segments host zero
// or more DNS servers and are connected to other segments by ConnectivityEdges.
type Segment struct {
	ID string `json:"id,omitempty"`

	// AddressRange is the CIDR block assigned to the segment.
	AddressRange string `json:"addressRange,omitempty"`

	// ResourceContainer names the resource-group-equivalent container the
	// segment's resources live in.  Mutating operations against the same
	// container are serialized by the cutover controller.
	ResourceContainer string `json:"resourceContainer,omitempty"`

	// ResolverAddress is the address of the DNS server the segment's
	// workloads currently use by default.  Updated on cutover.
	ResolverAddress string `json:"resolverAddress,omitempty"`
}

// DNSServer is a resolver instance bound to exactly one segment.  Managed
// marks an instance of the managed private-DNS service rather than a
// self-hosted resolver VM; configuration is pushed to the two differently.
type DNSServer struct {
	ID        string `json:"id,omitempty"`
	SegmentID string `json:"segmentId,omitempty"`
	Address   string `json:"address,omitempty"`
	Managed   bool   `json:"managed,omitempty"`
}

// Record is a single DNS record within a zone.
type Record struct {
	Name  string `json:"name,omitempty"`
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
	TTL   int64  `json:"ttl,omitempty"`
}

// Zone is a DNS namespace.  AuthorityID names the DNS server currently
// authoritative for the zone; exactly one server is authoritative at any
// committed phase.  PreviousAuthorityID is retained after a migration so the
// forwarding rule engine can fall back to the legacy authority while spokes
// are still being re-pointed.
type Zone struct {
	Name                string   `json:"name,omitempty"`
	AuthorityID         string   `json:"authorityId,omitempty"`
	PreviousAuthorityID string   `json:"previousAuthorityId,omitempty"`
	Records             []Record `json:"records,omitempty"`
}

// EdgeStatus is the lifecycle status of a ConnectivityEdge.
type EdgeStatus string

const (
	EdgePlanned     EdgeStatus = "Planned"
	EdgeEstablished EdgeStatus = "Established"
	EdgeVerified    EdgeStatus = "Verified"
)

// ConnectivityEdge is an unordered pair of segments plus a status.  Only
// Verified edges carry forwarding traffic.
type ConnectivityEdge struct {
	SegmentA string     `json:"segmentA,omitempty"`
	SegmentB string     `json:"segmentB,omitempty"`
	Status   EdgeStatus `json:"status,omitempty"`
}

// ForwardingRule directs queries for ZonePattern at a target DNS server, or
// at the configured upstream forwarder when Upstream is set.  Rules are
// computed, never hand-authored.
type ForwardingRule struct {
	ZonePattern   string `json:"zonePattern,omitempty"`
	TargetID      string `json:"targetId,omitempty"`
	TargetAddress string `json:"targetAddress,omitempty"`
	Upstream      bool   `json:"upstream,omitempty"`
}

// RuleSet is the complete per-server forwarding configuration for one phase.
// ServerRules is keyed by DNS server ID; each rule slice is sorted by zone
// pattern so that identical inputs marshal byte-identically.
type RuleSet struct {
	ServerRules map[string][]ForwardingRule `json:"serverRules,omitempty"`

	// SnapshotHash is the topology snapshot the set was computed from.
	SnapshotHash string `json:"snapshotHash,omitempty"`
}

// PhaseResult records whether a phase committed.
type PhaseResult string

const (
	PhaseResultPass PhaseResult = "Pass"
	PhaseResultFail PhaseResult = "Fail"
)

// PhaseRecord is one entry in the append-only phase log: the single source of
// truth for what has been committed.  Records are never mutated.
type PhaseRecord struct {
	Phase     Phase  `json:"phase,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`

	// SnapshotHash fingerprints the topology as declared at the time the
	// phase ran.  State the orchestrator applies itself (authority moves,
	// resolver re-points) is not part of it.
	SnapshotHash string `json:"snapshotHash,omitempty"`

	Result      PhaseResult `json:"result,omitempty"`
	Diagnostics []string    `json:"diagnostics,omitempty"`

	// VerifiedLinks is recorded on a committed Connectivity phase: the
	// edges whose probes passed.  A rebuild restores Verified status for
	// exactly these edges, so links declared after the commit stay
	// Planned.
	VerifiedLinks []Link `json:"verifiedLinks,omitempty"`
}

// PrivateEndpointBinding associates a named network-exposed resource with a
// private IP inside a segment.  It feeds a synthetic A record into whichever
// zone is currently authoritative for the endpoint's namespace; the record is
// re-pointed, not duplicated, when zone authority migrates.
type PrivateEndpointBinding struct {
	Name       string `json:"name,omitempty"`
	SegmentID  string `json:"segmentId,omitempty"`
	IP         string `json:"ip,omitempty"`
	ZoneName   string `json:"zoneName,omitempty"`
	RecordName string `json:"recordName,omitempty"`
}

// ZoneMigration declares a planned authority move for one zone.
type ZoneMigration struct {
	Zone           string `json:"zone,omitempty"`
	NewAuthorityID string `json:"newAuthorityId,omitempty"`
}
