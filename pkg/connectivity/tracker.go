package connectivity

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/collab"
)

// Tracker records which pairs of segments currently have a usable data path.
// Edges are unordered pairs; an edge carries traffic only once it has been
// Verified by a bidirectional reachability probe.
type Tracker struct {
	log   *logrus.Entry
	probe collab.LinkProbe

	edges map[edgeKey]*api.ConnectivityEdge
}

type edgeKey struct {
	a, b string
}

func newEdgeKey(segmentA, segmentB string) edgeKey {
	if segmentB < segmentA {
		segmentA, segmentB = segmentB, segmentA
	}
	return edgeKey{a: segmentA, b: segmentB}
}

// NewTracker returns a tracker which uses probe for link confirmation.
func NewTracker(log *logrus.Entry, probe collab.LinkProbe) *Tracker {
	return &Tracker{
		log:   log,
		probe: probe,

		edges: map[edgeKey]*api.ConnectivityEdge{},
	}
}

// DeclareLink creates a Planned edge between two segments.  Declaring an
// existing link is a no-op, matching the provisioner's convergent semantics.
func (t *Tracker) DeclareLink(segmentA, segmentB string) error {
	if segmentA == segmentB {
		return &api.TopologyInvariantViolationError{
			Target:  "link " + segmentA,
			Message: "a segment cannot be linked to itself",
		}
	}

	key := newEdgeKey(segmentA, segmentB)
	if _, ok := t.edges[key]; ok {
		return nil
	}

	t.edges[key] = &api.ConnectivityEdge{
		SegmentA: key.a,
		SegmentB: key.b,
		Status:   api.EdgePlanned,
	}
	return nil
}

// ConfirmLink promotes a declared edge to Verified once the reachability
// probe succeeds in both directions.  On probe failure the edge keeps its
// current status and a LinkNotReachableError is returned; the caller retries
// with backoff.  ConfirmLink never runs implicitly: probes are explicit so
// their cost and side effects stay with the caller.
func (t *Tracker) ConfirmLink(ctx context.Context, segmentA, segmentB string) error {
	key := newEdgeKey(segmentA, segmentB)
	edge, ok := t.edges[key]
	if !ok {
		return &api.TopologyInvariantViolationError{
			Target:  "link " + segmentA + "-" + segmentB,
			Message: "link has not been declared",
		}
	}

	reachable, err := t.probe.Probe(ctx, edge.SegmentA, edge.SegmentB)
	if err != nil {
		return err
	}
	if !reachable {
		return &api.LinkNotReachableError{From: edge.SegmentA, To: edge.SegmentB}
	}

	if edge.Status == api.EdgePlanned {
		edge.Status = api.EdgeEstablished
	}

	reachable, err = t.probe.Probe(ctx, edge.SegmentB, edge.SegmentA)
	if err != nil {
		return err
	}
	if !reachable {
		return &api.LinkNotReachableError{From: edge.SegmentB, To: edge.SegmentA}
	}

	edge.Status = api.EdgeVerified
	t.log.Infof("link %s-%s verified", edge.SegmentA, edge.SegmentB)
	return nil
}

// IsReachable reports whether a usable data path exists between the two
// segments.  A segment always reaches itself.  This is a pure query: it never
// triggers a probe.
func (t *Tracker) IsReachable(segmentA, segmentB string) bool {
	if segmentA == segmentB {
		return true
	}

	edge, ok := t.edges[newEdgeKey(segmentA, segmentB)]
	return ok && edge.Status == api.EdgeVerified
}

// Edges returns all edges sorted by segment pair.
func (t *Tracker) Edges() []api.ConnectivityEdge {
	edges := make([]api.ConnectivityEdge, 0, len(t.edges))
	for _, edge := range t.edges {
		edges = append(edges, *edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].SegmentA != edges[j].SegmentA {
			return edges[i].SegmentA < edges[j].SegmentA
		}
		return edges[i].SegmentB < edges[j].SegmentB
	})
	return edges
}

// Verified returns the links whose edges are currently Verified, sorted by
// segment pair.  The phase machine records this set when a Connectivity
// phase commits, so a rebuild can restore exactly what was probed.
func (t *Tracker) Verified() []api.Link {
	var links []api.Link
	for _, edge := range t.Edges() {
		if edge.Status == api.EdgeVerified {
			links = append(links, api.Link{SegmentA: edge.SegmentA, SegmentB: edge.SegmentB})
		}
	}
	return links
}

// RestoreVerified marks the given edges Verified without re-probing.  This
// is the rebuild path: links is the edge set recorded at Connectivity
// commit, whose probes have already passed.  Edges declared since stay
// Planned until a Connectivity run probes them; they never carry traffic on
// the strength of an older commit.
func (t *Tracker) RestoreVerified(links []api.Link) {
	for _, link := range links {
		edge, ok := t.edges[newEdgeKey(link.SegmentA, link.SegmentB)]
		if !ok {
			continue
		}
		edge.Status = api.EdgeVerified
	}
}

// AllVerified reports whether every declared edge has been verified.
func (t *Tracker) AllVerified() bool {
	for _, edge := range t.edges {
		if edge.Status != api.EdgeVerified {
			return false
		}
	}
	return true
}
