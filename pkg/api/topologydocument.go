package api

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"os"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// Link declares an intended peering between two segments.
type Link struct {
	SegmentA string `json:"segmentA,omitempty"`
	SegmentB string `json:"segmentB,omitempty"`
}

// TopologyDocument is the declarative input the orchestrator works from.
// Together with the phase record log it is sufficient to rebuild all
// in-memory state.
type TopologyDocument struct {
	Segments   []Segment                `json:"segments,omitempty"`
	DNSServers []DNSServer              `json:"dnsServers,omitempty"`
	Zones      []Zone                   `json:"zones,omitempty"`
	Links      []Link                   `json:"links,omitempty"`
	Endpoints  []PrivateEndpointBinding `json:"endpoints,omitempty"`
	Migrations []ZoneMigration          `json:"migrations,omitempty"`

	// Upstream is the address of the external forwarder used for names no
	// private authority can serve.  Empty means no upstream is configured.
	Upstream string `json:"upstream,omitempty"`
}

// LoadTopologyDocument reads and parses a topology declaration from path.
func LoadTopologyDocument(path string) (*TopologyDocument, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading topology document %s", path)
	}

	var doc TopologyDocument
	err = yaml.UnmarshalStrict(b, &doc)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing topology document %s", path)
	}

	return &doc, nil
}
