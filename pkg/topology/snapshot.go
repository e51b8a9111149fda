package topology

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// snapshot is the canonical serialized form of the model: every slice sorted,
// so identical logical state always produces identical bytes.
type snapshot struct {
	Segments []interface{} `json:"segments"`
	Servers  []interface{} `json:"servers"`
	Zones    []interface{} `json:"zones"`
	Bindings []interface{} `json:"bindings"`
	Links    []interface{} `json:"links"`
}

// Snapshot returns a content hash of the model.  The phase machine compares
// it against committed phase records to detect no-op re-runs.
func (m *Model) Snapshot() string {
	s := snapshot{
		Segments: []interface{}{},
		Servers:  []interface{}{},
		Zones:    []interface{}{},
		Bindings: []interface{}{},
		Links:    []interface{}{},
	}

	for _, segment := range m.Segments() {
		// ResolverAddress is applied at cutover, not declared; it stays
		// out of the hash so applying it does not read as a topology
		// change.
		segment.ResolverAddress = ""
		s.Segments = append(s.Segments, segment)
	}
	for _, server := range m.Servers() {
		s.Servers = append(s.Servers, server)
	}
	for _, zone := range m.Zones() {
		zone.Records = m.ZoneRecords(zone.Name)
		s.Zones = append(s.Zones, zone)
	}
	for _, binding := range m.Bindings() {
		s.Bindings = append(s.Bindings, binding)
	}
	for _, link := range m.Links() {
		s.Links = append(s.Links, link)
	}

	b, err := json.Marshal(s)
	if err != nil {
		// canonical struct of plain values; cannot fail
		panic(err)
	}

	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}
