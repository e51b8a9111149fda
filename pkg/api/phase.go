package api

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import "strings"

// Phase is a named stage in the migration.  The ordered phases are strictly
// one-directional; rollback is a new forward phase, never a mutation of
// history.
type Phase string

const (
	PhaseInfrastructure     Phase = "Infrastructure"
	PhaseConnectivity       Phase = "Connectivity"
	PhaseDNSConfig          Phase = "DnsConfig"
	PhaseCutover            Phase = "Cutover"
	PhaseZoneMigration      Phase = "ZoneMigration"
	PhaseDecommissionLegacy Phase = "DecommissionLegacy"
	PhaseComplete           Phase = "Complete"
)

// Phases is the committed order.  DecommissionLegacy is optional and only
// runs when the operator asks for it; Complete is terminal.
var Phases = []Phase{
	PhaseInfrastructure,
	PhaseConnectivity,
	PhaseDNSConfig,
	PhaseCutover,
	PhaseZoneMigration,
	PhaseComplete,
}

const revertPhasePrefix = "RevertZone/"

// RevertPhase names the forward phase that rolls back the authority migration
// of a single zone.
func RevertPhase(zone string) Phase {
	return Phase(revertPhasePrefix + zone)
}

// IsRevertPhase reports whether p is a zone revert phase, and if so for which
// zone.
func IsRevertPhase(p Phase) (string, bool) {
	if strings.HasPrefix(string(p), revertPhasePrefix) {
		return strings.TrimPrefix(string(p), revertPhasePrefix), true
	}
	return "", false
}

// PhaseIndex returns p's position in the committed order, or -1 for phases
// outside it (reverts, decommission).
func PhaseIndex(p Phase) int {
	for i, ph := range Phases {
		if ph == p {
			return i
		}
	}
	return -1
}
