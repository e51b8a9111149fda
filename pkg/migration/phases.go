package migration

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/util/steps"
)

// Advance runs the next phase in the committed order.  Once every phase has
// committed, Advance is a no-op.
func (m *manager) Advance(ctx context.Context) error {
	phase, err := m.nextPhase()
	if err != nil {
		return err
	}
	if phase == "" {
		m.log.Info("all phases committed, nothing to do")
		return nil
	}

	return m.Run(ctx, phase)
}

func (m *manager) nextPhase() (api.Phase, error) {
	for _, phase := range api.Phases {
		record, err := m.db.LatestCommitted(phase)
		if err != nil {
			return "", err
		}
		if record == nil {
			return phase, nil
		}
	}

	return "", nil
}

// Run drives one phase: take the lease, check idempotence and ordering, run
// the phase's steps, and append exactly one phase record.  Guard failures
// never partially commit: either every step succeeds and a Pass record is
// appended, or a Fail record is appended and the previously committed phase
// remains authoritative.
func (m *manager) Run(ctx context.Context, phase api.Phase) error {
	err := m.db.Lease()
	if err != nil {
		return err
	}
	defer func() {
		if err := m.db.EndLease(); err != nil {
			m.log.Warnf("releasing lease: %v", err)
		}
	}()

	committed, err := m.db.IsCommitted(phase, m.declaredHash)
	if err != nil {
		return err
	}
	if committed {
		m.log.Infof("phase %s already committed for snapshot %.12s, nothing to do", phase, m.declaredHash)
		return nil
	}

	// A committed phase with a different snapshot means the topology changed
	// after commit.  History is monotonic: the operator reverts forward, we
	// never rewrite a committed phase in place.
	previous, err := m.db.LatestCommitted(phase)
	if err != nil {
		return err
	}
	if previous != nil {
		if _, ok := api.IsRevertPhase(phase); !ok && phase != api.PhaseDecommissionLegacy {
			return fmt.Errorf("phase %s already committed with snapshot %.12s; topology has since changed, commit a revert phase instead", phase, previous.SnapshotHash)
		}
	}

	err = m.checkOrdering(phase)
	if err != nil {
		return err
	}

	toRun, err := m.stepsFor(phase)
	if err != nil {
		return err
	}

	m.log.Infof("running phase %s", phase)
	runErr := steps.Run(ctx, m.log, m.env.PollInterval(), toRun)

	record := api.PhaseRecord{
		Phase:        phase,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		SnapshotHash: m.declaredHash,
		Result:       api.PhaseResultPass,
	}
	if runErr != nil {
		record.Result = api.PhaseResultFail
		record.Diagnostics = []string{runErr.Error()}
	} else if phase == api.PhaseConnectivity {
		record.VerifiedLinks = m.tracker.Verified()
	}

	err = m.db.Append(record)
	if err != nil {
		return err
	}

	return runErr
}

// checkOrdering enforces the one-directional phase order: a phase may only
// run once every phase before it has committed.  Revert and decommission
// phases require a committed ZoneMigration.
func (m *manager) checkOrdering(phase api.Phase) error {
	_, isRevert := api.IsRevertPhase(phase)
	if isRevert || phase == api.PhaseDecommissionLegacy {
		record, err := m.db.LatestCommitted(api.PhaseZoneMigration)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("phase %s requires a committed %s phase", phase, api.PhaseZoneMigration)
		}
		return nil
	}

	index := api.PhaseIndex(phase)
	if index < 0 {
		return fmt.Errorf("unknown phase %q", phase)
	}

	for _, earlier := range api.Phases[:index] {
		record, err := m.db.LatestCommitted(earlier)
		if err != nil {
			return err
		}
		if record == nil {
			return fmt.Errorf("phase %s cannot run before phase %s has committed", phase, earlier)
		}
	}

	return nil
}

func (m *manager) stepsFor(phase api.Phase) ([]steps.Step, error) {
	if zone, ok := api.IsRevertPhase(phase); ok {
		return []steps.Step{
			steps.Action(m.renewLease),
			steps.Action(m.revertZoneAction(zone)),
		}, nil
	}

	switch phase {
	case api.PhaseInfrastructure:
		return []steps.Step{
			steps.Action(m.renewLease),
			steps.Action(m.provisionSegments),
			steps.Action(m.provisionDNSServers),
			steps.Action(m.provisionEndpoints),
		}, nil

	case api.PhaseConnectivity:
		return []steps.Step{
			steps.Action(m.renewLease),
			steps.Action(m.provisionLinks),
			steps.Action(m.declareLinks),
			steps.RetryingAction(m.confirmLinks),
			steps.Condition(m.allLinksVerified, m.env.ConditionTimeout(), true),
		}, nil

	case api.PhaseDNSConfig:
		return []steps.Step{
			steps.Action(m.renewLease),
			steps.Action(m.computeForwardingRules),
		}, nil

	case api.PhaseCutover:
		return []steps.Step{
			steps.Action(m.renewLease),
			steps.Action(m.applyForwardingRules),
			steps.Action(m.validateResolution),
		}, nil

	case api.PhaseZoneMigration:
		return []steps.Step{
			steps.Action(m.renewLease),
			steps.Action(m.validateResolution), // against the old authorities
			steps.Action(m.migrateZones),
		}, nil

	case api.PhaseDecommissionLegacy:
		return []steps.Step{
			steps.Action(m.renewLease),
			steps.Action(m.dropLegacyAuthorities),
		}, nil

	case api.PhaseComplete:
		return []steps.Step{
			steps.Action(m.renewLease),
			steps.Action(m.validateResolution),
		}, nil

	default:
		return nil, fmt.Errorf("unknown phase %q", phase)
	}
}

func (m *manager) renewLease(ctx context.Context) error {
	return m.db.RenewLease()
}
