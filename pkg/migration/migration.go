package migration

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/gofrs/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/collab"
	"github.com/Azure/dnsmigrator/pkg/connectivity"
	"github.com/Azure/dnsmigrator/pkg/cutover"
	"github.com/Azure/dnsmigrator/pkg/database"
	"github.com/Azure/dnsmigrator/pkg/env"
	"github.com/Azure/dnsmigrator/pkg/forwarding"
	"github.com/Azure/dnsmigrator/pkg/topology"
	"github.com/Azure/dnsmigrator/pkg/validate"
)

type Interface interface {
	// Advance runs the next uncommitted phase.
	Advance(ctx context.Context) error

	// Run runs a specific phase.  Re-running an already-committed phase
	// with an unchanged topology snapshot is a no-op.
	Run(ctx context.Context, phase api.Phase) error

	// Plan computes and returns the forwarding rule set without applying
	// anything.
	Plan(ctx context.Context) (*api.RuleSet, error)

	// Validate runs the full resolution probe suite against the current
	// topology.
	Validate(ctx context.Context) error

	// Status returns the phase record log.
	Status(ctx context.Context) ([]api.PhaseRecord, error)
}

// manager contains everything needed to drive a migration for one topology
type manager struct {
	log *logrus.Entry
	env env.Interface
	db  database.PhaseRecords
	doc *api.TopologyDocument

	model   *topology.Model
	tracker *connectivity.Tracker
	engine  *forwarding.Engine

	// declaredHash fingerprints the topology as declared, taken before any
	// committed state is replayed onto the model.  Phase idempotence
	// compares against this hash: authority moves and resolver re-points
	// are the orchestrator's own doing and must not read as a topology
	// change, while any edit to the document (a new link, segment, zone or
	// migration) must.
	declaredHash string

	provisioner collab.Provisioner
	cutover     *cutover.Controller
	validator   *validate.Validator

	// ruleSet holds the rules computed by the DnsConfig guard for the
	// current process; later phases recompute when it is absent, which is
	// equivalent because the engine is pure.
	ruleSet *api.RuleSet
}

// New returns a migration manager for doc.  The manager rebuilds all
// in-memory state from the document plus the committed phase records before
// returning.
func New(ctx context.Context, log *logrus.Entry, _env env.Interface, doc *api.TopologyDocument,
	provisioner collab.Provisioner, probe collab.LinkProbe, dnsadmin collab.DnsAdmin, resolver collab.Resolver) (Interface, error) {
	model, err := topology.FromDocument(doc)
	if err != nil {
		return nil, err
	}

	leaseOwner, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}

	m := &manager{
		log: log,
		env: _env,
		db:  database.NewPhaseRecords(log, _env.RecordPath(), _env.LeasePath(), leaseOwner.String()),
		doc: doc,

		model:   model,
		tracker: connectivity.NewTracker(log, probe),
		engine:  &forwarding.Engine{Upstream: doc.Upstream},

		declaredHash: declaredTopologyHash(model, doc),

		provisioner: provisioner,
		cutover:     cutover.NewController(log, dnsadmin),
		validator:   validate.NewValidator(log, resolver),
	}

	err = m.rebuild()
	if err != nil {
		return nil, err
	}

	return m, nil
}

// declaredTopologyHash extends the model's canonical snapshot with the
// declared inputs the model does not carry: planned zone migrations and the
// upstream sentinel.
func declaredTopologyHash(model *topology.Model, doc *api.TopologyDocument) string {
	b, err := json.Marshal(&struct {
		Snapshot   string              `json:"snapshot"`
		Migrations []api.ZoneMigration `json:"migrations"`
		Upstream   string              `json:"upstream"`
	}{
		Snapshot:   model.Snapshot(),
		Migrations: doc.Migrations,
		Upstream:   doc.Upstream,
	})
	if err != nil {
		// plain values; cannot fail
		panic(err)
	}

	h := sha256.Sum256(b)
	return hex.EncodeToString(h[:])
}

// rebuild replays committed phases onto the in-memory models.  The topology
// document plus the phase record log is the complete durable state; nothing
// else survives a restart.
func (m *manager) rebuild() error {
	for _, link := range m.model.Links() {
		err := m.tracker.DeclareLink(link.SegmentA, link.SegmentB)
		if err != nil {
			return err
		}
	}

	// Restore Verified status only for the edges that were probed when
	// Connectivity committed.  A link declared since then stays Planned;
	// the changed link set also changes the snapshot hash, so the commit
	// no longer counts for the new topology.
	connectivityDone, err := m.db.LatestCommitted(api.PhaseConnectivity)
	if err != nil {
		return err
	}
	if connectivityDone != nil {
		m.tracker.RestoreVerified(connectivityDone.VerifiedLinks)
	}

	migrationDone, err := m.db.LatestCommitted(api.PhaseZoneMigration)
	if err != nil {
		return err
	}
	if migrationDone != nil {
		for _, migration := range m.doc.Migrations {
			err = m.model.SetZoneAuthority(migration.Zone, migration.NewAuthorityID)
			if err != nil {
				return err
			}
			err = m.model.CommitAuthority(migration.Zone)
			if err != nil {
				return err
			}
		}
	}

	records, err := m.db.List()
	if err != nil {
		return err
	}
	for _, record := range records {
		if record.Result != api.PhaseResultPass {
			continue
		}

		if zone, ok := api.IsRevertPhase(record.Phase); ok {
			err = m.revertAuthorityInModel(zone)
			if err != nil {
				return err
			}
		}

		if record.Phase == api.PhaseDecommissionLegacy {
			for _, zone := range m.model.Zones() {
				err = m.model.DropPreviousAuthority(zone.Name)
				if err != nil {
					return err
				}
			}
		}
	}

	// Resolver addresses replay last.  The live process re-applies
	// resolvers after every authority move, so the rebuilt choice has to
	// be made against the final authorities, not the pre-migration ones.
	cutoverDone, err := m.db.LatestCommitted(api.PhaseCutover)
	if err != nil {
		return err
	}
	if cutoverDone != nil {
		for _, segment := range m.model.Segments() {
			server, ok := cutover.ResolverFor(m.model, segment.ID)
			if !ok {
				continue
			}
			err = m.model.SetResolverAddress(segment.ID, server.Address)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

func (m *manager) revertAuthorityInModel(zoneName string) error {
	zone, ok := m.model.Zone(zoneName)
	if !ok {
		return &api.TopologyInvariantViolationError{Target: "zone " + zoneName, Message: "revert record references unknown zone"}
	}

	err := m.model.SetZoneAuthority(zoneName, zone.PreviousAuthorityID)
	if err != nil {
		return err
	}
	return m.model.CommitAuthority(zoneName)
}

func (m *manager) Plan(ctx context.Context) (*api.RuleSet, error) {
	return m.engine.Compute(m.model, m.tracker)
}

func (m *manager) Validate(ctx context.Context) error {
	return m.validator.Run(ctx, m.model, validate.SuiteFor(m.model))
}

func (m *manager) Status(ctx context.Context) ([]api.PhaseRecord, error) {
	return m.db.List()
}
