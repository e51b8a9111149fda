package validate

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"

	"github.com/Azure/dnsmigrator/pkg/api"
	"github.com/Azure/dnsmigrator/pkg/collab"
	"github.com/Azure/dnsmigrator/pkg/topology"
)

// ProbeTuple is one (segment, name, expectation) entry in a phase's
// validation suite.
type ProbeTuple struct {
	Segment               string
	Name                  string
	ExpectedTarget        string
	ExpectedAuthoritative bool
}

// Validator runs zone-resolution probes against the topology.  Each failure
// carries the exact failing tuple and the actual result.
type Validator struct {
	log      *logrus.Entry
	resolver collab.Resolver
}

func NewValidator(log *logrus.Entry, resolver collab.Resolver) *Validator {
	return &Validator{
		log:      log,
		resolver: resolver,
	}
}

// Validate issues a single resolution probe for name through the segment's
// resolver.
func (v *Validator) Validate(ctx context.Context, segment api.Segment, name string) (string, bool, error) {
	return v.resolver.Resolve(ctx, segment, name)
}

// SuiteFor derives the validation suite from the model at phase entry: every
// record of every zone, probed from every segment.  A probe is expected to be
// authoritative when the answering segment hosts the zone's authority.
func SuiteFor(model *topology.Model) []ProbeTuple {
	var suite []ProbeTuple

	for _, segment := range model.Segments() {
		for _, zone := range model.Zones() {
			authority, _ := model.Server(zone.AuthorityID)

			for _, record := range model.ZoneRecords(zone.Name) {
				if record.Type != "A" {
					continue
				}

				suite = append(suite, ProbeTuple{
					Segment:               segment.ID,
					Name:                  record.Name + "." + zone.Name,
					ExpectedTarget:        record.Value,
					ExpectedAuthoritative: authority.SegmentID == segment.ID,
				})
			}
		}
	}

	return suite
}

// Run executes the suite.  All tuples must pass for the phase to commit; the
// aggregated error lists every failing tuple.
func (v *Validator) Run(ctx context.Context, model *topology.Model, suite []ProbeTuple) error {
	var failures *multierror.Error

	for _, tuple := range suite {
		segment, ok := model.Segment(tuple.Segment)
		if !ok {
			failures = multierror.Append(failures, &api.TopologyInvariantViolationError{
				Target:  "segment " + tuple.Segment,
				Message: "validation suite references unknown segment",
			})
			continue
		}

		target, authoritative, err := v.resolver.Resolve(ctx, segment, tuple.Name)
		if err != nil {
			failures = multierror.Append(failures, &api.ValidationFailedError{
				Segment:               tuple.Segment,
				Name:                  tuple.Name,
				ExpectedTarget:        tuple.ExpectedTarget,
				ActualTarget:          "error: " + err.Error(),
				ExpectedAuthoritative: tuple.ExpectedAuthoritative,
			})
			continue
		}

		if target != tuple.ExpectedTarget || authoritative != tuple.ExpectedAuthoritative {
			failures = multierror.Append(failures, &api.ValidationFailedError{
				Segment:               tuple.Segment,
				Name:                  tuple.Name,
				ExpectedTarget:        tuple.ExpectedTarget,
				ActualTarget:          target,
				ExpectedAuthoritative: tuple.ExpectedAuthoritative,
				ActualAuthoritative:   authoritative,
			})
			continue
		}

		v.log.Debugf("probe passed: %s from %s -> %s", tuple.Name, tuple.Segment, target)
	}

	return failures.ErrorOrNil()
}
