package api

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"testing"

	"github.com/pkg/errors"
)

func TestIsTransient(t *testing.T) {
	for _, tt := range []*struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil",
		},
		{
			name: "plain error",
			err:  errors.New("random"),
		},
		{
			name: "invariant violation",
			err:  &TopologyInvariantViolationError{Target: "zone corp", Message: "zone already exists"},
		},
		{
			name: "apply rejected",
			err:  &ApplyRejectedError{Server: "hub-dns", Reason: "bad config"},
		},
		{
			name: "apply rejected, wrapped",
			err:  errors.Wrap(&ApplyRejectedError{Server: "hub-dns", Reason: "bad config"}, "pushing"),
		},
		{
			name: "no reachable authority",
			err:  &NoReachableAuthorityError{Server: "hub-dns", Zone: "corp.example.com"},
		},
		{
			name: "link not reachable",
			err:  &LinkNotReachableError{From: "hub", To: "onprem"},
			want: true,
		},
		{
			name: "marked transient",
			err:  TransientError(context.DeadlineExceeded),
			want: true,
		},
		{
			name: "marked transient, wrapped",
			err:  errors.Wrap(TransientError(context.DeadlineExceeded), "probing"),
			want: true,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %t", tt.err, got)
			}
		})
	}
}

func TestRevertPhase(t *testing.T) {
	phase := RevertPhase("corp.example.com")
	if phase != Phase("RevertZone/corp.example.com") {
		t.Errorf("phase: %s", phase)
	}

	zone, ok := IsRevertPhase(phase)
	if !ok || zone != "corp.example.com" {
		t.Errorf("got (%s, %t)", zone, ok)
	}

	if _, ok = IsRevertPhase(PhaseCutover); ok {
		t.Error("Cutover detected as a revert phase")
	}

	if PhaseIndex(phase) != -1 {
		t.Error("revert phase is in the committed order")
	}
	if PhaseIndex(PhaseInfrastructure) != 0 {
		t.Error("Infrastructure is not the first phase")
	}
}
