package api

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"errors"
	"fmt"
	"net"
)

// TopologyInvariantViolationError is returned when a mutation would corrupt
// the topology model (two authorities for one zone, a server in an unknown
// segment, ...).  It indicates a caller bug and is never retried; the model
// is left unmodified.
type TopologyInvariantViolationError struct {
	Target  string
	Message string
}

func (e *TopologyInvariantViolationError) Error() string {
	return fmt.Sprintf("topology invariant violation on %s: %s", e.Target, e.Message)
}

// LinkNotReachableError is returned by ConfirmLink when the reachability
// probe fails in either direction.  The edge stays Planned; the call is
// retryable.
type LinkNotReachableError struct {
	From string
	To   string
}

func (e *LinkNotReachableError) Error() string {
	return fmt.Sprintf("link not reachable: no path from segment %s to segment %s", e.From, e.To)
}

// NoReachableAuthorityError marks a (server, zone) pair for which the
// forwarding rule engine could not determine any reachable target.  The rule
// computation for the phase fails closed: no partial rule set is emitted.
type NoReachableAuthorityError struct {
	Server string
	Zone   string
}

func (e *NoReachableAuthorityError) Error() string {
	return fmt.Sprintf("no reachable authority for zone %s from server %s", e.Zone, e.Server)
}

// ApplyRejectedError is a non-transient rejection from the DNS admin
// collaborator.  It aborts the phase and requires human correction; the
// cutover controller never retries it.
type ApplyRejectedError struct {
	Server string
	Reason string
}

func (e *ApplyRejectedError) Error() string {
	return fmt.Sprintf("configuration rejected by server %s: %s", e.Server, e.Reason)
}

// ValidationFailedError carries the specific failing probe tuple, never just
// "validation failed".
type ValidationFailedError struct {
	Segment               string
	Name                  string
	ExpectedTarget        string
	ActualTarget          string
	ExpectedAuthoritative bool
	ActualAuthoritative   bool
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("validation failed for %s in segment %s: expected (%s, authoritative=%t), got (%s, authoritative=%t)",
		e.Name, e.Segment, e.ExpectedTarget, e.ExpectedAuthoritative, e.ActualTarget, e.ActualAuthoritative)
}

// LeaseHeldError is returned when a second orchestrator attempts to drive a
// topology that is already leased.
type LeaseHeldError struct {
	Owner string
}

func (e *LeaseHeldError) Error() string {
	return fmt.Sprintf("topology is leased by another orchestrator (owner %s)", e.Owner)
}

// IsTransient reports whether err is worth retrying: collaborator timeouts
// and temporary network failures qualify, typed phase errors do not.
func IsTransient(err error) bool {
	var applyRejected *ApplyRejectedError
	var invariant *TopologyInvariantViolationError
	var noAuthority *NoReachableAuthorityError
	if errors.As(err, &applyRejected) || errors.As(err, &invariant) || errors.As(err, &noAuthority) {
		return false
	}

	var linkErr *LinkNotReachableError
	if errors.As(err, &linkErr) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, errTransient)
}

var errTransient = errors.New("transient")

// TransientError wraps err so IsTransient reports true for it.  Collaborator
// implementations use it to mark provider throttling and similar conditions.
func TransientError(err error) error {
	return fmt.Errorf("%w: %w", errTransient, err)
}
