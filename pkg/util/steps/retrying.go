package steps

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/Azure/dnsmigrator/pkg/api"
)

// RetryingAction returns a wrapper Step which reruns the action while it
// returns a transient error (api.IsTransient), at pollInterval, until
// retryTimeout is hit.  Any other error is returned directly.  This replaces
// retry-by-rerunning-the-whole-phase: a flaky probe or throttled provider
// call does not force redoing already-successful work.
func RetryingAction(f actionFunction) Step {
	return &retryingActionStep{f: f}
}

type retryingActionStep struct {
	f            actionFunction
	retryTimeout time.Duration
	pollInterval time.Duration
}

func (s *retryingActionStep) run(ctx context.Context, log *logrus.Entry) error {
	retryTimeout := s.retryTimeout
	if retryTimeout == time.Duration(0) {
		retryTimeout = 10 * time.Minute
	}

	pollInterval := s.pollInterval
	if pollInterval == time.Duration(0) {
		pollInterval = 30 * time.Second
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, retryTimeout)
	defer cancel()

	var lastErr error

	// Run the step immediately.  If a transient error is returned and we have
	// not hit the retry timeout, the step is called again after pollInterval.
	// If we have timed out or any other error is returned, the error from the
	// step is returned directly.
	err := wait.PollImmediateUntil(pollInterval, func() (bool, error) {
		lastErr = s.f(ctx)

		if timeoutCtx.Err() == nil && lastErr != nil && api.IsTransient(lastErr) {
			log.Printf("transient error, retrying: %v", lastErr)
			return false, nil // retry step
		}
		return true, lastErr
	}, timeoutCtx.Done())

	if err != nil && lastErr != nil {
		return lastErr
	}
	return err
}

func (s *retryingActionStep) String() string {
	return fmt.Sprintf("[RetryingAction %s]", FriendlyName(s.f))
}
