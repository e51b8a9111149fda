package steps

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/wait"
)

// conditionFunction is a function that takes a context and returns whether the
// condition has been met and an error.
//
// Suitable for polling external sources for readiness.
type conditionFunction func(context.Context) (bool, error)

// Condition returns a Step which will execute the condition function `f`. The
// condition function will be executed at an interval until it returns true, an
// error, or the timeout passes.  If `fail` is false, a timeout is logged but
// does not fail the run.
func Condition(f conditionFunction, timeout time.Duration, fail bool) Step {
	return conditionStep{
		f:            f,
		fail:         fail,
		pollInterval: 10 * time.Second,
		timeout:      timeout,
	}
}

type conditionStep struct {
	f            conditionFunction
	fail         bool
	pollInterval time.Duration
	timeout      time.Duration
}

func (s conditionStep) run(ctx context.Context, log *logrus.Entry) error {
	var pollErr error

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	// We use the outer context, not the timeout context, as we do not want to
	// time out the condition function itself, only stop retrying once
	// timeoutCtx's timeout has fired.
	err := wait.PollImmediateUntil(s.pollInterval, func() (bool, error) {
		cnd, cndErr := s.f(ctx)
		pollErr = cndErr
		if cndErr != nil {
			log.Warnf("condition %s not yet satisfied: %s", FriendlyName(s.f), cndErr)
		}
		return cnd, nil
	}, timeoutCtx.Done())

	if err != nil && !s.fail {
		log.Warnf("condition %s timed out, not failing: %s", FriendlyName(s.f), err)
		return nil
	}

	if err != nil && pollErr != nil {
		return fmt.Errorf("timed out waiting for the condition %s: %w", shortName(FriendlyName(s.f)), pollErr)
	}

	return err
}

func (s conditionStep) String() string {
	return fmt.Sprintf("[Condition %s, timeout %s]", FriendlyName(s.f), s.timeout)
}
