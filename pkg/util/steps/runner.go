package steps

// Copyright (c) Microsoft Corporation.
// Licensed under the Apache License 2.0.

import (
	"context"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// FriendlyName returns a "friendly" stringified name of the given func.
func FriendlyName(f interface{}) string {
	return runtime.FuncForPC(reflect.ValueOf(f).Pointer()).Name()
}

func shortName(fullName string) string {
	sepCheck := func(c rune) bool {
		return c == '/' || c == '.'
	}

	fields := strings.FieldsFunc(fullName, sepCheck)

	if len(fields) > 0 {
		return fields[len(fields)-1]
	}
	return fullName
}

// Step is the interface for steps that Runner can execute.
type Step interface {
	run(ctx context.Context, log *logrus.Entry) error
	String() string
}

// Run executes the provided steps in order until one fails or all steps
// are completed.  Errors from failed steps are returned directly.
func Run(ctx context.Context, log *logrus.Entry, pollInterval time.Duration, steps []Step) error {
	for _, step := range steps {
		switch s := step.(type) {
		case conditionStep:
			if pollInterval != time.Duration(0) {
				s.pollInterval = pollInterval
				step = s
			}
		case *retryingActionStep:
			if pollInterval != time.Duration(0) {
				s.pollInterval = pollInterval
			}
		}

		log.Infof("running step %s", step)
		startTime := time.Now()
		err := step.run(ctx, log)
		if err != nil {
			log.Errorf("step %s encountered error: %s", step, err.Error())
			return err
		}

		log.Debugf("step %s took %s", step, time.Since(startTime).Round(time.Millisecond))
	}

	return nil
}
