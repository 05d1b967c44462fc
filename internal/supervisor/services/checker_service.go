// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package services

import (
	"context"
	"time"
)

// CheckerRunner matches the checker.Runner lifecycle methods the service
// needs: cooperative stop plus a drain of detached persistence writes.
type CheckerRunner interface {
	StopRun()
	Shutdown(ctx context.Context) error
}

// CheckerService supervises the validation pipeline. Runs are started on
// demand through the API; the service's job is orderly teardown when the
// tree shuts down, so no persistence write is abandoned mid-flight.
type CheckerService struct {
	runner       CheckerRunner
	drainTimeout time.Duration
}

// NewCheckerService wraps runner as a supervised service. drainTimeout
// bounds the wait for outstanding persistence writes at shutdown.
func NewCheckerService(runner CheckerRunner, drainTimeout time.Duration) *CheckerService {
	if drainTimeout <= 0 {
		drainTimeout = 10 * time.Second
	}
	return &CheckerService{
		runner:       runner,
		drainTimeout: drainTimeout,
	}
}

// Serve implements suture.Service. It blocks until the tree shuts down,
// then cancels any active run and drains detached writes.
func (c *CheckerService) Serve(ctx context.Context) error {
	<-ctx.Done()

	c.runner.StopRun()

	drainCtx, cancel := context.WithTimeout(context.Background(), c.drainTimeout)
	defer cancel()
	if err := c.runner.Shutdown(drainCtx); err != nil {
		return err
	}
	return ctx.Err()
}

// String implements fmt.Stringer for supervisor logs.
func (c *CheckerService) String() string {
	return "checker"
}
