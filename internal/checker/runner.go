// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package checker

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tokenatlas/tokenatlas/internal/discord"
	"github.com/tokenatlas/tokenatlas/internal/logging"
	"github.com/tokenatlas/tokenatlas/internal/metrics"
	"github.com/tokenatlas/tokenatlas/internal/models"
	"github.com/tokenatlas/tokenatlas/internal/token"
)

// Persister is the durable side of a validation run. CreateOrUpdate upserts
// an account and its tokens; tokens already on record are skipped.
type Persister interface {
	CreateOrUpdate(ctx context.Context, account models.Account, origin string) error
}

// ErrRunActive is returned by StartRun while a run is in progress.
var ErrRunActive = errors.New("checker: a validation run is already active")

// Runner drives validation runs over the pending queue. Tokens are
// processed strictly one at a time; the only backgrounded work is the
// per-token persistence write, which the loop never waits for.
type Runner struct {
	queue   *Queue
	store   *AccountStore
	api     discord.API
	persist Persister

	origin         string
	persistTimeout time.Duration

	mu        sync.Mutex
	running   bool
	runID     string
	cancel    context.CancelFunc
	processed int
	valid     int

	// persistWG tracks detached writes so shutdown can drain them.
	persistWG sync.WaitGroup
}

// NewRunner wires a runner over its collaborators. persist may be nil, in
// which case results stay in memory only.
func NewRunner(queue *Queue, store *AccountStore, api discord.API, persist Persister, origin string, persistTimeout time.Duration) *Runner {
	return &Runner{
		queue:          queue,
		store:          store,
		api:            api,
		persist:        persist,
		origin:         origin,
		persistTimeout: persistTimeout,
	}
}

// StartRun begins a validation run over the current queue contents and
// returns its run id. Only one run may be active at a time.
func (r *Runner) StartRun() (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return "", ErrRunActive
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.running = true
	r.runID = uuid.NewString()
	r.cancel = cancel
	r.processed = 0
	r.valid = 0

	logging.Info().Str("run_id", r.runID).Int("queued", r.queue.Len()).Msg("Validation run started")
	go r.run(ctx, r.runID)
	return r.runID, nil
}

// StopRun requests cooperative cancellation. The in-flight token finishes;
// no new token begins processing.
func (r *Runner) StopRun() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running && r.cancel != nil {
		logging.Info().Str("run_id", r.runID).Msg("Validation run stop requested")
		r.cancel()
	}
}

// Status reports the current pipeline state.
func (r *Runner) Status() models.CheckerStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	status := models.CheckerStatus{
		Running:   r.running,
		Queued:    r.queue.Len(),
		Processed: r.processed,
		Valid:     r.valid,
	}
	if r.running {
		status.RunID = r.runID
	}
	return status
}

// Shutdown stops any active run and waits for detached persistence writes
// to drain, up to the context deadline.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.StopRun()
	done := make(chan struct{})
	go func() {
		r.persistWG.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the sequential validation loop. Cancellation is checked only at
// iteration boundaries, never mid-token.
func (r *Runner) run(ctx context.Context, runID string) {
	defer func() {
		r.mu.Lock()
		r.running = false
		r.cancel = nil
		processed, valid := r.processed, r.valid
		r.mu.Unlock()
		logging.Info().Str("run_id", runID).Int("processed", processed).Int("valid", valid).Msg("Validation run finished")
	}()

	for {
		if ctx.Err() != nil {
			return
		}
		// Dequeue before processing. An interrupted token is lost from the
		// queue without ever being classified.
		tok, ok := r.queue.Dequeue()
		if !ok {
			return
		}
		metrics.CheckerTokensProcessed.Inc()
		r.mu.Lock()
		r.processed++
		r.mu.Unlock()

		// Cancellation must not reach the classification itself: a stop
		// request lets the in-flight token finish end-to-end and only
		// prevents the next dequeue.
		if account, ok := r.checkToken(context.WithoutCancel(ctx), tok); ok {
			r.store.Upsert(account)
			r.mu.Lock()
			r.valid++
			r.mu.Unlock()
			r.submitPersist(account)
		}
	}
}

// checkToken classifies a single token. Every failure is a silent skip;
// the token is already gone from the queue.
func (r *Runner) checkToken(ctx context.Context, tok string) (models.Account, bool) {
	userID, err := token.DecodeUserID(tok)
	if err != nil {
		metrics.CheckerTokensSkipped.WithLabelValues("decode").Inc()
		logging.Debug().Err(err).Msg("Token skipped, id segment did not decode")
		return models.Account{}, false
	}

	created, err := token.SnowflakeTime(userID)
	if err != nil || !token.PlausibleCreation(created, time.Now()) {
		metrics.CheckerTokensSkipped.WithLabelValues("timestamp").Inc()
		logging.Debug().Str("user_id", userID).Msg("Token skipped, implausible creation timestamp")
		return models.Account{}, false
	}

	user, err := r.api.FetchSelf(ctx, tok)
	if err != nil {
		metrics.CheckerTokensSkipped.WithLabelValues("lookup").Inc()
		logging.Debug().Err(err).Str("user_id", userID).Msg("Token skipped, self lookup failed")
		return models.Account{}, false
	}

	// The reported verified flag is unreliable. The billing country probe
	// only succeeds for accounts meeting the verification bar, so its
	// outcome overrides whatever the profile claimed.
	_, probeErr := r.api.FetchBillingCountry(ctx, tok)
	user.Verified = probeErr == nil

	metrics.CheckerAccountsClassified.WithLabelValues(strconv.FormatBool(user.Verified)).Inc()
	return models.Account{User: *user, Tokens: []string{tok}}, true
}

// submitPersist fires the durable write without blocking the loop.
// Failures are logged and counted, never surfaced to the run.
func (r *Runner) submitPersist(account models.Account) {
	if r.persist == nil {
		return
	}
	r.persistWG.Add(1)
	go func() {
		defer r.persistWG.Done()
		ctx, cancel := context.WithTimeout(context.Background(), r.persistTimeout)
		defer cancel()
		if err := r.persist.CreateOrUpdate(ctx, account, r.origin); err != nil {
			metrics.CheckerPersistFailures.Inc()
			logging.Error().Err(err).Str("account_id", account.User.ID).Msg("Detached persistence write failed")
		}
	}()
}
