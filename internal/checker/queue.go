// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

// Package checker implements the token validation pipeline: the pending
// token queue, the in-memory account store that validation results merge
// into, and the sequential runner that drives both.
package checker

import (
	"sync"

	"github.com/tokenatlas/tokenatlas/internal/metrics"
)

// Queue is the pending token queue. Set semantics: no duplicate token
// strings ever coexist, insertion order is kept for display.
//
// Thread safety: safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	tokens []string
	index  map[string]struct{}
}

// NewQueue creates an empty pending queue.
func NewQueue() *Queue {
	return &Queue{index: make(map[string]struct{})}
}

// Add unions tokens into the queue, dropping values already present.
// Used by file imports, which accumulate rather than replace.
func (q *Queue) Add(tokens []string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, t := range tokens {
		if _, ok := q.index[t]; ok {
			continue
		}
		q.index[t] = struct{}{}
		q.tokens = append(q.tokens, t)
	}
	metrics.CheckerQueueDepth.Set(float64(len(q.tokens)))
}

// Replace swaps the queue contents for a de-duplicated copy of tokens.
// Used by paste input, which atomically replaces the pending set.
func (q *Queue) Replace(tokens []string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tokens = q.tokens[:0]
	q.index = make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := q.index[t]; ok {
			continue
		}
		q.index[t] = struct{}{}
		q.tokens = append(q.tokens, t)
	}
	metrics.CheckerQueueDepth.Set(float64(len(q.tokens)))
}

// Remove deletes one exact match, reporting whether it was present.
func (q *Queue) Remove(token string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.index[token]; !ok {
		return false
	}
	delete(q.index, token)
	for i, t := range q.tokens {
		if t == token {
			q.tokens = append(q.tokens[:i], q.tokens[i+1:]...)
			break
		}
	}
	metrics.CheckerQueueDepth.Set(float64(len(q.tokens)))
	return true
}

// Dequeue pops the front token. The token is gone the moment it is
// returned; a token lost to a failed validation is not restored.
func (q *Queue) Dequeue() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tokens) == 0 {
		return "", false
	}
	token := q.tokens[0]
	q.tokens = q.tokens[1:]
	delete(q.index, token)
	metrics.CheckerQueueDepth.Set(float64(len(q.tokens)))
	return token, true
}

// Snapshot returns a copy of the queued tokens in order.
func (q *Queue) Snapshot() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.tokens))
	copy(out, q.tokens)
	return out
}

// Len returns the number of queued tokens.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tokens)
}
