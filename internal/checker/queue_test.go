// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package checker

import (
	"testing"
)

func TestQueueAddDeduplicates(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	q.Add([]string{"a", "b", "c"})
	q.Add([]string{"b", "c", "d"})

	got := q.Snapshot()
	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("Snapshot = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshot[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQueueReplace(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	q.Add([]string{"a", "b"})
	q.Replace([]string{"x", "y", "x", "z", "y"})

	got := q.Snapshot()
	want := []string{"x", "y", "z"}
	if len(got) != len(want) {
		t.Fatalf("Snapshot = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshot[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestQueueRemove(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	q.Add([]string{"a", "b", "c"})

	if !q.Remove("b") {
		t.Error("Remove(b) = false, want true")
	}
	if q.Remove("b") {
		t.Error("second Remove(b) = true, want false")
	}
	if q.Remove("missing") {
		t.Error("Remove(missing) = true, want false")
	}

	got := q.Snapshot()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Snapshot = %v, want [a c]", got)
	}

	// A removed token can be re-added.
	q.Add([]string{"b"})
	if q.Len() != 3 {
		t.Errorf("Len = %d after re-add, want 3", q.Len())
	}
}

func TestQueueDequeueOrder(t *testing.T) {
	t.Parallel()

	q := NewQueue()
	q.Add([]string{"a", "b"})

	tok, ok := q.Dequeue()
	if !ok || tok != "a" {
		t.Errorf("Dequeue = %q, %v, want a, true", tok, ok)
	}
	tok, ok = q.Dequeue()
	if !ok || tok != "b" {
		t.Errorf("Dequeue = %q, %v, want b, true", tok, ok)
	}
	if _, ok := q.Dequeue(); ok {
		t.Error("Dequeue on empty queue = true, want false")
	}
}
