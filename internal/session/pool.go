// SPDX-License-Identifier: AGPL-3.0
// Copyright 2025 Kadir Pekel
//
// Licensed under the GNU Affero General Public License v3.0 (AGPL-3.0) (the "License");
// you may not use this file except in compliance with the License.

package session

// runInPool dispatches a blocking function onto its own goroutine and waits
// for the result, keeping the calling scheduler responsive for work that
// must run off the main orchestration task (LLM summarization calls).
// A bounded pool isn't needed here since callers already serialize these
// dispatches one at a time; this exists to name the suspension point
// explicitly, matching the scheduling model's worker-pool dispatch for
// blocking LLM work.
func runInPool[T any](fn func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{value: v, err: err}
	}()
	r := <-ch
	return r.value, r.err
}
