// Copyright (c) 2024, The Fluxion Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package scene

import (
	"context"
	"log/slog"
	"sync"
)

// Resource is a name-registry entry that is either already resolved or
// still loading. It is an explicit two-state machine with waiter fan-out:
// every consumer that registered interest before resolution is notified
// exactly once when the value (or error) arrives, and consumers arriving
// after resolution are notified immediately. Multiple nodes referencing
// one in-flight load therefore all observe the same resolution without
// polling.
type Resource[T any] struct {
	mu      sync.Mutex
	done    bool
	value   T
	err     error
	waiters []func(T, error)
	ready   chan struct{}
}

// NewResolved returns a resource already holding the given value.
func NewResolved[T any](v T) *Resource[T] {
	r := &Resource[T]{done: true, value: v, ready: make(chan struct{})}
	close(r.ready)
	return r
}

// NewPending returns a resource awaiting resolution.
func NewPending[T any]() *Resource[T] {
	return &Resource[T]{ready: make(chan struct{})}
}

// Resolved reports whether the resource has settled.
func (r *Resource[T]) Resolved() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Value returns the settled value and error. The zero value is returned
// while the resource is still pending.
func (r *Resource[T]) Value() (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value, r.err
}

// Resolve settles the resource and notifies every waiter. Resolving an
// already-settled resource is a programmer error: it is logged and the
// first resolution stands.
func (r *Resource[T]) Resolve(v T, err error) {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		slog.Warn("scene.Resource: Resolve called on already-resolved resource")
		return
	}
	r.done = true
	r.value = v
	r.err = err
	waiters := r.waiters
	r.waiters = nil
	close(r.ready)
	r.mu.Unlock()
	for _, fn := range waiters {
		fn(v, err)
	}
}

// OnReady registers fn to run when the resource settles; if it already
// has, fn runs immediately (synchronously, on the caller's goroutine).
func (r *Resource[T]) OnReady(fn func(v T, err error)) {
	r.mu.Lock()
	if r.done {
		v, err := r.value, r.err
		r.mu.Unlock()
		fn(v, err)
		return
	}
	r.waiters = append(r.waiters, fn)
	r.mu.Unlock()
}

// Await blocks until the resource settles or the context is canceled.
func (r *Resource[T]) Await(ctx context.Context) (T, error) {
	select {
	case <-r.ready:
		return r.Value()
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
