// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package asyncseq

import "context"

// A Forwarder passes all [Iterator] calls through to an inner Iterator
// opened by a [Scope]. It may be used by value. The zero value behaves
// as an exhausted Iterator.
type Forwarder[T any] struct {
	ctx     context.Context
	inner   Iterator[T]
	release context.CancelFunc // Nil unless the Scope linked contexts.
}

var _ Iterator[any] = Forwarder[any]{}

// Close releases any linked context created by the [Scope] and then
// closes the inner Iterator.
func (f Forwarder[T]) Close() error {
	if f.release != nil {
		f.release()
	}
	if f.inner == nil {
		return nil
	}
	return f.inner.Close()
}

// Context returns the effective context that the inner Iterator was
// opened with.
func (f Forwarder[T]) Context() context.Context { return f.ctx }

// Next implements [Iterator].
func (f Forwarder[T]) Next() (bool, error) {
	if f.inner == nil {
		return false, nil
	}
	return f.inner.Next()
}

// Value implements [Iterator].
func (f Forwarder[T]) Value() T {
	if f.inner == nil {
		var zero T
		return zero
	}
	return f.inner.Value()
}
