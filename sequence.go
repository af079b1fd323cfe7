// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package asyncseq

import "context"

// A Sequence can open any number of independent [Iterator] instances.
// Implementations should be immutable once constructed.
type Sequence[T any] interface {
	// Open returns a new Iterator that will observe the given context.
	// The caller owns the returned Iterator and must call
	// [Iterator.Close] once it is no longer needed.
	Open(ctx context.Context) (Iterator[T], error)
}

// An Iterator is a pull-based cursor over a [Sequence].
//
// An Iterator is owned by a single consumer and its methods must not
// be called concurrently.
type Iterator[T any] interface {
	// Close releases any resources held by the Iterator. It is safe to
	// call Close more than once, or without having called Next.
	Close() error

	// Next advances the Iterator, possibly blocking. It returns true if
	// a new element is available via Value, false if the sequence is
	// exhausted, or an error that terminates the sequence. Errors
	// caused by context cancellation satisfy [errors.Is] with
	// [context.Canceled] or [context.DeadlineExceeded].
	Next() (bool, error)

	// Value returns the element produced by the most recent successful
	// call to Next. Its result is undefined before the first call to
	// Next, after Next has returned false or an error, or after Close.
	Value() T
}

// OpenFunc adapts a function to the [Sequence] interface. Unlike
// [Create], an OpenFunc does not check the context before it is
// invoked. An OpenFunc value should never be nil.
type OpenFunc[T any] func(ctx context.Context) (Iterator[T], error)

var _ Sequence[any] = OpenFunc[any](nil)

// Open implements [Sequence].
func (fn OpenFunc[T]) Open(ctx context.Context) (Iterator[T], error) {
	return fn(ctx)
}
