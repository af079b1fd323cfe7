// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package asyncseq

import "context"

// Create returns a [Sequence] that invokes the function each time an
// [Iterator] is opened. The returned Sequence checks the context before
// calling the function: if the context has already been canceled, the
// cancellation error is returned and the function is not invoked.
//
// Create will panic with an [ErrInvalidArgument] error if the function
// is nil.
func Create[T any](open OpenFunc[T]) Sequence[T] {
	if open == nil {
		panic(InvalidArgument("open", "must not be nil"))
	}
	return created[T](open)
}

// created performs an eager cancellation check before delegating.
type created[T any] OpenFunc[T]

func (fn created[T]) Open(ctx context.Context) (Iterator[T], error) {
	if err := CheckCanceled(ctx); err != nil {
		return nil, err
	}
	return fn(ctx)
}
