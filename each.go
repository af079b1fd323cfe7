// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package asyncseq

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"vawter.tech/asyncseq/internal/safe"
)

// All opens the sequence and returns a single-use iterator over its
// elements, for use with a range statement. If the sequence fails to
// open or terminates with an error, a final pair containing the zero
// value and the error is yielded. The opened [Iterator] is always
// closed and any error from [Iterator.Close] is yielded as well.
func All[T any](ctx context.Context, seq Sequence[T]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it, err := seq.Open(ctx)
		if err != nil {
			yield(*new(T), err)
			return
		}

		more := true
		for more {
			var ok bool
			ok, err = it.Next()
			if err != nil || !ok {
				break
			}
			more = yield(it.Value(), nil)
		}

		// Closing after an early break must not call yield again.
		err = errors.Join(err, it.Close())
		if more && err != nil {
			yield(*new(T), err)
		}
	}
}

// Collect drains the sequence into a slice. Elements received before
// an error are returned alongside it.
func Collect[T any](ctx context.Context, seq Sequence[T]) ([]T, error) {
	var ret []T
	for v, err := range All(ctx, seq) {
		if err != nil {
			return ret, err
		}
		ret = append(ret, v)
	}
	return ret, nil
}

// ForEach opens the sequence and executes the callback for each
// element in order. The context passed to the callback is the
// effective context of the [Iterator] when it is known (e.g. from a
// [Scope]), otherwise it is the argument.
//
// Iteration stops at the first error returned by the callback, which
// is returned along with the element's index. If the callback panics,
// the panic is returned as a [RecoveredError].
func ForEach[T any](
	ctx context.Context,
	seq Sequence[T],
	fn func(ctx context.Context, idx int, item T) error,
) (err error) {
	it, err := seq.Open(ctx)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, it.Close()) }()

	if withCtx, ok := it.(interface{ Context() context.Context }); ok {
		ctx = withCtx.Context()
	}

	for idx := 0; ; idx++ {
		ok, err := it.Next()
		if err != nil {
			return err
		}
		if !ok {
			// Clean exit.
			return nil
		}
		item := it.Value()
		if err := safe.CallE(func() error {
			return fn(ctx, idx, item)
		}); err != nil {
			return fmt.Errorf("index %d: %w", idx, err)
		}
	}
}
