// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package limit provides [asyncseq.Sequence] decorators that impose
// execution limits on iteration.
//
// The decorators honor the context of each opened iterator, so they
// compose with [asyncseq.WithCancellation]: a blocked wait is
// interrupted as soon as the effective context is canceled.
package limit

import (
	"context"
	"runtime/trace"
	"sync"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
	"vawter.tech/asyncseq"
)

// WithMaxOpen limits the number of iterators from the source that may
// be open at once. Calls to [asyncseq.Sequence.Open] block until a slot
// is available or the context is canceled. The slot is returned when
// the iterator is closed.
func WithMaxOpen[T any](source asyncseq.Sequence[T], limit int64) asyncseq.Sequence[T] {
	if source == nil {
		panic(asyncseq.InvalidArgument("source", "must not be nil"))
	}
	if limit <= 0 {
		panic(asyncseq.InvalidArgument("limit", "must be greater than zero"))
	}
	sem := semaphore.NewWeighted(limit)

	return asyncseq.OpenFunc[T](func(ctx context.Context) (asyncseq.Iterator[T], error) {
		if err := acquire(ctx, sem); err != nil {
			return nil, err
		}
		release := sync.OnceFunc(func() { sem.Release(1) })

		it, err := source.Open(ctx)
		if err != nil {
			release()
			return nil, err
		}
		return &slotted[T]{Iterator: it, release: release}, nil
	})
}

func acquire(ctx context.Context, sem *semaphore.Weighted) error {
	// Fast-path: A slot is available.
	if sem.TryAcquire(1) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	defer trace.StartRegion(ctx, "open slot wait").End()

	if err := sem.Acquire(ctx, 1); err != nil {
		if cancelErr := asyncseq.CheckCanceled(ctx); cancelErr != nil {
			return cancelErr
		}
		return err
	}
	return nil
}

// slotted returns its semaphore slot exactly once.
type slotted[T any] struct {
	asyncseq.Iterator[T]
	release func()
}

func (s *slotted[T]) Close() error {
	err := s.Iterator.Close()
	s.release()
	return err
}

// WithMaxRate is a wrapper around a [rate.Limiter] that enforces a rate
// by blocking calls to [asyncseq.Iterator.Next]. The limiter is shared
// by all iterators opened from the returned sequence. A blocked call
// fails with the cancellation error if the iterator's context is
// canceled.
func WithMaxRate[T any](source asyncseq.Sequence[T], r float64, b int) asyncseq.Sequence[T] {
	if source == nil {
		panic(asyncseq.InvalidArgument("source", "must not be nil"))
	}
	if r <= 0 {
		panic(asyncseq.InvalidArgument("rate", "must be greater than zero"))
	}
	if b <= 0 {
		panic(asyncseq.InvalidArgument("burst", "must be greater than zero"))
	}
	l := rate.NewLimiter(rate.Limit(r), b)

	return asyncseq.OpenFunc[T](func(ctx context.Context) (asyncseq.Iterator[T], error) {
		it, err := source.Open(ctx)
		if err != nil {
			return nil, err
		}
		if ctx == nil {
			ctx = context.Background()
		}
		return &throttled[T]{Iterator: it, ctx: ctx, limiter: l}, nil
	})
}

type throttled[T any] struct {
	asyncseq.Iterator[T]
	ctx     context.Context
	limiter *rate.Limiter
}

func (t *throttled[T]) Next() (bool, error) {
	// Fast-path: there's capacity.
	if t.limiter.Allow() {
		return t.Iterator.Next()
	}

	if err := t.wait(); err != nil {
		return false, err
	}
	return t.Iterator.Next()
}

func (t *throttled[T]) wait() error {
	defer trace.StartRegion(t.ctx, "rate limit wait").End()

	if err := t.limiter.Wait(t.ctx); err != nil {
		// Prefer a cancellation error that carries the cause.
		if cancelErr := asyncseq.CheckCanceled(t.ctx); cancelErr != nil {
			return cancelErr
		}
		return err
	}
	return nil
}
