// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package asyncseq

import (
	"context"
	"iter"
	"slices"
)

// FromSeq adapts a standard-library iterator into a [Sequence]. Each
// opened [Iterator] pulls from its own instance of the items sequence
// and checks its context before every element, so a canceled context
// terminates iteration with a cancellation error.
func FromSeq[T any](items iter.Seq[T]) Sequence[T] {
	return Create(func(ctx context.Context) (Iterator[T], error) {
		next, stop := iter.Pull(items)
		return &pulled[T]{ctx: ctx, next: next, stop: stop}, nil
	})
}

// Values returns a repeatable [Sequence] over the arguments.
func Values[T any](items ...T) Sequence[T] {
	return FromSeq(slices.Values(items))
}

// pulled is the Iterator returned by FromSeq.
type pulled[T any] struct {
	ctx     context.Context
	current T
	next    func() (T, bool)
	stop    func()
}

var _ Iterator[any] = (*pulled[any])(nil)

func (p *pulled[T]) Close() error {
	// Stop is idempotent.
	p.stop()
	return nil
}

func (p *pulled[T]) Next() (bool, error) {
	if err := CheckCanceled(p.ctx); err != nil {
		return false, err
	}
	v, ok := p.next()
	p.current = v
	return ok, nil
}

func (p *pulled[T]) Value() T { return p.current }
