// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package asyncseq

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stretchr/testify/require"
)

// probe is a Sequence that records the contexts it was opened with.
type probe[T any] struct {
	items   []T
	openErr error

	mu struct {
		sync.Mutex
		ctxs  []context.Context
		iters []*probeIter[T]
	}
}

var _ Sequence[any] = (*probe[any])(nil)

func newProbe[T any](items ...T) *probe[T] {
	return &probe[T]{items: items}
}

func (p *probe[T]) Open(ctx context.Context) (Iterator[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mu.ctxs = append(p.mu.ctxs, ctx)
	if p.openErr != nil {
		return nil, p.openErr
	}
	it := &probeIter[T]{ctx: ctx, items: p.items, idx: -1}
	p.mu.iters = append(p.mu.iters, it)
	return it, nil
}

// Contexts returns the contexts passed to Open.
func (p *probe[T]) Contexts() []context.Context {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]context.Context(nil), p.mu.ctxs...)
}

// Iters returns the iterators that have been opened.
func (p *probe[T]) Iters() []*probeIter[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*probeIter[T](nil), p.mu.iters...)
}

// probeIter honors its context on every call to Next.
type probeIter[T any] struct {
	ctx    context.Context
	closes int
	idx    int
	items  []T
	nexts  int
}

var _ Iterator[any] = (*probeIter[any])(nil)

func (i *probeIter[T]) Close() error {
	i.closes++
	return nil
}

func (i *probeIter[T]) Next() (bool, error) {
	i.nexts++
	if err := CheckCanceled(i.ctx); err != nil {
		return false, err
	}
	if i.idx+1 >= len(i.items) {
		return false, nil
	}
	i.idx++
	return true, nil
}

func (i *probeIter[T]) Value() T { return i.items[i.idx] }

// requireInvalidArgument asserts that the function panics with an
// ErrInvalidArgument error.
func requireInvalidArgument(r *require.Assertions, fn func()) {
	var recovered any
	func() {
		defer func() { recovered = recover() }()
		fn()
	}()
	r.NotNil(recovered, "expected a panic")
	err, ok := recovered.(error)
	r.True(ok, "expected an error value, got %T", recovered)
	r.ErrorIs(err, ErrInvalidArgument)
}

// requireCanceledSoon waits for the context to be canceled.
func requireCanceledSoon(r *require.Assertions, ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-time.After(5 * time.Second):
		r.Fail("timed out waiting for cancellation")
	}
	r.Error(ctx.Err())
}

var errBoom = errors.New("boom")
