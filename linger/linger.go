// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package linger contains a utility for reporting on where unclosed
// iterators were originally opened.
package linger

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"vawter.tech/asyncseq"
)

// This value is sensitive to the code structure.
const callersOffset = 2

// NewRecorder constructs a [Recorder] that samples the call stack at the
// requested depth. The first frame is the call to
// [asyncseq.Sequence.Open]; decorators may add frames before the
// caller's code is reached.
func NewRecorder(depth int) *Recorder {
	return &Recorder{depth: depth}
}

// A Recorder can be attached to an [asyncseq.Sequence] with [Track] to
// record the call stack where each iterator is opened. It is primarily
// useful for testing scenarios, to ensure that every opened iterator
// is eventually closed.
type Recorder struct {
	counter atomic.Uintptr
	data    sync.Map
	depth   int
}

// Callers returns a snapshot of the caller stacks associated with any
// iterators that are currently open.
func (r *Recorder) Callers() [][]uintptr {
	var ret [][]uintptr
	r.data.Range(func(_, value any) bool {
		ret = append(ret, value.([]uintptr))
		return true
	})
	return ret
}

// Len returns the number of iterators that are currently open.
func (r *Recorder) Len() int {
	count := 0
	r.data.Range(func(_, _ any) bool {
		count++
		return true
	})
	return count
}

// Track returns a sequence that records every iterator opened from the
// source until it is closed. Iterators that fail to open are not
// recorded.
func Track[T any](r *Recorder, source asyncseq.Sequence[T]) asyncseq.Sequence[T] {
	if r == nil {
		panic(asyncseq.InvalidArgument("recorder", "must not be nil"))
	}
	if source == nil {
		panic(asyncseq.InvalidArgument("source", "must not be nil"))
	}
	return &tracked[T]{rec: r, source: source}
}

type tracked[T any] struct {
	rec    *Recorder
	source asyncseq.Sequence[T]
}

func (t *tracked[T]) Open(ctx context.Context) (asyncseq.Iterator[T], error) {
	pc := make([]uintptr, t.rec.depth)
	pc = pc[:runtime.Callers(callersOffset, pc)]

	it, err := t.source.Open(ctx)
	if err != nil {
		return nil, err
	}

	id := t.rec.counter.Add(1)
	t.rec.data.Store(id, pc)
	return &trackedIter[T]{
		Iterator: it,
		forget:   sync.OnceFunc(func() { t.rec.data.Delete(id) }),
	}, nil
}

type trackedIter[T any] struct {
	asyncseq.Iterator[T]
	forget func()
}

func (i *trackedIter[T]) Close() error {
	i.forget()
	return i.Iterator.Close()
}
