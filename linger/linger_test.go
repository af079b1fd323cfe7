// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package linger

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"vawter.tech/asyncseq"
)

const sampleDepth = 8

func TestTrack(t *testing.T) {
	r := require.New(t)

	rec := NewRecorder(sampleDepth)
	seq := Track(rec, asyncseq.Values(1, 2, 3))
	r.Zero(rec.Len())

	it, err := seq.Open(t.Context())
	r.NoError(err)
	r.Equal(1, rec.Len())
	checkRecorder(r, rec, "linger.TestTrack")

	ok, err := it.Next()
	r.NoError(err)
	r.True(ok)
	r.Equal(1, it.Value())

	r.NoError(it.Close())
	r.Zero(rec.Len())
	r.NoError(it.Close())
	r.Zero(rec.Len())

	CheckClean(t, rec)
}

func TestTrackThroughScope(t *testing.T) {
	r := require.New(t)

	rec := NewRecorder(sampleDepth)
	stored, cancel := context.WithCancel(t.Context())
	defer cancel()
	seq := asyncseq.WithCancellation(stored, Track(rec, asyncseq.Values("a")))

	got, err := asyncseq.Collect(t.Context(), seq)
	r.NoError(err)
	r.Equal([]string{"a"}, got)
	CheckClean(t, rec)

	it, err := seq.Open(t.Context())
	r.NoError(err)
	r.Equal(1, rec.Len())
	checkRecorder(r, rec, "linger.TestTrackThroughScope")
	r.NoError(it.Close())
	CheckClean(t, rec)
}

func TestTrackOpenError(t *testing.T) {
	r := require.New(t)

	errBoom := errors.New("boom")
	rec := NewRecorder(sampleDepth)
	seq := Track[int](rec, asyncseq.OpenFunc[int](func(context.Context) (asyncseq.Iterator[int], error) {
		return nil, errBoom
	}))

	_, err := seq.Open(t.Context())
	r.ErrorIs(err, errBoom)
	r.Zero(rec.Len())
}

func TestTrackDetectsLeak(t *testing.T) {
	r := require.New(t)

	rec := NewRecorder(sampleDepth)
	seq := Track(rec, asyncseq.Values(1))
	it, err := seq.Open(t.Context())
	r.NoError(err)

	fake := &fakeTB{t: t}
	CheckClean(fake, rec)
	r.True(fake.failed)
	r.Equal("1 unclosed iterator detected", fake.msgs[0])
	r.Equal("  1 iterator opened at:", fake.msgs[1])

	r.NoError(it.Close())
	CheckClean(t, rec)
}

func TestTrackInvalid(t *testing.T) {
	r := require.New(t)
	r.Panics(func() { Track[int](nil, asyncseq.Values(1)) })
	r.Panics(func() { Track[int](NewRecorder(1), nil) })
}

func checkRecorder(r *require.Assertions, rec *Recorder, where string) {
	sample := rec.Callers()
	r.Len(sample, 1)
	frames := runtime.CallersFrames(sample[0])
	for {
		frame, more := frames.Next()
		if strings.HasSuffix(frame.Function, where) {
			return
		}
		if !more {
			r.Failf("did not find expected frame", "%s: check callersOffset constant", where)
			return
		}
	}
}
