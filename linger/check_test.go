// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package linger

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckEmpty(t *testing.T) {
	rec := NewRecorder(1)
	CheckClean(t, rec)
}

//line totally_fake.go:1232
func TestLingering(t *testing.T) {
	here := make([]uintptr, 1)
	runtime.Callers(1, here)

	r := require.New(t)

	rec := NewRecorder(1)
	rec.data.Store(1, here)

	fake := &fakeTB{t: t}
	CheckClean(fake, rec)

	r.True(fake.failed)
	r.Equal([]string{
		"1 unclosed iterator detected",
		"  1 iterator opened at:",
		"    vawter.tech/asyncseq/linger.TestLingering ( totally_fake.go:1234 )",
	}, fake.msgs)
}

type fakeTB struct {
	failed bool
	msgs   []string
	t      *testing.T
}

func (f *fakeTB) Helper() {}
func (f *fakeTB) Errorf(s string, a ...any) {
	f.failed = true
	f.msgs = append(f.msgs, fmt.Sprintf(s, a...))
	f.t.Logf(s, a...)
}

func TestLingeringGroupsSites(t *testing.T) {
	r := require.New(t)

	here := make([]uintptr, 1)
	runtime.Callers(1, here)
	there := make([]uintptr, 2)
	runtime.Callers(1, there)

	rec := NewRecorder(2)
	rec.data.Store(1, here)
	rec.data.Store(2, there)
	rec.data.Store(3, append([]uintptr(nil), here...))

	fake := &fakeTB{t: t}
	CheckClean(fake, rec)

	r.True(fake.failed)
	r.Len(fake.msgs, 6)
	r.Equal("3 unclosed iterators detected", fake.msgs[0])
	r.Equal("  2 iterators opened at:", fake.msgs[1])
	r.Contains(fake.msgs[2], "linger.TestLingeringGroupsSites")
	r.Equal("  1 iterator opened at:", fake.msgs[3])
}
