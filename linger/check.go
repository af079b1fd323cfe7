// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package linger

import (
	"cmp"
	"fmt"
	"runtime"
	"slices"
)

// CheckClean will record a test error if there are any open iterators
// being tracked by the Recorder. Iterators opened from the same call
// stack are reported together, most frequent first, so that a leak in a
// loop produces one entry in the test log.
func CheckClean(t TestingT, r *Recorder) {
	sites := openSites(r.Callers())
	if len(sites) == 0 {
		return
	}

	// Improve error messages if we're being called from a real test.
	if x, ok := t.(interface{ Helper() }); ok {
		x.Helper()
	}

	total := 0
	for _, s := range sites {
		total += s.count
	}
	t.Errorf("%d unclosed %s detected", total, plural(total))
	for _, s := range sites {
		t.Errorf("  %d %s opened at:", s.count, plural(s.count))
		frames := runtime.CallersFrames(s.stack)
		for {
			frame, more := frames.Next()
			t.Errorf("    %s ( %s:%d )", frame.Function, frame.File, frame.Line)
			if !more {
				break
			}
		}
	}
}

// TestingT is the subset of [testing.TB] needed by [CheckClean].
type TestingT interface {
	Errorf(string, ...any)
}

// A site is a distinct call stack that opened one or more iterators.
type site struct {
	count int
	key   string
	stack []uintptr
}

func openSites(callers [][]uintptr) []*site {
	byKey := make(map[string]*site, len(callers))
	var ret []*site
	for _, stack := range callers {
		key := fmt.Sprint(stack)
		if found, ok := byKey[key]; ok {
			found.count++
			continue
		}
		s := &site{count: 1, key: key, stack: stack}
		byKey[key] = s
		ret = append(ret, s)
	}
	slices.SortFunc(ret, func(a, b *site) int {
		if c := cmp.Compare(b.count, a.count); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})
	return ret
}

func plural(n int) string {
	if n == 1 {
		return "iterator"
	}
	return "iterators"
}
