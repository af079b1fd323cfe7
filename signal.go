// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package asyncseq

import (
	"context"
	"errors"
	"fmt"
)

// IsDefault reports whether the context can never be canceled. A nil
// context, [context.Background], and any context derived from them only
// via [context.WithValue] are default contexts.
func IsDefault(ctx context.Context) bool {
	return ctx == nil || ctx.Done() == nil
}

// CheckCanceled returns a non-nil error if the context has been
// canceled. The error will satisfy [errors.Is] for [context.Canceled]
// or [context.DeadlineExceeded] and also for the [context.Cause], if
// one was provided.
func CheckCanceled(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, err) {
		return fmt.Errorf("%w: %w", err, cause)
	}
	return err
}

// Link returns a context derived from caller that is also canceled
// once stored is canceled. The returned context carries the values of
// both arguments, preferring caller, and reports the earlier of the two
// deadlines. Once that deadline passes, its Err method returns
// [context.DeadlineExceeded], regardless of which argument it came from.
//
// The returned CancelFunc releases the link and must be called by the
// creator once the context is no longer needed. It is safe to call more
// than once.
func Link(stored, caller context.Context) (context.Context, context.CancelFunc) {
	base, stopDeadline := caller, context.CancelFunc(func() {})
	deadline, hasDeadline := stored.Deadline()
	if hasDeadline {
		// A no-op wrapper if the caller already expires sooner.
		base, stopDeadline = context.WithDeadline(caller, deadline)
	}
	ctx, cancel := context.WithCancelCause(base)

	propagate := func() {
		// Expiry of the stored deadline is delivered by base, which
		// reports it as DeadlineExceeded rather than Canceled.
		if hasDeadline && errors.Is(stored.Err(), context.DeadlineExceeded) {
			return
		}
		cancel(context.Cause(stored))
	}

	// AfterFunc runs its callback in a new goroutine, so an
	// already-canceled source must be observed synchronously.
	if stored.Err() != nil {
		propagate()
	}
	stop := context.AfterFunc(stored, propagate)

	ret := &linked{Context: ctx, stored: stored}
	return ret, func() {
		stop()
		cancel(context.Canceled)
		stopDeadline()
	}
}

// linked overlays the Value behavior of a second context.
type linked struct {
	context.Context // Canceled when either source is canceled.
	stored          context.Context
}

var _ context.Context = (*linked)(nil)

func (c *linked) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}
	return c.stored.Value(key)
}

// String is for debugging use only.
func (c *linked) String() string {
	return fmt.Sprintf("asyncseq.Link(%v, %v)", c.stored, c.Context)
}
