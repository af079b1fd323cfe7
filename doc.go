// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package asyncseq defines a minimal protocol for lazily-produced
// sequences whose elements may require blocking work to retrieve, and
// a decorator for scoping cancellation over them.
//
// A [Sequence] opens any number of independent [Iterator] instances,
// each bound to a [context.Context]. An Iterator is a pull-based cursor
// owned by a single consumer:
//
//	it, err := seq.Open(ctx)
//	if err != nil { return err }
//	defer it.Close()
//	for {
//	    ok, err := it.Next()
//	    if err != nil { return err }
//	    if !ok { break }
//	    use(it.Value())
//	}
//
// The [All], [Collect], and [ForEach] helpers take care of the loop and
// the call to [Iterator.Close].
//
// # Creating sequences
//
// [Create] adapts a function into a Sequence. The context is checked
// before the function is invoked, so iteration over an
// already-canceled context never begins. [FromSeq] and [Values] adapt
// standard-library iterators and fixed values.
//
// # Scoping cancellation
//
// [WithCancellation] attaches a stored context to an existing Sequence
// without opening it. When a [Scope] is opened, the stored context and
// the context passed to [Scope.Open] are resolved into a single
// effective context:
//
//   - If the caller's context can never be canceled (see
//     [IsDefault]), the stored context is used.
//   - Otherwise, if the stored context can never be canceled, the
//     caller's context is used.
//   - Otherwise, both are honored by a linked context (see [Link]) that
//     is canceled as soon as either is. The link is released when the
//     Iterator is closed.
//
// Only the last case allocates. A Scope is a small value type, and
// [Scope.OpenForwarder] returns its [Forwarder] by value so that other
// decorators may compose without an additional interface conversion.
//
// # Cancellation
//
// Cancellation is cooperative. Opening an Iterator is a checkpoint for
// sequences built with [Create], and each call to [Iterator.Next] is a
// checkpoint for sequences that honor their context. Cancellation
// errors satisfy [errors.Is] with [context.Canceled] or
// [context.DeadlineExceeded]; see [CheckCanceled]. All other errors
// from a wrapped sequence are returned unchanged.
//
// # Decorators
//
// The [limit] sub-package throttles iteration and bounds the number of
// open iterators. The [observe] sub-package records Prometheus metrics
// and structured logs. The [linger] sub-package helps tests detect
// iterators that were never closed.
package asyncseq
