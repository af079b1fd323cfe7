// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package asyncseq

import "context"

// A Scope attaches a stored context to a borrowed [Sequence]. Copying a
// Scope is cheap and does not copy the underlying Sequence. The zero
// value has no source and fails to open.
type Scope[T any] struct {
	ctx    context.Context
	source Sequence[T]
}

var _ Sequence[any] = Scope[any]{}

// WithCancellation returns a [Scope] that opens the source with
// respect to both the given context and the context passed to
// [Scope.Open]. The source is neither opened nor inspected until then.
//
// WithCancellation will panic with an [ErrInvalidArgument] error if the
// source is nil.
func WithCancellation[T any](ctx context.Context, source Sequence[T]) Scope[T] {
	if source == nil {
		panic(InvalidArgument("source", "must not be nil"))
	}
	return Scope[T]{ctx: ctx, source: source}
}

// Open implements [Sequence]. See [Scope.OpenForwarder].
func (s Scope[T]) Open(ctx context.Context) (Iterator[T], error) {
	f, err := s.OpenForwarder(ctx)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// OpenForwarder opens the source sequence and returns the [Forwarder]
// by value, for use by decorators that want to avoid an interface
// conversion.
//
// The source is opened with an effective context chosen as follows:
//   - If ctx is a default context (see [IsDefault]), the stored
//     context is used.
//   - Otherwise, if the stored context is a default context, ctx is
//     used.
//   - Otherwise, a context created by [Link] is used, which is
//     canceled when either context is canceled. It is released when
//     the Forwarder is closed or if the source fails to open.
//
// Errors from the source are returned unchanged. A Scope that was not
// created by [WithCancellation] returns an [ErrInvalidArgument] error.
func (s Scope[T]) OpenForwarder(ctx context.Context) (Forwarder[T], error) {
	if s.source == nil {
		return Forwarder[T]{}, InvalidArgument("source", "must not be nil")
	}
	effective, release := resolve(s.ctx, ctx)

	inner, err := s.source.Open(effective)
	if err != nil {
		if release != nil {
			release()
		}
		return Forwarder[T]{}, err
	}
	return Forwarder[T]{
		ctx:     effective,
		inner:   inner,
		release: release,
	}, nil
}

// Source returns the borrowed sequence.
func (s Scope[T]) Source() Sequence[T] { return s.source }

// resolve chooses the effective context from the stored and caller
// contexts. The release function is nil unless a link was created.
func resolve(stored, caller context.Context) (context.Context, context.CancelFunc) {
	switch {
	case IsDefault(caller):
		if stored == nil {
			return context.Background(), nil
		}
		return stored, nil
	case IsDefault(stored):
		return caller, nil
	default:
		return Link(stored, caller)
	}
}
