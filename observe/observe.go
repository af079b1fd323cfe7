// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

// Package observe provides an [asyncseq.Sequence] decorator that
// records Prometheus metrics and structured log records for every
// opened iterator.
//
// The decorator is transparent: values, errors, and the context passed
// to the source are unchanged.
package observe

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"vawter.tech/asyncseq"
)

// An Option configures [Wrap].
type Option func(cfg *config)

type config struct {
	logger *slog.Logger
	name   string
	reg    prometheus.Registerer
}

// WithLogger enables debug-level logging of iterator lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) { cfg.logger = logger }
}

// WithName sets the value of the "name" metric label and log attribute.
func WithName(name string) Option {
	return func(cfg *config) { cfg.name = name }
}

// WithRegisterer overrides [prometheus.DefaultRegisterer].
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(cfg *config) { cfg.reg = reg }
}

// Wrap returns a sequence that records metrics for each iterator opened
// from the source.
func Wrap[T any](source asyncseq.Sequence[T], opts ...Option) asyncseq.Sequence[T] {
	if source == nil {
		panic(asyncseq.InvalidArgument("source", "must not be nil"))
	}
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.reg == nil {
		cfg.reg = prometheus.DefaultRegisterer
	}

	return &observed[T]{
		cfg:     cfg,
		metrics: metricsFor(cfg.reg),
		source:  source,
	}
}

type observed[T any] struct {
	cfg     *config
	metrics *metrics
	source  asyncseq.Sequence[T]
}

func (o *observed[T]) Open(ctx context.Context) (asyncseq.Iterator[T], error) {
	it, err := o.source.Open(ctx)
	if err != nil {
		outcome := classify(err)
		o.metrics.opens.WithLabelValues(o.cfg.name, outcome).Inc()
		o.log(ctx, "open failed",
			slog.String("outcome", outcome), slog.Any("error", err))
		return nil, err
	}

	o.metrics.opens.WithLabelValues(o.cfg.name, outcomeOK).Inc()
	o.metrics.openIterator.WithLabelValues(o.cfg.name).Inc()
	o.log(ctx, "iterator opened")
	return &observedIter[T]{
		Iterator: it,
		ctx:      ctx,
		parent:   o,
		started:  time.Now(),
	}, nil
}

func (o *observed[T]) log(ctx context.Context, msg string, attrs ...slog.Attr) {
	if o.cfg.logger == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	attrs = append(attrs, slog.String("name", o.cfg.name))
	o.cfg.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// observedIter is owned by a single consumer, so it needs no locking.
type observedIter[T any] struct {
	asyncseq.Iterator[T]
	closed  bool
	count   int
	ctx     context.Context
	err     error
	outcome string // Empty until iteration ends.
	parent  *observed[T]
	started time.Time
}

func (i *observedIter[T]) Close() error {
	if !i.closed {
		i.closed = true
		outcome := i.outcome
		if outcome == "" {
			outcome = outcomeAbandoned
		}
		elapsed := time.Since(i.started)

		m := i.parent.metrics
		name := i.parent.cfg.name
		m.iterations.WithLabelValues(name, outcome).Inc()
		m.lifetime.WithLabelValues(name).Observe(elapsed.Seconds())
		m.openIterator.WithLabelValues(name).Dec()

		attrs := []slog.Attr{
			slog.String("outcome", outcome),
			slog.Int("elements", i.count),
			slog.Duration("duration", elapsed),
		}
		if i.err != nil {
			attrs = append(attrs, slog.Any("error", i.err))
		}
		i.parent.log(i.ctx, "iterator closed", attrs...)
	}
	return i.Iterator.Close()
}

func (i *observedIter[T]) Next() (bool, error) {
	ok, err := i.Iterator.Next()
	switch {
	case err != nil:
		i.err = err
		i.outcome = classify(err)
	case !ok:
		i.outcome = outcomeExhausted
	default:
		i.count++
		i.parent.metrics.elements.WithLabelValues(i.parent.cfg.name).Inc()
	}
	return ok, err
}

func classify(err error) string {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return outcomeCanceled
	}
	return outcomeError
}
