// Copyright 2026 Bob Vawter (bob@vawter.org)
// SPDX-License-Identifier: Apache-2.0

package observe

import (
	"errors"
	"reflect"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const promNamespace = "asyncseq"

// Outcome label values.
const (
	outcomeAbandoned = "abandoned" // Closed before the sequence ended.
	outcomeCanceled  = "canceled"
	outcomeError     = "error"
	outcomeExhausted = "exhausted"
	outcomeOK        = "ok"
)

var durationBuckets = []float64{0.001, 0.002, 0.005, 0.01, 0.02, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10, 20, 60, 120, 600} // 17 items

type metrics struct {
	elements     *prometheus.CounterVec
	iterations   *prometheus.CounterVec
	lifetime     *prometheus.HistogramVec
	opens        *prometheus.CounterVec
	openIterator *prometheus.GaugeVec
}

var (
	metricsMu    sync.Mutex
	metricsByReg = make(map[prometheus.Registerer]*metrics)
)

// metricsFor returns the collectors registered with reg, creating and
// registering them on first use. Registerers that cannot be used as a
// map key are not cached; the collectors they already hold are reused
// by [register].
func metricsFor(reg prometheus.Registerer) *metrics {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	cacheable := reflect.ValueOf(reg).Comparable()
	if cacheable {
		if found, ok := metricsByReg[reg]; ok {
			return found
		}
	}

	m := &metrics{
		elements: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: promNamespace,
			Name:      "elements_total",
			Help:      "The number of elements yielded by iterators.",
		}, []string{"name"})),
		iterations: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: promNamespace,
			Name:      "iterations_total",
			Help:      "The number of closed iterators, by how iteration ended.",
		}, []string{"name", "outcome"})),
		lifetime: register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: promNamespace,
			Name:      "iterator_lifetime_seconds",
			Help:      "The time between opening and closing an iterator.",
			Buckets:   durationBuckets,
		}, []string{"name"})),
		opens: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: promNamespace,
			Name:      "opens_total",
			Help:      "The number of attempts to open an iterator, by outcome.",
		}, []string{"name", "outcome"})),
		openIterator: register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: promNamespace,
			Name:      "open_iterators",
			Help:      "The number of iterators that have been opened but not closed.",
		}, []string{"name"})),
	}
	if cacheable {
		metricsByReg[reg] = m
	}
	return m
}

// register reuses a previously-registered collector with the same
// descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
