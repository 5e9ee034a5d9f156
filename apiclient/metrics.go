// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package apiclient

import (
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values
const (
	OutcomeSuccess      = "success"
	OutcomeAPIError     = "api_error"
	OutcomeNetworkError = "network_error"
	OutcomeClientError  = "client_error"
)

type metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	registerOnce sync.Once
}

// newMetrics returns request metrics. With a nil registry nothing is
// collected.
func newMetrics(registry prometheus.Registerer) *metrics {
	m := &metrics{}
	m.register(registry)
	return m
}

func (m *metrics) register(registry prometheus.Registerer) {
	if registry == nil {
		return
	}
	m.registerOnce.Do(func() {
		factory := promauto.With(registry)

		m.requests = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "eballot_api_requests_total",
			Help: "Total number of voting API requests by operation and outcome",
		}, []string{"op", "outcome"})

		m.duration = factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "eballot_api_request_duration_seconds",
			Help:    "Voting API request latency by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"op"})
	})
}

func (m *metrics) observe(op string, err error, elapsed time.Duration) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(op, outcome(err)).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func outcome(err error) string {
	var apiErr *APIError
	var netErr *NetworkError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.As(err, &apiErr):
		return OutcomeAPIError
	case errors.As(err, &netErr):
		return OutcomeNetworkError
	default:
		return OutcomeClientError
	}
}
