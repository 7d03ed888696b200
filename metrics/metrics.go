// Package metrics defines the Prometheus metrics exported by the bookshelf server.
package metrics

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bookshelf"

// Metrics holds the server's collectors.
type Metrics struct {
	HTTPRequests  *prometheus.CounterVec
	HTTPDuration  *prometheus.HistogramVec
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	FieldErrors   *prometheus.CounterVec
	Panics        prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"path", "code"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "queries_total",
				Help:      "Total number of executed GraphQL operations",
			},
			[]string{"operation", "status"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "query_duration_seconds",
				Help:      "GraphQL operation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		FieldErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "field_errors_total",
				Help:      "Total number of resolver errors by field",
			},
			[]string{"type", "field"},
		),
		Panics: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "graphql",
				Name:      "panics_total",
				Help:      "Total number of resolver panics recovered",
			},
		),
	}
}

// Counter reports dataset sizes for the gauges.
type Counter interface {
	Counts() (authors, books int)
}

// Register registers all collectors on reg, plus dataset size gauges backed by c.
func (m *Metrics) Register(reg prometheus.Registerer, c Counter) error {
	collectors := []prometheus.Collector{
		m.HTTPRequests,
		m.HTTPDuration,
		m.Queries,
		m.QueryDuration,
		m.FieldErrors,
		m.Panics,
	}
	if c != nil {
		collectors = append(collectors,
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Namespace: namespace,
					Subsystem: "dataset",
					Name:      "authors",
					Help:      "Number of stored authors",
				},
				func() float64 {
					authors, _ := c.Counts()
					return float64(authors)
				},
			),
			prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Namespace: namespace,
					Subsystem: "dataset",
					Name:      "books",
					Help:      "Number of stored books",
				},
				func() float64 {
					_, books := c.Counts()
					return float64(books)
				},
			),
		)
	}
	for _, col := range collectors {
		if err := reg.Register(col); err != nil {
			return errors.Wrap(err, "metrics: register")
		}
	}
	return nil
}
