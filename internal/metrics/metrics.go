// Package metrics exposes Prometheus instrumentation for exporter calls and
// the HTTP API.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bpexport/internal/exporter"
)

// Metrics holds the collectors of one registry.
type Metrics struct {
	pages        *prometheus.CounterVec
	items        *prometheus.CounterVec
	pageDuration *prometheus.HistogramVec
	snapshots    *prometheus.CounterVec

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		pages: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpexport_pages_total",
				Help: "Exporter pages served by exporter and status",
			},
			[]string{"exporter", "status"},
		),
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpexport_items_total",
				Help: "Items produced by exporter",
			},
			[]string{"exporter"},
		),
		pageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bpexport_page_duration_seconds",
				Help:    "Time to produce one exporter page",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"exporter"},
		),
		snapshots: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpexport_snapshots_total",
				Help: "Snapshot store operations by operation and result",
			},
			[]string{"op", "result"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bpexport_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bpexport_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		registry: registry,
	}

	registry.MustRegister(
		m.pages,
		m.items,
		m.pageDuration,
		m.snapshots,
		m.httpRequestsTotal,
		m.httpRequestDuration,
		collectors.NewGoCollector(),
	)
	return m
}

// Exporter returns an exporter.Middleware recording every page.
func (m *Metrics) Exporter() exporter.Middleware {
	return func(key string, next exporter.Callback) exporter.Callback {
		return func(ctx context.Context, email string, page int) (exporter.Page, error) {
			start := time.Now()
			p, err := next(ctx, email, page)
			m.pageDuration.WithLabelValues(key).Observe(time.Since(start).Seconds())
			if err != nil {
				m.pages.WithLabelValues(key, "error").Inc()
				return p, err
			}
			status := "more"
			if p.Done {
				status = "done"
			}
			m.pages.WithLabelValues(key, status).Inc()
			m.items.WithLabelValues(key).Add(float64(len(p.Data)))
			return p, nil
		}
	}
}

// RecordSnapshot counts a snapshot operation ("save" or "load") and its
// result ("ok", "miss" or "error").
func (m *Metrics) RecordSnapshot(op, result string) {
	m.snapshots.WithLabelValues(op, result).Inc()
}

// Fiber records request count and latency per route pattern.
func (m *Metrics) Fiber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		route := c.Route().Path
		m.httpRequestsTotal.WithLabelValues(c.Method(), route, strconv.Itoa(status)).Inc()
		m.httpRequestDuration.WithLabelValues(c.Method(), route).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler returns the Prometheus scrape handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
