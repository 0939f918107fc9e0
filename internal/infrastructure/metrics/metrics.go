// Package metrics exposes Prometheus instrumentation for the ticket
// lifecycle, email delivery, uploads, certificate rendering and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	nvo "github.com/bagcheck-inc/bagcheck/internal/domain/notification/valueobjects"
	vo "github.com/bagcheck-inc/bagcheck/internal/domain/ticket/valueobjects"
)

const namespace = "bagcheck"

// Metrics holds every collector. Use New with a dedicated registry in tests.
type Metrics struct {
	gatherer prometheus.Gatherer

	Transitions        *prometheus.CounterVec
	Deliveries         *prometheus.CounterVec
	Uploads            *prometheus.CounterVec
	UploadBytes        prometheus.Counter
	CertificateRenders *prometheus.CounterVec
	RenderDuration     prometheus.Histogram
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New registers all collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,

		Transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ticket_transitions_total",
				Help:      "Ticket status transitions",
			},
			[]string{"from", "to"},
		),
		Deliveries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notification_deliveries_total",
				Help:      "Email delivery attempts by kind and outcome",
			},
			[]string{"kind", "result"},
		),
		Uploads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "image_uploads_total",
				Help:      "Image uploads to object storage",
			},
			[]string{"result"},
		),
		UploadBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "image_upload_bytes_total",
				Help:      "Bytes uploaded to object storage",
			},
		),
		CertificateRenders: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "certificate_renders_total",
				Help:      "Certificate documents rendered",
			},
			[]string{"result"},
		),
		RenderDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "certificate_render_duration_seconds",
				Help:      "Time spent rendering a certificate document",
				Buckets:   prometheus.DefBuckets,
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by route and status code",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// NewDefault registers on a fresh registry that also carries the Go and
// process collectors.
func NewDefault() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return New(reg)
}

func (m *Metrics) ObserveTransition(from, to vo.TicketStatus) {
	m.Transitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (m *Metrics) ObserveDelivery(kind nvo.NotificationKind, ok bool) {
	m.Deliveries.WithLabelValues(kind.String(), result(ok)).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
