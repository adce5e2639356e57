// Package metrics exposes the admin core's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/certificate"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/service/probe"
)

const namespace = "proxy_admin"

// Registry holds all metrics of the service.
type Registry struct {
	reg *prometheus.Registry

	// Certificates
	CertificateStates   *prometheus.GaugeVec
	CertificateDaysLeft *prometheus.GaugeVec

	// Live probe
	ProbeExpiry *prometheus.GaugeVec
	ProbeValid  *prometheus.GaugeVec

	// Background jobs
	TickerRuns *prometheus.CounterVec

	// API
	APIRequests *prometheus.CounterVec
	APILatency  *prometheus.HistogramVec
}

// New returns a Registry backed by its own prometheus registry, carrying
// the Go runtime and process collectors as well.
func New() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	r := &Registry{reg: reg}

	r.CertificateStates = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "certificates",
		Help:      "Number of certificates per lifecycle state",
	}, []string{"origin", "state"})

	r.CertificateDaysLeft = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "certificate_days_left",
		Help:      "Whole days until a certificate expires",
	}, []string{"id", "domain"})

	r.ProbeExpiry = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "probe_certificate_expiry_timestamp",
		Help:      "Unix timestamp of the expiry of the certificate served on an address",
	}, []string{"server_name", "ip"})

	r.ProbeValid = factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "probe_certificate_valid",
		Help:      "Whether the certificate served on an address is valid",
	}, []string{"server_name", "ip"})

	r.TickerRuns = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ticker_runs_total",
		Help:      "Background job runs",
	}, []string{"job", "status"})

	r.APIRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total API requests",
	}, []string{"method", "path", "status"})

	r.APILatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "API request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveCertificates replaces the certificate gauges with the given
// working set.
func (r *Registry) ObserveCertificates(views []certificate.View) {
	r.CertificateStates.Reset()
	r.CertificateDaysLeft.Reset()

	for _, origin := range []entities.Origin{entities.OriginUpload, entities.OriginCloud} {
		for _, state := range entities.States {
			r.CertificateStates.WithLabelValues(string(origin), string(state)).Set(0)
		}
	}

	for i := range views {
		v := &views[i]
		r.CertificateStates.WithLabelValues(string(v.Origin), string(v.State)).Inc()
		if v.DaysLeft != nil {
			r.CertificateDaysLeft.WithLabelValues(v.ID, v.Domain).Set(float64(*v.DaysLeft))
		}
	}
}

// ObserveProbe records one live probe result.
func (r *Registry) ObserveProbe(res probe.Result) {
	valid := 0.0
	if res.Valid {
		valid = 1
	}
	r.ProbeValid.WithLabelValues(res.ServerName, res.IP).Set(valid)
	if res.ExpiredAt != nil {
		r.ProbeExpiry.WithLabelValues(res.ServerName, res.IP).Set(float64(res.ExpiredAt.Unix()))
	}
}

// RecordTicker records a background job run.
func (r *Registry) RecordTicker(job string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.TickerRuns.WithLabelValues(job, status).Inc()
}

// RecordAPIRequest records an API request.
func (r *Registry) RecordAPIRequest(method, path string, status int, duration float64) {
	r.APIRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.APILatency.WithLabelValues(method, path).Observe(duration)
}

// Middleware records every request under its chi route pattern.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		path := "unmatched"
		if rctx := chi.RouteContext(req.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				path = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		r.RecordAPIRequest(req.Method, path, status, time.Since(start).Seconds())
	})
}
