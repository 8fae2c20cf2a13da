package observability

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insight", Name: "http_requests_total", Help: "HTTP requests."},
		[]string{"route", "method", "status"},
	)
	HTTPLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "insight", Name: "http_request_duration_seconds",
			Help:    "HTTP request duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)
	PipelineBuilds = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "insight", Name: "pipeline_builds_total", Help: "Insight bundles built."},
	)
	PipelineLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "insight", Name: "pipeline_build_duration_seconds",
			Help:    "Insight bundle build duration seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)
	PipelineRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "insight", Name: "pipeline_rows",
			Help:    "Reviews per selected hotel.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
	ParseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insight", Name: "parse_failures_total", Help: "Stay details fields that did not parse."},
		[]string{"field"}, // field: nights|month_year
	)
	ImportedRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "insight", Name: "imported_rows_total", Help: "Rows written by the importer."},
		[]string{"table", "error"}, // error: none or the error type
	)
)

// NewMetricsServer exposes reg on /metrics.
func NewMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", MetricsHandler(reg))
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Serve starts the metrics server in the background. An empty addr
// disables it and returns nil.
func Serve(addr string, reg *prometheus.Registry) *http.Server {
	if addr == "" {
		return nil // disabled
	}
	srv := NewMetricsServer(addr, reg)
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return srv
}

func InitRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(HTTPRequests, HTTPLatency, PipelineBuilds, PipelineLatency, PipelineRows, ParseFailures, ImportedRows)
	return reg
}

func MetricsHandler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

func ObserveHTTP(route, method string, status int, dur time.Duration) {
	HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	HTTPLatency.WithLabelValues(route, method).Observe(dur.Seconds())
}

func ObserveImport(table string, n int, err error) {
	ImportedRows.WithLabelValues(table, LabelErr(err)).Add(float64(n))
}

// Pipeline satisfies app.PipelineRecorder.
type Pipeline struct{}

func (Pipeline) ObserveBuild(rows int, d time.Duration) {
	PipelineBuilds.Inc()
	PipelineLatency.Observe(d.Seconds())
	PipelineRows.Observe(float64(rows))
}

func (Pipeline) ObserveParseFailures(field string, n int) {
	if n > 0 {
		ParseFailures.WithLabelValues(field).Add(float64(n))
	}
}

func LabelErr(err error) string {
	if err == nil {
		return "none"
	}
	return fmt.Sprintf("%T", err)
}
