package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hotel_insight/internal/adapters/observability"
)

func scrape(t *testing.T) string {
	t.Helper()
	reg := observability.InitRegistry()
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.Pipeline{}.ObserveBuild(42, 3*time.Millisecond)
	observability.Pipeline{}.ObserveParseFailures("nights", 2)
	observability.ObserveImport("reviews", 10, nil)
	observability.ObserveImport("reviews", 0, io.ErrUnexpectedEOF)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	return string(body)
}

func TestMetricsRegistryAndHandler(t *testing.T) {
	out := scrape(t)
	for _, name := range []string{
		"insight_http_requests_total",
		"insight_pipeline_builds_total",
		"insight_pipeline_build_duration_seconds",
		`insight_parse_failures_total{field="nights"}`,
		`insight_imported_rows_total{error="none",table="reviews"} 10`,
		`insight_imported_rows_total{error="*errors.errorString",table="reviews"}`,
	} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output", name)
		}
	}
}

func TestLabelErr(t *testing.T) {
	if got := observability.LabelErr(nil); got != "none" {
		t.Fatalf("LabelErr(nil) = %q", got)
	}
	if got := observability.LabelErr(io.EOF); got != "*errors.errorString" {
		t.Fatalf("LabelErr(io.EOF) = %q", got)
	}
}

func TestMetricsServerExposesRegistry(t *testing.T) {
	reg := observability.InitRegistry()
	observability.Pipeline{}.ObserveBuild(7, time.Millisecond)

	srv := observability.NewMetricsServer("127.0.0.1:0", reg)
	ts := httptest.NewServer(srv.Handler)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "insight_pipeline_builds_total") {
		t.Fatalf("expected insight_pipeline_builds_total in output")
	}
}

func TestServeDisabledWithoutAddr(t *testing.T) {
	if srv := observability.Serve("", observability.InitRegistry()); srv != nil {
		t.Fatalf("expected no server for empty addr")
	}
}
