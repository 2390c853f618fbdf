package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"review_analyzer/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()
	observability.RegisterStoreSize(reg, func() int { return 42 })

	// record one sample so counters are non-zero
	observability.ObserveHTTP("/", "GET", 200, 12*time.Millisecond)

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "reviews_http_requests_total") {
		t.Fatalf("expected reviews_http_requests_total in output")
	}
	if !strings.Contains(out, "reviews_store_size 42") {
		t.Fatalf("expected reviews_store_size 42 in output:\n%s", out)
	}
}

func TestObserveCountersByOutcome(t *testing.T) {
	before := testutil.ToFloat64(observability.EventsPublished.WithLabelValues("t-obs", "error"))
	observability.ObservePublish("t-obs", errors.New("broker down"))
	observability.ObservePublish("t-obs", nil)
	if got := testutil.ToFloat64(observability.EventsPublished.WithLabelValues("t-obs", "error")); got != before+1 {
		t.Fatalf("error outcome: got %v want %v", got, before+1)
	}

	created := testutil.ToFloat64(observability.ReviewsCreated.WithLabelValues("Tucson, Arizona"))
	observability.ObserveReviewCreated("Tucson, Arizona")
	if got := testutil.ToFloat64(observability.ReviewsCreated.WithLabelValues("Tucson, Arizona")); got != created+1 {
		t.Fatalf("created: got %v want %v", got, created+1)
	}
}

func TestMetricsServerServesRegistry(t *testing.T) {
	reg := observability.InitRegistry()
	srv := observability.NewMetricsServer(":0", reg)

	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
}
