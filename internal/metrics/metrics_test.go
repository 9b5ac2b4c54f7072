package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveAttempt(t *testing.T) {
	r := New()
	r.ObserveAttempt("allorigins", errors.New("blocked"))
	r.ObserveAttempt("direct", nil)
	r.ObserveAttempt("direct", nil)

	if got := testutil.ToFloat64(r.strategyAttempts.WithLabelValues("allorigins", "failure")); got != 1 {
		t.Errorf("allorigins failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.strategyAttempts.WithLabelValues("direct", "success")); got != 2 {
		t.Errorf("direct successes = %v, want 2", got)
	}
}

func TestObserveRefresh(t *testing.T) {
	r := New()
	r.ObserveRefresh(true, 237, 2*time.Second)
	r.ObserveRefresh(false, 0, time.Second)

	if got := testutil.ToFloat64(r.snapshotJobs); got != 237 {
		t.Errorf("snapshot jobs = %v, want 237 (failure must not reset it)", got)
	}
	if got := testutil.ToFloat64(r.refreshes.WithLabelValues("failure")); got != 1 {
		t.Errorf("failed refreshes = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.snapshotTime); got <= 0 {
		t.Errorf("snapshot timestamp = %v, want > 0", got)
	}
}

func TestHandler_ServesRegistry(t *testing.T) {
	r := New()
	r.ObserveHTTPRequest("GET", "/v1/jobs", 200, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`vagas_http_requests_total{code="200",method="GET",route="/v1/jobs"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNew_IndependentRegistries(t *testing.T) {
	a, b := New(), New()
	a.ObserveAttempt("direct", nil)
	if got := testutil.ToFloat64(b.strategyAttempts.WithLabelValues("direct", "success")); got != 0 {
		t.Errorf("second recorder saw %v attempts, want 0", got)
	}
}
