package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrument_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Instrument)
	r.Get("/varieties/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// Two distinct ids must land in one series keyed by the route pattern.
	for _, id := range []string{"64b000000000000000000001", "64b000000000000000000002"} {
		req := httptest.NewRequest("GET", "/varieties/"+id, nil)
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	c, err := httpRequestsTotal.GetMetricWithLabelValues("GET", "/varieties/{id}", "200")
	if err != nil {
		t.Fatalf("GetMetricWithLabelValues: %v", err)
	}
	if got := testutil.ToFloat64(c); got != 2 {
		t.Errorf("expected 2 requests in the pattern series, got %v", got)
	}
}

func TestRoutePattern_OutsideRouter(t *testing.T) {
	req := httptest.NewRequest("GET", "/anything", nil)
	if got := routePattern(req); got != "unmatched" {
		t.Errorf("routePattern: got %q", got)
	}
}
