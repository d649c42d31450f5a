package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	testCases := []struct {
		name       string
		method     string
		path       string
		label      string
		statusCode int
	}{
		{
			name:       "uses route pattern for asset path",
			method:     http.MethodGet,
			path:       "/api/v1/assets/01HZX4ABC",
			label:      "/api/v1/assets/{id}",
			statusCode: http.StatusTeapot,
		},
		{
			name:       "static path",
			method:     http.MethodPost,
			path:       "/api/v1/yields/calculate",
			label:      "/api/v1/yields/calculate",
			statusCode: http.StatusCreated,
		},
		{
			name:       "unmatched path",
			method:     http.MethodGet,
			path:       "/nope",
			label:      "unmatched",
			statusCode: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			httpRequestsTotal.Reset()
			httpRequestDuration.Reset()
			httpRequestsInFlight.Set(0)

			handlerCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
				w.WriteHeader(tc.statusCode)
			})

			r := chi.NewRouter()
			r.Use(Metrics)
			r.Get("/api/v1/assets/{id}", next)
			r.Post("/api/v1/yields/calculate", next)
			r.NotFound(next)

			req := httptest.NewRequest(tc.method, tc.path, nil)
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			if !handlerCalled {
				t.Fatalf("next handler was not invoked")
			}

			if got := testutil.ToFloat64(httpRequestsInFlight); got != 0 {
				t.Fatalf("expected in-flight gauge to return to 0, got %v", got)
			}

			counter := httpRequestsTotal.WithLabelValues(tc.method, tc.label, strconv.Itoa(tc.statusCode))
			if got := testutil.ToFloat64(counter); got != 1 {
				t.Fatalf("expected counter to be 1, got %v", got)
			}
		})
	}
}

func TestRoutePatternWithoutRouter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	if got := routePattern(req); got != "/health" {
		t.Fatalf("routePattern() = %q, expected /health", got)
	}
}
