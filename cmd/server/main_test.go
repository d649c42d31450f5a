package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/wealthledger/internal/adapter/http/middleware"
	"github.com/iho/wealthledger/internal/infrastructure/config"
	"github.com/iho/wealthledger/internal/infrastructure/storage"
)

func newTestApplication(t *testing.T, mutate func(*config.Config)) *application {
	t.Helper()

	t.Setenv("STORAGE_BACKEND", config.StorageMemory)
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if mutate != nil {
		mutate(cfg)
	}

	state, err := storage.Open(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to open storage: %v", err)
	}
	t.Cleanup(func() { state.Close() })

	reg := prometheus.NewRegistry()
	return newApplication(cfg, state, reg, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), zerolog.Nop())
}

func TestNewApplication_ServesAPI(t *testing.T) {
	app := newTestApplication(t, nil)

	if app.scheduler != nil || app.rateLimiter != nil {
		t.Fatalf("expected scheduler and rate limiter disabled by default")
	}

	body := `{"name":"Deposit","type":"deposit","initialAmount":"1000","interestRate":"3","investmentDate":"2024-01-01"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/assets/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "wealthledger_assets_created_total 1") {
		t.Fatalf("expected asset counter in metrics output, got:\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	app.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"storage":"memory"`) {
		t.Fatalf("unexpected readiness response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestNewApplication_OptionalComponents(t *testing.T) {
	app := newTestApplication(t, func(cfg *config.Config) {
		cfg.YieldSchedule = "0 6 * * *"
		cfg.RateLimitRPS = 5
		cfg.RateLimitBurst = 5
	})

	if app.scheduler == nil {
		t.Fatalf("expected scheduler when a schedule is configured")
	}
	if app.rateLimiter == nil {
		t.Fatalf("expected rate limiter when RATE_LIMIT_RPS is set")
	}
}

func TestCleanupLimiters_RemovesIdleAndStopsOnCancel(t *testing.T) {
	rl := middleware.NewRateLimiter(0.001, 1)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("expected burst to be exhausted, got %d", code)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		cleanupLimiters(ctx, rl, 5*time.Millisecond, zerolog.Nop())
		close(done)
	}()

	// A fresh limiter is created once the idle one has been dropped.
	deadline := time.Now().Add(2 * time.Second)
	for {
		time.Sleep(20 * time.Millisecond)
		if code := do(); code == http.StatusOK {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("idle limiter was never removed")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("cleanup loop did not stop after cancel")
	}
}
