package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/iho/wealthledger/internal/adapter/http"
	"github.com/iho/wealthledger/internal/adapter/http/handler"
	"github.com/iho/wealthledger/internal/adapter/http/middleware"
	"github.com/iho/wealthledger/internal/adapter/idgen"
	"github.com/iho/wealthledger/internal/infrastructure/config"
	"github.com/iho/wealthledger/internal/infrastructure/logger"
	"github.com/iho/wealthledger/internal/infrastructure/metrics"
	"github.com/iho/wealthledger/internal/infrastructure/storage"
	"github.com/iho/wealthledger/internal/scheduler"
	"github.com/iho/wealthledger/internal/usecase"
)

const limiterIdleTimeout = 10 * time.Minute

// application is the wired object graph behind the HTTP server.
type application struct {
	router      http.Handler
	ledger      *usecase.LedgerStore
	scheduler   *scheduler.Scheduler
	rateLimiter *middleware.RateLimiter
}

func main() {
	// Load configuration
	cfg, err := config.LoadWithDotEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	log.Logger = logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state, err := storage.Open(ctx, cfg, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open state store")
	}
	defer state.Close()

	app := newApplication(cfg, state, prometheus.DefaultRegisterer, promhttp.Handler(), log.Logger)

	app.ledger.LoadState(ctx)

	if app.scheduler != nil {
		if err := app.scheduler.Start(cfg.YieldSchedule); err != nil {
			log.Fatal().Err(err).Msg("failed to start scheduler")
		}
		defer app.scheduler.Stop()
	}

	if app.rateLimiter != nil {
		go cleanupLimiters(ctx, app.rateLimiter, limiterIdleTimeout, log.Logger)
	}

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      app.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("storage", state.Backend).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// newApplication wires the ledger, its use cases and the HTTP layer on top of state.
func newApplication(cfg *config.Config, state *storage.Store, reg prometheus.Registerer, metricsHandler http.Handler, logger zerolog.Logger) *application {
	m := metrics.New(reg)

	ledger := usecase.NewLedgerStore(state, idgen.NewULIDGenerator(), usecase.SystemClock{}, m, logger)
	engine := usecase.NewYieldEngine(ledger, logger)
	interchange := usecase.NewInterchangeUseCase(ledger, logger)

	app := &application{ledger: ledger}

	if cfg.RateLimitRPS > 0 {
		app.rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	if cfg.YieldSchedule != "" {
		app.scheduler = scheduler.NewScheduler(engine, m, logger)
	}

	app.router = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AssetHandler:       handler.NewAssetHandler(ledger),
		YieldHandler:       handler.NewYieldHandler(engine, ledger),
		InterchangeHandler: handler.NewInterchangeHandler(interchange, cfg.ImportMaxBytes),
		StateHandler:       handler.NewStateHandler(ledger),
		HealthHandler:      handler.NewHealthHandler(state, state.Backend),
		Logger:             logger,
		RateLimiter:        app.rateLimiter,
		MetricsHandler:     metricsHandler,
	})

	return app
}

// cleanupLimiters drops limiters idle for longer than idle, checking every idle, until ctx
// is done.
func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, idle time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(idle); n > 0 {
				logger.Debug().Int("removed", n).Msg("idle rate limiters removed")
			}
		}
	}
}
