package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/fundledger/internal/adapter/http"
	"github.com/iho/fundledger/internal/adapter/http/handler"
	"github.com/iho/fundledger/internal/adapter/http/middleware"
	"github.com/iho/fundledger/internal/adapter/repository/memory"
	"github.com/iho/fundledger/internal/infrastructure/config"
	"github.com/iho/fundledger/internal/infrastructure/logger"
	"github.com/iho/fundledger/internal/infrastructure/metrics"
	"github.com/iho/fundledger/internal/infrastructure/notification"
	"github.com/iho/fundledger/internal/infrastructure/redis"
	"github.com/iho/fundledger/internal/usecase"
)

const limiterIdleTimeout = 10 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// app is the wired service.
type app struct {
	router      http.Handler
	limiter     *middleware.RateLimiter
	redisClient *goredis.Client
}

func (a *app) Close() error {
	if a.redisClient != nil {
		return a.redisClient.Close()
	}
	return nil
}

// newApp wires repositories, notifier, use cases and the router from cfg.
func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	a := &app{}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	// Repositories
	accountRepo := memory.NewAccountRepository()
	transferRepo := memory.NewTransferRepository()
	idGen := memory.NewULIDGenerator()

	checks := map[string]handler.ReadinessCheck{}

	// Notification sink
	if cfg.Notifier == config.NotifierRedis {
		client, err := redis.NewClient(ctx, redis.Config{URL: cfg.RedisURL, DialTimeout: 5 * time.Second})
		if err != nil {
			return nil, err
		}
		a.redisClient = client
		checks["redis"] = redis.ReadinessCheck(client)
		log.Info().Msg("connected to redis")
	}

	var redisClient goredis.UniversalClient
	if a.redisClient != nil {
		redisClient = a.redisClient
	}

	notifier, err := notification.New(notification.Config{
		Kind:            cfg.Notifier,
		Channel:         cfg.NotifyChannel,
		MaxRetries:      cfg.NotifyMaxRetries,
		InitialInterval: cfg.NotifyInitialInterval,
	}, redisClient, m, log)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Use cases
	accountUC := usecase.NewAccountUseCase(accountRepo)
	transferUC := usecase.NewTransferUseCase(accountRepo, transferRepo, notifier, idGen, m, log)
	ledgerUC := usecase.NewLedgerUseCase(accountRepo)

	seeded, err := accountUC.SeedAccounts(ctx, cfg.SeedAccounts)
	if err != nil {
		a.Close()
		return nil, err
	}
	if len(seeded) > 0 {
		log.Info().Int("accounts", len(seeded)).Msg("seeded accounts")
	}

	if cfg.RateLimitRPS > 0 {
		a.limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnReject(m.RateLimitHits.Inc)
	}

	a.router = httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:  handler.NewAccountHandler(accountUC),
		TransferHandler: handler.NewTransferHandler(transferUC),
		LedgerHandler:   handler.NewLedgerHandler(ledgerUC),
		HealthHandler:   handler.NewHealthHandler(checks),
		Logger:          log,
		Metrics:         m,
		MetricsHandler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		RateLimiter:     a.limiter,
		RequestTimeout:  cfg.HTTPWriteTimeout,
	})

	return a, nil
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	if a.limiter != nil {
		go cleanupLimiters(ctx, a.limiter)
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("notifier", cfg.Notifier).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")

	return nil
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter) {
	ticker := time.NewTicker(limiterIdleTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.CleanupLimiters(limiterIdleTimeout)
		}
	}
}
