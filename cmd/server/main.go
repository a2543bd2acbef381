package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"credhub/internal/credential/backend"
	credentialhandler "credhub/internal/credential/handler"
	ingestionhandler "credhub/internal/ingestion/handler"
	"credhub/internal/ingestion/jobs"
	ingestionmetrics "credhub/internal/ingestion/metrics"
	ingestion "credhub/internal/ingestion/service"
	"credhub/internal/platform/config"
	"credhub/internal/platform/database"
	"credhub/internal/platform/health"
	"credhub/internal/platform/logger"
	"credhub/internal/platform/redis"
	"credhub/internal/platform/tracer"
	httptransport "credhub/internal/transport/http"
	"credhub/pkg/platform/middleware/request"
)

const (
	shutdownTimeout   = 15 * time.Second
	poolStatsInterval = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal service packages.
func main() {
	_ = godotenv.Load()

	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing credhub",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"credential_backend", cfg.Backend,
	)

	healthHandler := health.New(cfg.Environment, cfg.Backend)

	pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return err
	}
	deps := backend.Deps{Logger: log, Tracer: tracer.NewOTel()}
	if pool != nil {
		defer pool.Close() //nolint:errcheck // closing on shutdown
		if err := database.Migrate(ctx, pool.DB()); err != nil {
			return err
		}
		deps.DB = pool.DB()
		healthHandler.RegisterCheck("postgres", pool.Health)
	}

	rdb, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	var jobStore jobs.Store = jobs.NewInMemoryStore()
	if rdb != nil {
		defer rdb.Close() //nolint:errcheck // closing on shutdown
		jobStore = jobs.NewRedisStore(rdb, jobs.DefaultTTL)
		healthHandler.RegisterCheck("redis", rdb.Health)
	}

	credentials, err := backend.New(cfg, deps)
	if err != nil {
		return err
	}

	ingester := ingestion.New(credentials,
		ingestion.WithIssueTimeout(cfg.IssueTimeout),
		ingestion.WithMetrics(ingestionmetrics.New(prometheus.DefaultRegisterer)),
		ingestion.WithTracer(deps.Tracer),
		ingestion.WithLogger(log),
	)
	runner := jobs.NewRunner(jobStore, log)

	router := httptransport.NewRouter(log, request.NewMetrics(),
		healthHandler,
		credentialhandler.New(credentials, cfg.PublicBaseURL, log),
		ingestionhandler.New(ingester, runner, jobStore, cfg.MaxUploadBytes, log),
	)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	if rdb != nil {
		g.Go(func() error {
			ticker := time.NewTicker(poolStatsInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					rdb.RecordPoolStats()
				}
			}
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server gracefully")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return waitForJobs(shutdownCtx, runner, log)
	})
	return g.Wait()
}

// waitForJobs lets background uploads finish until ctx expires.
func waitForJobs(ctx context.Context, runner *jobs.Runner, log *slog.Logger) error {
	done := make(chan struct{})
	go func() {
		runner.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		log.Warn("ingestion jobs still running at shutdown")
		return ctx.Err()
	}
}
