// Command circulationd runs the circulation core against a configured event store and drives a
// steady stream of library operations through it: borrow requests, approvals, renewals, returns,
// reservations and fine settlements. Metrics are exposed for Prometheus on /metrics.
//
// Configuration comes from the environment (optionally loaded from an env file), see config.Config.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/config"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/promadapter"
	"github.com/AntonStoeckl/library-circulation-go/eventstore/oteladapters"
)

const (
	metricsNamespace    = "circulation"
	tracerName          = "circulationd"
	shutdownTimeout     = 5 * time.Second
	readHeaderTimeout   = 5 * time.Second
	overdueReportPeriod = 25
)

var version = "dev"

type flags struct {
	envFile      string
	books        int
	students     int
	operations   int
	initSchema   bool
	simulatedGap time.Duration
}

func parseFlags() flags {
	var f flags

	flag.StringVar(&f.envFile, "env-file", ".env", "env file to load before reading the environment")
	flag.IntVar(&f.books, "books", 12, "number of book titles to seed")
	flag.IntVar(&f.students, "students", 20, "number of students to seed")
	flag.IntVar(&f.operations, "operations", 0, "stop after this many operations (0 runs until interrupted)")
	flag.BoolVar(&f.initSchema, "init-schema", true, "create the Postgres tables if they do not exist")
	flag.DurationVar(&f.simulatedGap, "simulated-gap", 3*time.Hour, "simulated time that passes between two operations")
	flag.Parse()

	return f
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, parseFlags()); err != nil {
		fmt.Fprintf(os.Stderr, "circulationd: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, f flags) error {
	cfg, err := config.Load(f.envFile)
	if err != nil {
		return err
	}

	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	contextualLogger := oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := promadapter.NewMetricsCollector(
		registry,
		promadapter.WithNamespace(metricsNamespace),
		promadapter.WithLogger(logger),
	)

	var tracing shell.TracingCollector
	if cfg.TracingEnabled {
		provider, tracerErr := config.NewTracerProvider(ctx, newSpanLogger(logger), version)
		if tracerErr != nil {
			return tracerErr
		}

		defer shutdownTracing(provider.Shutdown, logger)

		tracing = oteladapters.NewTracingCollector(provider.Tracer(tracerName))
	}

	infra, err := buildInfrastructure(ctx, cfg, f.initSchema, logger, contextualLogger, metrics, tracing)
	if err != nil {
		return err
	}
	defer infra.close()

	metricsServer := serveMetrics(cfg.MetricsAddr, registry, logger)
	defer shutdownServer(metricsServer, logger)

	sim, err := newSimulator(infra, observers{
		metrics:          metrics,
		tracing:          tracing,
		contextualLogger: contextualLogger,
	}, logger, f.simulatedGap)
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "circulationd started",
		"version", version,
		"store", cfg.StoreBackend,
		"driver", cfg.Driver,
		"policy_source", cfg.PolicySource,
		"metrics_addr", cfg.MetricsAddr,
	)

	if err = sim.seed(ctx, f.books, f.students); err != nil {
		return err
	}

	return drive(ctx, sim, rate.NewLimiter(rate.Limit(cfg.OpsPerSecond), 1), f.operations, logger)
}

// drive runs operations at the limiter's pace until ctx is done or maxOperations were run.
func drive(ctx context.Context, sim *simulator, limiter *rate.Limiter, maxOperations int, logger *slog.Logger) error {
	for n := 1; maxOperations == 0 || n <= maxOperations; n++ {
		if err := limiter.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				logger.Info("circulationd stopping", "operations", n-1)
				return nil
			}

			return err
		}

		if err := sim.step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}

			logger.ErrorContext(ctx, "operation failed", "error", err.Error())
		}

		if n%overdueReportPeriod == 0 {
			sim.reportOverdue(ctx)
		}
	}

	return nil
}

func serveMetrics(addr string, registry *prometheus.Registry, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", "error", err.Error())
		}
	}()

	return server
}

func shutdownServer(server *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("metrics server shutdown failed", "error", err.Error())
	}
}

func shutdownTracing(shutdown func(context.Context) error, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := shutdown(ctx); err != nil {
		logger.Warn("tracer provider shutdown failed", "error", err.Error())
	}
}
