// Background worker for CaseRisk-Intelligence.  Runs the corpus-wide
// analytics sweep on a fixed interval and exposes health probes plus
// Prometheus metrics for the deployment environment.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appanalytics "github.com/turtacn/CaseRisk-Intelligence/internal/application/analytics"
	"github.com/turtacn/CaseRisk-Intelligence/internal/config"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseRisk-Intelligence/internal/platform"
	commonTypes "github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

const defaultConfigPath = "configs/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	sweepOnStart := flag.Bool("sweep-on-start", true, "run one sweep immediately instead of waiting for the first tick")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(loggingConfig(cfg.Log))
	if err != nil {
		fmt.Fprintf(os.Stderr, "worker: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	logger = logger.Named("worker")

	if err := run(cfg, *configPath, *sweepOnStart, logger); err != nil {
		logger.Error("worker exited with error", logging.Err(err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, configPath string, sweepOnStart bool, logger logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := postgres.RunMigrations(cfg.Database); err != nil {
		return err
	}

	p, err := platform.NewPlatform(ctx, cfg, logger, platform.Options{})
	if err != nil {
		return err
	}
	defer p.Close()

	// Hot-reload the log level on config file edits; everything else
	// requires a restart.
	if setter, ok := logger.(logging.LevelSetter); ok {
		config.Watch(configPath, levelReload(setter, logger, cfg.Log.Level))
	}

	health := startHealthServer(cfg.Server, p, logger)
	defer shutdownHealthServer(health, cfg.Server.ShutdownTimeout, logger)

	logger.Info("worker started",
		logging.Duration("sweep_interval", cfg.Worker.SweepInterval),
		logging.Int("concurrency", cfg.Worker.Concurrency),
		logging.Int("port", cfg.Server.Port),
	)

	ticker := time.NewTicker(cfg.Worker.SweepInterval)
	defer ticker.Stop()

	if sweepOnStart {
		runSweep(ctx, p.Analytics, logger)
	}
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutdown signal received")
			return nil
		case <-ticker.C:
			runSweep(ctx, p.Analytics, logger)
		}
	}
}

// levelReload returns a config-watch callback that applies log-level
// changes.  It compares against the last level it applied, not the startup
// level, so a change and its later revert are both honoured.
func levelReload(setter logging.LevelSetter, logger logging.Logger, initial string) func(*config.Config) {
	current := initial
	return func(next *config.Config) {
		if next.Log.Level == current {
			return
		}
		logger.Info("applying new log level", logging.String("level", next.Log.Level))
		setter.SetLevel(next.Log.Level)
		current = next.Log.Level
	}
}

func runSweep(ctx context.Context, svc *appanalytics.Service, logger logging.Logger) {
	result, err := svc.ComputeForAllEntities(ctx)
	if err != nil {
		logger.Error("sweep failed",
			logging.Int("processed", result.Processed),
			logging.Int("failed", result.Failed),
			logging.Err(err),
		)
		return
	}
	if result.Failed > 0 {
		logger.Warn("sweep finished with failures",
			logging.Int("succeeded", result.Succeeded),
			logging.Int("failed", result.Failed),
		)
	}
}

func startHealthServer(cfg config.ServerConfig, p *platform.Platform, logger logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if health := p.DB.HealthCheck(r.Context()); health.Status == commonTypes.HealthDown {
			http.Error(w, health.Message, http.StatusServiceUnavailable)
			return
		}
		if p.Redis != nil {
			if health := p.Redis.HealthCheck(r.Context()); health.Status == commonTypes.HealthDown {
				http.Error(w, health.Message, http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ready")
	})
	mux.Handle("/metrics", p.Collector.Handler())

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", logging.Err(err))
		}
	}()
	return srv
}

func shutdownHealthServer(srv *http.Server, timeout time.Duration, logger logging.Logger) {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("health server shutdown incomplete", logging.Err(err))
	}
}

// loadConfig prefers the config file but falls back to pure environment
// configuration when the file is absent, for containerised deployments.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); err != nil {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

func loggingConfig(cfg config.LogConfig) logging.LogConfig {
	lc := logging.LogConfig{Level: cfg.Level, Format: cfg.Format}
	if cfg.Output != "" {
		lc.OutputPaths = []string{cfg.Output}
	}
	return lc
}
