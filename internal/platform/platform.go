// Package platform wires the infrastructure stack into a ready-to-use
// analytics service.  Both the worker and the CLI build their engine through
// NewPlatform so the two entry points cannot drift apart.
package platform

import (
	"context"

	appanalytics "github.com/turtacn/CaseRisk-Intelligence/internal/application/analytics"
	"github.com/turtacn/CaseRisk-Intelligence/internal/config"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/database/redis"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
)

// Platform bundles the running infrastructure clients and the analytics
// service built on top of them.
type Platform struct {
	Config    *config.Config
	Logger    logging.Logger
	DB        *postgres.Connection
	Redis     *redis.Client
	Producer  *kafka.Producer
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics
	Analytics *appanalytics.Service
}

// Options toggles optional platform pieces per entry point.
type Options struct {
	// SkipRedis disables the cache and per-entity locking; the engine
	// still serializes writes through the atomic upsert.
	SkipRedis bool
	// SkipKafka disables event publication regardless of configuration.
	SkipKafka bool
}

// NewPlatform connects to every configured backend and assembles the
// analytics service.  On any connection error the already-opened clients are
// closed before returning.
func NewPlatform(ctx context.Context, cfg *config.Config, logger logging.Logger, opts Options) (*Platform, error) {
	p := &Platform{Config: cfg, Logger: logger}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:            "caserisk",
		EnableProcessMetrics: true,
		EnableGoMetrics:      true,
	}, logger)
	if err != nil {
		return nil, err
	}
	p.Collector = collector
	p.Metrics = prometheus.NewAppMetrics(collector)

	p.DB, err = postgres.NewConnection(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	var (
		cache redis.Cache
		locks redis.LockFactory
	)
	if !opts.SkipRedis {
		p.Redis, err = redis.NewClient(cfg.Redis, logger)
		if err != nil {
			p.Close()
			return nil, err
		}
		cache = redis.NewCache(p.Redis, logger, redis.WithDefaultTTL(cfg.Analytics.CacheTTL))
		locks = redis.NewLockFactory(p.Redis, logger)
	}

	var publisher appanalytics.EventPublisher
	if !opts.SkipKafka && cfg.Kafka.Enabled {
		p.Producer, err = kafka.NewProducer(cfg.Kafka, logger, p.Metrics)
		if err != nil {
			p.Close()
			return nil, err
		}
		publisher = p.Producer
	}

	pool := p.DB.Pool()
	p.Analytics = appanalytics.NewService(appanalytics.ServiceParams{
		Entities:  repositories.NewEntityRepository(pool, logger, p.Metrics),
		Cases:     repositories.NewCaseRepository(pool, logger, p.Metrics),
		Records:   repositories.NewAnalyticsRepository(pool, logger, p.Metrics),
		Cache:     cache,
		Locks:     locks,
		Publisher: publisher,
		Logger:    logger,
		Metrics:   p.Metrics,
		Analytics: cfg.Analytics,
		Worker:    cfg.Worker,
	})
	return p, nil
}

// Close releases every open client.  Safe to call on a partially constructed
// platform.
func (p *Platform) Close() {
	if p.Producer != nil {
		if err := p.Producer.Close(); err != nil {
			p.Logger.Warn("failed to close kafka producer", logging.Err(err))
		}
	}
	if p.Redis != nil {
		if err := p.Redis.Close(); err != nil {
			p.Logger.Warn("failed to close redis client", logging.Err(err))
		}
	}
	if p.DB != nil {
		p.DB.Close()
	}
}
