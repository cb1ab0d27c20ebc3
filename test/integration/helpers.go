//go:build integration

// Package integration hosts end-to-end tests that drive the analytics
// engine against real backing services.  The tests require Docker and are
// gated behind the "integration" build tag; the schema is applied through
// the real migration files rather than inline DDL so the migrations stay
// covered too.
package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	appAnalytics "github.com/turtacn/CaseRisk-Intelligence/internal/application/analytics"
	"github.com/turtacn/CaseRisk-Intelligence/internal/config"
	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// harness bundles a migrated database pool with a fully wired analytics
// service.  Cache, locks and the event publisher are intentionally absent:
// these tests cover the persistence path, the unit tests cover the rest.
type harness struct {
	Pool    *pgxpool.Pool
	Service *appAnalytics.Service
}

// newHarness starts a PostgreSQL 16 container, runs the schema migrations
// against it, and wires the analytics service on top of the real
// repositories.
func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "caserisk_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	migrations, err := filepath.Abs("../../migrations")
	require.NoError(t, err)

	dbCfg := config.DatabaseConfig{
		Host:          host,
		Port:          port.Int(),
		User:          "test",
		Password:      "test",
		DBName:        "caserisk_test",
		SSLMode:       "disable",
		MigrationPath: migrations,
	}
	require.NoError(t, postgres.RunMigrations(dbCfg))

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/caserisk_test?sslmode=disable", host, port.Port())
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	logger := logging.NewNopLogger()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	svc := appAnalytics.NewService(appAnalytics.ServiceParams{
		Entities:  repositories.NewEntityRepository(pool, logger, nil),
		Cases:     repositories.NewCaseRepository(pool, logger, nil),
		Records:   repositories.NewAnalyticsRepository(pool, logger, nil),
		Logger:    logger,
		Analytics: cfg.Analytics,
		Worker:    cfg.Worker,
	})

	return &harness{Pool: pool, Service: svc}
}

// seedEntity inserts an entity row and returns its ID.
func (h *harness) seedEntity(t *testing.T, name string) common.ID {
	t.Helper()
	id := common.NewID()
	_, err := h.Pool.Exec(context.Background(),
		`INSERT INTO entities (id, name, kind) VALUES ($1, $2, 'person')`, id, name)
	require.NoError(t, err)
	return id
}

// seedCase inserts a case record row.
func (h *harness) seedCase(t *testing.T, rec caserecord.CaseRecord) common.ID {
	t.Helper()
	id := common.NewID()
	_, err := h.Pool.Exec(context.Background(),
		`INSERT INTO case_records (id, title, summary, decision_text, conclusion_text, area_of_law, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, rec.Title, rec.Summary, rec.DecisionText, rec.ConclusionText, rec.AreaOfLaw, rec.Status)
	require.NoError(t, err)
	return id
}
