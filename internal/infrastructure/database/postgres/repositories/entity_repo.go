package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/entity"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	appErrors "github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

const entityColumns = `id, name, kind, created_at, updated_at`

// EntityRepository is the PostgreSQL implementation of entity.Repository.
// It is strictly read-only; entity writes belong to the upstream
// record-management service.
type EntityRepository struct {
	pool    *pgxpool.Pool
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

var _ entity.Repository = (*EntityRepository)(nil)

// NewEntityRepository builds an EntityRepository.  metrics may be nil.
func NewEntityRepository(pool *pgxpool.Pool, logger logging.Logger, metrics *prometheus.AppMetrics) *EntityRepository {
	return &EntityRepository{pool: pool, logger: logger, metrics: metrics}
}

// FindByID loads a single entity by primary key.
func (r *EntityRepository) FindByID(ctx context.Context, id common.ID) (*entity.Entity, error) {
	started := time.Now()
	e, err := scanEntity(r.pool.QueryRow(ctx,
		`SELECT `+entityColumns+` FROM entities WHERE id = $1`, id))
	observeQuery(r.metrics, "entity", "find_by_id", started, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, appErrors.New(appErrors.ErrCodeEntityNotFound, "entity not found").
				WithDetail(id.String())
		}
		r.logger.Error("EntityRepository.FindByID", logging.Err(err), logging.String("id", id.String()))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load entity")
	}
	return e, nil
}

// ListPage returns one page of entities in stable creation order so batch
// sweeps visit every entity exactly once.
func (r *EntityRepository) ListPage(ctx context.Context, offset, limit int) ([]*entity.Entity, error) {
	started := time.Now()
	rows, err := r.pool.Query(ctx,
		`SELECT `+entityColumns+` FROM entities ORDER BY created_at, id OFFSET $1 LIMIT $2`,
		offset, limit)
	observeQuery(r.metrics, "entity", "list_page", started, err)
	if err != nil {
		r.logger.Error("EntityRepository.ListPage", logging.Err(err), logging.Int("offset", offset))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeEntityListFailed, "failed to list entities")
	}
	defer rows.Close()

	var out []*entity.Entity
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeEntityListFailed, "failed to scan entity row")
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeEntityListFailed, "entity row iteration failed")
	}
	return out, nil
}

// Count returns the total number of entities.
func (r *EntityRepository) Count(ctx context.Context) (int64, error) {
	started := time.Now()
	var n int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entities`).Scan(&n)
	observeQuery(r.metrics, "entity", "count", started, err)
	if err != nil {
		r.logger.Error("EntityRepository.Count", logging.Err(err))
		return 0, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to count entities")
	}
	return n, nil
}

func scanEntity(row scanner) (*entity.Entity, error) {
	var e entity.Entity
	if err := row.Scan(&e.ID, &e.Name, &e.Kind, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
