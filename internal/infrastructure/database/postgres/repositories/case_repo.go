package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	appErrors "github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

const caseColumns = `id, title, summary, decision_text, judgement_text, conclusion_text,
       keywords, area_of_law, status, filed_at`

// CaseRepository is the PostgreSQL implementation of caserecord.Repository.
// Case records are immutable inputs; only read paths exist.
type CaseRepository struct {
	pool    *pgxpool.Pool
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

var _ caserecord.Repository = (*CaseRepository)(nil)

// NewCaseRepository builds a CaseRepository.  metrics may be nil.
func NewCaseRepository(pool *pgxpool.Pool, logger logging.Logger, metrics *prometheus.AppMetrics) *CaseRepository {
	return &CaseRepository{pool: pool, logger: logger, metrics: metrics}
}

// FindByID loads a single case record by primary key.
func (r *CaseRepository) FindByID(ctx context.Context, id common.ID) (*caserecord.CaseRecord, error) {
	started := time.Now()
	c, err := scanCase(r.pool.QueryRow(ctx,
		`SELECT `+caseColumns+` FROM case_records WHERE id = $1`, id))
	observeQuery(r.metrics, "case", "find_by_id", started, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, appErrors.New(appErrors.ErrCodeNotFound, "case record not found").
				WithDetail(id.String())
		}
		r.logger.Error("CaseRepository.FindByID", logging.Err(err), logging.String("id", id.String()))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeCaseQueryFailed, "failed to load case record")
	}
	return c, nil
}

// SearchTitle returns every case whose title contains any of terms as a
// case-insensitive substring.  Terms are treated as literals; ILIKE
// metacharacters in them are escaped.  The result order is unspecified and
// callers must not depend on it.
func (r *CaseRepository) SearchTitle(ctx context.Context, terms []string) ([]*caserecord.CaseRecord, error) {
	if len(terms) == 0 {
		return nil, nil
	}

	patterns := make([]string, 0, len(terms))
	for _, t := range terms {
		if t != "" {
			patterns = append(patterns, containsPattern(t))
		}
	}
	if len(patterns) == 0 {
		return nil, nil
	}

	started := time.Now()
	rows, err := r.pool.Query(ctx,
		`SELECT `+caseColumns+` FROM case_records WHERE title ILIKE ANY($1)`, patterns)
	observeQuery(r.metrics, "case", "search_title", started, err)
	if err != nil {
		r.logger.Error("CaseRepository.SearchTitle", logging.Err(err), logging.Int("terms", len(terms)))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeCaseQueryFailed, "case title search failed")
	}
	defer rows.Close()

	var out []*caserecord.CaseRecord
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrCodeCaseScanFailed, "failed to scan case row")
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrCodeCaseQueryFailed, "case row iteration failed")
	}
	return out, nil
}

func scanCase(row scanner) (*caserecord.CaseRecord, error) {
	var c caserecord.CaseRecord
	if err := row.Scan(
		&c.ID, &c.Title, &c.Summary, &c.DecisionText, &c.JudgementText,
		&c.ConclusionText, &c.Keywords, &c.AreaOfLaw, &c.Status, &c.FiledAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
