package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/analytics"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/prometheus"
	appErrors "github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

const analyticsColumns = `entity_id, risk_score, risk_level, risk_factors,
       total_monetary_amount, average_case_value, financial_risk_level,
       primary_subject_matter, subject_matter_categories, legal_issues,
       financial_terms, case_complexity_score, success_rate, case_count,
       created_at, computed_at`

// AnalyticsRepository is the PostgreSQL implementation of
// analytics.Repository.  The upsert is a single INSERT ... ON CONFLICT
// statement, so concurrent recomputations for the same entity serialize on
// the row lock and a torn record can never be observed.
type AnalyticsRepository struct {
	pool    *pgxpool.Pool
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

var _ analytics.Repository = (*AnalyticsRepository)(nil)

// NewAnalyticsRepository builds an AnalyticsRepository.  metrics may be nil.
func NewAnalyticsRepository(pool *pgxpool.Pool, logger logging.Logger, metrics *prometheus.AppMetrics) *AnalyticsRepository {
	return &AnalyticsRepository{pool: pool, logger: logger, metrics: metrics}
}

// Upsert atomically creates or wholesale-replaces the analytics record for
// rec.EntityID.  Every column is overwritten on conflict; created_at alone
// survives from the first insert.
func (r *AnalyticsRepository) Upsert(ctx context.Context, rec *analytics.Record) error {
	started := time.Now()
	err := r.pool.QueryRow(ctx, `
		INSERT INTO entity_analytics (
			entity_id, risk_score, risk_level, risk_factors,
			total_monetary_amount, average_case_value, financial_risk_level,
			primary_subject_matter, subject_matter_categories, legal_issues,
			financial_terms, case_complexity_score, success_rate, case_count,
			created_at, computed_at
		) VALUES (
			$1,$2,$3,$4,
			$5,$6,$7,
			$8,$9,$10,
			$11,$12,$13,$14,
			now(), now()
		)
		ON CONFLICT (entity_id) DO UPDATE SET
			risk_score                = EXCLUDED.risk_score,
			risk_level                = EXCLUDED.risk_level,
			risk_factors              = EXCLUDED.risk_factors,
			total_monetary_amount     = EXCLUDED.total_monetary_amount,
			average_case_value        = EXCLUDED.average_case_value,
			financial_risk_level      = EXCLUDED.financial_risk_level,
			primary_subject_matter    = EXCLUDED.primary_subject_matter,
			subject_matter_categories = EXCLUDED.subject_matter_categories,
			legal_issues              = EXCLUDED.legal_issues,
			financial_terms           = EXCLUDED.financial_terms,
			case_complexity_score     = EXCLUDED.case_complexity_score,
			success_rate              = EXCLUDED.success_rate,
			case_count                = EXCLUDED.case_count,
			computed_at               = now()
		RETURNING created_at, computed_at`,
		rec.EntityID, rec.RiskScore, rec.RiskLevel, rec.RiskFactors,
		rec.TotalMonetaryAmount, rec.AverageCaseValue, rec.FinancialRiskLevel,
		rec.PrimarySubjectMatter, rec.SubjectMatterCategories, rec.LegalIssues,
		rec.FinancialTerms, rec.CaseComplexityScore, rec.SuccessRate, rec.CaseCount,
	).Scan(&rec.CreatedAt, &rec.ComputedAt)
	observeQuery(r.metrics, "analytics", "upsert", started, err)

	if err != nil {
		r.logger.Error("AnalyticsRepository.Upsert", logging.Err(err),
			logging.String("entity_id", rec.EntityID.String()))
		return appErrors.Wrap(err, appErrors.ErrCodeAnalyticsUpsertFailed, "failed to upsert analytics record")
	}
	return nil
}

// GetByEntityID loads the current analytics record for an entity.
func (r *AnalyticsRepository) GetByEntityID(ctx context.Context, entityID common.ID) (*analytics.Record, error) {
	started := time.Now()
	rec, err := scanAnalytics(r.pool.QueryRow(ctx,
		`SELECT `+analyticsColumns+` FROM entity_analytics WHERE entity_id = $1`, entityID))
	observeQuery(r.metrics, "analytics", "get_by_entity_id", started, err)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, appErrors.New(appErrors.ErrCodeAnalyticsNotFound, "analytics record not found").
				WithDetail(entityID.String())
		}
		r.logger.Error("AnalyticsRepository.GetByEntityID", logging.Err(err),
			logging.String("entity_id", entityID.String()))
		return nil, appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to load analytics record")
	}
	return rec, nil
}

// DeleteByEntityID removes an entity's analytics record.  Missing records
// are a no-op; the delete only happens alongside entity removal upstream.
func (r *AnalyticsRepository) DeleteByEntityID(ctx context.Context, entityID common.ID) error {
	started := time.Now()
	_, err := r.pool.Exec(ctx,
		`DELETE FROM entity_analytics WHERE entity_id = $1`, entityID)
	observeQuery(r.metrics, "analytics", "delete_by_entity_id", started, err)

	if err != nil {
		r.logger.Error("AnalyticsRepository.DeleteByEntityID", logging.Err(err),
			logging.String("entity_id", entityID.String()))
		return appErrors.Wrap(err, appErrors.ErrCodeDatabaseError, "failed to delete analytics record")
	}
	return nil
}

func scanAnalytics(row scanner) (*analytics.Record, error) {
	var rec analytics.Record
	if err := row.Scan(
		&rec.EntityID, &rec.RiskScore, &rec.RiskLevel, &rec.RiskFactors,
		&rec.TotalMonetaryAmount, &rec.AverageCaseValue, &rec.FinancialRiskLevel,
		&rec.PrimarySubjectMatter, &rec.SubjectMatterCategories, &rec.LegalIssues,
		&rec.FinancialTerms, &rec.CaseComplexityScore, &rec.SuccessRate, &rec.CaseCount,
		&rec.CreatedAt, &rec.ComputedAt,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}
