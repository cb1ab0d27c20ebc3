// Package analytics defines the persisted per-entity analytics record, its
// derivation invariants (level thresholds, complexity scoring, zero-corpus
// defaults), and the persistence and event contracts around it.  The scoring
// pipeline that produces records lives in internal/application/analytics.
package analytics

import (
	"math"
	"time"

	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// NoPrimarySubjectMatter is the sentinel primary category recorded when no
// subject-matter keyword matched anywhere in an entity's corpus, including
// the empty-corpus case.
const NoPrimarySubjectMatter = "N/A"

// Risk-score thresholds mapping a normalized 0-100 score onto levels.
const (
	riskCriticalMin = 80
	riskHighMin     = 60
	riskMediumMin   = 30
)

// Financial-exposure thresholds in base currency units.
const (
	financialCriticalMin = 1_000_000
	financialHighMin     = 500_000
	financialMediumMin   = 100_000
)

// complexityPerCase is the per-case weight of the volume-based complexity
// proxy; the product is clamped at 100.
const complexityPerCase = 2

// Record is the persisted analytics output, exactly one per entity.
// Recomputation replaces the prior record wholesale; there is no field-level
// merge.
type Record struct {
	EntityID                common.ID        `json:"entity_id"`
	RiskScore               int              `json:"risk_score"`
	RiskLevel               common.RiskLevel `json:"risk_level"`
	RiskFactors             []string         `json:"risk_factors"`
	TotalMonetaryAmount     float64          `json:"total_monetary_amount"`
	AverageCaseValue        float64          `json:"average_case_value"`
	FinancialRiskLevel      common.RiskLevel `json:"financial_risk_level"`
	PrimarySubjectMatter    string           `json:"primary_subject_matter"`
	SubjectMatterCategories []string         `json:"subject_matter_categories"`
	LegalIssues             []string         `json:"legal_issues"`
	FinancialTerms          []string         `json:"financial_terms"`
	CaseComplexityScore     int              `json:"case_complexity_score"`
	SuccessRate             float64          `json:"success_rate"`
	CaseCount               int              `json:"case_count"`

	// CreatedAt is the first computation time for this entity; ComputedAt
	// is refreshed on every recomputation.  Both are assigned by the
	// store, not the scorer.
	CreatedAt  time.Time `json:"created_at"`
	ComputedAt time.Time `json:"computed_at"`
}

// NewZeroRecord returns the defined analytics record for an entity with no
// associated cases.  Zero cases is a normal condition for newly added
// entities, not an error path.
func NewZeroRecord(entityID common.ID) *Record {
	return &Record{
		EntityID:                entityID,
		RiskScore:               0,
		RiskLevel:               common.RiskLow,
		RiskFactors:             []string{},
		TotalMonetaryAmount:     0,
		AverageCaseValue:        0,
		FinancialRiskLevel:      common.RiskLow,
		PrimarySubjectMatter:    NoPrimarySubjectMatter,
		SubjectMatterCategories: []string{},
		LegalIssues:             []string{},
		FinancialTerms:          []string{},
		CaseComplexityScore:     0,
		SuccessRate:             0,
		CaseCount:               0,
	}
}

// RiskLevelForScore maps a normalized risk score onto its discrete level.
// Scores outside [0,100] are clamped by the scorer before reaching here, but
// the mapping itself is total.
func RiskLevelForScore(score int) common.RiskLevel {
	switch {
	case score >= riskCriticalMin:
		return common.RiskCritical
	case score >= riskHighMin:
		return common.RiskHigh
	case score >= riskMediumMin:
		return common.RiskMedium
	default:
		return common.RiskLow
	}
}

// FinancialRiskLevelForTotal maps total monetary exposure onto its discrete
// level.
func FinancialRiskLevelForTotal(total float64) common.RiskLevel {
	switch {
	case total >= financialCriticalMin:
		return common.RiskCritical
	case total >= financialHighMin:
		return common.RiskHigh
	case total >= financialMediumMin:
		return common.RiskMedium
	default:
		return common.RiskLow
	}
}

// ComplexityScore derives the volume-based case-complexity proxy from the
// corpus size, clamped to [0,100].
func ComplexityScore(caseCount int) int {
	if caseCount <= 0 {
		return 0
	}
	score := caseCount * complexityPerCase
	if score > 100 {
		return 100
	}
	return score
}

// Round2 rounds a monetary or percentage value to two decimal places.  All
// decimal fields of a Record are stored at this precision so repeated
// computations over an unchanged corpus are byte-identical.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
