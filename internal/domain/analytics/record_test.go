package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

func TestNewZeroRecord(t *testing.T) {
	id := common.NewID()
	rec := NewZeroRecord(id)

	assert.Equal(t, id, rec.EntityID)
	assert.Equal(t, 0, rec.RiskScore)
	assert.Equal(t, common.RiskLow, rec.RiskLevel)
	assert.Equal(t, common.RiskLow, rec.FinancialRiskLevel)
	assert.Equal(t, NoPrimarySubjectMatter, rec.PrimarySubjectMatter)
	assert.Equal(t, 0.0, rec.SuccessRate)
	assert.Equal(t, 0, rec.CaseComplexityScore)
	assert.Empty(t, rec.RiskFactors)
	assert.NotNil(t, rec.RiskFactors)
	assert.Empty(t, rec.SubjectMatterCategories)
	assert.NotNil(t, rec.SubjectMatterCategories)
}

func TestRiskLevelForScore(t *testing.T) {
	cases := []struct {
		score int
		want  common.RiskLevel
	}{
		{0, common.RiskLow},
		{29, common.RiskLow},
		{30, common.RiskMedium},
		{59, common.RiskMedium},
		{60, common.RiskHigh},
		{79, common.RiskHigh},
		{80, common.RiskCritical},
		{100, common.RiskCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RiskLevelForScore(tc.score), "score=%d", tc.score)
	}
}

func TestFinancialRiskLevelForTotal(t *testing.T) {
	cases := []struct {
		total float64
		want  common.RiskLevel
	}{
		{0, common.RiskLow},
		{99_999.99, common.RiskLow},
		{100_000, common.RiskMedium},
		{499_999.99, common.RiskMedium},
		{500_000, common.RiskHigh},
		{999_999.99, common.RiskHigh},
		{1_000_000, common.RiskCritical},
		{25_000_000, common.RiskCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FinancialRiskLevelForTotal(tc.total), "total=%f", tc.total)
	}
}

func TestComplexityScore(t *testing.T) {
	assert.Equal(t, 0, ComplexityScore(0))
	assert.Equal(t, 0, ComplexityScore(-3))
	assert.Equal(t, 2, ComplexityScore(1))
	assert.Equal(t, 24, ComplexityScore(12))
	assert.Equal(t, 100, ComplexityScore(50))
	assert.Equal(t, 100, ComplexityScore(51))
	assert.Equal(t, 100, ComplexityScore(10_000))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 75.0, Round2(75.0000001))
	assert.Equal(t, 33.33, Round2(100.0/3))
	assert.Equal(t, 1250000.5, Round2(1250000.50))
	assert.Equal(t, 66.67, Round2(200.0/3))
}

func TestNewEntityAnalyticsUpdatedEvent(t *testing.T) {
	rec := NewZeroRecord(common.NewID())
	rec.RiskScore = 42
	rec.RiskLevel = common.RiskMedium
	rec.CaseCount = 7

	ev := NewEntityAnalyticsUpdatedEvent(rec)
	assert.Equal(t, rec.EntityID, ev.EntityID)
	assert.Equal(t, rec.EntityID.String(), ev.AggregateID())
	assert.Equal(t, 42, ev.RiskScore)
	assert.Equal(t, common.RiskMedium, ev.RiskLevel)
	assert.Equal(t, 7, ev.CaseCount)
	assert.NotEmpty(t, ev.EventID())
	assert.False(t, ev.OccurredAt().IsZero())
}
