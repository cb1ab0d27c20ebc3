//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
	appErrors "github.com/turtacn/CaseRisk-Intelligence/pkg/errors"
	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// TestComputePipeline drives the full path: seeded corpus, title-based
// location, extraction, and the upserted record read back from PostgreSQL.
func TestComputePipeline(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	id := h.seedEntity(t, "Kwame Mensah")
	// Favorable outcomes are read from the case texts, never from the
	// status field; status only marks the case resolved.
	h.seedCase(t, caserecord.CaseRecord{
		Title:          "Republic v Kwame Mensah",
		Summary:        "Charges of fraud and embezzlement; damages of GHS 600,000 claimed.",
		ConclusionText: "The accused is acquitted and discharged on all counts.",
		AreaOfLaw:      "Criminal Law",
		Status:         "Resolved",
	})
	h.seedCase(t, caserecord.CaseRecord{
		Title:        "Mensah v Standard Trust Bank",
		Summary:      "Breach of contract over a loan agreement.",
		DecisionText: "Judgment debt of GHS 400,000 with interest rate of 12 percent.",
		AreaOfLaw:    "Commercial Law",
		Status:       "Resolved",
	})
	// Unrelated case that must not match any search term.
	h.seedCase(t, caserecord.CaseRecord{
		Title:   "In re Asante Estate",
		Summary: "Probate matter.",
		Status:  "Active",
	})

	rec, err := h.Service.ComputeForEntity(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, id, rec.EntityID)
	assert.Equal(t, 2, rec.CaseCount)
	assert.Equal(t, 4, rec.CaseComplexityScore)
	assert.Positive(t, rec.RiskScore)
	assert.Contains(t, rec.RiskFactors, "criminal: fraud")
	assert.InDelta(t, 1_000_000, rec.TotalMonetaryAmount, 0.01)
	assert.InDelta(t, 500_000, rec.AverageCaseValue, 0.01)
	assert.Equal(t, common.RiskCritical, rec.FinancialRiskLevel)
	assert.InDelta(t, 50.0, rec.SuccessRate, 0.01)

	got, err := h.Service.GetForEntity(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, rec.RiskScore, got.RiskScore)
	assert.Equal(t, rec.TotalMonetaryAmount, got.TotalMonetaryAmount)
	assert.False(t, got.ComputedAt.IsZero())
}

// TestRecomputeIsIdempotent recomputes over an unchanged corpus and expects
// the same scores with a preserved CreatedAt and a refreshed ComputedAt.
func TestRecomputeIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	id := h.seedEntity(t, "Ama Owusu")
	h.seedCase(t, caserecord.CaseRecord{
		Title:   "Owusu v Owusu",
		Summary: "Divorce and custody proceedings; petition won by the respondent.",
		Status:  "Resolved",
	})

	first, err := h.Service.ComputeForEntity(ctx, id)
	require.NoError(t, err)
	second, err := h.Service.ComputeForEntity(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, first.RiskScore, second.RiskScore)
	assert.Equal(t, first.RiskFactors, second.RiskFactors)
	assert.Equal(t, first.SuccessRate, second.SuccessRate)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.False(t, second.ComputedAt.Before(first.ComputedAt))
}

// TestEntityWithoutCases persists the zero-valued record.
func TestEntityWithoutCases(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	id := h.seedEntity(t, "Nobody Matches This Name")
	rec, err := h.Service.ComputeForEntity(ctx, id)
	require.NoError(t, err)

	assert.Zero(t, rec.RiskScore)
	assert.Equal(t, common.RiskLow, rec.RiskLevel)
	assert.Equal(t, common.RiskLow, rec.FinancialRiskLevel)
	assert.Equal(t, "N/A", rec.PrimarySubjectMatter)
	assert.Zero(t, rec.SuccessRate)
	assert.Zero(t, rec.CaseCount)
	assert.Empty(t, rec.RiskFactors)
}

// TestGetForEntityNotComputed returns ANA_001 for an entity that was never
// analysed.
func TestGetForEntityNotComputed(t *testing.T) {
	h := newHarness(t)

	id := h.seedEntity(t, "Yaa Asantewaa")
	_, err := h.Service.GetForEntity(context.Background(), id)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrCodeAnalyticsNotFound, appErrors.GetCode(err))
}

// TestSweepCoversAllEntities runs the batch path over several entities and
// expects a record per entity.
func TestSweepCoversAllEntities(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	ids := make([]common.ID, 0, 5)
	for _, name := range []string{"Kofi Boateng", "Esi Quartey", "Nana Adjei", "Akua Danso", "Yaw Ofori"} {
		ids = append(ids, h.seedEntity(t, name))
	}
	h.seedCase(t, caserecord.CaseRecord{
		Title:   "Republic v Kofi Boateng",
		Summary: "Robbery and unlawful harm.",
		Status:  "Active",
	})

	result, err := h.Service.ComputeForAllEntities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, result.Processed)
	assert.Equal(t, 5, result.Succeeded)
	assert.Zero(t, result.Failed)

	for _, id := range ids {
		rec, err := h.Service.GetForEntity(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, rec.EntityID)
	}
}
