package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
)

func textCase(text string) *caserecord.CaseRecord {
	return &caserecord.CaseRecord{Title: text}
}

func TestMonetaryAmounts(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []float64
	}{
		{"ghs with separators", "awarded GHS 1,250,000.50 in damages", []float64{1250000.50}},
		{"dollar sign", "a claim of $2,000 plus costs", []float64{2000}},
		{"cedi symbol", "fined GH¢ 75.25 by the court", []float64{75.25}},
		{"suffix cedis", "paid 500 cedis on settlement", []float64{500}},
		{"suffix dollars uppercase", "valued at 1,000 DOLLARS", []float64{1000}},
		{"multiple amounts", "GHS 100 now and $250.50 later", []float64{100, 250.50}},
		{"no amounts", "the appeal was dismissed with no order as to costs", nil},
		{"bare number without marker", "section 42 of Act 29", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, monetaryAmounts(tt.text))
		})
	}
}

func TestCaseRiskSignals(t *testing.T) {
	vocab := DefaultVocabulary()

	t.Run("keyword hit with bonuses", func(t *testing.T) {
		rec := &caserecord.CaseRecord{
			Title:     "Republic v Mensah",
			Summary:   "Fraud in the procurement process",
			AreaOfLaw: "Criminal Law",
			Status:    "Convicted",
		}
		score, hits := caseRiskSignals(vocab, rec)
		// fraud (10) + criminal area (5) + convicted status (10)
		assert.Equal(t, 25, score)
		assert.Equal(t, []string{"criminal: fraud"}, hits)
	})

	t.Run("no text contributes nothing", func(t *testing.T) {
		rec := &caserecord.CaseRecord{Status: "Convicted"}
		score, hits := caseRiskSignals(vocab, rec)
		assert.Zero(t, score)
		assert.Empty(t, hits)
	})

	t.Run("multiple categories accumulate", func(t *testing.T) {
		rec := textCase("bribery and assault during the eviction")
		score, hits := caseRiskSignals(vocab, rec)
		// corruption: bribery (7) + violence: assault (9) + property: eviction (4)
		assert.Equal(t, 20, score)
		assert.ElementsMatch(t, []string{"corruption: bribery", "violence: assault", "property: eviction"}, hits)
	})
}

func TestSubjectMatterCounts(t *testing.T) {
	vocab := DefaultVocabulary()

	hits := subjectMatterCounts(vocab, "dispute over the lease and tenancy of the land")
	require.Len(t, hits, 1)
	assert.Equal(t, "Property Dispute", hits[0].name)
	assert.Equal(t, 3, hits[0].count)

	assert.Empty(t, subjectMatterCounts(vocab, "nothing of note"))
}

func TestVocabularyMatches(t *testing.T) {
	terms := []string{"damages", "interest rate", "garnishee"}
	got := vocabularyMatches(terms, "general damages at the prevailing interest rate")
	assert.Equal(t, []string{"Damages", "Interest Rate"}, got)

	assert.Equal(t, []string{}, vocabularyMatches(terms, "no financial language"))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Due Process", titleCase("due process"))
	assert.Equal(t, "Damages", titleCase("damages"))
	assert.Equal(t, "", titleCase(""))
}
