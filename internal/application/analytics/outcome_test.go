package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
)

func resolvedCase(text string) *caserecord.CaseRecord {
	return &caserecord.CaseRecord{Title: text, Status: "Resolved"}
}

func TestSuccessRate(t *testing.T) {
	vocab := DefaultVocabulary()

	t.Run("no resolved cases", func(t *testing.T) {
		cases := []*caserecord.CaseRecord{
			{Title: "pending appeal", Status: "Active"},
			{Title: "case dismissed", Status: "Pending"},
		}
		assert.Zero(t, SuccessRate(vocab, cases))
	})

	t.Run("four resolved, three favorable", func(t *testing.T) {
		cases := []*caserecord.CaseRecord{
			resolvedCase("suit dismissed with costs"),
			resolvedCase("accused acquitted on all counts"),
			resolvedCase("plaintiff won the claim"),
			resolvedCase("judgment entered against defendant"),
			{Title: "appeal dismissed", Status: "Active"},
		}
		assert.Equal(t, 75.00, SuccessRate(vocab, cases))
	})

	t.Run("rounds to two decimals", func(t *testing.T) {
		cases := []*caserecord.CaseRecord{
			resolvedCase("application successful"),
			resolvedCase("claim refused"),
			resolvedCase("petition struck out"),
		}
		assert.Equal(t, 33.33, SuccessRate(vocab, cases))
	})

	t.Run("case-insensitive resolution marker", func(t *testing.T) {
		cases := []*caserecord.CaseRecord{
			{Title: "matter favorable to applicant", Status: "RESOLVED - closed"},
		}
		assert.Equal(t, 100.00, SuccessRate(vocab, cases))
	})
}
