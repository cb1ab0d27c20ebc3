package analytics

import (
	analyticsTypes "github.com/turtacn/CaseRisk-Intelligence/internal/domain/analytics"
	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
	commonTypes "github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// AssessFinancialImpact collects every monetary amount mentioned across the
// corpus and reduces them to a total, per-mention average, and discrete
// financial-risk level.  A corpus with no monetary mentions assesses as
// (0.00, 0.00, Low).
func AssessFinancialImpact(cases []*caserecord.CaseRecord) (float64, float64, commonTypes.RiskLevel) {
	var amounts []float64
	for _, c := range cases {
		if !c.HasText() {
			continue
		}
		amounts = append(amounts, monetaryAmounts(c.CombinedText())...)
	}
	if len(amounts) == 0 {
		return 0, 0, commonTypes.RiskLow
	}

	total := 0.0
	for _, a := range amounts {
		total += a
	}
	total = analyticsTypes.Round2(total)
	average := analyticsTypes.Round2(total / float64(len(amounts)))
	return total, average, analyticsTypes.FinancialRiskLevelForTotal(total)
}

// ExtractFinancialTerms returns the sorted, title-cased financial-term
// vocabulary terms present anywhere in the corpus.
func ExtractFinancialTerms(v *Vocabulary, cases []*caserecord.CaseRecord) []string {
	return vocabularyMatches(v.FinancialTerms, corpusText(cases))
}
