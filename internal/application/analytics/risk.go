package analytics

import (
	"math"
	"sort"

	analyticsTypes "github.com/turtacn/CaseRisk-Intelligence/internal/domain/analytics"
	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
	commonTypes "github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// ScoreRisk aggregates risk-keyword signals across a corpus into a
// normalized 0-100 score, a discrete level, and the deduplicated sorted set
// of "category: keyword" factors that produced the score.
//
// An empty corpus scores (0, Low, []) — the defined result for entities with
// no associated litigation.
func ScoreRisk(v *Vocabulary, cases []*caserecord.CaseRecord) (int, commonTypes.RiskLevel, []string) {
	if len(cases) == 0 {
		return 0, commonTypes.RiskLow, []string{}
	}

	total := 0
	seen := make(map[string]struct{})
	for _, c := range cases {
		score, hits := caseRiskSignals(v, c)
		total += score
		for _, h := range hits {
			seen[h] = struct{}{}
		}
	}

	factors := make([]string, 0, len(seen))
	for f := range seen {
		factors = append(factors, f)
	}
	sort.Strings(factors)

	ceiling := v.PerCaseCeiling
	if ceiling <= 0 {
		ceiling = defaultPerCaseCeiling
	}
	maxPossible := len(cases) * ceiling
	normalized := int(math.Round(float64(total) / float64(maxPossible) * 100))
	if normalized > 100 {
		normalized = 100
	}
	return normalized, analyticsTypes.RiskLevelForScore(normalized), factors
}

// ExtractLegalIssues returns the sorted, title-cased legal-issue vocabulary
// terms present anywhere in the corpus.
func ExtractLegalIssues(v *Vocabulary, cases []*caserecord.CaseRecord) []string {
	return vocabularyMatches(v.LegalIssues, corpusText(cases))
}
