package analytics

import (
	"strings"

	analyticsTypes "github.com/turtacn/CaseRisk-Intelligence/internal/domain/analytics"
	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
)

// SuccessRate computes the percentage of resolved cases whose text matches a
// favorable-outcome keyword, rounded to 2 decimal places.  A corpus with no
// resolved cases rates 0.00.
func SuccessRate(v *Vocabulary, cases []*caserecord.CaseRecord) float64 {
	resolved := 0
	favorable := 0
	for _, c := range cases {
		if !c.IsResolved() {
			continue
		}
		resolved++
		text := strings.ToLower(c.CombinedText())
		for _, kw := range v.FavorableOutcomes {
			if strings.Contains(text, kw) {
				favorable++
				break
			}
		}
	}
	if resolved == 0 {
		return 0
	}
	return analyticsTypes.Round2(float64(favorable) / float64(resolved) * 100)
}
