package analytics

import (
	"sort"

	analyticsTypes "github.com/turtacn/CaseRisk-Intelligence/internal/domain/analytics"
	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
)

// ClassifySubjectMatter picks the primary subject-matter category and the
// full set of matched categories from corpus-wide keyword co-occurrence
// counts.  The primary is the category with the highest hit count; ties
// resolve to the category appearing first in the vocabulary table, so
// repeated runs are deterministic.  A corpus with no category hits
// classifies as ("N/A", []).
func ClassifySubjectMatter(v *Vocabulary, cases []*caserecord.CaseRecord) (string, []string) {
	hits := subjectMatterCounts(v, corpusText(cases))
	if len(hits) == 0 {
		return analyticsTypes.NoPrimarySubjectMatter, []string{}
	}

	primary := hits[0]
	for _, h := range hits[1:] {
		if h.count > primary.count {
			primary = h
		}
	}

	categories := make([]string, 0, len(hits))
	for _, h := range hits {
		categories = append(categories, h.name)
	}
	sort.Strings(categories)
	return primary.name, categories
}
