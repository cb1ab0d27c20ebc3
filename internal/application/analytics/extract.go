package analytics

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
)

// ─────────────────────────────────────────────────────────────────────────────
// Signal extractors.  All are pure functions over immutable case text and an
// injected Vocabulary, so callers may run them concurrently over the same
// corpus.  A case without text content contributes zero signals.
// ─────────────────────────────────────────────────────────────────────────────

// moneyPattern matches amounts written as "$1,000.50", "GHS 1,250,000.50",
// "GH¢ 75.25" or "500 cedis" / "500 dollars", with optional thousands
// separators.
var moneyPattern = regexp.MustCompile(
	`(?i)(?:\$|GHS\s*|GH¢\s*)\s*\d[\d,]*(?:\.\d+)?|\b\d[\d,]*(?:\.\d+)?\s*(?:dollars|cedis)\b`)

// nonNumeric strips everything but digits and the decimal point from a
// matched amount before parsing.
var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// caseRiskSignals scans one case and returns its risk score plus one
// "category: keyword" hit string per matched keyword.  Area-of-law and
// status bonuses stack on top of keyword weights.
func caseRiskSignals(v *Vocabulary, rec *caserecord.CaseRecord) (int, []string) {
	if !rec.HasText() {
		return 0, nil
	}
	text := strings.ToLower(rec.CombinedText())

	score := 0
	var hits []string
	for _, cat := range v.RiskCategories {
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				score += cat.Weight
				hits = append(hits, cat.Name+": "+kw)
			}
		}
	}
	if strings.Contains(strings.ToLower(rec.AreaOfLaw), "criminal") {
		score += v.CriminalAreaBonus
	}
	if strings.Contains(strings.ToLower(rec.Status), "convicted") {
		score += v.ConvictedBonus
	}
	return score, hits
}

// monetaryAmounts returns every parseable monetary amount mentioned in text.
// Matches that fail to parse are discarded, not reported.
func monetaryAmounts(text string) []float64 {
	var amounts []float64
	for _, match := range moneyPattern.FindAllString(text, -1) {
		raw := nonNumeric.ReplaceAllString(match, "")
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		amounts = append(amounts, value)
	}
	return amounts
}

// corpusText concatenates the lowered combined text of every case, for the
// corpus-level extractors.
func corpusText(cases []*caserecord.CaseRecord) string {
	var b strings.Builder
	for _, c := range cases {
		if !c.HasText() {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(" | ")
		}
		b.WriteString(strings.ToLower(c.CombinedText()))
	}
	return b.String()
}

// subjectHit pairs a subject category with its corpus-wide keyword-hit count.
type subjectHit struct {
	name  string
	count int
}

// subjectMatterCounts counts, per category and in table order, how many of
// the category's keywords occur anywhere in the corpus text.  Categories
// with zero hits are excluded.
func subjectMatterCounts(v *Vocabulary, text string) []subjectHit {
	var hits []subjectHit
	for _, cat := range v.SubjectCategories {
		count := 0
		for _, kw := range cat.Keywords {
			if strings.Contains(text, kw) {
				count++
			}
		}
		if count > 0 {
			hits = append(hits, subjectHit{name: cat.Name, count: count})
		}
	}
	return hits
}

// vocabularyMatches returns the title-cased, sorted set of vocabulary terms
// present in the corpus text.
func vocabularyMatches(terms []string, text string) []string {
	matched := []string{}
	for _, term := range terms {
		if strings.Contains(text, strings.ToLower(term)) {
			matched = append(matched, titleCase(term))
		}
	}
	sort.Strings(matched)
	return matched
}

// titleCase upper-cases the first letter of every word.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
