package analytics

import (
	"context"
	"strings"

	"github.com/turtacn/CaseRisk-Intelligence/internal/domain/caserecord"
	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

// minTokenRunes excludes short name tokens ("de", "K.") from matching, to
// suppress noise from common short words.
const minTokenRunes = 3

// separatorNormalizer rewrites name punctuation to spaces so "Kwame-Mensah"
// and "Kwame. Mensah" both match "Kwame Mensah" titles.
var separatorNormalizer = strings.NewReplacer("-", " ", ".", " ", "_", " ", ",", " ")

// Locator retrieves the case corpus plausibly associated with an entity
// name.  A case qualifies when the full name appears as a substring of the
// title, or any individual name token longer than 2 characters does.  The
// token policy trades precision for recall.
type Locator struct {
	cases  caserecord.Repository
	logger logging.Logger
}

func NewLocator(cases caserecord.Repository, logger logging.Logger) *Locator {
	return &Locator{cases: cases, logger: logger.Named("locator")}
}

// Locate returns the corpus for an entity display name.  No matches is a
// normal condition for newly added entities and returns an empty list, not
// an error.  The returned order carries no guarantee.
func (l *Locator) Locate(ctx context.Context, entityName string) ([]*caserecord.CaseRecord, error) {
	terms := searchTerms(entityName)
	if len(terms) == 0 {
		return nil, nil
	}

	cases, err := l.cases.SearchTitle(ctx, terms)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("corpus located",
		logging.String("entity_name", entityName),
		logging.Int("terms", len(terms)),
		logging.Int("cases", len(cases)),
	)
	return cases, nil
}

// searchTerms expands an entity name into its matching terms: the full name,
// the separator-normalized name, and every normalized token longer than 2
// characters, deduplicated case-insensitively.
func searchTerms(name string) []string {
	full := strings.Join(strings.Fields(name), " ")
	if full == "" {
		return nil
	}
	normalized := strings.Join(strings.Fields(separatorNormalizer.Replace(full)), " ")

	seen := make(map[string]struct{})
	var terms []string
	add := func(term string) {
		key := strings.ToLower(term)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		terms = append(terms, term)
	}

	add(full)
	if normalized != "" {
		add(normalized)
	}
	for _, token := range strings.Fields(normalized) {
		if len([]rune(token)) >= minTokenRunes {
			add(token)
		}
	}
	return terms
}
