// Package caserecord models legal case documents as read-only inputs to the
// analytics engine.  A CaseRecord exposes exactly the fields the signal
// extractors consume; storage-layer shape (row layout, nullable columns)
// stays behind the repository implementations.
package caserecord

import (
	"strings"
	"time"

	"github.com/turtacn/CaseRisk-Intelligence/pkg/types/common"
)

// textSeparator joins the free-text fields of a case into one searchable
// blob.  Extractors do case-insensitive substring matching, so the exact
// separator only needs to prevent accidental cross-field keyword joins.
const textSeparator = " | "

// resolvedMarker is the substring (matched case-insensitively) that flags a
// case status as finally disposed.
const resolvedMarker = "resolved"

// CaseRecord is one legal case document.  All fields are immutable from the
// analytics engine's perspective.
type CaseRecord struct {
	ID             common.ID `json:"id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	DecisionText   string    `json:"decision_text"`
	JudgementText  string    `json:"judgement_text"`
	ConclusionText string    `json:"conclusion_text"`
	Keywords       []string  `json:"keywords"`
	AreaOfLaw      string    `json:"area_of_law"`
	Status         string    `json:"status"`
	FiledAt        time.Time `json:"filed_at"`
}

// CombinedText concatenates every non-empty text field of the case, in a
// fixed order, for the extractors to scan.  Returns "" when the case carries
// no text at all.
func (c *CaseRecord) CombinedText() string {
	parts := make([]string, 0, 7)
	for _, s := range []string{
		c.Title,
		c.Summary,
		c.DecisionText,
		c.JudgementText,
		c.ConclusionText,
		strings.Join(c.Keywords, " "),
		c.AreaOfLaw,
	} {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, textSeparator)
}

// HasText reports whether the case contributes any scannable text.  Cases
// without text yield zero signals, which is not an error.
func (c *CaseRecord) HasText() bool {
	return c.CombinedText() != ""
}

// IsResolved reports whether the case status indicates a final disposition.
func (c *CaseRecord) IsResolved() bool {
	return strings.Contains(strings.ToLower(c.Status), resolvedMarker)
}
