// Package analytics computes per-entity legal-risk and financial-exposure
// records from the free-text corpus of case records mentioning the entity.
// Extraction is deterministic pattern and keyword matching; the package
// produces best-effort heuristic scores, not certified risk ratings.
package analytics

// RiskCategory couples a named risk family with its score weight and the
// keywords that signal it.
type RiskCategory struct {
	Name     string
	Weight   int
	Keywords []string
}

// SubjectCategory maps a subject-matter label to its representative keywords.
// Table order is significant: classification ties resolve to the category
// that appears first.
type SubjectCategory struct {
	Name     string
	Keywords []string
}

// Vocabulary is the immutable keyword/weight configuration injected into
// every extractor call.  Two deployments sharing a vocabulary produce
// identical records from the same corpus.
type Vocabulary struct {
	RiskCategories    []RiskCategory
	SubjectCategories []SubjectCategory
	LegalIssues       []string
	FinancialTerms    []string
	FavorableOutcomes []string

	// CriminalAreaBonus is added once per case whose area-of-law label
	// mentions "criminal"; ConvictedBonus once per case whose status
	// mentions "convicted".  Both stack with keyword hits.
	CriminalAreaBonus int
	ConvictedBonus    int

	// PerCaseCeiling is the assumed maximum score a single case can
	// contribute, used to normalize corpus totals into [0,100].  Zero or
	// negative values are treated as defaultPerCaseCeiling by the scorer.
	PerCaseCeiling int
}

// defaultPerCaseCeiling backs DefaultVocabulary and guards ScoreRisk
// against a hand-built Vocabulary that leaves the ceiling unset.
const defaultPerCaseCeiling = 50

// DefaultVocabulary returns the built-in scoring tables.  The weights and
// keyword lists are heuristic tuning values; callers that need
// per-deployment tuning construct their own Vocabulary instead of mutating
// this one.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		RiskCategories: []RiskCategory{
			{Name: "criminal", Weight: 10, Keywords: []string{
				"fraud", "theft", "robbery", "embezzlement", "murder", "smuggling",
			}},
			{Name: "financial", Weight: 8, Keywords: []string{
				"money laundering", "tax evasion", "forgery", "counterfeit", "misappropriation",
			}},
			{Name: "violence", Weight: 9, Keywords: []string{
				"assault", "battery", "violence", "threat of harm", "unlawful harm",
			}},
			{Name: "corruption", Weight: 7, Keywords: []string{
				"corruption", "bribery", "kickback", "abuse of office", "extortion",
			}},
			{Name: "business_dispute", Weight: 3, Keywords: []string{
				"breach of contract", "debt recovery", "loan default", "partnership dispute", "winding up",
			}},
			{Name: "family", Weight: 2, Keywords: []string{
				"divorce", "custody", "maintenance", "alimony", "inheritance",
			}},
			{Name: "property", Weight: 4, Keywords: []string{
				"trespass", "encroachment", "land dispute", "eviction", "adverse possession",
			}},
		},
		SubjectCategories: []SubjectCategory{
			{Name: "Contract Dispute", Keywords: []string{
				"contract", "agreement", "breach", "obligation", "consideration",
			}},
			{Name: "Property Dispute", Keywords: []string{
				"property", "land", "title", "boundary", "lease", "tenancy",
			}},
			{Name: "Fraud", Keywords: []string{
				"fraud", "misrepresentation", "deceit", "forgery", "false pretence",
			}},
			{Name: "Family Law", Keywords: []string{
				"divorce", "custody", "marriage", "maintenance", "inheritance",
			}},
			{Name: "Criminal", Keywords: []string{
				"criminal", "prosecution", "offence", "sentence", "conviction",
			}},
			{Name: "Commercial", Keywords: []string{
				"company", "shareholder", "director", "insolvency", "partnership",
			}},
			{Name: "Employment", Keywords: []string{
				"employment", "dismissal", "wages", "redundancy", "severance",
			}},
			{Name: "Tort", Keywords: []string{
				"negligence", "damages", "liability", "nuisance", "defamation",
			}},
			{Name: "Constitutional", Keywords: []string{
				"constitutional", "fundamental rights", "judicial review", "supreme court",
			}},
			{Name: "Administrative", Keywords: []string{
				"administrative", "licence", "regulation", "permit", "public authority",
			}},
		},
		LegalIssues: []string{
			"constitutional", "due process", "contract breach", "negligence",
			"human rights", "jurisdiction", "natural justice", "limitation period",
		},
		FinancialTerms: []string{
			"interest rate", "damages", "injunction", "compensation",
			"garnishee", "liquidation", "mortgage", "judgment debt",
		},
		FavorableOutcomes: []string{
			"dismissed", "acquitted", "favorable", "won", "successful",
		},
		CriminalAreaBonus: 5,
		ConvictedBonus:    10,
		PerCaseCeiling:    defaultPerCaseCeiling,
	}
}
