// Package types provides type definitions for structured data used throughout the quiz-engine system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Category identifies one of the fixed confidence categories tracked per interview.
type Category string

// The eight confidence categories. The declaration order is the canonical
// tie-break order used by the selection policy.
const (
	CategoryCompanyBasics       Category = "company_basics"
	CategoryTechStack           Category = "tech_stack"
	CategoryPainPoints          Category = "pain_points"
	CategoryOperations          Category = "operations"
	CategoryGoalsPriorities     Category = "goals_priorities"
	CategoryQuantifiableMetrics Category = "quantifiable_metrics"
	CategoryIndustryContext     Category = "industry_context"
	CategoryBuyingSignals       Category = "buying_signals"
)

// AllCategories returns the fixed category set in canonical order.
func AllCategories() []Category {
	return []Category{
		CategoryCompanyBasics,
		CategoryTechStack,
		CategoryPainPoints,
		CategoryOperations,
		CategoryGoalsPriorities,
		CategoryQuantifiableMetrics,
		CategoryIndustryContext,
		CategoryBuyingSignals,
	}
}

// categoryThresholds holds the per-category completion bars. These are domain
// policy, not user data, and never change within a session.
var categoryThresholds = map[Category]float64{
	CategoryCompanyBasics:       80,
	CategoryTechStack:           70,
	CategoryPainPoints:          80,
	CategoryOperations:          60,
	CategoryGoalsPriorities:     60,
	CategoryQuantifiableMetrics: 40,
	CategoryIndustryContext:     40,
	CategoryBuyingSignals:       30,
}

// Threshold returns the completion threshold for a category on the 0-100 scale.
// Unknown categories return 100 so they can never register as met.
func Threshold(cat Category) float64 {
	if t, ok := categoryThresholds[cat]; ok {
		return t
	}
	return 100
}

// IsKnownCategory reports whether cat is one of the eight fixed categories.
func IsKnownCategory(cat Category) bool {
	_, ok := categoryThresholds[cat]
	return ok
}

// FactConfidence indicates how strongly a fact is supported by its source.
type FactConfidence string

// Fact confidence levels, strongest first.
const (
	FactExplicit   FactConfidence = "explicit"   // stated outright by the user or source
	FactInferred   FactConfidence = "inferred"   // derived from indirect evidence
	FactAssumption FactConfidence = "assumption" // plausible default, weakest
)

// FactSource identifies where a fact came from.
type FactSource string

// Fact sources.
const (
	SourceQuiz      FactSource = "quiz"
	SourceResearch  FactSource = "research"
	SourceInterview FactSource = "interview"
)

// ExtractedFact is a single atomic claim about the company, with provenance.
// Facts are append-only within a category; newer facts from a stronger source
// may supersede older ones but never delete them.
type ExtractedFact struct {
	Value      string         `json:"value"`
	Confidence FactConfidence `json:"confidence"`
	Source     FactSource     `json:"source"`
	Category   Category       `json:"category"`
	Sequence   int            `json:"sequence"`
	Superseded bool           `json:"superseded,omitempty"`
	Confirmed  bool           `json:"confirmed,omitempty"` // research fact confirmed during the interview
}

// ConfidenceState is the per-session knowledge state. It is owned by exactly
// one interview session and mutated only through the confidence package.
type ConfidenceState struct {
	Scores map[Category]float64         `json:"scores"`
	Facts  map[Category][]ExtractedFact `json:"facts"`
	Gaps   map[Category][]string        `json:"gaps"`

	// NextSequence stamps the next appended fact, preserving an auditable order.
	NextSequence int `json:"next_sequence"`
}

// CategoryMet reports whether a category's score meets its threshold.
func (s *ConfidenceState) CategoryMet(cat Category) bool {
	return s.Scores[cat] >= Threshold(cat)
}

// AllMet reports whether every fixed category meets its threshold.
func (s *ConfidenceState) AllMet() bool {
	for _, cat := range AllCategories() {
		if !s.CategoryMet(cat) {
			return false
		}
	}
	return true
}

// CompletionRatio returns score/threshold for a category, the measure the
// selection policy ranks by. Thresholds are always positive.
func (s *ConfidenceState) CompletionRatio(cat Category) float64 {
	return s.Scores[cat] / Threshold(cat)
}

// UnconfirmedResearchFact returns the first research-sourced fact in cat that
// has not yet been confirmed during the interview, or nil.
func (s *ConfidenceState) UnconfirmedResearchFact(cat Category) *ExtractedFact {
	for i := range s.Facts[cat] {
		f := &s.Facts[cat][i]
		if f.Source == SourceResearch && !f.Confirmed && !f.Superseded {
			return f
		}
	}
	return nil
}

// Clone returns a deep copy of the state, used for read-only snapshots.
func (s *ConfidenceState) Clone() *ConfidenceState {
	out := &ConfidenceState{
		Scores:       make(map[Category]float64, len(s.Scores)),
		Facts:        make(map[Category][]ExtractedFact, len(s.Facts)),
		Gaps:         make(map[Category][]string, len(s.Gaps)),
		NextSequence: s.NextSequence,
	}
	for cat, v := range s.Scores {
		out.Scores[cat] = v
	}
	for cat, facts := range s.Facts {
		out.Facts[cat] = append([]ExtractedFact(nil), facts...)
	}
	for cat, gaps := range s.Gaps {
		out.Gaps[cat] = append([]string(nil), gaps...)
	}
	return out
}
