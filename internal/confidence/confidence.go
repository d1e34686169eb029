// Package confidence owns the per-session knowledge state: seeding it from
// research, updating it from answer analyses, and tracking remaining gaps.
package confidence

import (
	"fmt"
	"math"
	"strings"

	"github.com/apexintel/quiz-engine/internal/types"
)

// Score increments per fact confidence level, on the 0-100 scale.
// Explicit statements move the needle most; assumptions barely move it.
const (
	IncrementExplicit   = 18.0
	IncrementInferred   = 10.0
	IncrementAssumption = 5.0

	// repeatDecay halves the increment each time an already-known fact value
	// is re-confirmed, so redundant answers cannot inflate a score.
	repeatDecay = 0.5

	// seedCapRatio caps research seeding at this fraction of a category's
	// threshold, so the interview always has confirmation work left.
	seedCapRatio = 0.75
)

// increment returns the base score contribution for a fact confidence level.
func increment(c types.FactConfidence) float64 {
	switch c {
	case types.FactExplicit:
		return IncrementExplicit
	case types.FactInferred:
		return IncrementInferred
	default:
		return IncrementAssumption
	}
}

// defaultGaps lists the sub-topics the interview needs to establish per
// category when nothing is known yet.
var defaultGaps = map[types.Category][]string{
	types.CategoryCompanyBasics:       {"company_size", "revenue_band", "team_structure", "location"},
	types.CategoryTechStack:           {"crm", "communication_tools", "data_storage", "integrations"},
	types.CategoryPainPoints:          {"manual_processes", "bottlenecks", "error_prone_tasks"},
	types.CategoryOperations:          {"daily_workflow", "handoffs", "volume_metrics"},
	types.CategoryGoalsPriorities:     {"growth_targets", "cost_targets", "timeline"},
	types.CategoryQuantifiableMetrics: {"hours_spent", "cost_per_task", "error_rate"},
	types.CategoryIndustryContext:     {"regulation", "seasonality", "competition"},
	types.CategoryBuyingSignals:       {"budget", "decision_maker", "urgency"},
}

// NewState returns a fully initialized zero-knowledge state with every fixed
// category present.
func NewState() *types.ConfidenceState {
	s := &types.ConfidenceState{
		Scores: make(map[types.Category]float64, 8),
		Facts:  make(map[types.Category][]types.ExtractedFact, 8),
		Gaps:   make(map[types.Category][]string, 8),
	}
	for _, cat := range types.AllCategories() {
		s.Scores[cat] = 0
		s.Facts[cat] = nil
		s.Gaps[cat] = append([]string(nil), defaultGaps[cat]...)
	}
	return s
}

// CreateInitialFromResearch seeds a fresh state from an external research
// profile. Missing or empty profiles are fine: every category still ends up
// present with a score in [0,100]. Seeded facts are stamped source=research,
// and no category is seeded to its threshold.
func CreateInitialFromResearch(profile *types.ResearchProfile) *types.ConfidenceState {
	state := NewState()
	if profile.IsEmpty() {
		return state
	}

	seed := func(cat types.Category, value, gap string) {
		if value == "" {
			return
		}
		appendFact(state, types.ExtractedFact{
			Value:      value,
			Confidence: types.FactInferred,
			Source:     types.SourceResearch,
			Category:   cat,
		})
		ceiling := types.Threshold(cat) * seedCapRatio
		state.Scores[cat] = math.Min(state.Scores[cat]+IncrementInferred, ceiling)
		removeGap(state, cat, gap)
	}

	seed(types.CategoryCompanyBasics, profile.CompanyName, "")
	seed(types.CategoryCompanyBasics, profile.EmployeeBand, "company_size")
	seed(types.CategoryCompanyBasics, profile.Location, "location")
	for _, tool := range profile.TechStack {
		seed(types.CategoryTechStack, tool, "")
	}
	seed(types.CategoryIndustryContext, profile.Industry, "")
	seed(types.CategoryIndustryContext, profile.NewsSummary, "")
	for _, comp := range profile.Competitors {
		seed(types.CategoryIndustryContext, comp, "competition")
	}
	seed(types.CategoryBuyingSignals, profile.FundingStage, "budget")

	return state
}

// UpdateFromAnalysis applies one answer analysis to the state in place and
// returns the same state as the canonical reference. Scores never decrease and
// stay within [0,100]. A zero-fact analysis leaves every score untouched.
func UpdateFromAnalysis(state *types.ConfidenceState, analysis *types.AnswerAnalysis) *types.ConfidenceState {
	if analysis == nil {
		return state
	}
	for _, fact := range analysis.Facts {
		if !types.IsKnownCategory(fact.Category) {
			continue
		}
		repeats := countRepeats(state, fact.Category, fact.Value)
		supersede(state, fact)
		appendFact(state, fact)

		inc := increment(fact.Confidence) * math.Pow(repeatDecay, float64(repeats))
		next := state.Scores[fact.Category] + inc
		state.Scores[fact.Category] = math.Min(100, math.Max(state.Scores[fact.Category], next))

		pruneGaps(state, fact)
	}
	return state
}

// appendFact stamps and appends a fact to its category list.
func appendFact(state *types.ConfidenceState, fact types.ExtractedFact) {
	fact.Sequence = state.NextSequence
	state.NextSequence++
	state.Facts[fact.Category] = append(state.Facts[fact.Category], fact)
}

// countRepeats counts live facts in cat with the same normalized value.
func countRepeats(state *types.ConfidenceState, cat types.Category, value string) int {
	n := 0
	for _, f := range state.Facts[cat] {
		if !f.Superseded && normalize(f.Value) == normalize(value) {
			n++
		}
	}
	return n
}

// supersede marks older same-value facts from weaker sources as superseded,
// and marks matching research facts as confirmed. Nothing is ever deleted.
func supersede(state *types.ConfidenceState, incoming types.ExtractedFact) {
	facts := state.Facts[incoming.Category]
	for i := range facts {
		if normalize(facts[i].Value) != normalize(incoming.Value) {
			continue
		}
		if facts[i].Source == types.SourceResearch {
			facts[i].Confirmed = true
		}
		if strength(incoming.Confidence) > strength(facts[i].Confidence) {
			facts[i].Superseded = true
		}
	}
}

// pruneGaps removes gap sub-topics the fact plausibly covers: an exact topic
// match against the fact value, or the gap topic appearing in the value.
func pruneGaps(state *types.ConfidenceState, fact types.ExtractedFact) {
	val := normalize(fact.Value)
	remaining := state.Gaps[fact.Category][:0]
	for _, gap := range state.Gaps[fact.Category] {
		topic := strings.ReplaceAll(gap, "_", " ")
		if strings.Contains(val, topic) || strings.Contains(val, gap) {
			continue
		}
		remaining = append(remaining, gap)
	}
	state.Gaps[fact.Category] = remaining
}

func removeGap(state *types.ConfidenceState, cat types.Category, gap string) {
	if gap == "" {
		return
	}
	remaining := state.Gaps[cat][:0]
	for _, g := range state.Gaps[cat] {
		if g != gap {
			remaining = append(remaining, g)
		}
	}
	state.Gaps[cat] = remaining
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func strength(c types.FactConfidence) int {
	switch c {
	case types.FactExplicit:
		return 3
	case types.FactInferred:
		return 2
	default:
		return 1
	}
}

// Validate checks the state invariants: all categories present, scores in
// bounds. Used when rehydrating persisted sessions.
func Validate(state *types.ConfidenceState) error {
	for _, cat := range types.AllCategories() {
		score, ok := state.Scores[cat]
		if !ok {
			return fmt.Errorf("confidence state missing category %s", cat)
		}
		if score < 0 || score > 100 {
			return fmt.Errorf("confidence score for %s out of bounds: %g", cat, score)
		}
	}
	return nil
}
