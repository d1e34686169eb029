package confidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexintel/quiz-engine/internal/types"
)

func quizFact(cat types.Category, value string, conf types.FactConfidence) types.ExtractedFact {
	return types.ExtractedFact{
		Value:      value,
		Confidence: conf,
		Source:     types.SourceQuiz,
		Category:   cat,
	}
}

func TestCreateInitialFromResearch_EmptyProfile(t *testing.T) {
	state := CreateInitialFromResearch(&types.ResearchProfile{})

	for _, cat := range types.AllCategories() {
		score, ok := state.Scores[cat]
		require.True(t, ok, "category %s missing", cat)
		assert.Equal(t, 0.0, score)
		assert.NotEmpty(t, state.Gaps[cat], "category %s should start with gaps", cat)
	}
	require.NoError(t, Validate(state))
}

func TestCreateInitialFromResearch_NilProfile(t *testing.T) {
	state := CreateInitialFromResearch(nil)
	require.NoError(t, Validate(state))
	for _, cat := range types.AllCategories() {
		assert.Equal(t, 0.0, state.Scores[cat])
	}
}

func TestCreateInitialFromResearch_SeedsFromProfile(t *testing.T) {
	state := CreateInitialFromResearch(&types.ResearchProfile{
		CompanyName:  "Brightline Dental",
		EmployeeBand: "11-50",
		TechStack:    []string{"HubSpot"},
		Industry:     "dental",
	})

	assert.Greater(t, state.Scores[types.CategoryCompanyBasics], 0.0)
	assert.Greater(t, state.Scores[types.CategoryTechStack], 0.0)
	assert.Greater(t, state.Scores[types.CategoryIndustryContext], 0.0)
	assert.Equal(t, 0.0, state.Scores[types.CategoryPainPoints])

	// Every seeded fact carries research provenance.
	for _, f := range state.Facts[types.CategoryTechStack] {
		assert.Equal(t, types.SourceResearch, f.Source)
	}
}

func TestCreateInitialFromResearch_NeverReachesThreshold(t *testing.T) {
	// A profile rich enough to exceed any seed cap.
	state := CreateInitialFromResearch(&types.ResearchProfile{
		CompanyName:  "MegaCorp",
		EmployeeBand: "500+",
		Location:     "Austin",
		TechStack:    []string{"HubSpot", "Salesforce", "Zendesk", "Slack", "Jira", "Notion", "Asana", "Stripe"},
		Industry:     "logistics",
		Competitors:  []string{"A", "B", "C", "D"},
		NewsSummary:  "Raised a series B.",
		FundingStage: "series_b",
	})

	for _, cat := range types.AllCategories() {
		assert.Less(t, state.Scores[cat], types.Threshold(cat),
			"category %s must not be seeded to its threshold", cat)
	}
}

func TestUpdateFromAnalysis_Monotonic(t *testing.T) {
	state := NewState()
	answers := []*types.AnswerAnalysis{
		{Facts: []types.ExtractedFact{quizFact(types.CategoryPainPoints, "manual invoicing", types.FactExplicit)}},
		{},
		{Facts: []types.ExtractedFact{quizFact(types.CategoryPainPoints, "slow onboarding", types.FactInferred)}},
		{Facts: []types.ExtractedFact{quizFact(types.CategoryTechStack, "uses QuickBooks", types.FactAssumption)}},
	}

	prev := map[types.Category]float64{}
	for _, a := range answers {
		UpdateFromAnalysis(state, a)
		for _, cat := range types.AllCategories() {
			assert.GreaterOrEqual(t, state.Scores[cat], prev[cat], "score regressed for %s", cat)
			assert.GreaterOrEqual(t, state.Scores[cat], 0.0)
			assert.LessOrEqual(t, state.Scores[cat], 100.0)
			prev[cat] = state.Scores[cat]
		}
	}
}

func TestUpdateFromAnalysis_ExplicitBeatsInferred(t *testing.T) {
	a := NewState()
	UpdateFromAnalysis(a, &types.AnswerAnalysis{
		Facts: []types.ExtractedFact{quizFact(types.CategoryOperations, "two-step handoff", types.FactExplicit)},
	})
	b := NewState()
	UpdateFromAnalysis(b, &types.AnswerAnalysis{
		Facts: []types.ExtractedFact{quizFact(types.CategoryOperations, "two-step handoff", types.FactInferred)},
	})
	assert.Greater(t, a.Scores[types.CategoryOperations], b.Scores[types.CategoryOperations])
}

func TestUpdateFromAnalysis_DiminishingRepeats(t *testing.T) {
	state := NewState()
	fact := quizFact(types.CategoryGoalsPriorities, "wants to double revenue", types.FactExplicit)

	UpdateFromAnalysis(state, &types.AnswerAnalysis{Facts: []types.ExtractedFact{fact}})
	first := state.Scores[types.CategoryGoalsPriorities]

	UpdateFromAnalysis(state, &types.AnswerAnalysis{Facts: []types.ExtractedFact{fact}})
	second := state.Scores[types.CategoryGoalsPriorities] - first

	require.Equal(t, IncrementExplicit, first)
	assert.Equal(t, IncrementExplicit/2, second)

	UpdateFromAnalysis(state, &types.AnswerAnalysis{Facts: []types.ExtractedFact{fact}})
	third := state.Scores[types.CategoryGoalsPriorities] - first - second
	assert.Less(t, third, second)
}

func TestUpdateFromAnalysis_ClampsAt100(t *testing.T) {
	state := NewState()
	for i := 0; i < 50; i++ {
		UpdateFromAnalysis(state, &types.AnswerAnalysis{
			Facts: []types.ExtractedFact{quizFact(types.CategoryBuyingSignals,
				"budget approved "+string(rune('a'+i)), types.FactExplicit)},
		})
	}
	assert.Equal(t, 100.0, state.Scores[types.CategoryBuyingSignals])
}

func TestUpdateFromAnalysis_ZeroFactsIsNoOp(t *testing.T) {
	state := CreateInitialFromResearch(&types.ResearchProfile{CompanyName: "Acme"})
	before := state.Clone()

	UpdateFromAnalysis(state, &types.AnswerAnalysis{})
	UpdateFromAnalysis(state, nil)

	for _, cat := range types.AllCategories() {
		assert.Equal(t, before.Scores[cat], state.Scores[cat])
	}
}

func TestUpdateFromAnalysis_FactsAppendOnly(t *testing.T) {
	state := NewState()
	UpdateFromAnalysis(state, &types.AnswerAnalysis{
		Facts: []types.ExtractedFact{quizFact(types.CategoryTechStack, "HubSpot", types.FactInferred)},
	})
	UpdateFromAnalysis(state, &types.AnswerAnalysis{
		Facts: []types.ExtractedFact{quizFact(types.CategoryTechStack, "HubSpot", types.FactExplicit)},
	})

	facts := state.Facts[types.CategoryTechStack]
	require.Len(t, facts, 2, "older facts must not be deleted")
	assert.True(t, facts[0].Superseded, "weaker fact is marked superseded")
	assert.False(t, facts[1].Superseded)
	assert.Less(t, facts[0].Sequence, facts[1].Sequence)
}

func TestUpdateFromAnalysis_ConfirmsResearchFacts(t *testing.T) {
	state := CreateInitialFromResearch(&types.ResearchProfile{TechStack: []string{"HubSpot"}})
	require.NotNil(t, state.UnconfirmedResearchFact(types.CategoryTechStack))

	UpdateFromAnalysis(state, &types.AnswerAnalysis{
		Facts: []types.ExtractedFact{quizFact(types.CategoryTechStack, "hubspot", types.FactExplicit)},
	})
	assert.Nil(t, state.UnconfirmedResearchFact(types.CategoryTechStack))
}

func TestUpdateFromAnalysis_UnknownCategoryIgnored(t *testing.T) {
	state := NewState()
	UpdateFromAnalysis(state, &types.AnswerAnalysis{
		Facts: []types.ExtractedFact{quizFact(types.Category("mystery"), "whatever", types.FactExplicit)},
	})
	require.NoError(t, Validate(state))
	for _, cat := range types.AllCategories() {
		assert.Equal(t, 0.0, state.Scores[cat])
	}
}

func TestUpdateFromAnalysis_PrunesGaps(t *testing.T) {
	state := NewState()
	UpdateFromAnalysis(state, &types.AnswerAnalysis{
		Facts: []types.ExtractedFact{quizFact(types.CategoryCompanyBasics,
			"company size is about 40 people", types.FactExplicit)},
	})
	assert.NotContains(t, state.Gaps[types.CategoryCompanyBasics], "company_size")
	assert.Contains(t, state.Gaps[types.CategoryCompanyBasics], "revenue_band")
}
