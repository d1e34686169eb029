package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexintel/quiz-engine/internal/types"
)

func TestListIndustries(t *testing.T) {
	slugs, err := ListIndustries()
	require.NoError(t, err)
	assert.Contains(t, slugs, "default")
	assert.Contains(t, slugs, "dental")
	assert.Contains(t, slugs, "logistics")
}

func TestLoad_Dental(t *testing.T) {
	b, err := Load("dental")
	require.NoError(t, err)
	assert.Equal(t, "dental", b.Industry)
	assert.NotEmpty(t, b.Questions)

	// Deep-dive templates resolve to real questions.
	for _, dd := range b.DeepDiveTemplates {
		assert.NotNil(t, b.Question(dd.QuestionID), "deep dive %q should resolve", dd.Trigger)
	}

	// Every target category is one of the fixed eight.
	for _, q := range b.Questions {
		require.NotEmpty(t, q.ID)
		for _, cat := range q.TargetCategories {
			assert.True(t, types.IsKnownCategory(cat), "question %s targets unknown category %s", q.ID, cat)
		}
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("underwater-basket-weaving")
	require.ErrorIs(t, err, ErrBankNotFound)
}

func TestLoad_RepeatedCallsEquivalent(t *testing.T) {
	a, err := Load("default")
	require.NoError(t, err)
	b, err := Load("default")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestLoadOrDefault_FallsBack(t *testing.T) {
	b, err := LoadOrDefault("underwater-basket-weaving")
	require.NoError(t, err)
	assert.Equal(t, DefaultIndustry, b.Industry)

	b, err = LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultIndustry, b.Industry)

	b, err = LoadOrDefault("dental")
	require.NoError(t, err)
	assert.Equal(t, "dental", b.Industry)
}

func TestPreloadAll(t *testing.T) {
	banks, err := PreloadAll()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(banks), 3)
	require.NotNil(t, banks["dental"])
	assert.Equal(t, "dental", banks["dental"].Industry)
}

func TestValidateBank_CatchesBrokenReferences(t *testing.T) {
	b := &types.IndustryQuestionBank{
		Industry: "broken",
		Questions: []types.BankQuestion{
			{ID: "q1", Text: "x", InputType: types.InputText, TargetCategories: []types.Category{types.CategoryPainPoints}},
			{ID: "q1", Text: "dup", InputType: types.InputText, TargetCategories: []types.Category{types.Category("nope")}},
		},
		DeepDiveTemplates: []types.DeepDiveTemplate{
			{Trigger: "ghost", QuestionID: "missing"},
		},
	}

	err := validateBank(b)
	require.Error(t, err)
	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Contains(t, ve.Error(), "duplicate question id")
	assert.Contains(t, ve.Error(), "unknown category")
	assert.Contains(t, ve.Error(), "unknown question")
}

func TestWovenTemplateLookup(t *testing.T) {
	b, err := Load("dental")
	require.NoError(t, err)

	wt := b.WovenTemplateFor(types.CategoryTechStack)
	require.NotNil(t, wt)
	assert.Contains(t, wt.Text, "{{fact}}")

	assert.Nil(t, b.WovenTemplateFor(types.CategoryGoalsPriorities))
}
