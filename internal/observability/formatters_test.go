package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apexintel/quiz-engine/internal/types"
)

func TestPrintConfidenceState(t *testing.T) {
	state := &types.ConfidenceState{Scores: map[types.Category]float64{}}
	for _, cat := range types.AllCategories() {
		state.Scores[cat] = 0
	}
	state.Scores[types.CategoryCompanyBasics] = 85

	var buf bytes.Buffer
	NewPrinter(&buf).PrintConfidenceState(state)

	out := buf.String()
	assert.Contains(t, out, "CONFIDENCE STATE")
	assert.Contains(t, out, "✓ company_basics")
	assert.Contains(t, out, "tech_stack")
	assert.Contains(t, out, "Overall completion")
}

func TestPrintConfidenceState_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintConfidenceState(nil)
	assert.Empty(t, buf.String())
}

func TestPrintAnalysis(t *testing.T) {
	analysis := &types.AnswerAnalysis{
		Facts: []types.ExtractedFact{
			{Value: "12 employees", Confidence: types.FactExplicit, Category: types.CategoryCompanyBasics},
		},
		PainSignals: []types.PainSignal{{Topic: "manual_process", Evidence: "we do it all by hand"}},
		Sentiment:   types.SentimentNegative,
		Urgency:     types.UrgencyHigh,
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(analysis)

	out := buf.String()
	assert.Contains(t, out, "Extracted 1 facts")
	assert.Contains(t, out, "12 employees")
	assert.Contains(t, out, "manual_process")
	assert.Contains(t, out, "Urgency: high")
}

func TestPrintAnalysis_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintAnalysis(&types.AnswerAnalysis{})
	assert.Contains(t, buf.String(), "No facts extracted")
}

func TestPrintQuestion(t *testing.T) {
	q := &types.AdaptiveQuestion{
		ID:               "den_pms",
		Text:             "Which practice management system do you use?",
		InputType:        types.InputSelect,
		TargetCategories: []types.Category{types.CategoryTechStack},
		Origin:           types.OriginBank,
		Options:          []string{"Dentrix", "Eaglesoft", "Other"},
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintQuestion(3, q)

	out := buf.String()
	assert.Contains(t, out, "QUESTION 3")
	assert.Contains(t, out, "Origin: bank")
	assert.Contains(t, out, "1) Dentrix")
}

func TestPrintCompletion(t *testing.T) {
	met := &types.ConfidenceState{Scores: map[types.Category]float64{}}
	for _, cat := range types.AllCategories() {
		met.Scores[cat] = 100
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintCompletion(met, 9)
	assert.Contains(t, buf.String(), "INTERVIEW COMPLETE IN 9 QUESTIONS")

	short := &types.ConfidenceState{Scores: map[types.Category]float64{}}
	for _, cat := range types.AllCategories() {
		short.Scores[cat] = 100
	}
	short.Scores[types.CategoryPainPoints] = 40

	buf.Reset()
	NewPrinter(&buf).PrintCompletion(short, 25)
	out := buf.String()
	assert.Contains(t, out, "INTERVIEW ENDED AT BUDGET")
	assert.Contains(t, out, "pain_points")
}
