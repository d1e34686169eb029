package analysis

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/apexintel/quiz-engine/internal/llm"
	"github.com/apexintel/quiz-engine/internal/prompts"
	"github.com/apexintel/quiz-engine/internal/types"
)

// DefaultTimeout bounds one reasoning call. The interview must never block on
// the reasoning service; on expiry the zero-fact fallback applies.
const DefaultTimeout = 20 * time.Second

// Analyzer converts raw answers into AnswerAnalysis values using the
// reasoning service.
type Analyzer struct {
	client  llm.Client
	timeout time.Duration
}

// NewAnalyzer creates an Analyzer. A zero timeout selects DefaultTimeout.
func NewAnalyzer(client llm.Client, timeout time.Duration) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Analyzer{client: client, timeout: timeout}
}

// wireAnalysis is the JSON shape requested from the reasoning service.
type wireAnalysis struct {
	Facts []struct {
		Value      string `json:"value"`
		Confidence string `json:"confidence"`
		Category   string `json:"category"`
	} `json:"facts"`
	PainSignals []struct {
		Topic    string `json:"topic"`
		Evidence string `json:"evidence"`
	} `json:"pain_signals"`
	Sentiment string `json:"sentiment"`
	Urgency   string `json:"urgency"`
}

// Analyze turns one answer into an AnswerAnalysis. It never returns an error:
// any reasoning failure, timeout, or unusable output degrades to a zero-fact
// analysis so the session can proceed. The deep-dive decision is made locally,
// not trusted from the model: a detected pain signal must map to a bank
// template whose follow-up question has not been asked yet.
func (a *Analyzer) Analyze(
	ctx context.Context,
	question *types.AdaptiveQuestion,
	payload *types.AnswerPayload,
	state *types.ConfidenceState,
	b *types.IndustryQuestionBank,
	alreadyAsked func(string) bool,
) *types.AnswerAnalysis {
	empty := &types.AnswerAnalysis{}

	if payload == nil || payload.IsEmpty() {
		return empty
	}
	if a.client == nil {
		return empty
	}

	prompt, err := buildAnalysisPrompt(question, payload, state, b)
	if err != nil {
		log.Printf("answer analysis: prompt build failed: %v", err)
		return empty
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := a.client.GenerateJSON(callCtx, prompt, llm.TierAnalysis)
	if err != nil {
		log.Printf("answer analysis: reasoning call failed, proceeding with zero facts: %v", err)
		return empty
	}

	var wire wireAnalysis
	if err := json.Unmarshal([]byte(llm.CleanJSONBlock(raw)), &wire); err != nil {
		log.Printf("answer analysis: unusable reasoning output, proceeding with zero facts: %v", err)
		return empty
	}

	result := &types.AnswerAnalysis{
		Sentiment: types.Sentiment(wire.Sentiment),
		Urgency:   types.Urgency(wire.Urgency),
	}
	for _, f := range wire.Facts {
		cat := types.Category(f.Category)
		if !types.IsKnownCategory(cat) || strings.TrimSpace(f.Value) == "" {
			continue
		}
		result.Facts = append(result.Facts, types.ExtractedFact{
			Value:      f.Value,
			Confidence: parseConfidence(f.Confidence),
			Source:     types.SourceQuiz,
			Category:   cat,
		})
	}
	for _, p := range wire.PainSignals {
		if strings.TrimSpace(p.Topic) == "" {
			continue
		}
		result.PainSignals = append(result.PainSignals, types.PainSignal{
			Topic:    p.Topic,
			Evidence: p.Evidence,
		})
	}

	applyDeepDiveDecision(result, b, alreadyAsked)
	return result
}

// applyDeepDiveDecision sets ShouldDeepDive iff a pain signal maps to an
// existing deep-dive template whose target has not been asked this session.
func applyDeepDiveDecision(result *types.AnswerAnalysis, b *types.IndustryQuestionBank, alreadyAsked func(string) bool) {
	if b == nil {
		return
	}
	for _, signal := range result.PainSignals {
		dd := b.DeepDiveFor(signal.Topic)
		if dd == nil {
			continue
		}
		if alreadyAsked != nil && alreadyAsked(dd.QuestionID) {
			continue
		}
		result.ShouldDeepDive = true
		result.DeepDiveQuestionID = dd.QuestionID
		return
	}
}

// buildAnalysisPrompt renders the analysis prompt template with the question
// context, the raw answer, and the unmet categories to bias extraction toward.
func buildAnalysisPrompt(
	question *types.AdaptiveQuestion,
	payload *types.AnswerPayload,
	state *types.ConfidenceState,
	b *types.IndustryQuestionBank,
) (string, error) {
	template, err := prompts.Get("analysis.json", "analyze_answer")
	if err != nil {
		return "", err
	}

	var unmet []string
	var gaps []string
	for _, cat := range types.AllCategories() {
		if state != nil && !state.CategoryMet(cat) {
			unmet = append(unmet, string(cat))
			if len(state.Gaps[cat]) > 0 {
				gaps = append(gaps, string(cat)+": "+strings.Join(state.Gaps[cat], ", "))
			}
		}
	}

	var topics []string
	if b != nil {
		for _, dd := range b.DeepDiveTemplates {
			topics = append(topics, dd.Trigger)
		}
	}

	questionText := ""
	if question != nil {
		questionText = question.Text
	}

	return prompts.Format(template, map[string]string{
		"Question":        questionText,
		"Answer":          payload.Normalize(),
		"UnmetCategories": strings.Join(unmet, ", "),
		"Gaps":            strings.Join(gaps, "; "),
		"DeepDiveTopics":  strings.Join(topics, ", "),
	}), nil
}

func parseConfidence(s string) types.FactConfidence {
	switch types.FactConfidence(strings.ToLower(s)) {
	case types.FactExplicit:
		return types.FactExplicit
	case types.FactInferred:
		return types.FactInferred
	default:
		return types.FactAssumption
	}
}
