// Package generation composes questions that are not in the static bank:
// model-generated gap-fill questions and woven confirmations rendered from
// bank templates against research facts.
package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/apexintel/quiz-engine/internal/llm"
	"github.com/apexintel/quiz-engine/internal/prompts"
	"github.com/apexintel/quiz-engine/internal/types"
)

// DefaultTimeout bounds one generation call.
const DefaultTimeout = 15 * time.Second

// historyWindow limits how many recent turns are included in the prompt.
const historyWindow = 6

// Generator produces gap-fill questions via the reasoning service.
type Generator struct {
	client  llm.Client
	timeout time.Duration
}

// NewGenerator creates a Generator. A zero timeout selects DefaultTimeout.
func NewGenerator(client llm.Client, timeout time.Duration) *Generator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Generator{client: client, timeout: timeout}
}

// GapFill generates a question targeting the given category's open gaps.
// Returns an error when the reasoning service is unavailable or produced
// nothing usable; the caller substitutes a bank question or the deterministic
// Fallback in that case.
func (g *Generator) GapFill(ctx context.Context, id string, cat types.Category, gaps []string, history []types.Turn) (*types.AdaptiveQuestion, error) {
	if g.client == nil {
		return nil, fmt.Errorf("no reasoning client configured")
	}

	template, err := prompts.Get("generation.json", "gap_fill_question")
	if err != nil {
		return nil, err
	}

	prompt := prompts.Format(template, map[string]string{
		"Category": string(cat),
		"Gaps":     strings.Join(gaps, ", "),
		"History":  renderHistory(history),
	})

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.client.GenerateText(callCtx, prompt, llm.TierGeneration)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}
	text = strings.TrimSpace(strings.Trim(strings.TrimSpace(text), `"`))
	if text == "" {
		return nil, fmt.Errorf("question generation returned empty text")
	}

	return &types.AdaptiveQuestion{
		ID:               id,
		Text:             text,
		InputType:        types.InputText,
		TargetCategories: []types.Category{cat},
		Origin:           types.OriginGeneratedGapFill,
	}, nil
}

// Fallback returns a deterministic gap-fill question for when both the bank
// and the reasoning service have nothing to offer. Availability of a next
// question outranks topical precision.
func Fallback(id string, cat types.Category, gaps []string) *types.AdaptiveQuestion {
	topic := strings.ReplaceAll(string(cat), "_", " ")
	if len(gaps) > 0 {
		topic = strings.ReplaceAll(gaps[0], "_", " ")
	}
	return &types.AdaptiveQuestion{
		ID:               id,
		Text:             fmt.Sprintf("Could you tell us more about your %s?", topic),
		InputType:        types.InputText,
		TargetCategories: []types.Category{cat},
		Origin:           types.OriginGeneratedGapFill,
	}
}

// Woven renders a woven-confirmation template against an unconfirmed research
// fact, producing a question that confirms the fact and discovers more in one
// turn.
func Woven(tmpl *types.WovenConfirmationTemplate, fact *types.ExtractedFact) *types.AdaptiveQuestion {
	targets := tmpl.Targets
	if len(targets) == 0 {
		targets = []types.Category{tmpl.Category}
	}
	return &types.AdaptiveQuestion{
		ID:               tmpl.ID,
		Text:             strings.ReplaceAll(tmpl.Text, "{{fact}}", fact.Value),
		InputType:        tmpl.InputType,
		TargetCategories: targets,
		Origin:           types.OriginWovenConfirmation,
	}
}

// renderHistory formats the most recent turns for the generation prompt.
func renderHistory(history []types.Turn) string {
	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	var sb strings.Builder
	for _, turn := range history[start:] {
		sb.WriteString("Q: " + turn.Question.Text + "\n")
		if turn.Answer != nil {
			sb.WriteString("A: " + turn.Answer.Normalize() + "\n")
		}
	}
	if sb.Len() == 0 {
		return "(no prior turns)"
	}
	return sb.String()
}
