// Package selection implements the per-turn decision algorithm of the
// interview: terminate, exploit a fresh deep-dive signal, or pick the question
// that closes the widest remaining confidence gap.
package selection

import (
	"context"
	"fmt"
	"log"

	"github.com/apexintel/quiz-engine/internal/generation"
	"github.com/apexintel/quiz-engine/internal/types"
)

// DefaultMaxQuestions is the hard turn budget. An incomplete interview is
// acceptable; an unbounded one is not.
const DefaultMaxQuestions = 25

// Decision is the policy's answer to "what next?": either the interview is
// complete, or here is the next question.
type Decision struct {
	Complete bool
	Question *types.AdaptiveQuestion
	// BudgetExhausted distinguishes the hard-stop completion path from the
	// all-thresholds-met path.
	BudgetExhausted bool
}

// Policy selects the next action for a session. One Policy serves one session
// but holds no per-turn state of its own; everything it needs lives in the
// Session envelope, which keeps rehydrated sessions indistinguishable from
// uninterrupted ones.
type Policy struct {
	bank         *types.IndustryQuestionBank
	generator    *generation.Generator
	maxQuestions int
}

// NewPolicy creates a selection policy over an immutable bank. A
// non-positive maxQuestions selects DefaultMaxQuestions.
func NewPolicy(b *types.IndustryQuestionBank, gen *generation.Generator, maxQuestions int) *Policy {
	if maxQuestions <= 0 {
		maxQuestions = DefaultMaxQuestions
	}
	return &Policy{bank: b, generator: gen, maxQuestions: maxQuestions}
}

// MaxQuestions returns the hard turn budget.
func (p *Policy) MaxQuestions() int {
	return p.maxQuestions
}

// Next evaluates the selection algorithm against the session's current state.
// Priority order: termination, hard stop, deep dive, woven confirmation,
// bank gap-fill, generated gap-fill.
func (p *Policy) Next(ctx context.Context, sess *types.Session) Decision {
	// Termination check: every category met.
	if sess.State.AllMet() {
		return Decision{Complete: true}
	}

	// Hard stop: turn budget exhausted regardless of unmet thresholds.
	if sess.QuestionsAsked() >= p.maxQuestions {
		return Decision{Complete: true, BudgetExhausted: true}
	}

	// Deep dive pre-empts everything else: a freshly detected high-value
	// signal is exploited before it goes stale.
	if q := p.deepDive(sess); q != nil {
		return Decision{Question: q}
	}

	cat := p.lowestRatioCategory(&sess.State)

	// Woven confirmation beats a plain gap-fill: it confirms a research fact
	// and requests new information in the same turn.
	if q := p.wovenConfirmation(sess, cat); q != nil {
		return Decision{Question: q}
	}

	if q := p.bankQuestion(sess, cat); q != nil {
		return Decision{Question: q}
	}

	return Decision{Question: p.generated(ctx, sess, cat)}
}

// deepDive returns the pending deep-dive follow-up if the latest analysis
// requested one and its target has not been asked.
func (p *Policy) deepDive(sess *types.Session) *types.AdaptiveQuestion {
	last := sess.LastAnalysis()
	if last == nil || !last.ShouldDeepDive || last.DeepDiveQuestionID == "" {
		return nil
	}
	if sess.Asked(last.DeepDiveQuestionID) {
		return nil
	}
	bq := p.bank.Question(last.DeepDiveQuestionID)
	if bq == nil {
		return nil
	}
	q := fromBankQuestion(bq)
	q.Origin = types.OriginDeepDive
	return q
}

// lowestRatioCategory returns the unmet category furthest from its own bar,
// measured as score/threshold. Ties resolve to the earlier category in the
// canonical enum order, so repeated runs with identical inputs pick
// identically.
func (p *Policy) lowestRatioCategory(state *types.ConfidenceState) types.Category {
	var best types.Category
	bestRatio := -1.0
	for _, cat := range types.AllCategories() {
		if state.CategoryMet(cat) {
			continue
		}
		ratio := state.CompletionRatio(cat)
		if bestRatio < 0 || ratio < bestRatio {
			best = cat
			bestRatio = ratio
		}
	}
	return best
}

// wovenConfirmation returns a rendered woven-confirmation question for cat if
// an unconfirmed research fact and an unasked template exist.
func (p *Policy) wovenConfirmation(sess *types.Session, cat types.Category) *types.AdaptiveQuestion {
	fact := sess.State.UnconfirmedResearchFact(cat)
	if fact == nil {
		return nil
	}
	tmpl := p.bank.WovenTemplateFor(cat)
	if tmpl == nil || sess.Asked(tmpl.ID) {
		return nil
	}
	return generation.Woven(tmpl, fact)
}

// bankQuestion returns the first unasked bank question targeting cat.
func (p *Policy) bankQuestion(sess *types.Session, cat types.Category) *types.AdaptiveQuestion {
	for i := range p.bank.Questions {
		bq := &p.bank.Questions[i]
		if sess.Asked(bq.ID) || !bq.Targets(cat) {
			continue
		}
		return fromBankQuestion(bq)
	}
	return nil
}

// anyBankQuestion returns the first unasked bank question regardless of
// category, the substitute when generation fails.
func (p *Policy) anyBankQuestion(sess *types.Session) *types.AdaptiveQuestion {
	for i := range p.bank.Questions {
		bq := &p.bank.Questions[i]
		if !sess.Asked(bq.ID) {
			return fromBankQuestion(bq)
		}
	}
	return nil
}

// generated produces a gap-fill question for cat. Generation failure
// substitutes the next-best bank question, then the deterministic fallback;
// the session must always receive a next question.
func (p *Policy) generated(ctx context.Context, sess *types.Session, cat types.Category) *types.AdaptiveQuestion {
	id := fmt.Sprintf("gapfill_%s_%d", cat, sess.QuestionsAsked()+1)
	gaps := sess.State.Gaps[cat]

	if p.generator != nil {
		q, err := p.generator.GapFill(ctx, id, cat, gaps, sess.History)
		if err == nil {
			return q
		}
		log.Printf("selection: question generation failed, substituting bank question: %v", err)
	}

	if q := p.anyBankQuestion(sess); q != nil {
		return q
	}
	return generation.Fallback(id, cat, gaps)
}

// fromBankQuestion converts a static bank definition into an emitted question.
func fromBankQuestion(bq *types.BankQuestion) *types.AdaptiveQuestion {
	return &types.AdaptiveQuestion{
		ID:               bq.ID,
		Text:             bq.Text,
		InputType:        bq.InputType,
		TargetCategories: append([]types.Category(nil), bq.TargetCategories...),
		Origin:           types.OriginBank,
		Options:          append([]string(nil), bq.Options...),
		DeepDiveTrigger:  bq.DeepDiveTrigger,
	}
}
