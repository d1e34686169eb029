// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/apexintel/quiz-engine/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// barWidth is the width of a confidence progress bar
	barWidth = 20
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintConfidenceState outputs a progress bar per category with its score
// against the category threshold.
func (p *Printer) PrintConfidenceState(state *types.ConfidenceState) {
	if state == nil {
		return
	}

	var sb strings.Builder
	for _, cat := range types.AllCategories() {
		score := state.Scores[cat]
		threshold := types.Threshold(cat)

		filled := int(score / 100 * barWidth)
		if filled > barWidth {
			filled = barWidth
		}
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

		mark := " "
		if score >= threshold {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %-20s %s %3.0f/%.0f\n", mark, cat, bar, score, threshold))
	}
	sb.WriteString(fmt.Sprintf("\nOverall completion: %.0f%%", state.CompletionRatio()*100))

	p.printBox("CONFIDENCE STATE", sb.String())
}

// PrintAnalysis outputs the facts and pain signals extracted from one answer.
func (p *Printer) PrintAnalysis(analysis *types.AnswerAnalysis) {
	if analysis == nil {
		return
	}
	if len(analysis.Facts) == 0 && len(analysis.PainSignals) == 0 {
		p.printBox("ANSWER ANALYSIS", "No facts extracted")
		return
	}

	var sb strings.Builder

	if len(analysis.Facts) > 0 {
		sb.WriteString(fmt.Sprintf("Extracted %d facts:\n", len(analysis.Facts)))
		count := min(len(analysis.Facts), maxItemsToShow)
		for i := 0; i < count; i++ {
			fact := analysis.Facts[i]
			value := fact.Value
			if len(value) > 35 {
				value = value[:32] + "..."
			}
			sb.WriteString(fmt.Sprintf("  • [%s] %s (%s)\n", fact.Category, value, fact.Confidence))
		}
		if len(analysis.Facts) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(analysis.Facts)-maxItemsToShow))
		}
	}

	if len(analysis.PainSignals) > 0 {
		sb.WriteString("\nPain signals:\n")
		for _, signal := range analysis.PainSignals {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", signal.Topic))
		}
	}

	sb.WriteString(fmt.Sprintf("\nSentiment: %s   Urgency: %s", analysis.Sentiment, analysis.Urgency))
	if analysis.ShouldDeepDive {
		sb.WriteString("\nDeep dive: " + analysis.DeepDiveQuestionID)
	}

	p.printBox("ANSWER ANALYSIS", sb.String())
}

// PrintQuestion outputs the next question with its origin and targets.
func (p *Printer) PrintQuestion(number int, q *types.AdaptiveQuestion) {
	if q == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Origin: %s\n", q.Origin))

	targets := make([]string, len(q.TargetCategories))
	for i, cat := range q.TargetCategories {
		targets[i] = string(cat)
	}
	if len(targets) > 0 {
		line := strings.Join(targets, ", ")
		if len(line) > 45 {
			line = line[:42] + "..."
		}
		sb.WriteString(fmt.Sprintf("Targets: %s\n", line))
	}

	sb.WriteString("\n")
	sb.WriteString(q.Text)
	if len(q.Options) > 0 {
		sb.WriteString("\n")
		for i, opt := range q.Options {
			sb.WriteString(fmt.Sprintf("\n  %d) %s", i+1, opt))
		}
	}

	p.printBox(fmt.Sprintf("QUESTION %d  [%s]", number, q.InputType), sb.String())
}

// PrintCompletion outputs the end-of-interview summary.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCompletion(state *types.ConfidenceState, questionsAsked int) {
	if state == nil {
		return
	}

	if state.AllMet() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4,
			fmt.Sprintf("✅ INTERVIEW COMPLETE IN %d QUESTIONS", questionsAsked))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Stopped after %d questions.\n\n", questionsAsked))
	sb.WriteString("Categories below threshold:\n")
	for _, cat := range types.AllCategories() {
		if state.CategoryMet(cat) {
			continue
		}
		sb.WriteString(fmt.Sprintf("  • %-20s %3.0f/%.0f\n", cat, state.Scores[cat], types.Threshold(cat)))
	}

	p.printBox("INTERVIEW ENDED AT BUDGET", strings.TrimSuffix(sb.String(), "\n"))
}
