//nolint:revive // types is a standard Go package name pattern
package types

// BankQuestion is a static question definition inside an industry bank.
type BankQuestion struct {
	ID               string     `json:"id"`
	Text             string     `json:"text"`
	InputType        InputType  `json:"input_type"`
	TargetCategories []Category `json:"target_categories"`
	Options          []string   `json:"options,omitempty"`
	// ScoreBoosts documents the expected per-category lift if the question is
	// answered well. Informational; actual scoring follows extracted facts.
	ScoreBoosts map[Category]float64 `json:"score_boosts,omitempty"`
	// DeepDiveTrigger names the pain-signal topic this question probes for.
	DeepDiveTrigger string `json:"deep_dive_trigger,omitempty"`
}

// Targets reports whether the question is expected to raise cat.
func (q *BankQuestion) Targets(cat Category) bool {
	for _, c := range q.TargetCategories {
		if c == cat {
			return true
		}
	}
	return false
}

// DeepDiveTemplate maps a detected answer pattern to a follow-up question.
type DeepDiveTemplate struct {
	// Trigger is the pain-signal topic that activates this template.
	Trigger string `json:"trigger"`
	// QuestionID references a question in the same bank's Questions list.
	QuestionID string `json:"question_id"`
}

// WovenConfirmationTemplate combines a research-derived assertion with a new
// discovery question in a single turn. {{fact}} in Text is replaced with the
// research fact value being confirmed.
type WovenConfirmationTemplate struct {
	ID        string     `json:"id"`
	Category  Category   `json:"category"`
	Text      string     `json:"text"`
	InputType InputType  `json:"input_type"`
	Targets   []Category `json:"targets,omitempty"`
}

// IndustryQuestionBank is the immutable per-industry question catalog. It is
// loaded once, validated, and shared read-only across sessions.
type IndustryQuestionBank struct {
	Industry                   string                      `json:"industry"`
	DisplayName                string                      `json:"display_name,omitempty"`
	Questions                  []BankQuestion              `json:"questions"`
	DeepDiveTemplates          []DeepDiveTemplate          `json:"deep_dive_templates,omitempty"`
	WovenConfirmationTemplates []WovenConfirmationTemplate `json:"woven_confirmation_templates,omitempty"`
}

// Question returns the bank question with the given id, or nil.
func (b *IndustryQuestionBank) Question(id string) *BankQuestion {
	for i := range b.Questions {
		if b.Questions[i].ID == id {
			return &b.Questions[i]
		}
	}
	return nil
}

// DeepDiveFor returns the deep-dive template for a pain-signal topic, or nil.
func (b *IndustryQuestionBank) DeepDiveFor(topic string) *DeepDiveTemplate {
	for i := range b.DeepDiveTemplates {
		if b.DeepDiveTemplates[i].Trigger == topic {
			return &b.DeepDiveTemplates[i]
		}
	}
	return nil
}

// WovenTemplateFor returns the first woven-confirmation template for cat, or nil.
func (b *IndustryQuestionBank) WovenTemplateFor(cat Category) *WovenConfirmationTemplate {
	for i := range b.WovenConfirmationTemplates {
		if b.WovenConfirmationTemplates[i].Category == cat {
			return &b.WovenConfirmationTemplates[i]
		}
	}
	return nil
}
