//nolint:revive // types is a standard Go package name pattern
package types

// InputType describes the answer widget a question expects.
type InputType string

// Supported input types.
const (
	InputSelect      InputType = "select"
	InputMultiSelect InputType = "multi_select"
	InputNumber      InputType = "number"
	InputScale       InputType = "scale"
	InputText        InputType = "text"
	InputVoice       InputType = "voice"
)

// ValidInputType reports whether t is a supported input type.
func ValidInputType(t InputType) bool {
	switch t {
	case InputSelect, InputMultiSelect, InputNumber, InputScale, InputText, InputVoice:
		return true
	}
	return false
}

// QuestionOrigin records which selection path produced a question.
type QuestionOrigin string

// Question origins.
const (
	OriginBank              QuestionOrigin = "bank"
	OriginGeneratedGapFill  QuestionOrigin = "generated_gap_fill"
	OriginDeepDive          QuestionOrigin = "deep_dive"
	OriginWovenConfirmation QuestionOrigin = "woven_confirmation"
)

// AdaptiveQuestion is the unit handed back to the caller each turn.
type AdaptiveQuestion struct {
	ID               string         `json:"id"`
	Text             string         `json:"text"`
	InputType        InputType      `json:"input_type"`
	TargetCategories []Category     `json:"target_categories"`
	Origin           QuestionOrigin `json:"origin"`
	Options          []string       `json:"options,omitempty"`
	// DeepDiveTrigger names the pain-signal topic that, when detected in the
	// answer, maps to a deep-dive template. Empty for most questions.
	DeepDiveTrigger string `json:"deep_dive_trigger,omitempty"`
}

// Targets reports whether the question is expected to raise cat.
func (q *AdaptiveQuestion) Targets(cat Category) bool {
	for _, c := range q.TargetCategories {
		if c == cat {
			return true
		}
	}
	return false
}
