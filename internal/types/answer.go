//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"
)

// AnswerPayload is the tagged union carrying one raw answer. Exactly one value
// field is meaningful, keyed by InputType:
//
//	select, text, voice  -> Text
//	multi_select         -> Selections
//	number, scale        -> Number
//
// Payloads are validated at the boundary before reaching the analyzer.
type AnswerPayload struct {
	InputType  InputType `json:"input_type" validate:"required"`
	Text       string    `json:"text,omitempty"`
	Selections []string  `json:"selections,omitempty"`
	Number     *float64  `json:"number,omitempty"`
}

// Normalize renders the payload as the free-text form handed to the analyzer.
func (p *AnswerPayload) Normalize() string {
	switch p.InputType {
	case InputMultiSelect:
		return strings.Join(p.Selections, ", ")
	case InputNumber, InputScale:
		if p.Number == nil {
			return ""
		}
		return fmt.Sprintf("%g", *p.Number)
	default:
		return strings.TrimSpace(p.Text)
	}
}

// IsEmpty reports whether the payload carries no usable answer content.
func (p *AnswerPayload) IsEmpty() bool {
	return p.Normalize() == ""
}
