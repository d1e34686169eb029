// Package analysis turns one raw answer into a structured AnswerAnalysis via
// the reasoning service, with a zero-fact fallback when that service fails.
package analysis

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/apexintel/quiz-engine/internal/types"
)

var validate = validator.New()

// ValidatePayload checks an answer payload at the boundary, before it can
// reach the analyzer: the input type must match the pending question and the
// value field keyed by that type must be well-formed.
func ValidatePayload(question *types.AdaptiveQuestion, payload *types.AnswerPayload) error {
	if payload == nil {
		return fmt.Errorf("answer payload is required")
	}
	if err := validate.Struct(payload); err != nil {
		return fmt.Errorf("invalid answer payload: %w", err)
	}
	if !types.ValidInputType(payload.InputType) {
		return fmt.Errorf("unknown input_type %q", payload.InputType)
	}
	if payload.InputType != question.InputType {
		return fmt.Errorf("answer input_type %q does not match question input_type %q",
			payload.InputType, question.InputType)
	}

	switch payload.InputType {
	case types.InputNumber, types.InputScale:
		if payload.Number == nil {
			return fmt.Errorf("input_type %q requires a number value", payload.InputType)
		}
	case types.InputSelect:
		if len(question.Options) > 0 && payload.Text != "" && !containsOption(question.Options, payload.Text) {
			return fmt.Errorf("selection %q is not one of the question options", payload.Text)
		}
	case types.InputMultiSelect:
		for _, sel := range payload.Selections {
			if len(question.Options) > 0 && !containsOption(question.Options, sel) {
				return fmt.Errorf("selection %q is not one of the question options", sel)
			}
		}
	}
	return nil
}

func containsOption(options []string, value string) bool {
	for _, o := range options {
		if o == value {
			return true
		}
	}
	return false
}
