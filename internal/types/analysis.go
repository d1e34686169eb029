//nolint:revive // types is a standard Go package name pattern
package types

// Sentiment tags the overall tone of an answer.
type Sentiment string

// Sentiment values.
const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Urgency tags how pressing the described situation sounds.
type Urgency string

// Urgency values.
const (
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// PainSignal is a topic detected in an answer that is worth a deep dive.
type PainSignal struct {
	Topic    string `json:"topic"`
	Evidence string `json:"evidence,omitempty"`
}

// AnswerAnalysis is the structured result of analyzing one raw answer.
// A zero-value analysis (no facts, no deep dive) is the defined fallback when
// the reasoning service is unavailable or its output is unusable.
type AnswerAnalysis struct {
	Facts          []ExtractedFact `json:"facts"`
	PainSignals    []PainSignal    `json:"pain_signals,omitempty"`
	Sentiment      Sentiment       `json:"sentiment,omitempty"`
	Urgency        Urgency         `json:"urgency,omitempty"`
	ShouldDeepDive bool            `json:"should_deep_dive"`
	// DeepDiveQuestionID is set iff ShouldDeepDive is true; it references a
	// deep-dive follow-up question in the active industry bank.
	DeepDiveQuestionID string `json:"deep_dive_question_id,omitempty"`
}

// Empty reports whether the analysis carries no extracted information.
func (a *AnswerAnalysis) Empty() bool {
	return len(a.Facts) == 0 && len(a.PainSignals) == 0 && !a.ShouldDeepDive
}
