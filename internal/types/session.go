//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// SessionStatus tracks where a session is in its lifecycle.
type SessionStatus string

// Session statuses.
const (
	StatusAwaitingAnswer SessionStatus = "awaiting_answer"
	StatusComplete       SessionStatus = "complete"
)

// Turn records one question/answer exchange in the interview history.
type Turn struct {
	Question   AdaptiveQuestion `json:"question"`
	Answer     *AnswerPayload   `json:"answer,omitempty"`
	Analysis   *AnswerAnalysis  `json:"analysis,omitempty"`
	AskedAt    time.Time        `json:"asked_at"`
	AnsweredAt *time.Time       `json:"answered_at,omitempty"`
}

// Session binds one confidence state, one industry bank reference, and the
// interview history. This envelope is exactly what gets persisted after each
// turn, so a session can be rehydrated without replaying side effects.
type Session struct {
	ID       string          `json:"id"`
	Industry string          `json:"industry"`
	Status   SessionStatus   `json:"status"`
	State    ConfidenceState `json:"state"`
	History  []Turn          `json:"history"`
	// AskedIDs holds every question id emitted this session, preventing repeats.
	AskedIDs []string `json:"asked_ids"`
	// PendingQuestionID is the id of the question awaiting an answer.
	PendingQuestionID string    `json:"pending_question_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Asked reports whether a question id has already been emitted this session.
func (s *Session) Asked(id string) bool {
	for _, asked := range s.AskedIDs {
		if asked == id {
			return true
		}
	}
	return false
}

// QuestionsAsked returns the number of questions emitted so far.
func (s *Session) QuestionsAsked() int {
	return len(s.AskedIDs)
}

// LastAnalysis returns the analysis of the most recently answered turn, or nil.
func (s *Session) LastAnalysis() *AnswerAnalysis {
	for i := len(s.History) - 1; i >= 0; i-- {
		if s.History[i].Analysis != nil {
			return s.History[i].Analysis
		}
	}
	return nil
}
