package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/apexintel/quiz-engine/internal/analysis"
	"github.com/apexintel/quiz-engine/internal/bank"
	"github.com/apexintel/quiz-engine/internal/confidence"
	"github.com/apexintel/quiz-engine/internal/generation"
	"github.com/apexintel/quiz-engine/internal/selection"
	"github.com/apexintel/quiz-engine/internal/types"
)

// Controller owns the turn loop. Each session processes exactly one
// outstanding answer at a time: a per-session lock is held across
// analyze -> update -> select, so the policy never acts on stale gaps.
// Independent sessions run concurrently without shared mutable state; the
// question banks they share are read-only.
type Controller struct {
	analyzer     *analysis.Analyzer
	generator    *generation.Generator
	store        Store
	maxQuestions int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Options configures a Controller.
type Options struct {
	Analyzer     *analysis.Analyzer
	Generator    *generation.Generator
	Store        Store
	MaxQuestions int
}

// NewController creates a Controller. A nil store selects an in-memory one.
func NewController(opts Options) *Controller {
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}
	return &Controller{
		analyzer:     opts.Analyzer,
		generator:    opts.Generator,
		store:        store,
		maxQuestions: opts.MaxQuestions,
		locks:        make(map[string]*sync.Mutex),
	}
}

// StartResult is returned by Start: the new session id, the first question,
// and the initial confidence snapshot.
type StartResult struct {
	SessionID string                 `json:"session_id"`
	Industry  string                 `json:"industry"`
	Question  *types.AdaptiveQuestion `json:"question"`
	State     *types.ConfidenceState  `json:"state"`
}

// TurnResult is returned by SubmitAnswer: either the next question or the
// completion signal with the final confidence state.
type TurnResult struct {
	Complete bool                    `json:"complete"`
	Question *types.AdaptiveQuestion `json:"question,omitempty"`
	State    *types.ConfidenceState  `json:"state"`
}

// StateSnapshot is the read-only view returned by GetState.
type StateSnapshot struct {
	SessionID      string                 `json:"session_id"`
	Industry       string                 `json:"industry"`
	Status         types.SessionStatus    `json:"status"`
	QuestionsAsked int                    `json:"questions_asked"`
	State          *types.ConfidenceState `json:"state"`
}

// Start creates a session for an industry, seeds confidence from the research
// profile, and emits the first question. Unknown industries fall back to the
// default bank rather than failing.
func (c *Controller) Start(ctx context.Context, industry string, profile *types.ResearchProfile) (*StartResult, error) {
	b, err := bank.LoadOrDefault(industry)
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}

	now := time.Now().UTC()
	sess := &types.Session{
		ID:        uuid.New().String(),
		Industry:  b.Industry,
		Status:    types.StatusAwaitingAnswer,
		State:     *confidence.CreateInitialFromResearch(profile),
		CreatedAt: now,
		UpdatedAt: now,
	}

	policy := selection.NewPolicy(b, c.generator, c.maxQuestions)
	decision := policy.Next(ctx, sess)
	if decision.Complete {
		// Can only happen with a degenerate turn budget; still a valid session.
		sess.Status = types.StatusComplete
	} else {
		c.recordAsked(sess, decision.Question)
	}

	if err := c.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &StartResult{
		SessionID: sess.ID,
		Industry:  sess.Industry,
		Question:  decision.Question,
		State:     sess.State.Clone(),
	}, nil
}

// SubmitAnswer applies one answer to the session: analyze, update confidence,
// then select the next action. The per-session lock serializes turns.
func (c *Controller) SubmitAnswer(ctx context.Context, sessionID string, payload *types.AnswerPayload) (*TurnResult, error) {
	lock := c.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == types.StatusComplete {
		return &TurnResult{Complete: true, State: sess.State.Clone()}, nil
	}
	if sess.PendingQuestionID == "" {
		return nil, fmt.Errorf("session %s has no pending question", sessionID)
	}

	pending := pendingQuestion(sess)
	if pending == nil {
		return nil, fmt.Errorf("session %s history is missing its pending question", sessionID)
	}
	if err := analysis.ValidatePayload(pending, payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAnswer, err)
	}

	b, err := bank.LoadOrDefault(sess.Industry)
	if err != nil {
		return nil, fmt.Errorf("failed to load question bank: %w", err)
	}

	// Analyze never fails: reasoning trouble degrades to a zero-fact
	// analysis and the interview keeps moving.
	result := c.analyze(ctx, pending, payload, sess, b)
	answeredAt := time.Now().UTC()
	turn := &sess.History[len(sess.History)-1]
	turn.Answer = payload
	turn.Analysis = result
	turn.AnsweredAt = &answeredAt

	confidence.UpdateFromAnalysis(&sess.State, result)

	policy := selection.NewPolicy(b, c.generator, c.maxQuestions)
	decision := policy.Next(ctx, sess)
	if decision.Complete {
		sess.Status = types.StatusComplete
		sess.PendingQuestionID = ""
	} else {
		c.recordAsked(sess, decision.Question)
	}
	sess.UpdatedAt = time.Now().UTC()

	if err := c.store.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}

	return &TurnResult{
		Complete: decision.Complete,
		Question: decision.Question,
		State:    sess.State.Clone(),
	}, nil
}

// GetState returns a read-only snapshot of the session, with no side effects.
func (c *Controller) GetState(ctx context.Context, sessionID string) (*StateSnapshot, error) {
	sess, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &StateSnapshot{
		SessionID:      sess.ID,
		Industry:       sess.Industry,
		Status:         sess.Status,
		QuestionsAsked: sess.QuestionsAsked(),
		State:          sess.State.Clone(),
	}, nil
}

// analyze wraps the analyzer with the session's asked-id predicate. A nil
// analyzer (no reasoning service configured) degrades to zero-fact analyses.
func (c *Controller) analyze(ctx context.Context, q *types.AdaptiveQuestion, payload *types.AnswerPayload, sess *types.Session, b *types.IndustryQuestionBank) *types.AnswerAnalysis {
	if c.analyzer == nil {
		return &types.AnswerAnalysis{}
	}
	return c.analyzer.Analyze(ctx, q, payload, &sess.State, b, sess.Asked)
}

// recordAsked appends the emitted question to the session history and the
// no-repeat set, and marks it pending.
func (c *Controller) recordAsked(sess *types.Session, q *types.AdaptiveQuestion) {
	sess.AskedIDs = append(sess.AskedIDs, q.ID)
	sess.History = append(sess.History, types.Turn{Question: *q, AskedAt: time.Now().UTC()})
	sess.PendingQuestionID = q.ID
}

// pendingQuestion finds the history entry for the pending question id.
func pendingQuestion(sess *types.Session) *types.AdaptiveQuestion {
	for i := len(sess.History) - 1; i >= 0; i-- {
		if sess.History[i].Question.ID == sess.PendingQuestionID {
			return &sess.History[i].Question
		}
	}
	return nil
}

// sessionLock returns the mutex serializing turns for one session id.
func (c *Controller) sessionLock(id string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if lock, ok := c.locks[id]; ok {
		return lock
	}
	lock := &sync.Mutex{}
	c.locks[id] = lock
	return lock
}
