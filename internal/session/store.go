// Package session orchestrates the interview turn loop and owns the public
// engine API: start, submit answer, get state.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/apexintel/quiz-engine/internal/types"
)

// ErrSessionNotFound is returned for unknown or expired session ids. Unlike
// reasoning failures this is not locally recoverable and propagates to the
// caller.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidAnswer marks answers rejected at the boundary before analysis,
// such as a payload whose input type does not match the pending question.
var ErrInvalidAnswer = errors.New("invalid answer")

// Store persists the full session envelope. Save must be atomic: the complete
// updated state is written each turn, never partial fields, so a crash
// between turns cannot leave a session half-updated.
type Store interface {
	Save(ctx context.Context, sess *types.Session) error
	Load(ctx context.Context, id string) (*types.Session, error)
}

// MemoryStore is an in-process Store used by tests and the interactive CLI.
// Sessions are kept as serialized snapshots, which makes every Save a full
// atomic write and every Load an independent copy.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

// Save stores a snapshot of the session.
func (m *MemoryStore) Save(_ context.Context, sess *types.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	m.mu.Lock()
	m.sessions[sess.ID] = data
	m.mu.Unlock()
	return nil
}

// Load returns an independent copy of the stored session.
func (m *MemoryStore) Load(_ context.Context, id string) (*types.Session, error) {
	m.mu.RLock()
	data, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	var sess types.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to deserialize session %s: %w", id, err)
	}
	return &sess, nil
}
