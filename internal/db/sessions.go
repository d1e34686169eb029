package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/apexintel/quiz-engine/internal/session"
	"github.com/apexintel/quiz-engine/internal/types"
)

// SessionStore persists whole session envelopes as JSONB rows. Every Save
// writes the full envelope in one statement, so a row is always a complete,
// rehydratable snapshot.
type SessionStore struct {
	db *DB
}

// NewSessionStore wraps a connected DB as a session.Store
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

var _ session.Store = (*SessionStore)(nil)

// Save upserts the session envelope
func (s *SessionStore) Save(ctx context.Context, sess *types.Session) error {
	envelope, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	_, err = s.db.pool.Exec(ctx,
		`INSERT INTO interview_sessions (id, industry, status, envelope, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET status = $3, envelope = $4, updated_at = $6`,
		sess.ID, sess.Industry, string(sess.Status), envelope, sess.CreatedAt, sess.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save session %s: %w", sess.ID, err)
	}
	return nil
}

// Load retrieves a session envelope by ID
func (s *SessionStore) Load(ctx context.Context, id string) (*types.Session, error) {
	var envelope []byte
	err := s.db.pool.QueryRow(ctx,
		`SELECT envelope FROM interview_sessions WHERE id = $1`,
		id,
	).Scan(&envelope)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}

	var sess types.Session
	if err := json.Unmarshal(envelope, &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	return &sess, nil
}

// SessionSummary is a lightweight view of a session row for listing
type SessionSummary struct {
	ID        string    `json:"id"`
	Industry  string    `json:"industry"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SessionFilters holds optional filters for listing sessions
type SessionFilters struct {
	Industry string
	Status   string
	Limit    int
}

// ListSessions retrieves recent sessions with optional filters
func (s *SessionStore) ListSessions(ctx context.Context, filters SessionFilters) ([]SessionSummary, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, industry, status, created_at, updated_at
		FROM interview_sessions WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Industry != "" {
		query += fmt.Sprintf(" AND industry = $%d", argNum)
		args = append(args, filters.Industry)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := s.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var sum SessionSummary
		if err := rows.Scan(&sum.ID, &sum.Industry, &sum.Status, &sum.CreatedAt, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, sum)
	}
	return out, nil
}

// DeleteSession removes a session row
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	result, err := s.db.pool.Exec(ctx, `DELETE FROM interview_sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session %s: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return session.ErrSessionNotFound
	}
	return nil
}
