package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apexintel/quiz-engine/internal/session"
	"github.com/apexintel/quiz-engine/internal/types"
)

// fakeCache is an in-memory SessionCache that can be forced to fail.
type fakeCache struct {
	sessions map[string]*types.Session
	fail     bool
	gets     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{sessions: make(map[string]*types.Session)}
}

func (f *fakeCache) Set(_ context.Context, sess *types.Session) error {
	if f.fail {
		return errors.New("redis down")
	}
	f.sessions[sess.ID] = sess
	return nil
}

func (f *fakeCache) Get(_ context.Context, id string) (*types.Session, error) {
	f.gets++
	if f.fail {
		return nil, errors.New("redis down")
	}
	sess, ok := f.sessions[id]
	if !ok {
		return nil, ErrCacheMiss
	}
	return sess, nil
}

func (f *fakeCache) Delete(_ context.Context, id string) error {
	delete(f.sessions, id)
	return nil
}

func testSession(id string) *types.Session {
	now := time.Now().UTC()
	return &types.Session{
		ID:        id,
		Industry:  "dental",
		Status:    types.StatusAwaitingAnswer,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCachedStore_SaveWritesThrough(t *testing.T) {
	store := session.NewMemoryStore()
	fc := newFakeCache()
	cs := NewCachedStore(store, fc)
	ctx := context.Background()

	require.NoError(t, cs.Save(ctx, testSession("s1")))

	// Both layers hold the session.
	_, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Contains(t, fc.sessions, "s1")
}

func TestCachedStore_LoadBackfillsOnMiss(t *testing.T) {
	store := session.NewMemoryStore()
	fc := newFakeCache()
	cs := NewCachedStore(store, fc)
	ctx := context.Background()

	// Present only in the durable store, as after a cache eviction.
	require.NoError(t, store.Save(ctx, testSession("s2")))

	sess, err := cs.Load(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, "s2", sess.ID)
	assert.Contains(t, fc.sessions, "s2", "load should backfill the cache")

	_, err = cs.Load(ctx, "s2")
	require.NoError(t, err)
	assert.Equal(t, 2, fc.gets)
}

func TestCachedStore_CacheFailureIsAbsorbed(t *testing.T) {
	store := session.NewMemoryStore()
	fc := newFakeCache()
	fc.fail = true
	cs := NewCachedStore(store, fc)
	ctx := context.Background()

	require.NoError(t, cs.Save(ctx, testSession("s3")))

	sess, err := cs.Load(ctx, "s3")
	require.NoError(t, err)
	assert.Equal(t, "s3", sess.ID)
}

func TestCachedStore_MissingSession(t *testing.T) {
	cs := NewCachedStore(session.NewMemoryStore(), newFakeCache())
	_, err := cs.Load(context.Background(), "nope")
	require.ErrorIs(t, err, session.ErrSessionNotFound)
}
