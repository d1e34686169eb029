package cache

import (
	"context"
	"errors"
	"log"

	"github.com/apexintel/quiz-engine/internal/session"
	"github.com/apexintel/quiz-engine/internal/types"
)

// CachedStore is a session.Store that writes through to the durable store and
// serves reads from the cache when possible. Cache failures are logged and
// absorbed; the durable store is always the source of truth.
type CachedStore struct {
	store session.Store
	cache SessionCache
}

func NewCachedStore(store session.Store, cache SessionCache) *CachedStore {
	return &CachedStore{store: store, cache: cache}
}

var _ session.Store = (*CachedStore)(nil)

func (c *CachedStore) Save(ctx context.Context, sess *types.Session) error {
	if err := c.store.Save(ctx, sess); err != nil {
		return err
	}
	if err := c.cache.Set(ctx, sess); err != nil {
		log.Printf("cache: failed to cache session %s: %v", sess.ID, err)
	}
	return nil
}

func (c *CachedStore) Load(ctx context.Context, id string) (*types.Session, error) {
	sess, err := c.cache.Get(ctx, id)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		log.Printf("cache: failed to read session %s: %v", id, err)
	}

	sess, err = c.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Set(ctx, sess); err != nil {
		log.Printf("cache: failed to backfill session %s: %v", id, err)
	}
	return sess, nil
}
