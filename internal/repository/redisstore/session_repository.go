// Package redisstore keeps session contexts in Redis so multiple service
// instances can share them. The per-session lock is a SETNX lease.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SakshamA8/caseclosed/internal/repository/contract"
	"github.com/SakshamA8/caseclosed/pkg/research"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	contextTTL  = 1 * time.Hour
	lockTTL     = 2 * time.Minute // a turn holds the lock across several model calls
	lockPoll    = 100 * time.Millisecond
	lockTimeout = 30 * time.Second
)

type SessionRepository struct {
	rdb *redis.Client
}

var _ contract.SessionStore = &SessionRepository{}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{rdb: rdb}
}

func contextKey(id string) string {
	return "research:context:" + id
}

func lockKey(id string) string {
	return "research:lock:" + id
}

func (r *SessionRepository) Get(ctx context.Context, id string) (*research.SessionContext, bool) {
	raw, err := r.rdb.Get(ctx, contextKey(id)).Bytes()
	if err != nil {
		return nil, false
	}
	var sc research.SessionContext
	if err := json.Unmarshal(raw, &sc); err != nil {
		return nil, false
	}
	return &sc, true
}

func (r *SessionRepository) Put(ctx context.Context, sc *research.SessionContext) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("marshal context: %w", err)
	}
	if err := r.rdb.Set(ctx, contextKey(sc.ID), raw, contextTTL).Err(); err != nil {
		return fmt.Errorf("store context: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) {
	r.rdb.Del(ctx, contextKey(id))
}

// WithLock acquires a lease on the session, runs fn, and releases the
// lease only if this caller still owns it.
func (r *SessionRepository) WithLock(ctx context.Context, id string, fn func() error) error {
	owner := uuid.NewString()
	deadline := time.Now().Add(lockTimeout)

	for {
		ok, err := r.rdb.SetNX(ctx, lockKey(id), owner, lockTTL).Result()
		if err != nil {
			return fmt.Errorf("acquire session lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("session %s is busy", id)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockPoll):
		}
	}

	defer func() {
		// release only our own lease
		current, err := r.rdb.Get(context.Background(), lockKey(id)).Result()
		if err == nil && current == owner {
			r.rdb.Del(context.Background(), lockKey(id))
		}
	}()

	return fn()
}
