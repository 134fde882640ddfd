package memory

import (
	"context"
	"sync"
	"time"

	"github.com/SakshamA8/caseclosed/internal/repository/contract"
	"github.com/SakshamA8/caseclosed/pkg/research"

	"github.com/patrickmn/go-cache"
)

// SessionRepository is the default in-process store. Contexts live for the
// process lifetime only; expiry reclaims abandoned conversations.
type SessionRepository struct {
	cache *cache.Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

var _ contract.SessionStore = &SessionRepository{}

func NewSessionRepository() *SessionRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *SessionRepository) Get(_ context.Context, id string) (*research.SessionContext, bool) {
	if x, found := r.cache.Get(id); found {
		return x.(*research.SessionContext), true
	}
	return nil, false
}

func (r *SessionRepository) Put(_ context.Context, sc *research.SessionContext) error {
	r.cache.Set(sc.ID, sc, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) {
	r.cache.Delete(id)
}

// WithLock serializes callers on the same session id. Lock entries are
// never reclaimed; a mutex per conversation is small enough to not matter
// within a one-hour session horizon.
func (r *SessionRepository) WithLock(_ context.Context, id string, fn func() error) error {
	r.mu.Lock()
	l, ok := r.locks[id]
	if !ok {
		l = &sync.Mutex{}
		r.locks[id] = l
	}
	r.mu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn()
}
