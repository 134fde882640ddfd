package contract

import (
	"context"

	"github.com/SakshamA8/caseclosed/pkg/research"
)

// SessionStore abstracts where session contexts live. The orchestration
// engine receives it by injection so the in-memory store can be swapped
// for a distributed one without touching pipeline code.
//
// WithLock serializes turns on one session: at most one in-flight turn per
// context id. Turns on different sessions are independent.
type SessionStore interface {
	Get(ctx context.Context, id string) (*research.SessionContext, bool)
	Put(ctx context.Context, sc *research.SessionContext) error
	Delete(ctx context.Context, id string)
	WithLock(ctx context.Context, id string, fn func() error) error
}
