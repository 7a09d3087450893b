package mock

import (
	"context"

	"github.com/jeongsoo1975/blogscout"
)

var _ blogscout.SessionManager = (*SessionManager)(nil)

// SessionManager is a mock implementation of blogscout.SessionManager.
type SessionManager struct {
	EnsureFn     func(ctx context.Context) (blogscout.Session, error)
	MaybeCloseFn func(force bool) error
	LiveFn       func() bool
}

func (m *SessionManager) Ensure(ctx context.Context) (blogscout.Session, error) {
	return m.EnsureFn(ctx)
}

func (m *SessionManager) MaybeClose(force bool) error {
	return m.MaybeCloseFn(force)
}

func (m *SessionManager) Live() bool {
	if m.LiveFn != nil {
		return m.LiveFn()
	}
	return false
}
