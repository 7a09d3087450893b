package rod

import (
	"context"
	"log/slog"
	"time"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure LoggingSessionManager implements blogscout.SessionManager.
var _ blogscout.SessionManager = (*LoggingSessionManager)(nil)

// LoggingSessionManager wraps a SessionManager with lifecycle logging.
type LoggingSessionManager struct {
	next   blogscout.SessionManager
	logger *slog.Logger
}

// NewLoggingSessionManager creates a new LoggingSessionManager.
func NewLoggingSessionManager(next blogscout.SessionManager, logger *slog.Logger) *LoggingSessionManager {
	return &LoggingSessionManager{next: next, logger: logger}
}

// Ensure logs session acquisition and delegates to the wrapped manager.
func (m *LoggingSessionManager) Ensure(ctx context.Context) (sess blogscout.Session, err error) {
	defer func(begin time.Time) {
		m.logger.Info("session ensure",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return m.next.Ensure(ctx)
}

// MaybeClose logs session release and delegates to the wrapped manager.
func (m *LoggingSessionManager) MaybeClose(force bool) (err error) {
	defer func() {
		m.logger.Info("session release",
			"force", force,
			"err", err,
		)
	}()
	return m.next.MaybeClose(force)
}

// Live delegates to the wrapped manager.
func (m *LoggingSessionManager) Live() bool {
	return m.next.Live()
}
