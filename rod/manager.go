package rod

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"

	"github.com/jeongsoo1975/blogscout"
)

// DefaultMaxAge is how long a browser lives before it is recycled on the
// next idle Ensure. Chrome accumulates memory over time and the baseline
// never returns to initial levels even with proper page cleanup;
// periodic recycling addresses this.
const DefaultMaxAge = 30 * time.Minute

// Ensure Manager implements blogscout.SessionManager at compile time.
var _ blogscout.SessionManager = (*Manager)(nil)

// Manager owns the single live browser session. Ensure launches the
// browser lazily on first demand and counts acquisitions; MaybeClose
// releases one acquisition and tears the browser down when forced or
// when no acquisitions remain.
//
// Manager is safe for concurrent use.
type Manager struct {
	browser   *rod.Browser
	launcher  *launcher.Launcher
	session   *Session
	createdAt time.Time
	users     int64
	maxAge    time.Duration
	mu        sync.Mutex
	closed    atomic.Bool
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithMaxAge sets the browser age after which an idle Ensure recycles
// it. Defaults to DefaultMaxAge.
func WithMaxAge(d time.Duration) ManagerOption {
	return func(m *Manager) { m.maxAge = d }
}

// NewManager creates a Manager. No browser is launched until the first
// Ensure.
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{maxAge: DefaultMaxAge}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Ensure returns the live session, launching the browser if none exists.
// A browser past its maximum age is recycled first, but only while no
// other acquisition is outstanding.
func (m *Manager) Ensure(ctx context.Context) (blogscout.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed.Load() {
		return nil, blogscout.Errorf(blogscout.EUNAVAILABLE, "session manager is closed")
	}

	if m.session != nil && m.users == 0 && time.Since(m.createdAt) > m.maxAge {
		m.teardown()
	}

	if m.session == nil {
		if err := m.launch(ctx); err != nil {
			return nil, blogscout.Errorf(blogscout.EUNAVAILABLE, "browser launch failed: %s", err)
		}
	}

	m.users++
	return m.session, nil
}

// MaybeClose releases one acquisition. A forced release tears the
// browser down immediately; a plain release keeps an idle browser warm
// for the next Ensure unless it has outlived its maximum age.
func (m *Manager) MaybeClose(force bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.users > 0 {
		m.users--
	}
	if force || (m.users == 0 && time.Since(m.createdAt) > m.maxAge) {
		return m.teardown()
	}
	return nil
}

// Live reports whether a browser session currently exists.
func (m *Manager) Live() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session != nil
}

// Close permanently shuts the manager down. Safe to call multiple times.
func (m *Manager) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.teardown()
}

// launch starts a new browser with stability flags and opens its
// session page. Must be called with mu held.
func (m *Manager) launch(ctx context.Context) error {
	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := lnchr.Launch()
	if err != nil {
		return err
	}

	browser := rod.New().ControlURL(u).Context(ctx)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return err
	}

	createdAt := time.Now()
	sess, err := newSession(browser, createdAt)
	if err != nil {
		_ = browser.Close()
		lnchr.Kill()
		return err
	}

	m.browser = browser
	m.launcher = lnchr
	m.session = sess
	m.createdAt = createdAt
	m.users = 0
	return nil
}

// teardown shuts down the session, browser and launcher. Must be called
// with mu held.
func (m *Manager) teardown() error {
	var err error
	if m.session != nil {
		err = m.session.close()
		m.session = nil
	}
	if m.browser != nil {
		if cerr := m.browser.Close(); err == nil {
			err = cerr
		}
		m.browser = nil
	}
	if m.launcher != nil {
		m.launcher.Kill()
		m.launcher = nil
	}
	m.users = 0
	return err
}

// LauncherPID returns the process ID of the browser launcher. This
// method exists for testing purposes to verify proper cleanup.
func (m *Manager) LauncherPID() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.launcher == nil {
		return 0
	}
	return m.launcher.PID()
}
