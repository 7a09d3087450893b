// Package crawl orchestrates the per-URL collection pipeline: load a
// page through the readiness gate, extract and normalize its content,
// ask the model for structured metadata, and interpret the reply into a
// validated record.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jeongsoo1975/blogscout"
)

// Gate defaults. Settle is the unconditional post-navigation wait that
// gives client-side rendering a chance to run; Deadline bounds the
// readiness poll; Poll is the probe interval.
const (
	DefaultSettle   = 5 * time.Second
	DefaultDeadline = 30 * time.Second
	DefaultPoll     = 500 * time.Millisecond
)

// Gate loads URLs and waits for the document-completion signal. A page
// that never signals completion within the deadline is reported as
// TimedOut, not failed: extraction still runs against whatever rendered.
type Gate struct {
	Settle   time.Duration
	Deadline time.Duration
	Poll     time.Duration
	Logger   *slog.Logger
}

// NewGate creates a Gate with the default timing.
func NewGate(logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		Settle:   DefaultSettle,
		Deadline: DefaultDeadline,
		Poll:     DefaultPoll,
		Logger:   logger,
	}
}

// Load navigates the session to rawURL and waits for readiness. A
// navigation error is retried once with a doubled deadline before it
// becomes an ETIMEOUT failure.
func (g *Gate) Load(ctx context.Context, sess blogscout.Session, rawURL string) (blogscout.ReadyState, error) {
	state, err := g.loadOnce(ctx, sess, rawURL, g.Deadline)
	if err == nil {
		return state, nil
	}

	g.Logger.Warn("navigation failed, retrying with doubled deadline",
		"url", rawURL,
		"err", err,
	)
	state, err = g.loadOnce(ctx, sess, rawURL, 2*g.Deadline)
	if err != nil {
		return blogscout.TimedOut, blogscout.Errorf(blogscout.ETIMEOUT,
			"navigation to %s failed after retry: %s", rawURL, err)
	}
	return state, nil
}

func (g *Gate) loadOnce(ctx context.Context, sess blogscout.Session, rawURL string, deadline time.Duration) (blogscout.ReadyState, error) {
	navCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	if err := sess.Navigate(navCtx, rawURL); err != nil {
		return blogscout.TimedOut, err
	}

	if g.Settle > 0 {
		select {
		case <-time.After(g.Settle):
		case <-ctx.Done():
			return blogscout.TimedOut, ctx.Err()
		}
	}

	pollUntil := time.Now().Add(deadline)
	for time.Now().Before(pollUntil) {
		ready, err := sess.Ready(ctx)
		if err == nil && ready {
			return blogscout.Ready, nil
		}
		select {
		case <-time.After(g.Poll):
		case <-ctx.Done():
			return blogscout.TimedOut, ctx.Err()
		}
	}

	g.Logger.Warn("readiness deadline elapsed, continuing degraded", "url", rawURL)
	return blogscout.TimedOut, nil
}

// CanonicalURL rewrites known URL variants to their canonical desktop
// form. Mobile Naver blog URLs render a different DOM than the desktop
// layout the selector profiles target.
func CanonicalURL(rawURL string, logger *slog.Logger) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}

	host := strings.ToLower(u.Hostname())
	if host == "m.blog.naver.com" {
		u.Host = "blog.naver.com"
		rewritten := u.String()
		if logger != nil {
			logger.Info("rewrote mobile URL", "from", rawURL, "to", rewritten)
		}
		return rewritten
	}
	return rawURL
}
