// Package rod provides the browser session implementation using Chrome
// browser automation.
package rod

import (
	"context"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure Session implements blogscout.Session at compile time.
var _ blogscout.Session = (*Session)(nil)

// Session wraps one live Chrome page. The frame context starts at the
// top-level document and moves with SwitchToFrame/ResetFrame. Session is
// serially reused across navigations; it is not safe for concurrent use.
type Session struct {
	page      *rod.Page
	frame     *rod.Page
	createdAt time.Time
}

// newSession opens a fresh page on the browser.
func newSession(browser *rod.Browser, createdAt time.Time) (*Session, error) {
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	return &Session{page: page, createdAt: createdAt}, nil
}

// cur returns the page for the current frame context.
func (s *Session) cur() *rod.Page {
	if s.frame != nil {
		return s.frame
	}
	return s.page
}

// Navigate issues navigation and resets the frame context. It returns
// once the navigation request is underway; readiness is polled
// separately via Ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.frame = nil
	return s.page.Context(ctx).Navigate(url)
}

// Ready reports whether document.readyState is "complete".
func (s *Session) Ready(ctx context.Context) (bool, error) {
	res, err := s.page.Context(ctx).Eval("() => document.readyState")
	if err != nil {
		return false, err
	}
	return res.Value.Str() == "complete", nil
}

// QueryText returns the visible text of the first match in the current
// frame context. It does not wait for the element to appear.
func (s *Session) QueryText(ctx context.Context, selector string) (string, bool, error) {
	els, err := s.cur().Context(ctx).Elements(selector)
	if err != nil {
		return "", false, err
	}
	if len(els) == 0 {
		return "", false, nil
	}
	text, err := els.First().Text()
	if err != nil {
		return "", false, err
	}
	return text, true, nil
}

// QueryTextAll returns the visible text of every match in document
// order.
func (s *Session) QueryTextAll(ctx context.Context, selector string) ([]string, error) {
	els, err := s.cur().Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		texts = append(texts, text)
	}
	return texts, nil
}

// SwitchToFrame moves the frame context into the index-th iframe of the
// top-level document. Returns false when no such frame exists.
func (s *Session) SwitchToFrame(ctx context.Context, index int) (bool, error) {
	els, err := s.page.Context(ctx).Elements("iframe")
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(els) {
		return false, nil
	}
	frame, err := els[index].Frame()
	if err != nil {
		return false, err
	}
	s.frame = frame
	return true, nil
}

// ResetFrame restores the frame context to the top-level document.
func (s *Session) ResetFrame() {
	s.frame = nil
}

// BodyText returns the full visible body text of the current frame
// context.
func (s *Session) BodyText(ctx context.Context) (string, error) {
	el, err := s.cur().Context(ctx).Element("body")
	if err != nil {
		return "", err
	}
	return el.Text()
}

// HTML returns the rendered HTML of the top-level document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.page.Context(ctx).HTML()
}

// CreatedAt reports when the underlying browser was launched.
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// close releases the page.
func (s *Session) close() error {
	s.frame = nil
	return s.page.Close()
}
