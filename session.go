package blogscout

import (
	"context"
	"time"
)

// Session is the capability set the pipeline needs from a rendering
// browser. Implementations wrap one live browser page; the handle is
// serially reused across navigations and is never shared by two
// in-flight extractions.
type Session interface {
	// Navigate issues navigation to the URL. It does not wait for the
	// document to become ready; that is the gate's job.
	Navigate(ctx context.Context, url string) error

	// Ready reports whether the document-completion signal holds
	// (readyState "complete" or equivalent).
	Ready(ctx context.Context) (bool, error)

	// QueryText returns the visible text of the first element matching
	// the CSS selector in the current frame context. The boolean is
	// false when no element matches.
	QueryText(ctx context.Context, selector string) (string, bool, error)

	// QueryTextAll returns the visible text of every element matching
	// the selector in the current frame context, in document order.
	QueryTextAll(ctx context.Context, selector string) ([]string, error)

	// SwitchToFrame moves the frame context into the index-th nested
	// frame of the top-level document. Returns false when no such
	// frame exists.
	SwitchToFrame(ctx context.Context, index int) (bool, error)

	// ResetFrame restores the frame context to the top-level document.
	ResetFrame()

	// BodyText returns the full visible body text of the current frame
	// context.
	BodyText(ctx context.Context) (string, error)

	// HTML returns the rendered HTML of the top-level document.
	HTML(ctx context.Context) (string, error)

	// CreatedAt reports when the underlying browser was launched.
	CreatedAt() time.Time
}

// SessionManager owns the single live browser session. Ensure is
// idempotent: it creates the session on first demand and hands back the
// existing one afterwards, so at most one browser is ever live
// process-wide. Every Ensure must be paired with a MaybeClose.
type SessionManager interface {
	// Ensure returns the live session, launching the browser if none
	// exists. Launch failure is EUNAVAILABLE and fatal for the batch.
	Ensure(ctx context.Context) (Session, error)

	// MaybeClose releases one acquisition. The browser is torn down
	// when force is true; otherwise an idle browser may be kept for
	// reuse until the implementation decides to recycle it.
	MaybeClose(force bool) error

	// Live reports whether a browser session currently exists.
	Live() bool
}

// ReadyState is the outcome of loading a URL through the readiness gate.
type ReadyState int

const (
	// Ready means the readiness predicate held within the bounded wait.
	Ready ReadyState = iota

	// TimedOut means the hard upper bound elapsed first. This is a
	// degraded-but-continuable condition: extraction is still attempted
	// against whatever rendered.
	TimedOut
)

// String returns the readable name of the state.
func (s ReadyState) String() string {
	if s == Ready {
		return "ready"
	}
	return "timed_out"
}
