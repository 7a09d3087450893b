// Package extract implements the content extraction cascade and the
// text normalizer. The engine probes a loaded browser session with an
// ordered list of named strategies, most specific first, and accepts the
// first candidate long enough to be worth keeping.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/jeongsoo1975/blogscout"
)

// DefaultMaxFrames bounds how many nested frames the cascade descends
// into before giving up on frame traversal.
const DefaultMaxFrames = 8

// frameAcceptLength lets frame traversal stop early once a frame yields
// a clearly substantial candidate, without scanning remaining frames.
const frameAcceptLength = 200

// Ensure Engine implements blogscout.ContentExtractor at compile time.
var _ blogscout.ContentExtractor = (*Engine)(nil)

// Engine runs the strategy cascade against a session. The ordering is a
// precision-over-recall policy: platform selectors are trusted first
// because they are least likely to pick up navigation and boilerplate,
// and each later step trades precision for availability.
type Engine struct {
	detector  blogscout.PlatformDetector
	article   blogscout.ArticleExtractor
	minLength int
	maxFrames int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithMinLength sets the acceptance threshold in runes. Defaults to
// NormalizerMinLength (50).
func WithMinLength(n int) Option {
	return func(e *Engine) { e.minLength = n }
}

// WithMaxFrames bounds frame traversal. Defaults to DefaultMaxFrames.
func WithMaxFrames(n int) Option {
	return func(e *Engine) { e.maxFrames = n }
}

// NewEngine creates an Engine. The detector picks the selector profile
// from rendered HTML; the article extractor backs the whole-document
// strategy and may be nil to skip it.
func NewEngine(detector blogscout.PlatformDetector, article blogscout.ArticleExtractor, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		detector:  detector,
		article:   article,
		minLength: NormalizerMinLength,
		maxFrames: DefaultMaxFrames,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// Extract runs the cascade and returns the first acceptable candidate.
// Returns EINSUFFICIENT when every strategy is exhausted.
func (e *Engine) Extract(ctx context.Context, sess blogscout.Session) (*blogscout.PageContent, error) {
	html, err := sess.HTML(ctx)
	if err != nil {
		// Detection and the article strategy degrade without HTML;
		// the selector strategies still run.
		e.logger.Warn("page HTML unavailable", "err", err)
		html = ""
	}

	platform := blogscout.PlatformUnknown
	if e.detector != nil && html != "" {
		platform = e.detector.Detect(html)
	}
	selectors := selectorProfile(platform)

	// Strategy 1+2: platform-specific then generic selectors, top frame.
	if pc := e.probeSelectors(ctx, sess, selectors, ""); pc != nil {
		return e.accept(pc, platform)
	}

	// Strategy 3: descend into nested frames and rerun the selector
	// lists inside each. Dynamic blog layouts frequently render the
	// article inside an iframe.
	if pc := e.probeFrames(ctx, sess, selectors); pc != nil {
		return e.accept(pc, platform)
	}

	// Strategy 4: merge smaller fragments that are individually too
	// short, in document order.
	if pc := e.mergeFragments(ctx, sess); pc != nil {
		return e.accept(pc, platform)
	}

	// Strategy 5: whole-document article extraction over raw HTML.
	if e.article != nil && html != "" {
		if res, err := e.article.Extract(html); err == nil {
			if pc := candidate(res.Text, "article"); pc != nil && pc.Length >= e.minLength {
				return e.accept(pc, platform)
			}
		}
	}

	// Final fallback: full body text.
	if body, err := sess.BodyText(ctx); err == nil {
		if pc := candidate(body, "body"); pc != nil && pc.Length >= e.minLength {
			return e.accept(pc, platform)
		}
	}

	return nil, blogscout.Errorf(blogscout.EINSUFFICIENT,
		"no extraction strategy produced at least %d characters", e.minLength)
}

// accept logs the winning strategy and returns the content.
func (e *Engine) accept(pc *blogscout.PageContent, platform blogscout.Platform) (*blogscout.PageContent, error) {
	e.logger.Info("content extracted",
		"strategy", pc.Strategy,
		"platform", string(platform),
		"chars", pc.Length,
	)
	return pc, nil
}

// probeSelectors tries each selector in order and returns the first
// acceptable candidate. prefix namespaces the strategy identifier when
// probing inside a frame.
func (e *Engine) probeSelectors(ctx context.Context, sess blogscout.Session, selectors []string, prefix string) *blogscout.PageContent {
	for _, sel := range selectors {
		text, ok, err := sess.QueryText(ctx, sel)
		if err != nil || !ok {
			continue
		}
		if pc := candidate(text, prefix+"selector:"+sel); pc != nil && pc.Length >= e.minLength {
			return pc
		}
	}
	return nil
}

// probeFrames reruns the selector list inside each nested frame. The
// frame context is always restored, even on early acceptance. The first
// frame candidate over frameAcceptLength wins immediately; otherwise the
// best candidate over the minimum is kept.
func (e *Engine) probeFrames(ctx context.Context, sess blogscout.Session, selectors []string) *blogscout.PageContent {
	defer sess.ResetFrame()

	var best *blogscout.PageContent
	for i := 0; i < e.maxFrames; i++ {
		ok, err := sess.SwitchToFrame(ctx, i)
		if err != nil || !ok {
			break
		}
		pc := e.probeSelectors(ctx, sess, selectors, fmt.Sprintf("frame:%d/", i))
		sess.ResetFrame()
		if pc == nil {
			continue
		}
		if pc.Length >= frameAcceptLength {
			return pc
		}
		if best == nil || pc.Length > best.Length {
			best = pc
		}
	}
	return best
}

// mergeCap stops fragment collection once this many characters have
// accumulated; past this the merged text is already acceptable and more
// fragments only add boilerplate risk.
const mergeCap = 500

// fragmentSelectors lists element families worth merging when no single
// container holds the article, in probing order.
var fragmentSelectors = []string{
	".se-text-paragraph",
	".se-text",
	"article p",
	"p",
}

// mergeFragments concatenates short fragments in document order,
// dropping duplicates where one fragment contains another.
func (e *Engine) mergeFragments(ctx context.Context, sess blogscout.Session) *blogscout.PageContent {
	var parts []string
	total := 0

	for _, sel := range fragmentSelectors {
		texts, err := sess.QueryTextAll(ctx, sel)
		if err != nil {
			continue
		}
		for _, t := range texts {
			t = strings.TrimSpace(t)
			if utf8.RuneCountInString(t) <= 5 {
				continue
			}
			if containsFragment(parts, t) {
				continue
			}
			parts = append(parts, t)
			total += utf8.RuneCountInString(t)
			if total > mergeCap {
				break
			}
		}
		if total > mergeCap {
			break
		}
	}

	if len(parts) == 0 {
		return nil
	}
	if pc := candidate(strings.Join(parts, "\n"), "fragments"); pc != nil && pc.Length >= e.minLength {
		return pc
	}
	return nil
}

// containsFragment reports whether t duplicates an already collected
// fragment in either containment direction.
func containsFragment(parts []string, t string) bool {
	for _, p := range parts {
		if strings.Contains(p, t) || strings.Contains(t, p) {
			return true
		}
	}
	return false
}

// candidate trims the text and wraps it with its strategy identifier.
// Returns nil for empty text.
func candidate(text, strategy string) *blogscout.PageContent {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &blogscout.PageContent{
		Text:     text,
		Strategy: strategy,
		Length:   utf8.RuneCountInString(text),
	}
}
