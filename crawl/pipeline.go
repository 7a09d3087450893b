package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/jeongsoo1975/blogscout"
)

// DefaultModelTimeout bounds one model round trip.
const DefaultModelTimeout = 60 * time.Second

// Pipeline runs keyword batches: for each submitted URL it loads the
// page, extracts and normalizes content, asks the model for metadata,
// and interprets the reply into a BlogRecord. Per-URL failures are
// recorded as outcomes and never abort the batch; only a browser launch
// failure is fatal.
type Pipeline struct {
	manager     blogscout.SessionManager
	gate        *Gate
	extractor   blogscout.ContentExtractor
	normalizer  blogscout.Normalizer
	transport   blogscout.Transport
	interpreter blogscout.Interpreter
	catalog     blogscout.Catalog
	logger      *slog.Logger

	searcher blogscout.Searcher
	feed     blogscout.FeedProber
	dedupe   blogscout.URLDeduper
	records  blogscout.RecordService
	tokens   blogscout.TokenCounter

	modelTimeout time.Duration
	tokenBudget  int
}

// PipelineOption configures optional pipeline collaborators.
type PipelineOption func(*Pipeline)

// WithSearcher enables keyword discovery via Collect.
func WithSearcher(s blogscout.Searcher) PipelineOption {
	return func(p *Pipeline) { p.searcher = s }
}

// WithFeedProber fills a missing recent-post date from the blog's feed.
func WithFeedProber(f blogscout.FeedProber) PipelineOption {
	return func(p *Pipeline) { p.feed = f }
}

// WithDeduper skips URLs already seen within the process.
func WithDeduper(d blogscout.URLDeduper) PipelineOption {
	return func(p *Pipeline) { p.dedupe = d }
}

// WithRecordService persists finalized records and batch summaries.
func WithRecordService(s blogscout.RecordService) PipelineOption {
	return func(p *Pipeline) { p.records = s }
}

// WithTokenCounter watches prompt size against a token budget. Prompts
// over budget are still sent; the overage is logged for tuning the
// normalizer bounds.
func WithTokenCounter(tc blogscout.TokenCounter, budget int) PipelineOption {
	return func(p *Pipeline) {
		p.tokens = tc
		p.tokenBudget = budget
	}
}

// WithModelTimeout overrides the per-URL model deadline.
func WithModelTimeout(d time.Duration) PipelineOption {
	return func(p *Pipeline) { p.modelTimeout = d }
}

// NewPipeline assembles a Pipeline from its required collaborators.
func NewPipeline(
	manager blogscout.SessionManager,
	gate *Gate,
	extractor blogscout.ContentExtractor,
	normalizer blogscout.Normalizer,
	transport blogscout.Transport,
	interpreter blogscout.Interpreter,
	catalog blogscout.Catalog,
	logger *slog.Logger,
	opts ...PipelineOption,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Pipeline{
		manager:      manager,
		gate:         gate,
		extractor:    extractor,
		normalizer:   normalizer,
		transport:    transport,
		interpreter:  interpreter,
		catalog:      catalog,
		logger:       logger,
		modelTimeout: DefaultModelTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Collect discovers up to limit URLs per keyword and runs them as one
// batch labeled with the joined keyword list. Requires a searcher.
func (p *Pipeline) Collect(ctx context.Context, keywords []string, limit int) (*blogscout.BatchResult, error) {
	if p.searcher == nil {
		return nil, blogscout.Errorf(blogscout.EINVALID, "pipeline has no searcher configured")
	}
	if len(keywords) == 0 {
		return nil, blogscout.Errorf(blogscout.EINVALID, "at least one keyword required")
	}

	merged, err := p.searcher.MultiSearch(ctx, keywords)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", strings.Join(keywords, ", "), err)
	}

	// Keyword order is preserved and a URL found under several keywords
	// is visited once.
	var urls []string
	seen := make(map[string]bool)
	for _, kw := range keywords {
		taken := 0
		for _, r := range merged[kw] {
			if limit > 0 && taken >= limit {
				break
			}
			if seen[r.URL] {
				continue
			}
			seen[r.URL] = true
			urls = append(urls, r.URL)
			taken++
		}
	}
	if len(urls) == 0 {
		return nil, blogscout.Errorf(blogscout.ENOTFOUND, "no search results for %q", strings.Join(keywords, ", "))
	}

	return p.Run(ctx, strings.Join(keywords, ", "), urls)
}

// Run processes the URLs in order and returns the finalized batch. The
// browser session is acquired once for the whole batch and force-closed
// on exit, so no browser outlives a run.
func (p *Pipeline) Run(ctx context.Context, keyword string, urls []string) (*blogscout.BatchResult, error) {
	batch := &blogscout.BatchResult{
		ID:        uuid.NewString(),
		Keyword:   keyword,
		StartedAt: time.Now().UTC(),
	}

	sess, err := p.manager.Ensure(ctx)
	if err != nil {
		return nil, blogscout.Errorf(blogscout.EUNAVAILABLE, "browser launch failed: %s", err)
	}
	defer func() {
		if cerr := p.manager.MaybeClose(true); cerr != nil {
			p.logger.Warn("browser close failed", "err", cerr)
		}
	}()

	p.logger.Info("batch started", "id", batch.ID, "keyword", keyword, "urls", len(urls))

	for _, rawURL := range urls {
		outcome := p.processURL(ctx, sess, keyword, rawURL)
		batch.Outcomes = append(batch.Outcomes, outcome)
		if outcome.Failed() {
			batch.Failed++
			p.logger.Warn("url failed",
				"url", outcome.URL,
				"stage", string(outcome.Stage),
				"reason", outcome.Reason,
			)
		} else {
			batch.Succeeded++
			p.logger.Info("url recorded", "url", outcome.URL, "blog_id", outcome.Record.BlogID)
		}
	}

	batch.FinishedAt = time.Now().UTC()
	p.logger.Info("batch finished",
		"id", batch.ID,
		"succeeded", batch.Succeeded,
		"failed", batch.Failed,
	)

	if p.records != nil {
		if err := p.records.CreateBatch(ctx, batch); err != nil {
			p.logger.Warn("batch persistence failed", "id", batch.ID, "err", err)
		}
	}

	return batch, nil
}

// processURL runs the staged pipeline for one URL. Every return path
// yields exactly one outcome.
func (p *Pipeline) processURL(ctx context.Context, sess blogscout.Session, keyword, rawURL string) blogscout.URLOutcome {
	canonical := CanonicalURL(rawURL, p.logger)

	if p.dedupe != nil && p.dedupe.Seen(canonical) {
		return blogscout.URLOutcome{
			URL:    canonical,
			Stage:  blogscout.StagePending,
			Reason: "duplicate of an already processed URL",
		}
	}

	state, err := p.gate.Load(ctx, sess, canonical)
	if err != nil {
		return fail(canonical, blogscout.StageNavigating, err, "")
	}
	if state == blogscout.TimedOut {
		p.logger.Warn("page never signaled ready, extracting anyway", "url", canonical)
	}

	content, err := p.extractor.Extract(ctx, sess)
	if err != nil {
		return fail(canonical, blogscout.StageExtracting, err, "")
	}

	normalized, err := p.normalizer.Normalize(content.Text)
	if err != nil {
		return fail(canonical, blogscout.StageNormalizing, err, "")
	}

	prompt := buildPrompt(canonical, normalized, nil)
	p.checkTokenBudget(ctx, canonical, prompt)

	modelCtx, cancel := context.WithTimeout(ctx, p.modelTimeout)
	defer cancel()
	resp, err := p.transport.Send(modelCtx, systemPrompt, prompt, p.catalog.Capabilities())
	if err != nil {
		return fail(canonical, blogscout.StageAwaitingModel, err, "")
	}

	fields, err := p.interpretFields(resp)
	if err != nil {
		return fail(canonical, blogscout.StageInterpreting, err, resp.Text)
	}

	rec := blogscout.RecordFromFields(fields, canonical)
	rec.SourceKeyword = keyword
	rec.ContentHash = fmt.Sprintf("%016x", xxhash.Sum64String(normalized))
	p.fillRecentPostDate(ctx, rec)

	if err := rec.Validate(); err != nil {
		return fail(canonical, blogscout.StageInterpreting, err, resp.Text)
	}

	if p.records != nil {
		if err := p.records.CreateRecord(ctx, rec); err != nil {
			p.logger.Warn("record persistence failed", "blog_id", rec.BlogID, "err", err)
		}
	}

	return blogscout.URLOutcome{
		URL:    canonical,
		Stage:  blogscout.StageRecorded,
		Record: rec,
	}
}

// interpretFields extracts the metadata field map from a model reply:
// a finalize_blog_data_collection invocation carries it as the first
// element of collected_blogs_summary; otherwise the reply may be a bare
// JSON field object. Any other valid invocation is rejected outright —
// its {name, arguments} envelope must never be decoded as a field map.
func (p *Pipeline) interpretFields(resp *blogscout.ModelResponse) (map[string]any, error) {
	inv, invErr := p.interpreter.Interpret(resp)
	if invErr == nil {
		if inv.Name != "finalize_blog_data_collection" {
			return nil, blogscout.Errorf(blogscout.EMALFORMED,
				"model invoked %q instead of reporting fields", inv.Name)
		}
		if summary, ok := inv.Args["collected_blogs_summary"].([]any); ok && len(summary) > 0 {
			if fields, ok := summary[0].(map[string]any); ok {
				return fields, nil
			}
		}
		return nil, blogscout.Errorf(blogscout.EMALFORMED,
			"finalize invocation carries no usable blog summary")
	}

	return p.interpreter.DecodeFields(resp)
}

// checkTokenBudget logs a warning when the prompt exceeds the
// configured token budget.
func (p *Pipeline) checkTokenBudget(ctx context.Context, url, prompt string) {
	if p.tokens == nil || p.tokenBudget <= 0 {
		return
	}
	n, err := p.tokens.CountTokens(ctx, prompt)
	if err != nil {
		p.logger.Warn("token count failed", "url", url, "err", err)
		return
	}
	if n > p.tokenBudget {
		p.logger.Warn("prompt exceeds token budget", "url", url, "tokens", n, "budget", p.tokenBudget)
	}
}

// fillRecentPostDate probes the blog's feed when the model could not
// determine the recent-post date.
func (p *Pipeline) fillRecentPostDate(ctx context.Context, rec *blogscout.BlogRecord) {
	if p.feed == nil || rec.RecentPostDate != blogscout.Unknown {
		return
	}
	latest, err := p.feed.LatestPost(ctx, rec.BlogURL)
	if err != nil {
		if blogscout.ErrorCode(err) != blogscout.ENOTFOUND {
			p.logger.Warn("feed probe failed", "url", rec.BlogURL, "err", err)
		}
		return
	}
	rec.RecentPostDate = latest.Format("2006-01-02")
	p.logger.Info("recent post date filled from feed", "url", rec.BlogURL, "date", rec.RecentPostDate)
}

// fail builds a failure outcome with the stage that decided it. The
// reason keeps the application message when one exists and falls back
// to the raw error text, which failure reports need for diagnosis.
func fail(url string, stage blogscout.Stage, err error, raw string) blogscout.URLOutcome {
	reason := err.Error()
	if blogscout.ErrorCode(err) != blogscout.EINTERNAL {
		reason = blogscout.ErrorMessage(err)
	}
	return blogscout.URLOutcome{
		URL:    url,
		Stage:  stage,
		Reason: reason,
		Raw:    raw,
	}
}
