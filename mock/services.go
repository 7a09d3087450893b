package mock

import (
	"context"
	"time"

	"github.com/jeongsoo1975/blogscout"
)

var _ blogscout.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of blogscout.Searcher.
type Searcher struct {
	SearchFn      func(ctx context.Context, query string) ([]blogscout.SearchResult, error)
	MultiSearchFn func(ctx context.Context, keywords []string) (map[string][]blogscout.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string) ([]blogscout.SearchResult, error) {
	return s.SearchFn(ctx, query)
}

func (s *Searcher) MultiSearch(ctx context.Context, keywords []string) (map[string][]blogscout.SearchResult, error) {
	return s.MultiSearchFn(ctx, keywords)
}

var _ blogscout.FeedProber = (*FeedProber)(nil)

// FeedProber is a mock implementation of blogscout.FeedProber.
type FeedProber struct {
	LatestPostFn func(ctx context.Context, blogURL string) (time.Time, error)
}

func (p *FeedProber) LatestPost(ctx context.Context, blogURL string) (time.Time, error) {
	return p.LatestPostFn(ctx, blogURL)
}

var _ blogscout.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of blogscout.RecordService.
type RecordService struct {
	CreateRecordFn       func(ctx context.Context, rec *blogscout.BlogRecord) error
	FindRecordByBlogIDFn func(ctx context.Context, blogID string) (*blogscout.BlogRecord, error)
	FindRecordsFn        func(ctx context.Context, filter blogscout.RecordFilter) ([]*blogscout.BlogRecord, error)
	CreateBatchFn        func(ctx context.Context, batch *blogscout.BatchResult) error
}

func (s *RecordService) CreateRecord(ctx context.Context, rec *blogscout.BlogRecord) error {
	return s.CreateRecordFn(ctx, rec)
}

func (s *RecordService) FindRecordByBlogID(ctx context.Context, blogID string) (*blogscout.BlogRecord, error) {
	return s.FindRecordByBlogIDFn(ctx, blogID)
}

func (s *RecordService) FindRecords(ctx context.Context, filter blogscout.RecordFilter) ([]*blogscout.BlogRecord, error) {
	return s.FindRecordsFn(ctx, filter)
}

func (s *RecordService) CreateBatch(ctx context.Context, batch *blogscout.BatchResult) error {
	return s.CreateBatchFn(ctx, batch)
}

var _ blogscout.BatchWriter = (*BatchWriter)(nil)

// BatchWriter is a mock implementation of blogscout.BatchWriter.
type BatchWriter struct {
	WriteBatchFn func(ctx context.Context, batch *blogscout.BatchResult) (string, error)
}

func (w *BatchWriter) WriteBatch(ctx context.Context, batch *blogscout.BatchResult) (string, error) {
	return w.WriteBatchFn(ctx, batch)
}

var _ blogscout.URLDeduper = (*URLDeduper)(nil)

// URLDeduper is a mock implementation of blogscout.URLDeduper.
type URLDeduper struct {
	SeenFn func(url string) bool
}

func (d *URLDeduper) Seen(url string) bool {
	return d.SeenFn(url)
}

var _ blogscout.TokenCounter = (*TokenCounter)(nil)

// TokenCounter is a mock implementation of blogscout.TokenCounter.
type TokenCounter struct {
	CountTokensFn func(ctx context.Context, text string) (int, error)
}

func (c *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	return c.CountTokensFn(ctx, text)
}
