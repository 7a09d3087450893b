package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure LoggingSearcher implements blogscout.Searcher.
var _ blogscout.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with debug logging.
type LoggingSearcher struct {
	next   blogscout.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next blogscout.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the operation.
func (s *LoggingSearcher) Search(ctx context.Context, query string) (results []blogscout.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("web search",
			"query", query,
			"count", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query)
}

// MultiSearch delegates to the wrapped searcher and logs the operation.
func (s *LoggingSearcher) MultiSearch(ctx context.Context, keywords []string) (merged map[string][]blogscout.SearchResult, err error) {
	defer func(begin time.Time) {
		var count int
		for _, rs := range merged {
			count += len(rs)
		}
		s.logger.Info("multi web search",
			"keywords", len(keywords),
			"count", count,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.MultiSearch(ctx, keywords)
}
