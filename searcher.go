package blogscout

import "context"

// SearchResult is one hit from a web search.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// Searcher finds candidate blog URLs for keywords.
type Searcher interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)

	// MultiSearch runs one query per keyword and returns the merged
	// results keyed by keyword. A failing keyword fails the whole call.
	MultiSearch(ctx context.Context, keywords []string) (map[string][]SearchResult, error)
}
