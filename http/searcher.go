// Package http provides HTTP-based implementations for web search and
// feed probing, for content that does not require JavaScript rendering.
package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"

	"github.com/jeongsoo1975/blogscout"
)

// DefaultSearchTimeout is the default timeout for search requests.
const DefaultSearchTimeout = 10 * time.Second

// searchEndpoint is the HTML (non-JavaScript) search frontend.
const searchEndpoint = "https://html.duckduckgo.com/html/"

// userAgent identifies the client to the search frontend; the default Go
// agent gets blocked.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// Ensure Searcher implements blogscout.Searcher at compile time.
var _ blogscout.Searcher = (*Searcher)(nil)

// Searcher finds candidate blog URLs through the DuckDuckGo HTML
// frontend. Searcher is safe for concurrent use.
type Searcher struct {
	client   *http.Client
	endpoint string
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithClient sets the HTTP client. Defaults to a client with
// DefaultSearchTimeout.
func WithClient(client *http.Client) SearcherOption {
	return func(s *Searcher) { s.client = client }
}

// WithEndpoint overrides the search frontend URL, for self-hosted
// frontends and tests.
func WithEndpoint(endpoint string) SearcherOption {
	return func(s *Searcher) { s.endpoint = endpoint }
}

// NewSearcher creates a new Searcher.
func NewSearcher(opts ...SearcherOption) *Searcher {
	s := &Searcher{}
	for _, opt := range opts {
		opt(s)
	}
	if s.client == nil {
		s.client = &http.Client{Timeout: DefaultSearchTimeout}
	}
	if s.endpoint == "" {
		s.endpoint = searchEndpoint
	}
	return s
}

// Search runs one query and returns results in rank order.
func (s *Searcher) Search(ctx context.Context, query string) ([]blogscout.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, blogscout.Errorf(blogscout.EINVALID, "search query required")
	}

	endpoint := s.endpoint + "?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, blogscout.Errorf(blogscout.EUNAVAILABLE, "search returned HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, err
	}

	var results []blogscout.SearchResult
	doc.Find(".result").Each(func(_ int, sel *goquery.Selection) {
		link := sel.Find(".result__a").First()
		href, exists := link.Attr("href")
		if !exists {
			return
		}
		target := resolveRedirect(href)
		if target == "" {
			return
		}
		results = append(results, blogscout.SearchResult{
			Title:   strings.TrimSpace(link.Text()),
			URL:     target,
			Snippet: strings.TrimSpace(sel.Find(".result__snippet").Text()),
		})
	})

	return results, nil
}

// MultiSearch runs one query per keyword concurrently and returns the
// merged results keyed by keyword. A failing keyword fails the whole
// call.
func (s *Searcher) MultiSearch(ctx context.Context, keywords []string) (map[string][]blogscout.SearchResult, error) {
	results := make([]([]blogscout.SearchResult), len(keywords))

	g, ctx := errgroup.WithContext(ctx)
	for i, kw := range keywords {
		g.Go(func() error {
			rs, err := s.Search(ctx, kw)
			if err != nil {
				return err
			}
			results[i] = rs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make(map[string][]blogscout.SearchResult, len(keywords))
	for i, kw := range keywords {
		merged[kw] = results[i]
	}
	return merged, nil
}

// resolveRedirect unwraps the search frontend's redirect links
// (//duckduckgo.com/l/?uddg=<target>) to the target URL. Direct links
// pass through.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return href
	}
	return ""
}
