// Package readability implements article extraction over raw HTML using
// go-readability. It serves as the alternate whole-document strategy
// when trafilatura is unavailable or rejects a page.
package readability

import (
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure Extractor implements blogscout.ArticleExtractor at compile time.
var _ blogscout.ArticleExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main article text from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main article text.
func (e *Extractor) Extract(rawHTML string) (*blogscout.ExtractResult, error) {
	if rawHTML == "" {
		return nil, blogscout.Errorf(blogscout.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &blogscout.ExtractResult{
		Title: article.Title,
		Text:  strings.TrimSpace(article.TextContent),
	}, nil
}
