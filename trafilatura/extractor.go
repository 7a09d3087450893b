// Package trafilatura implements article extraction over raw HTML using
// go-trafilatura.
package trafilatura

import (
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure Extractor implements blogscout.ArticleExtractor at compile time.
var _ blogscout.ArticleExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main article text from HTML.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	text := result.ContentText
	if text == "" && result.ContentNode != nil {
		text = nodeText(result.ContentNode)
	}

	return &blogscout.ExtractResult{
		Title: result.Metadata.Title,
		Text:  strings.TrimSpace(text),
	}, nil
}

// nodeText collects the text content of an html.Node subtree, with
// newlines between text chunks.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if b.Len() > 0 {
					b.WriteByte('\n')
				}
				b.WriteString(t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
