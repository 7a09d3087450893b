package extract

import (
	"strings"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure ArticleChain implements blogscout.ArticleExtractor.
var _ blogscout.ArticleExtractor = (ArticleChain)(nil)

// ArticleChain tries a list of article extractors in order and returns
// the first non-empty result. An extractor that errors or yields no text
// passes the document to the next one.
type ArticleChain []blogscout.ArticleExtractor

// Extract runs the chain.
func (c ArticleChain) Extract(html string) (*blogscout.ExtractResult, error) {
	var lastErr error
	for _, e := range c {
		res, err := e.Extract(html)
		if err != nil {
			lastErr = err
			continue
		}
		if res != nil && strings.TrimSpace(res.Text) != "" {
			return res, nil
		}
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, blogscout.Errorf(blogscout.EINSUFFICIENT, "no article extractor produced text")
}
