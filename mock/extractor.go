package mock

import (
	"context"

	"github.com/jeongsoo1975/blogscout"
)

var _ blogscout.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of blogscout.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(ctx context.Context, sess blogscout.Session) (*blogscout.PageContent, error)
}

func (e *ContentExtractor) Extract(ctx context.Context, sess blogscout.Session) (*blogscout.PageContent, error) {
	return e.ExtractFn(ctx, sess)
}

var _ blogscout.ArticleExtractor = (*ArticleExtractor)(nil)

// ArticleExtractor is a mock implementation of blogscout.ArticleExtractor.
type ArticleExtractor struct {
	ExtractFn func(html string) (*blogscout.ExtractResult, error)
}

func (e *ArticleExtractor) Extract(html string) (*blogscout.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ blogscout.Normalizer = (*Normalizer)(nil)

// Normalizer is a mock implementation of blogscout.Normalizer.
type Normalizer struct {
	NormalizeFn func(text string) (string, error)
}

func (n *Normalizer) Normalize(text string) (string, error) {
	return n.NormalizeFn(text)
}

var _ blogscout.PlatformDetector = (*PlatformDetector)(nil)

// PlatformDetector is a mock implementation of blogscout.PlatformDetector.
type PlatformDetector struct {
	DetectFn func(html string) blogscout.Platform
}

func (d *PlatformDetector) Detect(html string) blogscout.Platform {
	return d.DetectFn(html)
}
