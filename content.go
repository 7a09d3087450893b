package blogscout

import "context"

// PageContent is article text accepted by the extraction cascade.
type PageContent struct {
	// Text is the extracted (and, after normalization, canonicalized)
	// article text.
	Text string

	// Strategy identifies which extraction strategy produced the text,
	// e.g. "selector:.se-main-container", "frame:2/selector:#postViewArea",
	// "fragments", "article" or "body".
	Strategy string

	// Length is the rune count of Text.
	Length int
}

// ContentExtractor runs the strategy cascade against a loaded session.
// It returns the first sufficiently long candidate, or an EINSUFFICIENT
// error when every strategy is exhausted.
type ContentExtractor interface {
	Extract(ctx context.Context, sess Session) (*PageContent, error)
}

// Normalizer canonicalizes extracted text: trim, length bounds with a
// truncation marker, and a single canonical encoding. It is total; every
// input maps to either a normalized string or an EINSUFFICIENT error.
type Normalizer interface {
	Normalize(text string) (string, error)
}

// ExtractResult holds content pulled out of a raw HTML document by an
// article extractor, independent of any live browser session.
type ExtractResult struct {
	// Title is the page title taken from document metadata.
	Title string

	// Text is the main article text with boilerplate removed.
	Text string
}

// ArticleExtractor extracts main content from raw HTML. Implementations
// back the cascade's whole-document strategies (trafilatura, readability).
type ArticleExtractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Platform identifies the blog platform a rendered page belongs to.
// The extraction engine picks its selector profile from this.
type Platform string

// Known blog platforms.
const (
	PlatformNaverSE     Platform = "naver-se"     // Naver SmartEditor layouts
	PlatformNaverLegacy Platform = "naver-legacy" // pre-SmartEditor Naver layouts
	PlatformTistory     Platform = "tistory"
	PlatformUnknown     Platform = ""
)

// PlatformDetector identifies the blog platform from rendered HTML.
type PlatformDetector interface {
	Detect(html string) Platform
}
