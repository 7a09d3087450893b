// Package goquery implements HTML-based blog platform detection.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure Detector implements blogscout.PlatformDetector at compile time.
var _ blogscout.PlatformDetector = (*Detector)(nil)

// Detector identifies blog platforms from rendered HTML. It checks for
// platform-specific CSS classes, element IDs and structural markers
// unique to each blog engine's post layout.
type Detector struct{}

// NewDetector creates a new Detector.
func NewDetector() *Detector {
	return &Detector{}
}

// Detect analyzes HTML and returns the identified platform.
// Returns PlatformUnknown if the platform cannot be determined.
func (d *Detector) Detect(html string) blogscout.Platform {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return blogscout.PlatformUnknown
	}

	// SmartEditor markers come first: legacy markers can linger in
	// migrated blogs, but .se-main-container only exists on SmartEditor
	// posts.
	if d.hasSelector(doc, ".se-main-container") ||
		d.hasSelector(doc, ".se-viewer") ||
		d.hasSelector(doc, "[class^='se-component']") {
		return blogscout.PlatformNaverSE
	}

	if d.hasSelector(doc, "#postViewArea") ||
		d.hasSelector(doc, ".post_ct") ||
		d.hasSelector(doc, ".blogview_content") {
		return blogscout.PlatformNaverLegacy
	}

	// Naver wraps the post in a mainFrame iframe; the outer shell has no
	// editor markers, so fall back to host hints.
	if d.hasNaverShell(doc) {
		return blogscout.PlatformNaverLegacy
	}

	if d.hasSelector(doc, ".tt_article_useless_p_margin") ||
		d.hasSelector(doc, ".article_view") ||
		d.hasTistoryMeta(doc) {
		return blogscout.PlatformTistory
	}

	return blogscout.PlatformUnknown
}

// hasSelector checks if the document contains at least one element
// matching the selector.
func (d *Detector) hasSelector(doc *goquery.Document, selector string) bool {
	return doc.Find(selector).Length() > 0
}

// hasNaverShell checks for the outer Naver blog shell around the
// mainFrame iframe.
func (d *Detector) hasNaverShell(doc *goquery.Document) bool {
	found := false
	doc.Find("iframe#mainFrame").Each(func(_ int, s *goquery.Selection) {
		if src, exists := s.Attr("src"); exists && strings.Contains(src, "blog.naver.com") {
			found = true
		}
	})
	return found
}

// hasTistoryMeta checks meta and link tags for Tistory hosting markers.
func (d *Detector) hasTistoryMeta(doc *goquery.Document) bool {
	found := false
	doc.Find("meta[property='og:url'], link[rel='canonical']").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"content", "href"} {
			if v, exists := s.Attr(attr); exists && strings.Contains(v, ".tistory.com") {
				found = true
			}
		}
	})
	return found
}
