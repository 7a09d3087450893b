package extract

import "github.com/jeongsoo1975/blogscout"

// Selector profiles per platform. Each list is probed in order; the
// generic list is always appended so platform detection failures degrade
// rather than dead-end.
var (
	naverSESelectors = []string{
		".se-main-container",
		"#postViewArea",
		".se_component",
	}

	naverLegacySelectors = []string{
		"#postViewArea",
		".post_ct",
		".blogview_content",
	}

	naverFallbackSelectors = []string{
		".post_ct",
		".blogview_content",
		"[data-module='content']",
		".contents_inner",
	}

	tistorySelectors = []string{
		".tt_article_useless_p_margin",
		".entry-content",
		".article_view",
	}

	genericSelectors = []string{
		"article",
		"main",
		"[role='main']",
		".content",
		".post-body",
		".entry-content",
	}
)

// selectorProfile returns the probing order for a detected platform.
func selectorProfile(platform blogscout.Platform) []string {
	var primary []string
	switch platform {
	case blogscout.PlatformNaverSE:
		primary = append(primary, naverSESelectors...)
		primary = append(primary, naverFallbackSelectors...)
	case blogscout.PlatformNaverLegacy:
		primary = append(primary, naverLegacySelectors...)
		primary = append(primary, naverFallbackSelectors...)
	case blogscout.PlatformTistory:
		primary = append(primary, tistorySelectors...)
	}
	return appendUnique(primary, genericSelectors)
}

// appendUnique appends extras to base, skipping selectors already
// present so no selector is probed twice.
func appendUnique(base, extras []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, s := range base {
		seen[s] = struct{}{}
	}
	out := base
	for _, s := range extras {
		if _, ok := seen[s]; ok {
			continue
		}
		out = append(out, s)
		seen[s] = struct{}{}
	}
	return out
}
