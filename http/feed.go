package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/jeongsoo1975/blogscout"
)

// Ensure FeedProber implements blogscout.FeedProber at compile time.
var _ blogscout.FeedProber = (*FeedProber)(nil)

// FeedProber discovers a blog's RSS or Atom feed and reads the newest
// post date from it. Used to fill in the recent-post date when the page
// text does not reveal it.
type FeedProber struct {
	client *http.Client
}

// NewFeedProber creates a new FeedProber. If client is nil, a client
// with DefaultSearchTimeout is used.
func NewFeedProber(client *http.Client) *FeedProber {
	if client == nil {
		client = &http.Client{Timeout: DefaultSearchTimeout}
	}
	return &FeedProber{client: client}
}

// LatestPost returns the publication time of the newest entry in the
// blog's feed. Returns ENOTFOUND when no feed can be located.
func (p *FeedProber) LatestPost(ctx context.Context, blogURL string) (time.Time, error) {
	for _, candidate := range feedCandidates(blogURL) {
		doc, err := p.fetchXML(ctx, candidate)
		if err != nil {
			continue
		}
		if latest, ok := latestEntry(doc); ok {
			return latest, nil
		}
	}
	return time.Time{}, blogscout.Errorf(blogscout.ENOTFOUND, "no feed found for %s", blogURL)
}

// feedCandidates lists feed URLs to probe for a blog, most likely first.
// Naver blogs publish their feed on a dedicated host keyed by blog ID.
func feedCandidates(blogURL string) []string {
	u, err := url.Parse(blogURL)
	if err != nil || u.Host == "" {
		return nil
	}

	host := strings.ToLower(u.Hostname())
	if host == "blog.naver.com" || host == "m.blog.naver.com" {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) > 0 && parts[0] != "" {
			return []string{"https://rss.blog.naver.com/" + parts[0] + ".xml"}
		}
		return nil
	}

	root := u.Scheme + "://" + u.Host
	return []string{
		root + "/rss",
		root + "/feed",
		root + "/index.xml",
		root + "/atom.xml",
	}
}

// fetchXML retrieves and parses an XML document.
func (p *FeedProber) fetchXML(ctx context.Context, feedURL string) (*etree.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, blogscout.Errorf(blogscout.ENOTFOUND, "feed returned HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, err
	}
	return doc, nil
}

// latestEntry scans RSS items or Atom entries and returns the newest
// parseable timestamp.
func latestEntry(doc *etree.Document) (time.Time, bool) {
	var latest time.Time
	found := false

	consider := func(text string) {
		t, ok := parseFeedTime(strings.TrimSpace(text))
		if ok && t.After(latest) {
			latest = t
			found = true
		}
	}

	for _, item := range doc.FindElements("//channel/item") {
		if el := item.SelectElement("pubDate"); el != nil {
			consider(el.Text())
		}
	}
	for _, entry := range doc.FindElements("//entry") {
		for _, tag := range []string{"published", "updated"} {
			if el := entry.SelectElement(tag); el != nil {
				consider(el.Text())
			}
		}
	}

	return latest, found
}

// feedTimeFormats are the timestamp layouts seen in the wild across RSS
// and Atom feeds.
var feedTimeFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseFeedTime(s string) (time.Time, bool) {
	for _, layout := range feedTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
