package blogscout

import (
	"context"
	"time"
)

// FeedProber discovers a blog's syndication feed and reports the date of
// its newest entry. It backs the recent_post_date field when the model
// could not derive one from the page text.
type FeedProber interface {
	// LatestPost returns the publication time of the newest feed entry.
	// Returns ENOTFOUND when the blog exposes no parseable feed.
	LatestPost(ctx context.Context, blogURL string) (time.Time, error)
}
