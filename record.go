package blogscout

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"
)

// Unknown is the sentinel stored in a required record field whose true
// value could not be determined. It is distinct from omission: a record
// never ships with an empty required field, and values are never guessed.
const Unknown = "Not Found"

// BlogRecord is one finalized metadata record for a blog.
type BlogRecord struct {
	BlogID           string    `json:"blogId"`
	BlogName         string    `json:"blogName"`
	BlogURL          string    `json:"blogUrl"`
	RecentPostDate   string    `json:"recentPostDate"`
	FirstPostDate    string    `json:"firstPostDate"`
	TotalPosts       string    `json:"totalPosts"`
	BlogCreationDate string    `json:"blogCreationDate"`
	AverageVisitors  string    `json:"averageVisitors"`
	Summary          string    `json:"llmSummary"`
	SourceKeyword    string    `json:"sourceKeyword"`
	ContentHash      string    `json:"contentHash"`
	CollectedAt      time.Time `json:"collectedAt"`
}

// Validate returns an error if the record is missing identity fields.
func (r *BlogRecord) Validate() error {
	if r.BlogID == "" {
		return Errorf(EINVALID, "record blog ID required")
	}
	if r.BlogURL == "" {
		return Errorf(EINVALID, "record blog URL required")
	}
	return nil
}

// fieldAliases maps each canonical record field to the key names a model
// has been observed to use for it, in preference order.
var fieldAliases = map[string][]string{
	"blog_name":          {"blog_name", "title", "site_title", "website_name", "name", "blog_title"},
	"blog_url":           {"blog_url", "url", "website_url", "site_url", "link"},
	"recent_post_date":   {"recent_post_date", "latest_post_date", "last_post_date", "newest_post_date", "latest_post"},
	"first_post_date":    {"first_post_date", "earliest_post_date", "start_date", "first_post"},
	"total_posts":        {"total_posts", "post_count", "article_count", "number_of_posts", "posts_count"},
	"blog_creation_date": {"blog_creation_date", "created_date", "founding_date", "launch_date"},
	"average_visitors":   {"average_visitors", "average_visitors_hint", "monthly_visitors", "visitor_count", "traffic", "page_views"},
	"llm_summary":        {"llm_summary", "main_content_summary", "summary", "description", "about", "content_summary"},
}

// RecordFromFields builds a BlogRecord from a loosely shaped field map
// produced by the model, resolving aliased key names and filling every
// missing required field with the Unknown sentinel. blogURL always wins
// over any URL the model reports, since the model may hallucinate it.
func RecordFromFields(fields map[string]any, blogURL string) *BlogRecord {
	lookup := func(canonical string) string {
		for _, alias := range fieldAliases[canonical] {
			v, ok := fields[alias]
			if !ok || v == nil {
				continue
			}
			s := strings.TrimSpace(fmt.Sprintf("%v", v))
			if s != "" {
				return s
			}
		}
		return Unknown
	}

	rec := &BlogRecord{
		BlogName:         lookup("blog_name"),
		BlogURL:          blogURL,
		RecentPostDate:   lookup("recent_post_date"),
		FirstPostDate:    lookup("first_post_date"),
		TotalPosts:       lookup("total_posts"),
		BlogCreationDate: lookup("blog_creation_date"),
		AverageVisitors:  lookup("average_visitors"),
		Summary:          lookup("llm_summary"),
		CollectedAt:      time.Now().UTC(),
	}
	rec.BlogID = DeriveBlogID(blogURL, rec.BlogName)
	return rec
}

// DeriveBlogID derives a stable identifier from a blog's URL and name.
// The same inputs always produce the same identifier: the host with the
// leading "www." dropped and dots and dashes flattened to underscores,
// followed by the lowercased alphanumeric part of the name capped at 20
// characters.
func DeriveBlogID(rawURL, name string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		// Tolerate scheme-less input.
		u, err = url.Parse("https://" + rawURL)
		if err != nil || u.Host == "" {
			return "unknown_blog_id"
		}
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	id := strings.NewReplacer(".", "_", "-", "_").Replace(host)

	namePart := sanitizeName(name)
	if namePart != "" {
		return id + "_" + namePart
	}
	return id
}

// sanitizeName lowercases the name, turns spaces into underscores, strips
// everything that is not a letter, digit or underscore, and caps the
// result at 20 runes.
func sanitizeName(name string) string {
	var b strings.Builder
	count := 0
	for _, r := range strings.ToLower(name) {
		if count >= 20 {
			break
		}
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			count++
		case r == ' ' || r == '_':
			b.WriteRune('_')
			count++
		}
	}
	return b.String()
}

// RecordService persists finalized records and batch summaries.
type RecordService interface {
	// CreateRecord stores a new record.
	CreateRecord(ctx context.Context, rec *BlogRecord) error

	// FindRecordByBlogID retrieves the most recent record for a blog.
	// Returns ENOTFOUND if no record exists.
	FindRecordByBlogID(ctx context.Context, blogID string) (*BlogRecord, error)

	// FindRecords retrieves records matching the filter, most recent
	// first.
	FindRecords(ctx context.Context, filter RecordFilter) ([]*BlogRecord, error)

	// CreateBatch stores a batch summary.
	CreateBatch(ctx context.Context, batch *BatchResult) error
}

// RecordFilter represents a filter for FindRecords.
type RecordFilter struct {
	BlogID  *string
	Keyword *string

	Offset int
	Limit  int
}
