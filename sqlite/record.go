package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeongsoo1975/blogscout"
)

// Compile-time interface verification.
var _ blogscout.RecordService = (*RecordService)(nil)

// RecordService implements blogscout.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// CreateRecord stores a new record. Repeated collections of the same
// blog produce separate rows; FindRecordByBlogID returns the newest.
func (s *RecordService) CreateRecord(ctx context.Context, rec *blogscout.BlogRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	if rec.CollectedAt.IsZero() {
		rec.CollectedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO records (id, blog_id, blog_name, blog_url, recent_post_date, first_post_date,
			total_posts, blog_creation_date, average_visitors, llm_summary, source_keyword,
			content_hash, collected_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), rec.BlogID, rec.BlogName, rec.BlogURL, rec.RecentPostDate,
		rec.FirstPostDate, rec.TotalPosts, rec.BlogCreationDate, rec.AverageVisitors,
		rec.Summary, rec.SourceKeyword, rec.ContentHash, rec.CollectedAt.Format(time.RFC3339))

	return err
}

const recordColumns = `blog_id, blog_name, blog_url, recent_post_date, first_post_date,
	total_posts, blog_creation_date, average_visitors, llm_summary, source_keyword,
	content_hash, collected_at`

// FindRecordByBlogID retrieves the most recent record for a blog.
func (s *RecordService) FindRecordByBlogID(ctx context.Context, blogID string) (*blogscout.BlogRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+recordColumns+`
		FROM records
		WHERE blog_id = ?
		ORDER BY collected_at DESC
		LIMIT 1
	`, blogID)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, blogscout.Errorf(blogscout.ENOTFOUND, "record not found")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindRecords retrieves records matching the filter, most recent first.
func (s *RecordService) FindRecords(ctx context.Context, filter blogscout.RecordFilter) ([]*blogscout.BlogRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + recordColumns + " FROM records WHERE 1=1")

	if filter.BlogID != nil {
		query.WriteString(" AND blog_id = ?")
		args = append(args, *filter.BlogID)
	}
	if filter.Keyword != nil {
		query.WriteString(" AND source_keyword = ?")
		args = append(args, *filter.Keyword)
	}

	query.WriteString(" ORDER BY collected_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []*blogscout.BlogRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// CreateBatch stores a batch summary.
func (s *RecordService) CreateBatch(ctx context.Context, batch *blogscout.BatchResult) error {
	if batch.ID == "" {
		return blogscout.Errorf(blogscout.EINVALID, "batch ID required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO batches (id, keyword, succeeded, failed, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, batch.ID, batch.Keyword, batch.Succeeded, batch.Failed,
		batch.StartedAt.Format(time.RFC3339), batch.FinishedAt.Format(time.RFC3339))

	return err
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads one record row.
func scanRecord(s scanner) (*blogscout.BlogRecord, error) {
	var rec blogscout.BlogRecord
	var collectedAt string

	err := s.Scan(&rec.BlogID, &rec.BlogName, &rec.BlogURL, &rec.RecentPostDate,
		&rec.FirstPostDate, &rec.TotalPosts, &rec.BlogCreationDate, &rec.AverageVisitors,
		&rec.Summary, &rec.SourceKeyword, &rec.ContentHash, &collectedAt)
	if err != nil {
		return nil, err
	}

	rec.CollectedAt, err = parseRFC3339(collectedAt, "collected_at")
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// parseRFC3339 parses an RFC3339 formatted timestamp string.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses if values are > 0.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	if limit > 0 {
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
