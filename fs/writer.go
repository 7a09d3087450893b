// Package fs provides file-based output for finalized batches: a CSV of
// collected records plus a JSON report of per-URL failures.
package fs

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeongsoo1975/blogscout"
)

// timestampLayout names output files by batch finish time.
const timestampLayout = "20060102_150405"

// csvHeader is the column order of the records CSV.
var csvHeader = []string{
	"blog_id",
	"blog_name",
	"blog_url",
	"recent_post_date",
	"first_post_date",
	"total_posts",
	"blog_creation_date",
	"average_visitors",
	"llm_summary",
	"source_keyword",
	"content_hash",
	"collected_at",
}

// Ensure Writer implements blogscout.BatchWriter at compile time.
var _ blogscout.BatchWriter = (*Writer)(nil)

// Writer writes finalized batches to a directory.
type Writer struct {
	baseDir string
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// WriteBatch writes the batch's records as CSV and, when any URL failed,
// a companion JSON failure report. Returns the CSV path.
func (w *Writer) WriteBatch(ctx context.Context, batch *blogscout.BatchResult) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if batch == nil || batch.ID == "" {
		return "", blogscout.Errorf(blogscout.EINVALID, "batch required")
	}

	if err := os.MkdirAll(w.baseDir, 0755); err != nil {
		return "", err
	}

	stamp := batch.FinishedAt.Format(timestampLayout)
	csvPath := filepath.Join(w.baseDir, fmt.Sprintf("blog_data_%s.csv", stamp))

	if err := w.writeCSV(csvPath, batch); err != nil {
		return "", err
	}

	if batch.Failed > 0 {
		failPath := filepath.Join(w.baseDir, fmt.Sprintf("failures_%s.json", stamp))
		if err := w.writeFailures(failPath, batch); err != nil {
			return "", err
		}
	}

	return csvPath, nil
}

func (w *Writer) writeCSV(path string, batch *blogscout.BatchResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, rec := range batch.Records() {
		row := []string{
			rec.BlogID,
			rec.BlogName,
			rec.BlogURL,
			rec.RecentPostDate,
			rec.FirstPostDate,
			rec.TotalPosts,
			rec.BlogCreationDate,
			rec.AverageVisitors,
			rec.Summary,
			rec.SourceKeyword,
			rec.ContentHash,
			rec.CollectedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// failureReport is the JSON shape of the companion failure file.
type failureReport struct {
	BatchID  string                 `json:"batchId"`
	Keyword  string                 `json:"keyword"`
	Failures []blogscout.URLOutcome `json:"failures"`
}

func (w *Writer) writeFailures(path string, batch *blogscout.BatchResult) error {
	report := failureReport{
		BatchID: batch.ID,
		Keyword: batch.Keyword,
	}
	for _, o := range batch.Outcomes {
		if o.Failed() {
			report.Failures = append(report.Failures, o)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
