package blogscout

import (
	"context"
	"time"
)

// Stage identifies where in the per-URL pipeline an outcome was decided.
type Stage string

// Pipeline stages, in processing order.
const (
	StagePending       Stage = "pending"
	StageNavigating    Stage = "navigating"
	StageExtracting    Stage = "extracting"
	StageNormalizing   Stage = "normalizing"
	StageAwaitingModel Stage = "awaiting_model"
	StageInterpreting  Stage = "interpreting"
	StageRecorded      Stage = "recorded"
	StageFailed        Stage = "failed"
)

// URLOutcome is the single recorded result for one submitted URL.
// Exactly one of Record or Reason is meaningful: a recorded URL carries
// its record, a failed URL carries the failing stage and reason.
type URLOutcome struct {
	URL    string      `json:"url"`
	Stage  Stage       `json:"stage"`
	Record *BlogRecord `json:"record,omitempty"`

	// Reason explains a failure in human-readable terms.
	Reason string `json:"reason,omitempty"`

	// Raw retains the unmodified model reply when interpretation
	// failed, for later diagnosis.
	Raw string `json:"raw,omitempty"`
}

// Failed reports whether the outcome is a failure entry.
func (o *URLOutcome) Failed() bool {
	return o.Record == nil
}

// BatchResult aggregates per-URL outcomes for one run. Outcomes appear
// in the same order the URLs were submitted and the result is finalized
// once, at batch end.
type BatchResult struct {
	ID         string       `json:"id"`
	Keyword    string       `json:"keyword"`
	Outcomes   []URLOutcome `json:"outcomes"`
	Succeeded  int          `json:"succeeded"`
	Failed     int          `json:"failed"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}

// Records returns the successful records in submission order.
func (b *BatchResult) Records() []*BlogRecord {
	var recs []*BlogRecord
	for i := range b.Outcomes {
		if r := b.Outcomes[i].Record; r != nil {
			recs = append(recs, r)
		}
	}
	return recs
}

// BatchWriter emits a finalized batch to an external sink. The writer is
// responsible for file naming, timestamping and format.
type BatchWriter interface {
	WriteBatch(ctx context.Context, batch *BatchResult) (path string, err error)
}
