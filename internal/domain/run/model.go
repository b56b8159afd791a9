package run

import (
	"time"

	"github.com/rpggio/auditsynth/internal/domain/dataset"
	"github.com/rpggio/auditsynth/internal/domain/record"
)

// Status summarizes how many outputs of a run were written.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusPartial   Status = "partial"
	StatusFailed    Status = "failed"
	// StatusGenerated means no sink was configured; rows exist only in storage.
	StatusGenerated Status = "generated"
)

// Run is one generation call and the outputs it produced.
type Run struct {
	ID        string          `json:"id"`
	Generator string          `json:"generator"`
	Seed      uint64          `json:"seed"`
	Options   dataset.Options `json:"options"`
	Status    Status          `json:"status"`
	Outputs   []Output        `json:"outputs"`
	CreatedAt time.Time       `json:"created_at"`
}

// Output describes one generated file.
type Output struct {
	Name      string `json:"name"`
	Path      string `json:"path,omitempty"`
	Rows      int    `json:"rows"`
	Anomalies int    `json:"anomalies"`
	Sequences int    `json:"sequences"`
	Written   bool   `json:"written"`
	Error     string `json:"error,omitempty"`
}

// Failed reports whether every attempted write failed.
func (r *Run) Failed() bool {
	return r.Status == StatusFailed
}

// RecordRow is a stored log record with its position in an output.
type RecordRow struct {
	Output string           `json:"output"`
	Row    int              `json:"row"`
	Record record.LogRecord `json:"record"`
}

// ListOptions filters runs.
type ListOptions struct {
	Generator string
	Limit     int
	Offset    int
}

// ListRecordsOptions filters stored rows of a run.
type ListRecordsOptions struct {
	Output        string
	AnomaliesOnly bool
	Limit         int
	Offset        int
}

func statusOf(outputs []Output, sinkConfigured bool) Status {
	if !sinkConfigured {
		return StatusGenerated
	}
	written := 0
	for _, out := range outputs {
		if out.Written {
			written++
		}
	}
	switch {
	case written == len(outputs):
		return StatusCompleted
	case written == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}
