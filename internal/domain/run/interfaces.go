package run

import (
	"context"

	"github.com/rpggio/auditsynth/internal/domain/dataset"
	"github.com/rpggio/auditsynth/internal/domain/record"
)

// Repository provides persistence for runs.
type Repository interface {
	Create(ctx context.Context, r *Run) error
	Get(ctx context.Context, id string) (*Run, error)
	List(ctx context.Context, opts ListOptions) ([]Run, error)
	SaveRecords(ctx context.Context, runID, output string, records []record.LogRecord) error
	ListRecords(ctx context.Context, runID string, opts ListRecordsOptions) ([]RecordRow, error)
}

// Sink writes a run's named dataset and returns where it went. Outputs of
// different runs never share a destination.
type Sink interface {
	Save(runID, name string, ds dataset.Dataset) (string, error)
}
