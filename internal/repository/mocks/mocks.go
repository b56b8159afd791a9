package mocks

import (
	"context"

	"github.com/rpggio/auditsynth/internal/domain/dataset"
	"github.com/rpggio/auditsynth/internal/domain/record"
	"github.com/rpggio/auditsynth/internal/domain/run"
	"github.com/stretchr/testify/mock"
)

// RunRepository is a mock for run.Repository.
type RunRepository struct {
	mock.Mock
}

func (m *RunRepository) Create(ctx context.Context, r *run.Run) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RunRepository) Get(ctx context.Context, id string) (*run.Run, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*run.Run); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RunRepository) List(ctx context.Context, opts run.ListOptions) ([]run.Run, error) {
	args := m.Called(ctx, opts)
	if list, ok := args.Get(0).([]run.Run); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RunRepository) SaveRecords(ctx context.Context, runID, output string, records []record.LogRecord) error {
	args := m.Called(ctx, runID, output, records)
	return args.Error(0)
}

func (m *RunRepository) ListRecords(ctx context.Context, runID string, opts run.ListRecordsOptions) ([]run.RecordRow, error) {
	args := m.Called(ctx, runID, opts)
	if rows, ok := args.Get(0).([]run.RecordRow); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

// Sink is a mock for run.Sink.
type Sink struct {
	mock.Mock
}

func (m *Sink) Save(runID, name string, ds dataset.Dataset) (string, error) {
	args := m.Called(runID, name, ds)
	return args.String(0), args.Error(1)
}
