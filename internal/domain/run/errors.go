package run

import (
	"errors"

	"github.com/rpggio/auditsynth/internal/domain/dataset"
)

var (
	// ErrRunNotFound indicates the run doesn't exist.
	ErrRunNotFound = errors.New("run not found")
	// ErrInvalidInput indicates invalid generation input.
	ErrInvalidInput = errors.New("invalid run input")
	// ErrUnknownGenerator indicates no generator has the requested name.
	ErrUnknownGenerator = dataset.ErrUnknownGenerator
	// ErrStorageDisabled indicates runs are not persisted.
	ErrStorageDisabled = errors.New("run storage is not configured")
)
