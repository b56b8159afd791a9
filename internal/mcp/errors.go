package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/auditsynth/internal/domain/dataset"
	"github.com/rpggio/auditsynth/internal/domain/run"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, run.ErrRunNotFound):
		return &APIError{Code: "RUN_NOT_FOUND", Message: "run not found", RecoveryHint: "Call list_runs for valid IDs"}
	case errors.Is(err, dataset.ErrUnknownGenerator):
		return &APIError{Code: "UNKNOWN_GENERATOR", Message: err.Error(), RecoveryHint: "Call list_activity_kinds for generator names"}
	case errors.Is(err, run.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check parameter ranges"}
	case errors.Is(err, run.ErrStorageDisabled):
		return &APIError{Code: "STORAGE_DISABLED", Message: "run storage is not configured", RecoveryHint: "Set AUDITSYNTH_DB_PATH"}
	default:
		return nil
	}
}
