// Package repository stores the history of report runs.
package repository

import (
	"context"

	"github.com/opt-report/pkg/model"
)

// RunRepository defines the interface for report run history.
type RunRepository interface {
	// SaveRun stores a run and its per-pass counts.
	SaveRun(ctx context.Context, run *model.ReportRun) error

	// GetRun retrieves a run by its id.
	GetRun(ctx context.Context, runID string) (*model.ReportRun, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*model.ReportRun, error)
}
