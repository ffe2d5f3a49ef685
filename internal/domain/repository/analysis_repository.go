package repository

import (
	"context"
	"time"

	"github.com/agoraforge/agora/pkg/models"
)

// AnalysisRunRepository defines persistence operations for content-addressed analysis runs.
type AnalysisRunRepository interface {
	// Create inserts a new run, returning ErrAnalysisRunConflict if a non-terminal run
	// already exists for the same (source_type, source_id, content_hash).
	Create(ctx context.Context, run *models.AnalysisRun) error
	GetByID(ctx context.Context, id string) (*models.AnalysisRun, error)
	GetNonTerminal(ctx context.Context, sourceType models.AnalysisSourceType, sourceID, contentHash string) (*models.AnalysisRun, error)
	UpdateStatus(ctx context.Context, id string, status models.AnalysisRunStatus, errMsg *string) error
	ListBySource(ctx context.Context, sourceType models.AnalysisSourceType, sourceID string) ([]*models.AnalysisRun, error)
	// ListStaleProcessing returns every run still in "processing" whose updated_at is
	// older than the given instant, for the staleness sweep.
	ListStaleProcessing(ctx context.Context, olderThan time.Time) ([]*models.AnalysisRun, error)
}
