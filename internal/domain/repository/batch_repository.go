package repository

import (
	"context"

	"github.com/agoraforge/agora/pkg/models"
)

// BatchRepository defines persistence operations for the resumable batch pipeline.
type BatchRepository interface {
	CreateRun(ctx context.Context, run *models.BatchPipelineRun) error
	GetRun(ctx context.Context, id string) (*models.BatchPipelineRun, error)
	UpdateRunStatus(ctx context.Context, id string, status models.BatchRunStatus, errMsg *string) error
	ListIncompleteRuns(ctx context.Context) ([]*models.BatchPipelineRun, error)

	UpsertCheckpoint(ctx context.Context, cp *models.BatchCheckpoint) error
	GetCheckpoint(ctx context.Context, runID string, stage models.BatchStage) (*models.BatchCheckpoint, error)
	ListCheckpoints(ctx context.Context, runID string) ([]*models.BatchCheckpoint, error)
}
