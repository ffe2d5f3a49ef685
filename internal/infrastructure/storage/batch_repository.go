package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/internal/infrastructure/storage/models"
	pkgmodels "github.com/agoraforge/agora/pkg/models"
)

var _ repository.BatchRepository = (*BatchRepository)(nil)

// BatchRepository implements repository.BatchRepository using Bun.
type BatchRepository struct {
	db bun.IDB
}

func NewBatchRepository(db bun.IDB) *BatchRepository {
	return &BatchRepository{db: db}
}

func (r *BatchRepository) CreateRun(ctx context.Context, run *pkgmodels.BatchPipelineRun) error {
	now := time.Now()
	run.CreatedAt = now
	run.UpdatedAt = now

	row := models.FromBatchPipelineRunDomain(run)
	_, err := r.db.NewInsert().Model(row).Exec(ctx)
	if err != nil {
		return fmt.Errorf("create batch run: %w", err)
	}
	return nil
}

func (r *BatchRepository) GetRun(ctx context.Context, id string) (*pkgmodels.BatchPipelineRun, error) {
	row := &models.BatchPipelineRunModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrBatchRunNotFound
		}
		return nil, fmt.Errorf("get batch run: %w", err)
	}
	return models.ToBatchPipelineRunDomain(row), nil
}

func (r *BatchRepository) UpdateRunStatus(ctx context.Context, id string, status pkgmodels.BatchRunStatus, errMsg *string) error {
	res, err := r.db.NewUpdate().
		Model((*models.BatchPipelineRunModel)(nil)).
		Set("status = ?", string(status)).
		Set("error_message = ?", errMsg).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update batch run status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrBatchRunNotFound
	}
	return nil
}

func (r *BatchRepository) ListIncompleteRuns(ctx context.Context) ([]*pkgmodels.BatchPipelineRun, error) {
	var rows []*models.BatchPipelineRunModel
	err := r.db.NewSelect().
		Model(&rows).
		Where("status = ?", string(pkgmodels.BatchRunStatusRunning)).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list incomplete batch runs: %w", err)
	}
	out := make([]*pkgmodels.BatchPipelineRun, len(rows))
	for i, row := range rows {
		out[i] = models.ToBatchPipelineRunDomain(row)
	}
	return out, nil
}

func (r *BatchRepository) UpsertCheckpoint(ctx context.Context, cp *pkgmodels.BatchCheckpoint) error {
	now := time.Now()
	cp.UpdatedAt = now
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = now
	}

	row := models.FromBatchCheckpointDomain(cp)
	if row.ID == "" {
		row.ID = uuid.New().String()
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (run_id, stage) DO UPDATE").
		Set("gemini_job_name = EXCLUDED.gemini_job_name").
		Set("request_count = EXCLUDED.request_count").
		Set("gcs_path = EXCLUDED.gcs_path").
		Set("completed = EXCLUDED.completed").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert batch checkpoint: %w", err)
	}
	*cp = *models.ToBatchCheckpointDomain(row)
	return nil
}

func (r *BatchRepository) GetCheckpoint(ctx context.Context, runID string, stage pkgmodels.BatchStage) (*pkgmodels.BatchCheckpoint, error) {
	row := &models.BatchCheckpointModel{}
	err := r.db.NewSelect().
		Model(row).
		Where("run_id = ?", runID).
		Where("stage = ?", string(stage)).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrCheckpointNotFound
		}
		return nil, fmt.Errorf("get batch checkpoint: %w", err)
	}
	return models.ToBatchCheckpointDomain(row), nil
}

func (r *BatchRepository) ListCheckpoints(ctx context.Context, runID string) ([]*pkgmodels.BatchCheckpoint, error) {
	var rows []*models.BatchCheckpointModel
	err := r.db.NewSelect().
		Model(&rows).
		Where("run_id = ?", runID).
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list batch checkpoints: %w", err)
	}
	out := make([]*pkgmodels.BatchCheckpoint, len(rows))
	for i, row := range rows {
		out[i] = models.ToBatchCheckpointDomain(row)
	}
	return out, nil
}
