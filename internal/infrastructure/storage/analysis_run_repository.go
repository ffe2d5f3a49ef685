package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/internal/infrastructure/storage/models"
	pkgmodels "github.com/agoraforge/agora/pkg/models"
)

var _ repository.AnalysisRunRepository = (*AnalysisRunRepository)(nil)

// AnalysisRunRepository implements repository.AnalysisRunRepository using Bun.
type AnalysisRunRepository struct {
	db bun.IDB
}

func NewAnalysisRunRepository(db bun.IDB) *AnalysisRunRepository {
	return &AnalysisRunRepository{db: db}
}

func (r *AnalysisRunRepository) Create(ctx context.Context, run *pkgmodels.AnalysisRun) error {
	now := time.Now()
	run.CreatedAt = now
	run.UpdatedAt = now

	row := models.FromAnalysisRunDomain(run)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	_, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "idx_agora_analysis_runs_nonterminal") {
			return pkgmodels.ErrAnalysisRunConflict
		}
		return fmt.Errorf("create analysis run: %w", err)
	}
	*run = *models.ToAnalysisRunDomain(row)
	return nil
}

func (r *AnalysisRunRepository) GetByID(ctx context.Context, id string) (*pkgmodels.AnalysisRun, error) {
	row := &models.AnalysisRunModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrAnalysisRunNotFound
		}
		return nil, fmt.Errorf("get analysis run by id: %w", err)
	}
	return models.ToAnalysisRunDomain(row), nil
}

func (r *AnalysisRunRepository) GetNonTerminal(ctx context.Context, sourceType pkgmodels.AnalysisSourceType, sourceID, contentHash string) (*pkgmodels.AnalysisRun, error) {
	row := &models.AnalysisRunModel{}
	err := r.db.NewSelect().
		Model(row).
		Where("source_type = ?", string(sourceType)).
		Where("source_id = ?", sourceID).
		Where("content_hash = ?", contentHash).
		Where("status IN (?)", bun.In([]string{"pending", "processing"})).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get non-terminal analysis run: %w", err)
	}
	return models.ToAnalysisRunDomain(row), nil
}

func (r *AnalysisRunRepository) UpdateStatus(ctx context.Context, id string, status pkgmodels.AnalysisRunStatus, errMsg *string) error {
	res, err := r.db.NewUpdate().
		Model((*models.AnalysisRunModel)(nil)).
		Set("status = ?", string(status)).
		Set("error_message = ?", errMsg).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update analysis run status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrAnalysisRunNotFound
	}
	return nil
}

func (r *AnalysisRunRepository) ListBySource(ctx context.Context, sourceType pkgmodels.AnalysisSourceType, sourceID string) ([]*pkgmodels.AnalysisRun, error) {
	var rows []*models.AnalysisRunModel
	err := r.db.NewSelect().
		Model(&rows).
		Where("source_type = ?", string(sourceType)).
		Where("source_id = ?", sourceID).
		OrderExpr("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list analysis runs by source: %w", err)
	}
	out := make([]*pkgmodels.AnalysisRun, len(rows))
	for i, row := range rows {
		out[i] = models.ToAnalysisRunDomain(row)
	}
	return out, nil
}

func (r *AnalysisRunRepository) ListStaleProcessing(ctx context.Context, olderThan time.Time) ([]*pkgmodels.AnalysisRun, error) {
	var rows []*models.AnalysisRunModel
	err := r.db.NewSelect().
		Model(&rows).
		Where("status = ?", string(pkgmodels.AnalysisStatusProcessing)).
		Where("updated_at < ?", olderThan).
		OrderExpr("updated_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list stale processing analysis runs: %w", err)
	}
	out := make([]*pkgmodels.AnalysisRun, len(rows))
	for i, row := range rows {
		out[i] = models.ToAnalysisRunDomain(row)
	}
	return out, nil
}
