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

var _ repository.VoteRepository = (*VoteRepository)(nil)

// VoteRepository implements repository.VoteRepository using Bun. Score and vote_count
// effects are applied by the agora_apply_vote_effect trigger, never by application code.
type VoteRepository struct {
	db bun.IDB
}

func NewVoteRepository(db bun.IDB) *VoteRepository {
	return &VoteRepository{db: db}
}

func (r *VoteRepository) Upsert(ctx context.Context, vote *pkgmodels.Vote) error {
	now := time.Now()
	vote.UpdatedAt = now
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = now
	}

	row := models.FromVoteDomain(vote)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, target_type, target_id) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert vote: %w", err)
	}
	*vote = *models.ToVoteDomain(row)
	return nil
}

func (r *VoteRepository) Delete(ctx context.Context, userID string, targetType pkgmodels.VoteTargetType, targetID string) error {
	res, err := r.db.NewDelete().
		Model((*models.VoteModel)(nil)).
		Where("user_id = ?", userID).
		Where("target_type = ?", string(targetType)).
		Where("target_id = ?", targetID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrVoteNotFound
	}
	return nil
}

func (r *VoteRepository) Get(ctx context.Context, userID string, targetType pkgmodels.VoteTargetType, targetID string) (*pkgmodels.Vote, error) {
	row := &models.VoteModel{}
	err := r.db.NewSelect().
		Model(row).
		Where("user_id = ?", userID).
		Where("target_type = ?", string(targetType)).
		Where("target_id = ?", targetID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrVoteNotFound
		}
		return nil, fmt.Errorf("get vote: %w", err)
	}
	return models.ToVoteDomain(row), nil
}
