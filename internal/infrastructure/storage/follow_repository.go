package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/internal/infrastructure/storage/models"
	pkgmodels "github.com/agoraforge/agora/pkg/models"
)

var _ repository.FollowRepository = (*FollowRepository)(nil)

// FollowRepository implements repository.FollowRepository using Bun. Follower/following
// counts are maintained by the agora_apply_follow_count trigger.
type FollowRepository struct {
	db bun.IDB
}

func NewFollowRepository(db bun.IDB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Create(ctx context.Context, follow *pkgmodels.Follow) error {
	follow.CreatedAt = time.Now()
	row := models.FromFollowDomain(follow)

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (follower_id, following_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) error {
	res, err := r.db.NewDelete().
		Model((*models.FollowModel)(nil)).
		Where("follower_id = ?", followerID).
		Where("following_id = ?", followingID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrFollowNotFound
	}
	return nil
}

func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*models.FollowModel)(nil)).
		Where("follower_id = ?", followerID).
		Where("following_id = ?", followingID).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("check follow existence: %w", err)
	}
	return exists, nil
}

func (r *FollowRepository) ListFollowing(ctx context.Context, followerID string, limit int, cursor string) ([]*pkgmodels.Follow, string, bool, error) {
	q := r.db.NewSelect().
		Model((*models.FollowModel)(nil)).
		Where("follower_id = ?", followerID).
		OrderExpr("created_at DESC")
	if cursor != "" {
		since, err := time.Parse(time.RFC3339, cursor)
		if err != nil {
			return nil, "", false, pkgmodels.ErrValidationFailed
		}
		q = q.Where("created_at < ?", since)
	}

	var rows []*models.FollowModel
	if err := q.Limit(limit + 1).Scan(ctx, &rows); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("list following: %w", err)
	}
	return followPage(rows, limit)
}

func (r *FollowRepository) ListFollowers(ctx context.Context, followingID string, limit int, cursor string) ([]*pkgmodels.Follow, string, bool, error) {
	q := r.db.NewSelect().
		Model((*models.FollowModel)(nil)).
		Where("following_id = ?", followingID).
		OrderExpr("created_at DESC")
	if cursor != "" {
		since, err := time.Parse(time.RFC3339, cursor)
		if err != nil {
			return nil, "", false, pkgmodels.ErrValidationFailed
		}
		q = q.Where("created_at < ?", since)
	}

	var rows []*models.FollowModel
	if err := q.Limit(limit + 1).Scan(ctx, &rows); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", false, nil
		}
		return nil, "", false, fmt.Errorf("list followers: %w", err)
	}
	return followPage(rows, limit)
}

func followPage(rows []*models.FollowModel, limit int) ([]*pkgmodels.Follow, string, bool, error) {
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	out := make([]*pkgmodels.Follow, len(rows))
	for i, row := range rows {
		out[i] = models.ToFollowDomain(row)
	}
	var next string
	if hasMore && len(rows) > 0 {
		next = rows[len(rows)-1].CreatedAt.Format(time.RFC3339Nano)
	}
	return out, next, hasMore, nil
}
