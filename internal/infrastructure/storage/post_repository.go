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

var _ repository.PostRepository = (*PostRepository)(nil)

const risingWindowHours = 24

// PostRepository implements repository.PostRepository using Bun.
type PostRepository struct {
	db bun.IDB
}

func NewPostRepository(db bun.IDB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post *pkgmodels.Post) error {
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	row := models.FromPostDomain(post)
	_, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	*post = *models.ToPostDomain(row)
	return nil
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*pkgmodels.Post, error) {
	row := &models.PostModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Where("deleted_at IS NULL").Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrPostNotFound
		}
		return nil, fmt.Errorf("get post by id: %w", err)
	}
	return models.ToPostDomain(row), nil
}

func (r *PostRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.NewUpdate().
		Model((*models.PostModel)(nil)).
		Set("deleted_at = ?", time.Now()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("soft-delete post: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrPostNotFound
	}
	return nil
}

func (r *PostRepository) ListFeed(ctx context.Context, sort pkgmodels.FeedSort, limit int, cursor string) ([]*pkgmodels.Post, string, bool, error) {
	c, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", false, pkgmodels.ErrValidationFailed
	}

	q := r.db.NewSelect().Model((*models.PostModel)(nil)).Where("deleted_at IS NULL")

	switch sort {
	case pkgmodels.FeedSortNew:
		q = q.OrderExpr("created_at DESC, id DESC")
	case pkgmodels.FeedSortTop:
		q = q.OrderExpr("score DESC, created_at DESC, id DESC")
	case pkgmodels.FeedSortHot:
		q = q.OrderExpr("score DESC, created_at DESC, id DESC")
	case pkgmodels.FeedSortRising:
		q = q.Where("created_at >= ?", time.Now().Add(-risingWindowHours*time.Hour)).
			OrderExpr("vote_count DESC, created_at DESC, id DESC")
	case pkgmodels.FeedSortControversial:
		q = q.Where("vote_count > 0").
			Where("ABS(score)::float / vote_count <= 0.2").
			OrderExpr("vote_count DESC, created_at DESC, id DESC")
	default:
		return nil, "", false, pkgmodels.ErrValidationFailed
	}

	if c != nil {
		q = q.Where("(created_at, id) < (?, ?)", c.CreatedAt, c.ID)
	}

	var rows []*models.PostModel
	if err := q.Limit(limit + 1).Scan(ctx, &rows); err != nil {
		return nil, "", false, fmt.Errorf("list feed: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	out := make([]*pkgmodels.Post, len(rows))
	for i, row := range rows {
		out[i] = models.ToPostDomain(row)
	}

	var next string
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next = encodeCursor(last.CreatedAt, last.ID.String())
	}
	return out, next, hasMore, nil
}

func (r *PostRepository) ListByAuthor(ctx context.Context, authorID string, limit int, cursor string) ([]*pkgmodels.Post, string, bool, error) {
	c, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", false, pkgmodels.ErrValidationFailed
	}

	q := r.db.NewSelect().
		Model((*models.PostModel)(nil)).
		Where("author_id = ?", authorID).
		Where("deleted_at IS NULL").
		OrderExpr("created_at DESC, id DESC")
	if c != nil {
		q = q.Where("(created_at, id) < (?, ?)", c.CreatedAt, c.ID)
	}

	var rows []*models.PostModel
	if err := q.Limit(limit + 1).Scan(ctx, &rows); err != nil {
		return nil, "", false, fmt.Errorf("list posts by author: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	out := make([]*pkgmodels.Post, len(rows))
	for i, row := range rows {
		out[i] = models.ToPostDomain(row)
	}
	var next string
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next = encodeCursor(last.CreatedAt, last.ID.String())
	}
	return out, next, hasMore, nil
}

func (r *PostRepository) ListByFollowedAuthors(ctx context.Context, followerID string, limit int, cursor string) ([]*pkgmodels.Post, string, bool, error) {
	c, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", false, pkgmodels.ErrValidationFailed
	}

	q := r.db.NewSelect().
		Model((*models.PostModel)(nil)).
		Where("deleted_at IS NULL").
		Where("author_id IN (SELECT following_id FROM agora_follows WHERE follower_id = ?)", followerID).
		OrderExpr("created_at DESC, id DESC")
	if c != nil {
		q = q.Where("(created_at, id) < (?, ?)", c.CreatedAt, c.ID)
	}

	var rows []*models.PostModel
	if err := q.Limit(limit + 1).Scan(ctx, &rows); err != nil {
		return nil, "", false, fmt.Errorf("list posts by followed authors: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	out := make([]*pkgmodels.Post, len(rows))
	for i, row := range rows {
		out[i] = models.ToPostDomain(row)
	}
	var next string
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next = encodeCursor(last.CreatedAt, last.ID.String())
	}
	return out, next, hasMore, nil
}
