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

var _ repository.ReplyRepository = (*ReplyRepository)(nil)

// ReplyRepository implements repository.ReplyRepository using Bun, addressing threaded
// replies through the ltree materialized path column.
type ReplyRepository struct {
	db bun.IDB
}

func NewReplyRepository(db bun.IDB) *ReplyRepository {
	return &ReplyRepository{db: db}
}

// replyPathLabel renders a reply's id as an ltree label: ltree labels may only contain
// alphanumerics and underscores, so uuid hyphens are stripped.
func replyPathLabel(id string) string {
	return strings.ReplaceAll(id, "-", "_")
}

func (r *ReplyRepository) Create(ctx context.Context, reply *pkgmodels.Reply) error {
	now := time.Now()
	reply.CreatedAt = now
	reply.UpdatedAt = now

	row := models.FromReplyDomain(reply)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	if row.ParentReplyID == nil {
		row.Depth = 0
		row.Path = replyPathLabel(row.ID.String())
	} else {
		parent := &models.ReplyModel{}
		err := r.db.NewSelect().Model(parent).Where("id = ?", *row.ParentReplyID).Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return pkgmodels.ErrParentNotFound
			}
			return fmt.Errorf("load parent reply: %w", err)
		}
		row.Depth = parent.Depth + 1
		row.Path = parent.Path + "." + replyPathLabel(row.ID.String())
	}

	_, err := r.db.NewInsert().Model(row).Returning("*").Exec(ctx)
	if err != nil {
		return fmt.Errorf("create reply: %w", err)
	}
	*reply = *models.ToReplyDomain(row)
	return nil
}

func (r *ReplyRepository) GetByID(ctx context.Context, id string) (*pkgmodels.Reply, error) {
	row := &models.ReplyModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Where("deleted_at IS NULL").Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrReplyNotFound
		}
		return nil, fmt.Errorf("get reply by id: %w", err)
	}
	return models.ToReplyDomain(row), nil
}

func (r *ReplyRepository) SoftDelete(ctx context.Context, id string) error {
	res, err := r.db.NewUpdate().
		Model((*models.ReplyModel)(nil)).
		Set("deleted_at = ?", time.Now()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("soft-delete reply: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrReplyNotFound
	}
	return nil
}

// ListByPost pages a post's replies. Path ordering (the default, for thread view) keeps
// each subtree contiguous by sorting on the ltree path lexicographically; breadth ordering
// flattens the thread to arrival order instead. The two orderings paginate on different
// keys, so they use distinct cursor encodings.
func (r *ReplyRepository) ListByPost(ctx context.Context, postID string, ordering pkgmodels.ReplyOrdering, limit int, cursor string) ([]*pkgmodels.Reply, string, bool, error) {
	if ordering == pkgmodels.ReplyOrderingBreadth {
		return r.listByPostBreadth(ctx, postID, limit, cursor)
	}
	return r.listByPostPath(ctx, postID, limit, cursor)
}

func (r *ReplyRepository) listByPostPath(ctx context.Context, postID string, limit int, cursor string) ([]*pkgmodels.Reply, string, bool, error) {
	after, err := decodePathCursor(cursor)
	if err != nil {
		return nil, "", false, pkgmodels.ErrValidationFailed
	}

	q := r.db.NewSelect().
		Model((*models.ReplyModel)(nil)).
		Where("post_id = ?", postID).
		Where("deleted_at IS NULL").
		OrderExpr("path ASC")
	if after != "" {
		q = q.Where("path > ?::ltree", after)
	}

	var rows []*models.ReplyModel
	if err := q.Limit(limit + 1).Scan(ctx, &rows); err != nil {
		return nil, "", false, fmt.Errorf("list replies by post: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	out := make([]*pkgmodels.Reply, len(rows))
	for i, row := range rows {
		out[i] = models.ToReplyDomain(row)
	}
	var next string
	if hasMore && len(rows) > 0 {
		next = encodePathCursor(rows[len(rows)-1].Path)
	}
	return out, next, hasMore, nil
}

func (r *ReplyRepository) listByPostBreadth(ctx context.Context, postID string, limit int, cursor string) ([]*pkgmodels.Reply, string, bool, error) {
	c, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", false, pkgmodels.ErrValidationFailed
	}

	q := r.db.NewSelect().
		Model((*models.ReplyModel)(nil)).
		Where("post_id = ?", postID).
		Where("deleted_at IS NULL").
		OrderExpr("created_at ASC, id ASC")
	if c != nil {
		q = q.Where("(created_at, id) > (?, ?)", c.CreatedAt, c.ID)
	}

	var rows []*models.ReplyModel
	if err := q.Limit(limit + 1).Scan(ctx, &rows); err != nil {
		return nil, "", false, fmt.Errorf("list replies by post: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	out := make([]*pkgmodels.Reply, len(rows))
	for i, row := range rows {
		out[i] = models.ToReplyDomain(row)
	}
	var next string
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next = encodeCursor(last.CreatedAt, last.ID.String())
	}
	return out, next, hasMore, nil
}

func (r *ReplyRepository) ListChildren(ctx context.Context, parentReplyID string) ([]*pkgmodels.Reply, error) {
	var rows []*models.ReplyModel
	err := r.db.NewSelect().
		Model(&rows).
		Where("parent_reply_id = ?", parentReplyID).
		Where("deleted_at IS NULL").
		OrderExpr("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reply children: %w", err)
	}
	out := make([]*pkgmodels.Reply, len(rows))
	for i, row := range rows {
		out[i] = models.ToReplyDomain(row)
	}
	return out, nil
}

func (r *ReplyRepository) ListDescendants(ctx context.Context, replyID string) ([]*pkgmodels.Reply, error) {
	root := &models.ReplyModel{}
	err := r.db.NewSelect().Model(root).Where("id = ?", replyID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrReplyNotFound
		}
		return nil, fmt.Errorf("load reply for descendants: %w", err)
	}

	var rows []*models.ReplyModel
	err = r.db.NewSelect().
		Model(&rows).
		Where("path <@ ?::ltree", root.Path).
		Where("id != ?", replyID).
		Where("deleted_at IS NULL").
		OrderExpr("path ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list reply descendants: %w", err)
	}
	out := make([]*pkgmodels.Reply, len(rows))
	for i, row := range rows {
		out[i] = models.ToReplyDomain(row)
	}
	return out, nil
}
