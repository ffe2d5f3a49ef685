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

var _ repository.NotificationRepository = (*NotificationRepository)(nil)

// NotificationRepository implements repository.NotificationRepository using Bun.
type NotificationRepository struct {
	db bun.IDB
}

func NewNotificationRepository(db bun.IDB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Upsert inserts a notification for the (user_id, target_type, target_id) key, or, if one
// already exists, accumulates the social reply_count, refreshes the last reply author and
// clears is_read so the merged activity resurfaces.
func (r *NotificationRepository) Upsert(ctx context.Context, n *pkgmodels.Notification) error {
	now := time.Now()
	n.CreatedAt = now
	n.UpdatedAt = now

	row := models.FromNotificationDomain(n)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}

	_, err := r.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, target_type, target_id) DO UPDATE").
		Set("reply_count = COALESCE(agora_notifications.reply_count, 0) + COALESCE(EXCLUDED.reply_count, 0)").
		Set("last_reply_author_id = EXCLUDED.last_reply_author_id").
		Set("payload = EXCLUDED.payload").
		Set("is_read = false").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert notification: %w", err)
	}
	*n = *models.ToNotificationDomain(row)
	return nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*pkgmodels.Notification, error) {
	row := &models.NotificationModel{}
	err := r.db.NewSelect().Model(row).Where("id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pkgmodels.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("get notification by id: %w", err)
	}
	return models.ToNotificationDomain(row), nil
}

func (r *NotificationRepository) ListByCategory(ctx context.Context, userID string, category pkgmodels.NotificationCategory, limit int, cursor string) ([]*pkgmodels.Notification, string, bool, error) {
	c, err := decodeCursor(cursor)
	if err != nil {
		return nil, "", false, pkgmodels.ErrValidationFailed
	}

	q := r.db.NewSelect().
		Model((*models.NotificationModel)(nil)).
		Where("user_id = ?", userID).
		Where("category = ?", string(category)).
		OrderExpr("created_at DESC, id DESC")
	if c != nil {
		q = q.Where("(created_at, id) < (?, ?)", c.CreatedAt, c.ID)
	}

	var rows []*models.NotificationModel
	if err := q.Limit(limit + 1).Scan(ctx, &rows); err != nil {
		return nil, "", false, fmt.Errorf("list notifications by category: %w", err)
	}

	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	out := make([]*pkgmodels.Notification, len(rows))
	for i, row := range rows {
		out[i] = models.ToNotificationDomain(row)
	}
	var next string
	if hasMore && len(rows) > 0 {
		last := rows[len(rows)-1]
		next = encodeCursor(last.CreatedAt, last.ID.String())
	}
	return out, next, hasMore, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	res, err := r.db.NewUpdate().
		Model((*models.NotificationModel)(nil)).
		Set("is_read = true").
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return pkgmodels.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string, category pkgmodels.NotificationCategory) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.NotificationModel)(nil)).
		Where("user_id = ?", userID).
		Where("category = ?", string(category)).
		Where("is_read = false").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

func (r *NotificationRepository) CountUpdatedSince(ctx context.Context, userID string, category pkgmodels.NotificationCategory, since time.Time) (int, error) {
	count, err := r.db.NewSelect().
		Model((*models.NotificationModel)(nil)).
		Where("user_id = ?", userID).
		Where("category = ?", string(category)).
		Where("updated_at > ?", since).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count notifications updated since: %w", err)
	}
	return count, nil
}
