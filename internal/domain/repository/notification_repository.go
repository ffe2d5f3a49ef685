package repository

import (
	"context"
	"time"

	"github.com/agoraforge/agora/pkg/models"
)

// NotificationRepository defines persistence operations for per-user notification feeds.
type NotificationRepository interface {
	// Upsert inserts a notification, or if one already exists for the same
	// (user_id, target_type, target_id) merges the social counters and refreshes updated_at.
	Upsert(ctx context.Context, n *models.Notification) error
	GetByID(ctx context.Context, id string) (*models.Notification, error)
	ListByCategory(ctx context.Context, userID string, category models.NotificationCategory, limit int, cursor string) ([]*models.Notification, string, bool, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, userID string, category models.NotificationCategory) (int, error)
	// CountUpdatedSince counts a category's rows updated after a given instant, used for
	// the SOCIAL feed whose unread/read split is driven by the user's
	// notifications_last_viewed_at rather than a per-row is_read flag.
	CountUpdatedSince(ctx context.Context, userID string, category models.NotificationCategory, since time.Time) (int, error)
}
