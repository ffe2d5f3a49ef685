// Package notification implements the unified notification fabric: SOCIAL reply
// coalescing keyed on a per-user last-viewed timestamp, and EPISTEMIC events emitted by
// the hypergraph and gamification engines.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

// Service manages the per-user notification feed.
type Service struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
}

func NewService(notifications repository.NotificationRepository, users repository.UserRepository) *Service {
	return &Service{notifications: notifications, users: users}
}

// NotifyReply coalesces a SOCIAL notification for the author of the content being replied
// to, unless the replier is the author themselves.
func (s *Service) NotifyReply(ctx context.Context, targetAuthorID, replierID, targetType, targetID string) error {
	if targetAuthorID == replierID {
		return nil
	}
	replyCount := 1
	n := &models.Notification{
		UserID:            targetAuthorID,
		TargetType:        targetType,
		TargetID:          targetID,
		Category:          models.NotificationCategorySocial,
		ReplyCount:        &replyCount,
		LastReplyAuthorID: &replierID,
	}
	if err := s.notifications.Upsert(ctx, n); err != nil {
		return fmt.Errorf("upsert social notification: %w", err)
	}
	return nil
}

// EmitEpistemic records a C9-driven epistemic event (stream halt, bounty lifecycle,
// upstream defeat) for a user.
func (s *Service) EmitEpistemic(ctx context.Context, userID, targetType, targetID string, eventType models.EpistemicNotificationType, payload map[string]interface{}) error {
	n := &models.Notification{
		UserID:        userID,
		TargetType:    targetType,
		TargetID:      targetID,
		Category:      models.NotificationCategoryEpistemic,
		EpistemicType: &eventType,
		Payload:       payload,
	}
	if err := s.notifications.Upsert(ctx, n); err != nil {
		return fmt.Errorf("upsert epistemic notification: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID string, category models.NotificationCategory, limit int, cursor string) ([]*models.Notification, string, bool, error) {
	out, next, hasMore, err := s.notifications.ListByCategory(ctx, userID, category, limit, cursor)
	if err != nil {
		return nil, "", false, fmt.Errorf("list notifications: %w", err)
	}
	return out, next, hasMore, nil
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	return nil
}

// CountUnread returns the number of unread notifications in a category. EPISTEMIC rows
// track their own is_read flag; SOCIAL rows are unread if updated after the user's
// notifications_last_viewed_at.
func (s *Service) CountUnread(ctx context.Context, userID string, category models.NotificationCategory) (int, error) {
	if category == models.NotificationCategoryEpistemic {
		count, err := s.notifications.CountUnread(ctx, userID, category)
		if err != nil {
			return 0, fmt.Errorf("count unread epistemic notifications: %w", err)
		}
		return count, nil
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return 0, models.ErrUserNotFound
	}
	since := user.NotificationsLastViewedAt
	if since == nil {
		epoch := time.Unix(0, 0).UTC()
		since = &epoch
	}
	count, err := s.notifications.CountUpdatedSince(ctx, userID, category, *since)
	if err != nil {
		return 0, fmt.Errorf("count social notifications since last view: %w", err)
	}
	return count, nil
}

// MarkSocialViewed records that the user has viewed their SOCIAL feed, resetting the
// unread count for that category.
func (s *Service) MarkSocialViewed(ctx context.Context, userID string) error {
	if err := s.users.UpdateNotificationsLastViewedAt(ctx, userID); err != nil {
		return fmt.Errorf("update notifications last viewed at: %w", err)
	}
	return nil
}
