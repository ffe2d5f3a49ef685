package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/agoraforge/agora/internal/application/notification"
	"github.com/agoraforge/agora/pkg/models"
)

// NotificationHandlers exposes the unified notification fabric over HTTP.
type NotificationHandlers struct {
	notifications *notification.Service
}

// NewNotificationHandlers wires the notification handlers.
func NewNotificationHandlers(notifications *notification.Service) *NotificationHandlers {
	return &NotificationHandlers{notifications: notifications}
}

const (
	defaultNotificationPageSize = 20
	maxNotificationPageSize     = 100
)

func notificationCategory(c *gin.Context) models.NotificationCategory {
	switch c.DefaultQuery("category", string(models.NotificationCategorySocial)) {
	case string(models.NotificationCategoryEpistemic):
		return models.NotificationCategoryEpistemic
	default:
		return models.NotificationCategorySocial
	}
}

// List godoc
// @Summary List a user's notifications
// @Router /notifications [get]
func (h *NotificationHandlers) List(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	limit, cursor := pagingParams(c, defaultNotificationPageSize, maxNotificationPageSize)
	category := notificationCategory(c)

	items, next, hasMore, err := h.notifications.List(c.Request.Context(), userID, category, limit, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, items, next, hasMore)
}

// CountUnread godoc
// @Summary Unread notification count
// @Router /notifications/unread-count [get]
func (h *NotificationHandlers) CountUnread(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	count, err := h.notifications.CountUnread(c.Request.Context(), userID, notificationCategory(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"count": count})
}

// MarkRead godoc
// @Summary Mark a notification read
// @Router /notifications/{id}/read [post]
func (h *NotificationHandlers) MarkRead(c *gin.Context) {
	if _, ok := RequireUserID(c); !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// MarkSocialViewed godoc
// @Summary Mark the social feed viewed
// @Router /notifications/social/viewed [post]
func (h *NotificationHandlers) MarkSocialViewed(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkSocialViewed(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
