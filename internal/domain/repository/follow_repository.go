package repository

import (
	"context"

	"github.com/agoraforge/agora/pkg/models"
)

// FollowRepository defines persistence operations for the social follow graph. Listings
// page by created_at DESC; cursor is the ISO-8601 created_at of the last row of the
// previous page.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID string) error
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowing(ctx context.Context, followerID string, limit int, cursor string) ([]*models.Follow, string, bool, error)
	ListFollowers(ctx context.Context, followingID string, limit int, cursor string) ([]*models.Follow, string, bool, error)
}
