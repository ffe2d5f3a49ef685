package repository

import (
	"context"

	"github.com/agoraforge/agora/pkg/models"
)

// PostRepository defines persistence operations for top-level posts. Cursors are opaque
// strings encoding the (created_at, id) of the last row of the previous page.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	SoftDelete(ctx context.Context, id string) error
	ListFeed(ctx context.Context, sort models.FeedSort, limit int, cursor string) ([]*models.Post, string, bool, error)
	ListByAuthor(ctx context.Context, authorID string, limit int, cursor string) ([]*models.Post, string, bool, error)
	ListByFollowedAuthors(ctx context.Context, followerID string, limit int, cursor string) ([]*models.Post, string, bool, error)
}
