package repository

import (
	"context"

	"github.com/agoraforge/agora/pkg/models"
)

// ReplyRepository defines persistence operations for threaded replies, addressed through
// the ltree materialized path.
type ReplyRepository interface {
	Create(ctx context.Context, reply *models.Reply) error
	GetByID(ctx context.Context, id string) (*models.Reply, error)
	SoftDelete(ctx context.Context, id string) error
	ListByPost(ctx context.Context, postID string, ordering models.ReplyOrdering, limit int, cursor string) ([]*models.Reply, string, bool, error)
	ListChildren(ctx context.Context, parentReplyID string) ([]*models.Reply, error)
	ListDescendants(ctx context.Context, replyID string) ([]*models.Reply, error)
}
