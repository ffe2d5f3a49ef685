package repository

import (
	"context"

	"github.com/agoraforge/agora/pkg/models"
)

// VoteRepository defines persistence operations for up/down votes on posts and replies.
type VoteRepository interface {
	Upsert(ctx context.Context, vote *models.Vote) error
	Delete(ctx context.Context, userID string, targetType models.VoteTargetType, targetID string) error
	Get(ctx context.Context, userID string, targetType models.VoteTargetType, targetID string) (*models.Vote, error)
}
