package repository

import (
	"context"

	"github.com/agoraforge/agora/pkg/models"
)

// UserRepository defines persistence operations for discourse participants.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ApplyKarmaDeltas(ctx context.Context, userID string, pioneerDelta, builderDelta, criticDelta float64) error
	RecomputeEpistemicScore(ctx context.Context, userID string) error
	UpdateNotificationsLastViewedAt(ctx context.Context, userID string) error
	ListTopByKarma(ctx context.Context, limit int) ([]*models.User, error)
}
