// Package follow implements the social follow graph. Follower/following counts are
// maintained exclusively by the database's follow-count trigger.
package follow

import (
	"context"
	"fmt"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

// Service manages follow/unfollow operations and follower/following listings.
type Service struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

func NewService(follows repository.FollowRepository, users repository.UserRepository) *Service {
	return &Service{follows: follows, users: users}
}

// Follow idempotently creates a follow edge from a to b. a == b is rejected.
func (s *Service) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return models.ErrCannotFollowSelf
	}
	if _, err := s.requireUser(ctx, followingID); err != nil {
		return err
	}
	f := &models.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := f.Validate(); err != nil {
		return err
	}
	if err := s.follows.Create(ctx, f); err != nil {
		return fmt.Errorf("create follow: %w", err)
	}
	return nil
}

func (s *Service) Unfollow(ctx context.Context, followerID, followingID string) error {
	if err := s.follows.Delete(ctx, followerID, followingID); err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (s *Service) ListFollowing(ctx context.Context, followerID string, limit int, cursor string) ([]*models.Follow, string, bool, error) {
	out, next, hasMore, err := s.follows.ListFollowing(ctx, followerID, limit, cursor)
	if err != nil {
		return nil, "", false, fmt.Errorf("list following: %w", err)
	}
	return out, next, hasMore, nil
}

func (s *Service) ListFollowers(ctx context.Context, followingID string, limit int, cursor string) ([]*models.Follow, string, bool, error) {
	out, next, hasMore, err := s.follows.ListFollowers(ctx, followingID, limit, cursor)
	if err != nil {
		return nil, "", false, fmt.Errorf("list followers: %w", err)
	}
	return out, next, hasMore, nil
}

func (s *Service) requireUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}
