// Package feed implements the feed ranker: validated, paginated access to the post
// rankings computed by the storage layer.
package feed

import (
	"context"
	"fmt"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Service serves ranked and personalized post feeds.
type Service struct {
	posts repository.PostRepository
}

func NewService(posts repository.PostRepository) *Service {
	return &Service{posts: posts}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// List returns a page of posts ranked by sort, one of hot/new/top/rising/controversial.
func (s *Service) List(ctx context.Context, sort models.FeedSort, limit int, cursor string) ([]*models.Post, string, bool, error) {
	posts, next, hasMore, err := s.posts.ListFeed(ctx, sort, clampLimit(limit), cursor)
	if err != nil {
		return nil, "", false, fmt.Errorf("list feed: %w", err)
	}
	return posts, next, hasMore, nil
}

// ListByAuthor returns a page of posts authored by a specific user, newest first.
func (s *Service) ListByAuthor(ctx context.Context, authorID string, limit int, cursor string) ([]*models.Post, string, bool, error) {
	posts, next, hasMore, err := s.posts.ListByAuthor(ctx, authorID, clampLimit(limit), cursor)
	if err != nil {
		return nil, "", false, fmt.Errorf("list posts by author: %w", err)
	}
	return posts, next, hasMore, nil
}

// ListFollowing returns a page of posts authored by the users a given user follows.
func (s *Service) ListFollowing(ctx context.Context, followerID string, limit int, cursor string) ([]*models.Post, string, bool, error) {
	posts, next, hasMore, err := s.posts.ListByFollowedAuthors(ctx, followerID, clampLimit(limit), cursor)
	if err != nil {
		return nil, "", false, fmt.Errorf("list followed-author posts: %w", err)
	}
	return posts, next, hasMore, nil
}
