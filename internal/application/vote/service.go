// Package vote implements the up/down vote engine. Score and vote_count effects are
// applied exclusively by the database's vote-effect trigger; this service only manages
// the vote row itself.
package vote

import (
	"context"
	"fmt"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

// Service handles casting and retracting votes on posts and replies.
type Service struct {
	votes   repository.VoteRepository
	posts   repository.PostRepository
	replies repository.ReplyRepository
}

func NewService(votes repository.VoteRepository, posts repository.PostRepository, replies repository.ReplyRepository) *Service {
	return &Service{votes: votes, posts: posts, replies: replies}
}

// Vote casts or updates a user's vote on a target. Voting the same value again is a
// no-op; voting the opposite value flips it. Upsert semantics are keyed by
// (user, target_type, target_id) at the database layer.
func (s *Service) Vote(ctx context.Context, userID string, targetType models.VoteTargetType, targetID string, value models.VoteValue) (*models.Vote, error) {
	if _, err := s.resolveTargetAuthor(ctx, targetType, targetID); err != nil {
		return nil, err
	}

	v := &models.Vote{
		UserID:     userID,
		TargetType: targetType,
		TargetID:   targetID,
		Value:      value,
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if err := s.votes.Upsert(ctx, v); err != nil {
		return nil, fmt.Errorf("upsert vote: %w", err)
	}
	return s.votes.Get(ctx, userID, targetType, targetID)
}

// Unvote retracts a user's vote on a target.
func (s *Service) Unvote(ctx context.Context, userID string, targetType models.VoteTargetType, targetID string) error {
	if err := s.votes.Delete(ctx, userID, targetType, targetID); err != nil {
		return fmt.Errorf("delete vote: %w", err)
	}
	return nil
}

// resolveTargetAuthor validates that the vote target exists and is not deleted, returning
// its author id.
func (s *Service) resolveTargetAuthor(ctx context.Context, targetType models.VoteTargetType, targetID string) (string, error) {
	switch targetType {
	case models.VoteTargetPost:
		post, err := s.posts.GetByID(ctx, targetID)
		if err != nil {
			return "", fmt.Errorf("get post: %w", err)
		}
		if post == nil || post.IsDeleted() {
			return "", models.ErrPostNotFound
		}
		return post.AuthorID, nil
	case models.VoteTargetReply:
		reply, err := s.replies.GetByID(ctx, targetID)
		if err != nil {
			return "", fmt.Errorf("get reply: %w", err)
		}
		if reply == nil || reply.IsDeleted() {
			return "", models.ErrReplyNotFound
		}
		return reply.AuthorID, nil
	default:
		return "", &models.ValidationError{Field: "target_type", Message: "target_type must be post or reply"}
	}
}
