// Package content implements the content store: creating and reading posts and threaded
// replies, and the materialized-path bookkeeping that keeps the reply tree addressable.
package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

const (
	maxTitleLength   = 300
	maxContentLength = 40000
)

// Service handles post and reply lifecycle operations.
type Service struct {
	posts   repository.PostRepository
	replies repository.ReplyRepository
}

func NewService(posts repository.PostRepository, replies repository.ReplyRepository) *Service {
	return &Service{posts: posts, replies: replies}
}

// CreatePost assigns an id, computes the analysis content hash, and persists a new post.
func (s *Service) CreatePost(ctx context.Context, authorID, title, content string) (*models.Post, error) {
	if len(title) < 1 || len(title) > maxTitleLength {
		return nil, &models.ValidationError{Field: "title", Message: fmt.Sprintf("title must be between 1 and %d characters", maxTitleLength)}
	}
	if len(content) > maxContentLength {
		return nil, &models.ValidationError{Field: "content", Message: fmt.Sprintf("content must be at most %d characters", maxContentLength)}
	}

	post := &models.Post{
		ID:                  uuid.New().String(),
		AuthorID:            authorID,
		Title:               title,
		Content:             content,
		AnalysisContentHash: normalizedHash(title, content),
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// CreateReply verifies the post and optional parent and persists the reply; the repository
// derives the reply's depth and materialized path. The quote fields are all-or-none.
func (s *Service) CreateReply(ctx context.Context, authorID, postID string, parentReplyID *string, content string, quotedText, quotedSourceType, quotedSourceID *string) (*models.Reply, error) {
	if len(content) > maxContentLength {
		return nil, &models.ValidationError{Field: "content", Message: fmt.Sprintf("content must be at most %d characters", maxContentLength)}
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil || post.IsDeleted() {
		return nil, models.ErrPostNotFound
	}

	if parentReplyID != nil {
		parent, err := s.replies.GetByID(ctx, *parentReplyID)
		if err != nil {
			return nil, fmt.Errorf("get parent reply: %w", err)
		}
		if parent == nil || parent.IsDeleted() || parent.PostID != postID {
			return nil, models.ErrParentNotFound
		}
	}

	reply := &models.Reply{
		ID:            uuid.New().String(),
		PostID:        postID,
		AuthorID:      authorID,
		ParentReplyID: parentReplyID,
		Content:       content,
	}
	if quotedText != nil || quotedSourceType != nil || quotedSourceID != nil {
		if quotedText == nil || quotedSourceType == nil || quotedSourceID == nil {
			return nil, &models.ValidationError{Field: "quoted_text", Message: "quote provenance fields must be all present or all absent"}
		}
		sourceType := models.QuotedSourceType(*quotedSourceType)
		reply.QuotedText = quotedText
		reply.QuotedSourceType = &sourceType
		reply.QuotedSourceID = quotedSourceID
	}
	if err := reply.Validate(); err != nil {
		return nil, err
	}

	// Depth and path are finalized by the repository, which must resolve the parent's
	// path to compute this reply's own before insert.
	if err := s.replies.Create(ctx, reply); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return reply, nil
}

func (s *Service) GetPost(ctx context.Context, id string) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, models.ErrPostNotFound
	}
	return post, nil
}

func (s *Service) GetReply(ctx context.Context, id string) (*models.Reply, error) {
	reply, err := s.replies.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reply: %w", err)
	}
	if reply == nil {
		return nil, models.ErrReplyNotFound
	}
	return reply, nil
}

// ListReplies returns a page of a post's replies. An empty ordering defaults to path
// lexicographic (thread view, each subtree contiguous); models.ReplyOrderingBreadth
// flattens to arrival order instead.
func (s *Service) ListReplies(ctx context.Context, postID string, ordering models.ReplyOrdering, limit int, cursor string) ([]*models.Reply, string, bool, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, "", false, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, "", false, models.ErrPostNotFound
	}
	if ordering == "" {
		ordering = models.DefaultReplyOrdering
	}
	return s.replies.ListByPost(ctx, postID, ordering, limit, cursor)
}

// SoftDeletePost tombstones a post, leaving denormalized counters untouched so thread
// integrity is preserved. Only the author or the system account may delete;
// SoftDeleteReply applies the same rule to replies.
func (s *Service) SoftDeletePost(ctx context.Context, id, actorID string, actorIsSystem bool) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return models.ErrPostNotFound
	}
	if !actorIsSystem && post.AuthorID != actorID {
		return models.ErrForbidden
	}
	return s.posts.SoftDelete(ctx, id)
}

func (s *Service) SoftDeleteReply(ctx context.Context, id, actorID string, actorIsSystem bool) error {
	reply, err := s.replies.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get reply: %w", err)
	}
	if reply == nil {
		return models.ErrReplyNotFound
	}
	if !actorIsSystem && reply.AuthorID != actorID {
		return models.ErrForbidden
	}
	return s.replies.SoftDelete(ctx, id)
}

// normalizedHash computes the content-addressing hash used to key analysis runs: the
// title and content, lower-cased and whitespace-collapsed, so trivial re-edits (casing,
// stray spaces) don't spuriously trigger a re-analysis.
func normalizedHash(title, content string) string {
	normalize := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	sum := sha256.Sum256([]byte(normalize(title) + "\x00" + normalize(content)))
	return hex.EncodeToString(sum[:])
}

// NormalizedHash exposes normalizedHash to callers outside this package (the REST layer
// needs it to key a reply's analysis submission the same way a post's is keyed).
func NormalizedHash(title, content string) string {
	return normalizedHash(title, content)
}
