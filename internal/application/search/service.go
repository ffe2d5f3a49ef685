// Package search implements semantic search over discourse content: embedding a query
// through the discourse engine and running a cosine nearest-neighbor lookup against the
// pgvector HNSW indexes.
package search

import (
	"context"
	"fmt"

	domaindiscourse "github.com/agoraforge/agora/internal/domain/discourse"
	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/pkg/models"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

// Hit is a search result hydrated into its underlying post or reply.
type Hit struct {
	Post     *models.Post
	Reply    *models.Reply
	Distance float64
}

// Service runs semantic search queries against content embeddings.
type Service struct {
	discourse  domaindiscourse.Client
	search     repository.SearchRepository
	posts      repository.PostRepository
	replies    repository.ReplyRepository
	hypergraph repository.HypergraphRepository
}

func NewService(discourse domaindiscourse.Client, search repository.SearchRepository, posts repository.PostRepository, replies repository.ReplyRepository, hypergraph repository.HypergraphRepository) *Service {
	return &Service{discourse: discourse, search: search, posts: posts, replies: replies, hypergraph: hypergraph}
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

// SearchContent embeds the query and returns the nearest posts/replies by cosine
// distance. A query for which the discourse engine returns no embedding yields an empty
// result set, not an error; a failed Embed call is returned as an error.
func (s *Service) SearchContent(ctx context.Context, query string, limit int) ([]Hit, error) {
	embeddings, err := s.discourse.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, nil
	}

	results, err := s.search.SearchContent(ctx, embeddings[0], clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search content: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		switch r.SourceType {
		case "post":
			post, err := s.posts.GetByID(ctx, r.SourceID)
			if err != nil || post == nil {
				continue
			}
			hits = append(hits, Hit{Post: post, Distance: r.Distance})
		case "reply":
			reply, err := s.replies.GetByID(ctx, r.SourceID)
			if err != nil || reply == nil {
				continue
			}
			hits = append(hits, Hit{Reply: reply, Distance: r.Distance})
		}
	}
	return hits, nil
}

// IndexContent embeds and persists a content embedding for a post or reply, called after
// creation so it becomes searchable.
func (s *Service) IndexContent(ctx context.Context, sourceType, sourceID, text string) error {
	embeddings, err := s.discourse.Embed(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("embed content: %w", err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil
	}
	if err := s.search.UpsertContentEmbedding(ctx, sourceType, sourceID, embeddings[0]); err != nil {
		return fmt.Errorf("upsert content embedding: %w", err)
	}
	return nil
}

// RelatedPost is a post/reply found similar to a canonical claim, with its cosine distance.
type RelatedPost struct {
	Post     *models.Post
	Reply    *models.Reply
	Distance float64
}

// RelatedPosts finds posts/replies whose content embedding is nearest a canonical claim's
// (i-node's) own embedding, excluding its own source content.
func (s *Service) RelatedPosts(ctx context.Context, iNodeID, excludeSourceID string, limit int) ([]RelatedPost, error) {
	node, err := s.hypergraph.GetINode(ctx, iNodeID)
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}
	if node == nil {
		return nil, models.ErrINodeNotFound
	}
	if len(node.Embedding) == 0 {
		return nil, nil
	}

	results, err := s.search.SearchRelatedContent(ctx, node.Embedding, excludeSourceID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search related content: %w", err)
	}

	related := make([]RelatedPost, 0, len(results))
	for _, r := range results {
		switch r.SourceType {
		case "post":
			post, err := s.posts.GetByID(ctx, r.SourceID)
			if err != nil || post == nil {
				continue
			}
			related = append(related, RelatedPost{Post: post, Distance: r.Distance})
		case "reply":
			reply, err := s.replies.GetByID(ctx, r.SourceID)
			if err != nil || reply == nil {
				continue
			}
			related = append(related, RelatedPost{Reply: reply, Distance: r.Distance})
		}
	}
	return related, nil
}

// SearchConcepts returns the concept nodes nearest to a query embedding.
func (s *Service) SearchConcepts(ctx context.Context, query string, limit int) ([]repository.SearchResult, error) {
	embeddings, err := s.discourse.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) == 0 || len(embeddings[0]) == 0 {
		return nil, nil
	}
	results, err := s.search.SearchConcepts(ctx, embeddings[0], clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("search concepts: %w", err)
	}
	return results, nil
}
