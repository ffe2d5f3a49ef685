package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"

	"github.com/agoraforge/agora/internal/domain/repository"
	"github.com/agoraforge/agora/internal/infrastructure/storage/models"
)

var _ repository.SearchRepository = (*SearchRepository)(nil)

// SearchRepository implements repository.SearchRepository using pgvector HNSW indexes
// (vector_cosine_ops) over content_embeddings and agora_concept_nodes.
type SearchRepository struct {
	db bun.IDB
}

func NewSearchRepository(db bun.IDB) *SearchRepository {
	return &SearchRepository{db: db}
}

func (r *SearchRepository) UpsertContentEmbedding(ctx context.Context, sourceType, sourceID string, embedding []float32) error {
	vec := pgvector.NewVector(embedding)
	id, err := uuid.Parse(sourceID)
	if err != nil {
		return fmt.Errorf("parse source id: %w", err)
	}

	row := &models.ContentEmbeddingModel{
		ID:        uuid.New(),
		Embedding: vec,
		CreatedAt: time.Now(),
	}
	var conflictCol string
	switch sourceType {
	case "post":
		row.PostID = &id
		conflictCol = "post_id"
	case "reply":
		row.ReplyID = &id
		conflictCol = "reply_id"
	default:
		return fmt.Errorf("unsupported embedding source type %q", sourceType)
	}

	_, err = r.db.NewInsert().
		Model(row).
		On(fmt.Sprintf("CONFLICT (%s) WHERE %s IS NOT NULL DO UPDATE", conflictCol, conflictCol)).
		Set("embedding = EXCLUDED.embedding").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert content embedding: %w", err)
	}
	return nil
}

func (r *SearchRepository) SearchContent(ctx context.Context, embedding []float32, limit int) ([]repository.SearchResult, error) {
	vec := pgvector.NewVector(embedding)

	type row struct {
		PostID   *uuid.UUID `bun:"post_id"`
		ReplyID  *uuid.UUID `bun:"reply_id"`
		Distance float64    `bun:"distance"`
	}
	var rows []row
	err := r.db.NewSelect().
		Model((*models.ContentEmbeddingModel)(nil)).
		ColumnExpr("post_id, reply_id").
		ColumnExpr("embedding <=> ? AS distance", vec).
		OrderExpr("embedding <=> ?", vec).
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("search content: %w", err)
	}

	out := make([]repository.SearchResult, len(rows))
	for i, rr := range rows {
		res := repository.SearchResult{Distance: rr.Distance}
		if rr.PostID != nil {
			res.SourceType = "post"
			res.SourceID = rr.PostID.String()
		} else if rr.ReplyID != nil {
			res.SourceType = "reply"
			res.SourceID = rr.ReplyID.String()
		}
		out[i] = res
	}
	return out, nil
}

func (r *SearchRepository) SearchRelatedContent(ctx context.Context, embedding []float32, excludeSourceID string, limit int) ([]repository.SearchResult, error) {
	vec := pgvector.NewVector(embedding)

	type row struct {
		PostID   *uuid.UUID `bun:"post_id"`
		ReplyID  *uuid.UUID `bun:"reply_id"`
		Distance float64    `bun:"distance"`
	}
	q := r.db.NewSelect().
		Model((*models.ContentEmbeddingModel)(nil)).
		ColumnExpr("post_id, reply_id").
		ColumnExpr("embedding <=> ? AS distance", vec)

	if excludeSourceID != "" {
		if excludeID, err := uuid.Parse(excludeSourceID); err == nil {
			q = q.Where("post_id IS DISTINCT FROM ? AND reply_id IS DISTINCT FROM ?", excludeID, excludeID)
		}
	}

	var rows []row
	err := q.OrderExpr("embedding <=> ?", vec).Limit(limit).Scan(ctx, &rows)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("search related content: %w", err)
	}

	out := make([]repository.SearchResult, len(rows))
	for i, rr := range rows {
		res := repository.SearchResult{Distance: rr.Distance}
		if rr.PostID != nil {
			res.SourceType = "post"
			res.SourceID = rr.PostID.String()
		} else if rr.ReplyID != nil {
			res.SourceType = "reply"
			res.SourceID = rr.ReplyID.String()
		}
		out[i] = res
	}
	return out, nil
}

func (r *SearchRepository) SearchConcepts(ctx context.Context, embedding []float32, limit int) ([]repository.SearchResult, error) {
	vec := pgvector.NewVector(embedding)

	type row struct {
		ID       uuid.UUID `bun:"id"`
		Distance float64   `bun:"distance"`
	}
	var rows []row
	err := r.db.NewSelect().
		Model((*models.ConceptNodeModel)(nil)).
		ColumnExpr("id").
		ColumnExpr("embedding <=> ? AS distance", vec).
		OrderExpr("embedding <=> ?", vec).
		Limit(limit).
		Scan(ctx, &rows)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("search concepts: %w", err)
	}

	out := make([]repository.SearchResult, len(rows))
	for i, rr := range rows {
		out[i] = repository.SearchResult{SourceType: "concept", SourceID: rr.ID.String(), Distance: rr.Distance}
	}
	return out, nil
}
