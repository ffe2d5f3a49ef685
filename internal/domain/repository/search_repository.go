package repository

import "context"

// SearchResult is a single semantically-ranked hit against content embeddings.
type SearchResult struct {
	SourceType string
	SourceID   string
	Distance   float64
}

// SearchRepository defines vector similarity search operations backed by pgvector HNSW
// indexes over content, interpretive-node, concept-node and source embeddings.
type SearchRepository interface {
	UpsertContentEmbedding(ctx context.Context, sourceType, sourceID string, embedding []float32) error
	SearchContent(ctx context.Context, embedding []float32, limit int) ([]SearchResult, error)
	SearchConcepts(ctx context.Context, embedding []float32, limit int) ([]SearchResult, error)
	// SearchRelatedContent finds posts/replies nearest an arbitrary embedding (e.g. a
	// canonical claim's i-node vector), excluding one source id from the result set.
	SearchRelatedContent(ctx context.Context, embedding []float32, excludeSourceID string, limit int) ([]SearchResult, error)
}
