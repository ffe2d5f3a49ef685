package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/uptrace/bun"
)

// ContentEmbeddingModel is the bun persistence model for the content_embeddings side
// table, holding exactly one embedding per post or per reply.
type ContentEmbeddingModel struct {
	bun.BaseModel `bun:"table:content_embeddings,alias:ce"`

	ID        uuid.UUID       `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	PostID    *uuid.UUID      `bun:"post_id,type:uuid"`
	ReplyID   *uuid.UUID      `bun:"reply_id,type:uuid"`
	Embedding pgvector.Vector `bun:"embedding,type:vector(1536),notnull"`
	CreatedAt time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}
