package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PostModel is the bun persistence model for agora_posts.
type PostModel struct {
	bun.BaseModel `bun:"table:agora_posts,alias:p"`

	ID                  uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	AuthorID            string     `bun:"author_id,notnull"`
	Title               string     `bun:"title,notnull"`
	Content             string     `bun:"content,notnull"`
	AnalysisContentHash string     `bun:"analysis_content_hash,notnull"`
	Score               int        `bun:"score,notnull,default:0"`
	VoteCount           int        `bun:"vote_count,notnull,default:0"`
	ReplyCount          int        `bun:"reply_count,notnull,default:0"`
	DeletedAt           *time.Time `bun:"deleted_at"`
	CreatedAt           time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt           time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}
