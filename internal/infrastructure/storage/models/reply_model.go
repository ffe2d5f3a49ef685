package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ReplyModel is the bun persistence model for agora_replies. Path is stored as the raw
// ltree label string (e.g. "abcd_1234.ef01_5678"); bun treats it as an opaque string
// column, with GiST indexing and descendant queries handled via raw SQL fragments.
type ReplyModel struct {
	bun.BaseModel `bun:"table:agora_replies,alias:r"`

	ID               uuid.UUID  `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	PostID           uuid.UUID  `bun:"post_id,notnull,type:uuid"`
	AuthorID         string     `bun:"author_id,notnull"`
	ParentReplyID    *uuid.UUID `bun:"parent_reply_id,type:uuid"`
	Depth            int        `bun:"depth,notnull,default:0"`
	Path             string     `bun:"path,notnull,type:ltree"`
	Content          string     `bun:"content,notnull"`
	QuotedText       *string    `bun:"quoted_text"`
	QuotedSourceType *string    `bun:"quoted_source_type"`
	QuotedSourceID   *uuid.UUID `bun:"quoted_source_id,type:uuid"`
	ReplyCount       int        `bun:"reply_count,notnull,default:0"`
	Score            int        `bun:"score,notnull,default:0"`
	VoteCount        int        `bun:"vote_count,notnull,default:0"`
	DeletedAt        *time.Time `bun:"deleted_at"`
	CreatedAt        time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}
