package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// VoteModel is the bun persistence model for agora_votes.
type VoteModel struct {
	bun.BaseModel `bun:"table:agora_votes,alias:v"`

	ID         uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	UserID     string    `bun:"user_id,notnull"`
	TargetType string    `bun:"target_type,notnull"`
	TargetID   uuid.UUID `bun:"target_id,notnull,type:uuid"`
	Value      int16     `bun:"value,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt  time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
