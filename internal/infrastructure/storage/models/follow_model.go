package models

import (
	"time"

	"github.com/uptrace/bun"
)

// FollowModel is the bun persistence model for agora_follows.
type FollowModel struct {
	bun.BaseModel `bun:"table:agora_follows,alias:f"`

	FollowerID  string    `bun:"follower_id,pk"`
	FollowingID string    `bun:"following_id,pk"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
