package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NotificationModel is the bun persistence model for agora_notifications.
type NotificationModel struct {
	bun.BaseModel `bun:"table:agora_notifications,alias:n"`

	ID                uuid.UUID `bun:"id,pk,type:uuid,default:uuid_generate_v4()"`
	UserID            string    `bun:"user_id,notnull"`
	TargetType        string    `bun:"target_type,notnull"`
	TargetID          uuid.UUID `bun:"target_id,notnull,type:uuid"`
	Category          string    `bun:"category,notnull"`
	ReplyCount        *int      `bun:"reply_count"`
	LastReplyAuthorID *string   `bun:"last_reply_author_id"`
	EpistemicType     *string   `bun:"epistemic_type"`
	Payload           JSONBMap  `bun:"payload,type:jsonb"`
	IsRead            bool      `bun:"is_read,notnull,default:false"`
	CreatedAt         time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt         time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
