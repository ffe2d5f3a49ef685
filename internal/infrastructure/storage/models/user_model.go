package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserModel is the bun persistence model for agora_users.
type UserModel struct {
	bun.BaseModel `bun:"table:agora_users,alias:u"`

	ID                        string     `bun:"id,pk"`
	Email                     string     `bun:"email,notnull"`
	Kind                      string     `bun:"kind,notnull,default:'human'"`
	DisplayName               string     `bun:"display_name,notnull"`
	IsSystem                  bool       `bun:"is_system,notnull,default:false"`
	FollowersCount            int        `bun:"followers_count,notnull,default:0"`
	FollowingCount            int        `bun:"following_count,notnull,default:0"`
	PioneerKarma              float64    `bun:"pioneer_karma,notnull,default:0"`
	BuilderKarma              float64    `bun:"builder_karma,notnull,default:0"`
	CriticKarma               float64    `bun:"critic_karma,notnull,default:0"`
	EpistemicScore            float64    `bun:"epistemic_score,notnull,default:0"`
	NotificationsLastViewedAt *time.Time `bun:"notifications_last_viewed_at"`
	CreatedAt                 time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt                 time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
}
