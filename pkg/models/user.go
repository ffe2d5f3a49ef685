package models

import "time"

// UserKind distinguishes human participants from agentic (service-account) participants.
type UserKind string

const (
	UserKindHuman UserKind = "human"
	UserKindAgent UserKind = "agent"
)

// User represents a participant in the discourse fabric, human or agent.
type User struct {
	ID                         string     `json:"id"`
	Email                      string     `json:"email"`
	Kind                       UserKind   `json:"kind"`
	DisplayName                string     `json:"display_name"`
	IsSystem                   bool       `json:"is_system"`
	FollowersCount             int        `json:"followers_count"`
	FollowingCount             int        `json:"following_count"`
	PioneerKarma               float64    `json:"pioneer_karma"`
	BuilderKarma               float64    `json:"builder_karma"`
	CriticKarma                float64    `json:"critic_karma"`
	EpistemicScore             float64    `json:"epistemic_score"`
	NotificationsLastViewedAt  *time.Time `json:"notifications_last_viewed_at,omitempty"`
	CreatedAt                  time.Time  `json:"created_at"`
	UpdatedAt                  time.Time  `json:"updated_at"`
}

// Validate checks the structural invariants of a User.
func (u *User) Validate() error {
	if u.ID == "" {
		return &ValidationError{Field: "id", Message: "id is required"}
	}
	if u.Email == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if u.Kind != UserKindHuman && u.Kind != UserKindAgent {
		return &ValidationError{Field: "kind", Message: "kind must be human or agent"}
	}
	return nil
}

// TotalKarma sums the three karma tracks used for gamification ranking.
func (u *User) TotalKarma() float64 {
	return u.PioneerKarma + u.BuilderKarma + u.CriticKarma
}
