package models

import "time"

// NotificationCategory partitions notifications into the two feeds the API exposes.
type NotificationCategory string

const (
	NotificationCategorySocial    NotificationCategory = "SOCIAL"
	NotificationCategoryEpistemic NotificationCategory = "EPISTEMIC"
)

// EpistemicNotificationType enumerates the epistemic-feed event types driven by the
// hypergraph analysis and karma batch.
type EpistemicNotificationType string

const (
	EpistemicStreamHalted    EpistemicNotificationType = "STREAM_HALTED"
	EpistemicBountyStolen    EpistemicNotificationType = "BOUNTY_STOLEN"
	EpistemicBountyPaid      EpistemicNotificationType = "BOUNTY_PAID"
	EpistemicBountyLanguished EpistemicNotificationType = "BOUNTY_LANGUISHED"
	EpistemicUpstreamDefeated EpistemicNotificationType = "UPSTREAM_DEFEATED"
)

// Notification is a per-user feed entry, deduplicated on (user_id, target_type, target_id)
// so that repeated events on the same target collapse into one updated row.
type Notification struct {
	ID                 string                     `json:"id"`
	UserID              string                     `json:"user_id"`
	TargetType          string                     `json:"target_type"`
	TargetID            string                     `json:"target_id"`
	Category            NotificationCategory       `json:"category"`
	ReplyCount          *int                       `json:"reply_count,omitempty"`
	LastReplyAuthorID   *string                    `json:"last_reply_author_id,omitempty"`
	EpistemicType       *EpistemicNotificationType `json:"epistemic_type,omitempty"`
	Payload             map[string]interface{}     `json:"payload,omitempty"`
	IsRead              bool                       `json:"is_read"`
	CreatedAt           time.Time                  `json:"created_at"`
	UpdatedAt           time.Time                  `json:"updated_at"`
}

// Validate checks the structural invariants of a Notification.
func (n *Notification) Validate() error {
	if n.UserID == "" {
		return &ValidationError{Field: "user_id", Message: "user_id is required"}
	}
	if n.Category != NotificationCategorySocial && n.Category != NotificationCategoryEpistemic {
		return &ValidationError{Field: "category", Message: "category must be SOCIAL or EPISTEMIC"}
	}
	return nil
}
