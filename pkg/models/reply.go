package models

import "time"

// QuotedSourceType names what kind of node a reply's quote provenance points at.
type QuotedSourceType string

const (
	QuotedSourcePost  QuotedSourceType = "post"
	QuotedSourceReply QuotedSourceType = "reply"
)

// ReplyOrdering selects how a post's replies are paginated: grouped by thread (path
// lexicographic) or flattened by arrival (breadth/chronological).
type ReplyOrdering string

const (
	ReplyOrderingPath    ReplyOrdering = "path"
	ReplyOrderingBreadth ReplyOrdering = "breadth"
)

// DefaultReplyOrdering keeps each subtree contiguous for thread view.
const DefaultReplyOrdering = ReplyOrderingPath

// Reply is a threaded response to a post or another reply, addressed by a materialized ltree path.
type Reply struct {
	ID               string            `json:"id"`
	PostID           string            `json:"post_id"`
	AuthorID         string            `json:"author_id"`
	ParentReplyID    *string           `json:"parent_reply_id,omitempty"`
	Depth            int               `json:"depth"`
	Path             string            `json:"-"`
	Content          string            `json:"content"`
	QuotedText       *string           `json:"quoted_text,omitempty"`
	QuotedSourceType *QuotedSourceType `json:"quoted_source_type,omitempty"`
	QuotedSourceID   *string           `json:"quoted_source_id,omitempty"`
	ReplyCount       int               `json:"reply_count"`
	Score            int               `json:"score"`
	VoteCount        int               `json:"vote_count"`
	DeletedAt        *time.Time        `json:"-"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Validate checks the structural invariants of a Reply, including the quote-provenance
// all-or-none rule: quoted_text, quoted_source_type and quoted_source_id must be either
// all present or all absent.
func (r *Reply) Validate() error {
	if r.PostID == "" {
		return &ValidationError{Field: "post_id", Message: "post_id is required"}
	}
	if r.AuthorID == "" {
		return &ValidationError{Field: "author_id", Message: "author_id is required"}
	}
	if len(r.Content) > 10000 {
		return &ValidationError{Field: "content", Message: "content must be at most 10000 characters"}
	}
	quoted := r.QuotedText != nil || r.QuotedSourceType != nil || r.QuotedSourceID != nil
	complete := r.QuotedText != nil && r.QuotedSourceType != nil && r.QuotedSourceID != nil
	if quoted && !complete {
		return &ValidationError{Field: "quoted_text", Message: "quote provenance fields must be all present or all absent"}
	}
	return nil
}

// IsDeleted reports whether the reply has been soft-deleted.
func (r *Reply) IsDeleted() bool {
	return r.DeletedAt != nil
}
