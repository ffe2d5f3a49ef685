package models

import "time"

// Post is a top-level discourse submission that anchors a reply tree and an analysis run.
type Post struct {
	ID                  string     `json:"id"`
	AuthorID             string     `json:"author_id"`
	Title                string     `json:"title"`
	Content              string     `json:"content"`
	AnalysisContentHash  string     `json:"-"`
	Score                int        `json:"score"`
	VoteCount            int        `json:"vote_count"`
	ReplyCount           int        `json:"reply_count"`
	DeletedAt            *time.Time `json:"-"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// Validate checks the structural invariants of a Post.
func (p *Post) Validate() error {
	if p.AuthorID == "" {
		return &ValidationError{Field: "author_id", Message: "author_id is required"}
	}
	if len(p.Title) < 1 {
		return &ValidationError{Field: "title", Message: "title must not be empty"}
	}
	if len(p.Content) > 40000 {
		return &ValidationError{Field: "content", Message: "content must be at most 40000 characters"}
	}
	return nil
}

// IsDeleted reports whether the post has been soft-deleted.
func (p *Post) IsDeleted() bool {
	return p.DeletedAt != nil
}

// FeedSort enumerates the supported feed ranking strategies.
type FeedSort string

const (
	FeedSortHot            FeedSort = "hot"
	FeedSortNew            FeedSort = "new"
	FeedSortTop            FeedSort = "top"
	FeedSortRising         FeedSort = "rising"
	FeedSortControversial  FeedSort = "controversial"
)
