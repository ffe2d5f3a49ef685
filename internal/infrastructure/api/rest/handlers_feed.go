package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/agoraforge/agora/internal/application/feed"
	"github.com/agoraforge/agora/pkg/models"
)

// FeedHandlers exposes the feed ranker over HTTP.
type FeedHandlers struct {
	feed *feed.Service
}

// NewFeedHandlers wires the feed handlers.
func NewFeedHandlers(f *feed.Service) *FeedHandlers {
	return &FeedHandlers{feed: f}
}

var validFeedSorts = map[string]models.FeedSort{
	string(models.FeedSortHot):           models.FeedSortHot,
	string(models.FeedSortNew):           models.FeedSortNew,
	string(models.FeedSortTop):           models.FeedSortTop,
	string(models.FeedSortRising):        models.FeedSortRising,
	string(models.FeedSortControversial): models.FeedSortControversial,
}

// List godoc
// @Summary Ranked feed
// @Router /feed [get]
func (h *FeedHandlers) List(c *gin.Context) {
	sortParam := c.DefaultQuery("sort", string(models.FeedSortHot))
	sort, ok := validFeedSorts[sortParam]
	if !ok {
		respondError(c, &models.ValidationError{Field: "sort", Message: "unknown sort"})
		return
	}

	limit, cursor := pagingParams(c, feed.DefaultLimit, feed.MaxLimit)

	posts, next, hasMore, err := h.feed.List(c.Request.Context(), sort, limit, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, posts, next, hasMore)
}

// ListByAuthor godoc
// @Summary Posts by a single author
// @Router /feed/authors/{id} [get]
func (h *FeedHandlers) ListByAuthor(c *gin.Context) {
	limit, cursor := pagingParams(c, feed.DefaultLimit, feed.MaxLimit)

	posts, next, hasMore, err := h.feed.ListByAuthor(c.Request.Context(), c.Param("id"), limit, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, posts, next, hasMore)
}

// ListFollowing godoc
// @Summary Posts from followed authors
// @Router /feed/following [get]
func (h *FeedHandlers) ListFollowing(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	limit, cursor := pagingParams(c, feed.DefaultLimit, feed.MaxLimit)

	posts, next, hasMore, err := h.feed.ListFollowing(c.Request.Context(), userID, limit, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, posts, next, hasMore)
}
