package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/agoraforge/agora/internal/application/follow"
)

// FollowHandlers exposes the social follow graph over HTTP.
type FollowHandlers struct {
	follows *follow.Service
}

// NewFollowHandlers wires the follow handlers.
func NewFollowHandlers(follows *follow.Service) *FollowHandlers {
	return &FollowHandlers{follows: follows}
}

const (
	defaultFollowPageSize = 20
	maxFollowPageSize     = 100
)

// Follow godoc
// @Summary Follow a user
// @Router /follows/{id} [post]
func (h *FollowHandlers) Follow(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	if err := h.follows.Follow(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, nil)
}

// Unfollow godoc
// @Summary Unfollow a user
// @Router /follows/{id} [delete]
func (h *FollowHandlers) Unfollow(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), userID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}

// ListFollowing godoc
// @Summary Users a given user follows
// @Router /follows/{id}/following [get]
func (h *FollowHandlers) ListFollowing(c *gin.Context) {
	limit, cursor := pagingParams(c, defaultFollowPageSize, maxFollowPageSize)

	follows, next, hasMore, err := h.follows.ListFollowing(c.Request.Context(), c.Param("id"), limit, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, follows, next, hasMore)
}

// ListFollowers godoc
// @Summary Users following a given user
// @Router /follows/{id}/followers [get]
func (h *FollowHandlers) ListFollowers(c *gin.Context) {
	limit, cursor := pagingParams(c, defaultFollowPageSize, maxFollowPageSize)

	follows, next, hasMore, err := h.follows.ListFollowers(c.Request.Context(), c.Param("id"), limit, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, follows, next, hasMore)
}
