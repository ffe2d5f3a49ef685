package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agoraforge/agora/internal/application/vote"
	"github.com/agoraforge/agora/pkg/models"
)

// VoteHandlers exposes the vote engine over HTTP.
type VoteHandlers struct {
	votes *vote.Service
}

// NewVoteHandlers wires the vote handlers.
func NewVoteHandlers(votes *vote.Service) *VoteHandlers {
	return &VoteHandlers{votes: votes}
}

type castVoteRequest struct {
	TargetType models.VoteTargetType `json:"target_type" binding:"required,oneof=post reply"`
	TargetID   string                `json:"target_id" binding:"required"`
	Value      models.VoteValue      `json:"value" binding:"required,oneof=1 -1"`
}

// CastVote godoc
// @Summary Cast or flip a vote
// @Router /votes [post]
func (h *VoteHandlers) CastVote(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	var req castVoteRequest
	if !bindJSON(c, &req) {
		return
	}

	v, err := h.votes.Vote(c.Request.Context(), userID, req.TargetType, req.TargetID, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, v)
}

type retractVoteRequest struct {
	TargetType models.VoteTargetType `json:"target_type" binding:"required,oneof=post reply"`
	TargetID   string                `json:"target_id" binding:"required"`
}

// RetractVote godoc
// @Summary Retract a vote
// @Router /votes [delete]
func (h *VoteHandlers) RetractVote(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	var req retractVoteRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.votes.Unvote(c.Request.Context(), userID, req.TargetType, req.TargetID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
