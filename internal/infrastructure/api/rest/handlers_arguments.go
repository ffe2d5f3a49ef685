package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/agoraforge/agora/internal/application/enthymeme"
	"github.com/agoraforge/agora/internal/application/hypergraph"
	"github.com/agoraforge/agora/internal/application/search"
	"github.com/agoraforge/agora/pkg/models"
)

// ArgumentHandlers exposes the argument hypergraph (ADUs, claims, schemes, enthymemes,
// Socratic questions) over HTTP.
type ArgumentHandlers struct {
	hypergraph *hypergraph.Service
	search     *search.Service
	enthymeme  *enthymeme.Service
}

// NewArgumentHandlers wires the argument-surface handlers.
func NewArgumentHandlers(hypergraph *hypergraph.Service, search *search.Service, enthymeme *enthymeme.Service) *ArgumentHandlers {
	return &ArgumentHandlers{hypergraph: hypergraph, search: search, enthymeme: enthymeme}
}

// ListPostADUs godoc
// @Summary ADUs for a post, ordered by span_start
// @Router /arguments/posts/{id}/adus [get]
func (h *ArgumentHandlers) ListPostADUs(c *gin.Context) {
	nodes, err := h.hypergraph.ListADUsBySource(c.Request.Context(), models.AnalysisSourcePost, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nodes)
}

// ListReplyADUs godoc
// @Summary ADUs for a reply, ordered by span_start
// @Router /arguments/replies/{id}/adus [get]
func (h *ArgumentHandlers) ListReplyADUs(c *gin.Context) {
	nodes, err := h.hypergraph.ListADUsBySource(c.Request.Context(), models.AnalysisSourceReply, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nodes)
}

// GetClaim godoc
// @Summary Canonical claim by id
// @Router /arguments/claims/{id} [get]
func (h *ArgumentHandlers) GetClaim(c *gin.Context) {
	claim, err := h.hypergraph.GetClaim(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, claim)
}

// ListRelated godoc
// @Summary Relations for a claim (ADU)
// @Router /arguments/claims/{id}/related [get]
func (h *ArgumentHandlers) ListRelated(c *gin.Context) {
	edges, err := h.hypergraph.ListRelatedToClaim(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, edges)
}

// ListRelatedPosts godoc
// @Summary Related posts for a canonical claim, with similarity scores
// @Router /arguments/canonical-claims/{id}/related-posts [get]
func (h *ArgumentHandlers) ListRelatedPosts(c *gin.Context) {
	limit, _ := pagingParams(c, search.DefaultLimit, search.MaxLimit)
	excludeSourceID := c.Query("exclude_source_id")

	related, err := h.search.RelatedPosts(c.Request.Context(), c.Param("id"), excludeSourceID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, related)
}

// GetScheme godoc
// @Summary A scheme node together with its edges, enthymemes and Socratic questions
// @Router /arguments/schemes/{id} [get]
func (h *ArgumentHandlers) GetScheme(c *gin.Context) {
	related, err := h.hypergraph.GetRelatedScheme(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, related)
}

// BackfillEnthymeme godoc
// @Summary Post a machine-suggested unstated premise as a system reply
// @Router /arguments/enthymemes/{id}/backfill [post]
func (h *ArgumentHandlers) BackfillEnthymeme(c *gin.Context) {
	reply, err := h.enthymeme.Backfill(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, reply)
}

type resolveSocraticQuestionRequest struct {
	ReplyID string `json:"reply_id" binding:"required"`
}

// ResolveSocraticQuestion godoc
// @Summary Record the reply that answered a Socratic question
// @Router /arguments/socratic-questions/{id}/resolve [post]
func (h *ArgumentHandlers) ResolveSocraticQuestion(c *gin.Context) {
	var req resolveSocraticQuestionRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.hypergraph.ResolveSocraticQuestion(c.Request.Context(), c.Param("id"), req.ReplyID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}
