package rest

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/agoraforge/agora/internal/application/analysis"
	"github.com/agoraforge/agora/internal/application/content"
	"github.com/agoraforge/agora/internal/application/search"
	"github.com/agoraforge/agora/pkg/models"
)

// PostHandlers exposes the post/reply content store over HTTP.
type PostHandlers struct {
	content  *content.Service
	search   *search.Service
	analysis *analysis.Service
}

// NewPostHandlers wires the post/reply handlers.
func NewPostHandlers(content *content.Service, search *search.Service, analysis *analysis.Service) *PostHandlers {
	return &PostHandlers{content: content, search: search, analysis: analysis}
}

type createPostRequest struct {
	Title   string `json:"title" binding:"required,min=1,max=300"`
	Content string `json:"content" binding:"max=40000"`
}

// CreatePost godoc
// @Summary Create a post
// @Router /posts [post]
func (h *PostHandlers) CreatePost(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	var req createPostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.content.CreatePost(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.search != nil {
		_ = h.search.IndexContent(c.Request.Context(), "post", post.ID, req.Title+"\n"+req.Content)
	}
	h.submitAnalysis(models.AnalysisSourcePost, post.ID, req.Title+"\n"+req.Content, post.AnalysisContentHash)

	respondCreated(c, post)
}

// submitAnalysis opens an analysis run for freshly-created content in the background: the
// discourse engine round-trip shouldn't hold up the caller's response.
func (h *PostHandlers) submitAnalysis(sourceType models.AnalysisSourceType, sourceID, content, contentHash string) {
	if h.analysis == nil {
		return
	}
	go func() {
		_, _ = h.analysis.Submit(context.Background(), sourceType, sourceID, content, contentHash)
	}()
}

// GetPost godoc
// @Summary Fetch a post
// @Router /posts/{id} [get]
func (h *PostHandlers) GetPost(c *gin.Context) {
	post, err := h.content.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, post)
}

// DeletePost godoc
// @Summary Soft-delete a post
// @Router /posts/{id} [delete]
func (h *PostHandlers) DeletePost(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	if err := h.content.SoftDeletePost(c.Request.Context(), c.Param("id"), userID, IsSystemCaller(c)); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}

type createReplyRequest struct {
	Content          string  `json:"content" binding:"max=10000"`
	ParentReplyID    *string `json:"parent_reply_id,omitempty"`
	QuotedText       *string `json:"quoted_text,omitempty" binding:"omitempty,max=2000"`
	QuotedSourceType *string `json:"quoted_source_type,omitempty" binding:"omitempty,oneof=post reply"`
	QuotedSourceID   *string `json:"quoted_source_id,omitempty"`
}

// CreateReply godoc
// @Summary Reply to a post or another reply
// @Router /posts/{id}/replies [post]
func (h *PostHandlers) CreateReply(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	var req createReplyRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.content.CreateReply(c.Request.Context(), userID, c.Param("id"), req.ParentReplyID, req.Content, req.QuotedText, req.QuotedSourceType, req.QuotedSourceID)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.search != nil {
		_ = h.search.IndexContent(c.Request.Context(), "reply", reply.ID, req.Content)
	}
	h.submitAnalysis(models.AnalysisSourceReply, reply.ID, req.Content, content.NormalizedHash("", req.Content))

	respondCreated(c, reply)
}

// ListReplies godoc
// @Summary Paginated, threaded replies for a post
// @Router /posts/{id}/replies [get]
func (h *PostHandlers) ListReplies(c *gin.Context) {
	limit, cursor := pagingParams(c, 20, 100)
	ordering := models.ReplyOrdering(c.Query("ordering"))

	replies, nextCursor, hasMore, err := h.content.ListReplies(c.Request.Context(), c.Param("id"), ordering, limit, cursor)
	if err != nil {
		respondError(c, err)
		return
	}
	respondPage(c, replies, nextCursor, hasMore)
}

// GetReply godoc
// @Summary Fetch a reply
// @Router /replies/{id} [get]
func (h *PostHandlers) GetReply(c *gin.Context) {
	reply, err := h.content.GetReply(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, reply)
}

// DeleteReply godoc
// @Summary Soft-delete a reply
// @Router /replies/{id} [delete]
func (h *PostHandlers) DeleteReply(c *gin.Context) {
	userID, ok := RequireUserID(c)
	if !ok {
		return
	}

	if err := h.content.SoftDeleteReply(c.Request.Context(), c.Param("id"), userID, IsSystemCaller(c)); err != nil {
		respondError(c, err)
		return
	}
	respondNoContent(c)
}
