package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/agoraforge/agora/internal/application/search"
	"github.com/agoraforge/agora/pkg/models"
)

// SearchHandlers exposes semantic search over HTTP.
type SearchHandlers struct {
	search *search.Service
}

// NewSearchHandlers wires the search handlers.
func NewSearchHandlers(s *search.Service) *SearchHandlers {
	return &SearchHandlers{search: s}
}

// searchResultItem is the wire shape for one search hit: exactly one of post/reply is set.
type searchResultItem struct {
	Post     *models.Post  `json:"post,omitempty"`
	Reply    *models.Reply `json:"reply,omitempty"`
	Distance float64       `json:"distance"`
}

// Search godoc
// @Summary Semantic search over posts and replies
// @Router /search [get]
func (h *SearchHandlers) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, &models.ValidationError{Field: "q", Message: "q is required"})
		return
	}
	if searchType := c.DefaultQuery("type", "semantic"); searchType != "semantic" {
		respondError(c, &models.ValidationError{Field: "type", Message: "unknown search type"})
		return
	}

	limit, _ := pagingParams(c, search.DefaultLimit, search.MaxLimit)

	hits, err := h.search.SearchContent(c.Request.Context(), query, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]searchResultItem, len(hits))
	for i, hit := range hits {
		items[i] = searchResultItem{Post: hit.Post, Reply: hit.Reply, Distance: hit.Distance}
	}
	respondOK(c, items)
}
