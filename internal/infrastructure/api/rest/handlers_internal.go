package rest

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agoraforge/agora/internal/infrastructure/cache"
	"github.com/agoraforge/agora/pkg/models"
)

const (
	maxBlockTTLSeconds     = 30 * 86400
	defaultBlockTTLSeconds = 3600
)

// InternalHandlers exposes the hidden operator routes guarded by InternalAuthMiddleware.
type InternalHandlers struct {
	blocklist *cache.IPBlocklist
}

// NewInternalHandlers wires the internal handlers.
func NewInternalHandlers(blocklist *cache.IPBlocklist) *InternalHandlers {
	return &InternalHandlers{blocklist: blocklist}
}

type blockIPRequest struct {
	IP         string `json:"ip" binding:"required"`
	TTLSeconds int    `json:"ttlSeconds"`
}

// BlockIP godoc
// @Summary Block an IP for a bounded TTL
// @Router /internal/block-ip [post]
func (h *InternalHandlers) BlockIP(c *gin.Context) {
	var req blockIPRequest
	if !bindJSON(c, &req) {
		return
	}

	ttl := req.TTLSeconds
	if ttl == 0 {
		ttl = defaultBlockTTLSeconds
	}
	if ttl < 1 || ttl > maxBlockTTLSeconds {
		respondError(c, &models.ValidationError{Field: "ttlSeconds", Message: "ttlSeconds must be between 1 and 2592000"})
		return
	}

	if err := h.blocklist.Block(c.Request.Context(), req.IP, time.Duration(ttl)*time.Second); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, nil)
}

// ListBlockedIPs godoc
// @Summary List currently-blocked IPs
// @Router /internal/blocked-ips [get]
func (h *InternalHandlers) ListBlockedIPs(c *gin.Context) {
	ips, err := h.blocklist.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"ips": ips})
}
