package handler

import (
	"github.com/gin-gonic/gin"

	"fxvest/internal/auth"
	"fxvest/internal/service"
)

type ReferralHandler struct {
	Stats *service.StatsService
	JWT   auth.JWT
}

func NewReferralHandler(stats *service.StatsService, j auth.JWT) *ReferralHandler {
	return &ReferralHandler{Stats: stats, JWT: j}
}

func (h *ReferralHandler) Register(r *gin.Engine) {
	g := r.Group("/api/referral", auth.Middleware(h.JWT))
	g.GET("/stats", h.stats)
	g.GET("/history", h.history)
}

func (h *ReferralHandler) stats(c *gin.Context) {
	out, err := h.Stats.ReferralStats(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, out, nil)
}

func (h *ReferralHandler) history(c *gin.Context) {
	entries, err := h.Stats.ReferralHistory(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	if entries == nil {
		entries = []service.ReferralEntry{}
	}
	Ok(c, entries, map[string]any{"total": len(entries)})
}
