package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fxvest/internal/auth"
	"fxvest/internal/service"
)

type AdminHandler struct {
	Batch      *service.CommissionBatch
	Rates      *service.RateService
	AdminToken string
}

func NewAdminHandler(batch *service.CommissionBatch, rates *service.RateService, adminToken string) *AdminHandler {
	return &AdminHandler{Batch: batch, Rates: rates, AdminToken: adminToken}
}

func (h *AdminHandler) Register(r *gin.Engine) {
	g := r.Group("/api/admin", auth.AdminMiddleware(h.AdminToken))
	g.POST("/commissions/run", h.runCommissions)
	g.GET("/rates", h.currentRates)
	g.POST("/rates", h.publishRates)
}

// runCommissions triggers a settlement run out of schedule. Without a day
// parameter it settles the previous UTC day, same as the cron job; the run
// is idempotent either way.
func (h *AdminHandler) runCommissions(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		result service.BatchResult
		err    error
	)
	if raw := strings.TrimSpace(c.Query("day")); raw != "" {
		day, parseErr := time.Parse("2006-01-02", raw)
		if parseErr != nil {
			Error(c, http.StatusBadRequest, "invalid day, expected YYYY-MM-DD", nil)
			return
		}
		result, err = h.Batch.RunForDay(ctx, day)
	} else {
		result, err = h.Batch.RunDailyCommissions(ctx)
	}
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, gin.H{
		"day":       result.Day.Format("2006-01-02"),
		"positions": result.Positions,
		"credited":  result.Credited,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	}, nil)
}

func (h *AdminHandler) currentRates(c *gin.Context) {
	rates, err := h.Rates.Current(c.Request.Context())
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, rates, nil)
}

type publishRatesRequest struct {
	OneTimeRewards map[string]decimal.Decimal `json:"one_time_rewards"`
	Level1Rate     decimal.Decimal            `json:"level1_rate"`
	Level2Rate     decimal.Decimal            `json:"level2_rate"`
	Level3Rate     decimal.Decimal            `json:"level3_rate"`
}

func (h *AdminHandler) publishRates(c *gin.Context) {
	var req publishRatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	rates, err := h.Rates.Publish(c.Request.Context(), req.OneTimeRewards, req.Level1Rate, req.Level2Rate, req.Level3Rate)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, rates)
}
