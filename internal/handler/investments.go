package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fxvest/internal/auth"
	"fxvest/internal/service"
)

type InvestmentHandler struct {
	Investments *service.InvestmentService
	JWT         auth.JWT
}

func NewInvestmentHandler(investments *service.InvestmentService, j auth.JWT) *InvestmentHandler {
	return &InvestmentHandler{Investments: investments, JWT: j}
}

func (h *InvestmentHandler) Register(r *gin.Engine) {
	g := r.Group("/api/investments", auth.Middleware(h.JWT))
	g.GET("", h.list)
	g.GET("/earnings", h.earnings)
	g.POST("", h.open)
	g.POST("/:id/close", h.close)
}

type openInvestmentRequest struct {
	Pair     string          `json:"pair"`
	Amount   decimal.Decimal `json:"amount"`
	DailyROI decimal.Decimal `json:"daily_roi"`
}

func (h *InvestmentHandler) list(c *gin.Context) {
	items, err := h.Investments.List(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, map[string]any{"total": len(items)})
}

func (h *InvestmentHandler) earnings(c *gin.Context) {
	summary, err := h.Investments.Earnings(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, summary, nil)
}

func (h *InvestmentHandler) open(c *gin.Context) {
	var req openInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	inv, err := h.Investments.Open(c.Request.Context(), auth.CallerID(c), service.OpenInput{
		Pair:     req.Pair,
		Amount:   req.Amount,
		DailyROI: req.DailyROI,
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, inv)
}

func (h *InvestmentHandler) close(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	inv, err := h.Investments.Close(c.Request.Context(), auth.CallerID(c), id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, inv, nil)
}
