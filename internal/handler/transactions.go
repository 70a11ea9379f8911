package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fxvest/internal/auth"
	"fxvest/internal/service"
)

type TransactionHandler struct {
	Accounts *service.AccountService
	JWT      auth.JWT
}

func NewTransactionHandler(accounts *service.AccountService, j auth.JWT) *TransactionHandler {
	return &TransactionHandler{Accounts: accounts, JWT: j}
}

func (h *TransactionHandler) Register(r *gin.Engine) {
	g := r.Group("/api/transactions", auth.Middleware(h.JWT))
	g.GET("", h.list)
	g.POST("/deposit", h.deposit)
	g.POST("/deposit/:id/confirm", h.confirmDeposit)
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func (h *TransactionHandler) list(c *gin.Context) {
	items, err := h.Accounts.Transactions(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, items, map[string]any{"total": len(items)})
}

func (h *TransactionHandler) deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	txn, err := h.Accounts.Deposit(c.Request.Context(), auth.CallerID(c), req.Amount)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, txn)
}

func (h *TransactionHandler) confirmDeposit(c *gin.Context) {
	id := uint64Param(c, "id")
	if id == 0 {
		Error(c, http.StatusBadRequest, "invalid id", nil)
		return
	}
	txn, err := h.Accounts.ConfirmDeposit(c.Request.Context(), auth.CallerID(c), id)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, txn, nil)
}
