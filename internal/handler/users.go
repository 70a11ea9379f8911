package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fxvest/internal/auth"
	"fxvest/internal/service"
)

type UserHandler struct {
	Accounts *service.AccountService
	JWT      auth.JWT
}

func NewUserHandler(accounts *service.AccountService, j auth.JWT) *UserHandler {
	return &UserHandler{Accounts: accounts, JWT: j}
}

func (h *UserHandler) Register(r *gin.Engine) {
	g := r.Group("/api/users", auth.Middleware(h.JWT))
	g.GET("/profile", h.profile)
	g.PUT("/profile", h.updateProfile)
}

type updateProfileRequest struct {
	Username string `json:"username"`
}

func (h *UserHandler) profile(c *gin.Context) {
	user, err := h.Accounts.Profile(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, user, nil)
}

func (h *UserHandler) updateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	user, err := h.Accounts.UpdateProfile(c.Request.Context(), auth.CallerID(c), req.Username)
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, user, nil)
}
