package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fxvest/internal/auth"
	"fxvest/internal/service"
)

type AuthHandler struct {
	Accounts *service.AccountService
	JWT      auth.JWT
}

func NewAuthHandler(accounts *service.AccountService, j auth.JWT) *AuthHandler {
	return &AuthHandler{Accounts: accounts, JWT: j}
}

func (h *AuthHandler) Register(r *gin.Engine) {
	g := r.Group("/api/auth")
	g.POST("/register", h.register)
	g.POST("/login", h.login)

	protected := r.Group("/api/auth", auth.Middleware(h.JWT))
	protected.GET("/verify", h.verify)
	protected.POST("/logout", h.logout)
}

type registerRequest struct {
	Username     string `json:"username"`
	Phone        string `json:"phone"`
	Password     string `json:"password"`
	ReferralCode string `json:"referral_code"`
}

type loginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

func (h *AuthHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := h.Accounts.Register(c.Request.Context(), service.RegisterInput{
		Username:     req.Username,
		Phone:        req.Phone,
		Password:     req.Password,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Created(c, user)
}

func (h *AuthHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := h.Accounts.Login(c.Request.Context(), req.Phone, req.Password)
	if err != nil {
		ServiceError(c, err)
		return
	}

	token, expiresAt, err := h.JWT.Sign(auth.Claims{UserID: user.ID, Phone: user.Phone})
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, gin.H{
		"token":      token,
		"expires_at": expiresAt.UTC(),
		"user":       user,
	}, nil)
}

func (h *AuthHandler) verify(c *gin.Context) {
	user, err := h.Accounts.Profile(c.Request.Context(), auth.CallerID(c))
	if err != nil {
		ServiceError(c, err)
		return
	}
	Ok(c, gin.H{"valid": true, "user": user}, nil)
}

// logout is stateless: tokens expire on their own, the endpoint only gives
// clients a uniform place to end a session.
func (h *AuthHandler) logout(c *gin.Context) {
	Ok(c, gin.H{"logged_out": true}, nil)
}
