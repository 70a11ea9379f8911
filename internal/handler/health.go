package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fxvest/internal/db"
)

type HealthHandler struct {
	DB *db.DB
}

func NewHealthHandler(database *db.DB) *HealthHandler {
	return &HealthHandler{DB: database}
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.healthz)
	r.GET("/readyz", h.readyz)
}

func (h *HealthHandler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) readyz(c *gin.Context) {
	if h.DB != nil {
		if err := db.Ping(h.DB); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
