package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/storefront-backend/internal/errors"
	"github.com/ikkim/storefront-backend/internal/db"
	"github.com/ikkim/storefront-backend/internal/middleware"
	"gorm.io/gorm"
)

const healthCheckTimeout = 2 * time.Second

type HealthController struct {
	conn *gorm.DB
}

func NewHealthController(conn *gorm.DB) *HealthController {
	return &HealthController{conn: conn}
}

// Health reports whether the server can reach its database
// GET /health
func (ctrl *HealthController) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := db.Ping(ctx, ctrl.conn); err != nil {
		middleware.GetLoggerFromContext(c).Error("Health check failed", err)
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.InternalDatabaseError, "Database unavailable.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Storefront API is running",
	})
}
