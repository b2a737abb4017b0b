package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-authgate/internal/app/domain/auth"
)

// Setup registers pages and API endpoints. The authorization gate runs as
// router middleware before any of these handlers; the /api group matches
// the gate's exclusion list and enforces nothing route-side beyond its own
// handler logic.
func Setup(r *gin.Engine, handlers *auth.AuthHandlers, logger *zap.Logger) {
	r.GET("/", landingPage)
	r.GET("/login", loginPage)
	r.GET("/admin/dashboard", adminDashboardPage)
	r.GET("/user/dashboard", userDashboardPage)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/login", handlers.Login)
		api.POST("/logout", handlers.Logout)
	}

	logger.Info("Routes registered")
}
