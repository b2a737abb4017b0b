package server

import (
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-authgate/internal/app/domain/auth"
	appmiddleware "github.com/FACorreiaa/go-authgate/internal/app/middleware"
	"github.com/FACorreiaa/go-authgate/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware
// and routes. The authorization gate sits after logging/recovery and
// before every page handler.
func SetupRouter(s *Server, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(otelgin.Middleware("go-authgate"))
	r.Use(appmiddleware.CORSMiddleware())
	r.Use(appmiddleware.SecurityMiddleware())

	gate := appmiddleware.NewAuthGate(s.TokenService(), s.CredentialRepo(), logger)
	r.Use(gate.Handler())

	service := auth.NewAuthService(s.CredentialRepo(), s.TokenService(), logger)
	handlers := auth.NewAuthHandlers(service, s.TokenService(), logger)
	routes.Setup(r, handlers, logger)

	return r
}
