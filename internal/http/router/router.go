package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/admin-otp-gateway/internal/config"
	"github.com/ignatzorin/admin-otp-gateway/internal/http/handlers"
	"github.com/ignatzorin/admin-otp-gateway/internal/http/middleware"
)

// SetupRouter собирает маршруты шлюза.
func SetupRouter(
	cfg *config.Config,
	loginHandler *handlers.LoginHandler,
	otpHandler *handlers.OTPHandler,
	healthHandler *handlers.HealthHandler,
	seedHandler *handlers.SeedHandler,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	if seedHandler != nil && cfg.Env == "development" {
		api.POST("/seed", seedHandler.Seed)
	}

	// Выдача кодов ограничена по IP поверх троттлинга по email.
	otpGroup := api.Group("/otp")
	otpGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		otpGroup.POST("/request", otpHandler.Request)
	}

	api.POST("/login", loginHandler.Login)

	return r
}
