package handlers

import (
	"net/http"

	"github.com/SscSPs/bank_ledger/cmd/docs"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/SscSPs/bank_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RateLimiters holds the optional limiters applied to routes. Nil disables a limit.
type RateLimiters struct {
	Login *limiter.Limiter
	API   *limiter.Limiter
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	limiters RateLimiters,
) {
	registerValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	public := r.Group("/api/v1")
	protected := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))
	if limiters.API != nil {
		public.Use(middleware.GinMiddlewarize(limiters.API))
		protected.Use(middleware.GinMiddlewarize(limiters.API))
	}

	var loginLimit gin.HandlerFunc
	if limiters.Login != nil {
		loginLimit = middleware.RateLimit(limiters.Login)
	}

	registerAuthRoutes(public, protected, services.Auth, loginLimit)
	registerAccountRoutes(protected, services.Account)
	registerTransactionRoutes(protected, services.Ledger)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
