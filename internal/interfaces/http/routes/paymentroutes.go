package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/klarnacheckout/internal/interfaces/http/handlers"
	"github.com/orris-inc/klarnacheckout/internal/interfaces/http/middleware"
)

// PaymentRouteConfig holds dependencies for payment routes.
type PaymentRouteConfig struct {
	PaymentHandler *handlers.PaymentHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// SetupPaymentRoutes configures operator payment routes.
func SetupPaymentRoutes(api *gin.RouterGroup, cfg *PaymentRouteConfig) {
	payments := api.Group("/payments")
	payments.Use(cfg.AuthMiddleware.RequireOperator())
	{
		payments.POST("/:id/capture", cfg.PaymentHandler.Capture)
	}
}
