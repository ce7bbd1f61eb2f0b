package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/orris-inc/klarnacheckout/internal/interfaces/http/handlers"
	"github.com/orris-inc/klarnacheckout/internal/interfaces/http/middleware"
)

// CheckoutRouteConfig holds dependencies for checkout routes.
type CheckoutRouteConfig struct {
	CheckoutHandler *handlers.CheckoutHandler
	AuthMiddleware  *middleware.AuthMiddleware
	RateLimiter     *middleware.RateLimiter // Optional
}

// SetupCheckoutRoutes configures checkout routes. The confirmation and push
// endpoints are called by the customer's browser and the provider, so they
// are not authenticated.
func SetupCheckoutRoutes(api *gin.RouterGroup, cfg *CheckoutRouteConfig) {
	checkout := api.Group("/checkout")
	{
		sessionHandlers := []gin.HandlerFunc{}
		if cfg.RateLimiter != nil {
			sessionHandlers = append(sessionHandlers, cfg.RateLimiter.Limit())
		}
		sessionHandlers = append(sessionHandlers, cfg.CheckoutHandler.CreateSession)

		checkout.POST("/orders/:order_id/session", sessionHandlers...)
		checkout.GET("/orders/:order_id/confirmation", cfg.CheckoutHandler.Confirmation)

		checkout.GET("/push", cfg.CheckoutHandler.Push)
		checkout.POST("/push", cfg.CheckoutHandler.Push)

		checkout.GET("/sessions/:session_id", cfg.AuthMiddleware.RequireOperator(), cfg.CheckoutHandler.GetSession)
	}
}
