package http

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/klarnacheckout/internal/infrastructure/config"
	"github.com/orris-inc/klarnacheckout/internal/interfaces/http/middleware"
	"github.com/orris-inc/klarnacheckout/internal/interfaces/http/routes"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

// Router represents the HTTP router configuration
type Router struct {
	*Container
}

// NewRouter creates a new HTTP router with all dependencies
func NewRouter(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Router, error) {
	c, err := NewContainer(db, redisClient, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Router{Container: c}, nil
}

// SetupRoutes configures all HTTP routes
func (r *Router) SetupRoutes() {
	r.engine.Use(middleware.Recovery(r.log.Named("http.recovery")))
	r.engine.Use(middleware.CustomLogger(r.log.Named("http")))
	r.engine.Use(middleware.CORS(r.cfg.Server.AllowedOrigins))

	r.engine.GET("/health", r.hdlrs.healthHandler.Check)

	api := r.engine.Group("/api")

	routes.SetupCheckoutRoutes(api, &routes.CheckoutRouteConfig{
		CheckoutHandler: r.hdlrs.checkoutHandler,
		AuthMiddleware:  r.authMiddleware,
		RateLimiter:     r.rateLimiter,
	})

	routes.SetupPaymentRoutes(api, &routes.PaymentRouteConfig{
		PaymentHandler: r.hdlrs.paymentHandler,
		AuthMiddleware: r.authMiddleware,
	})
}

// GetEngine returns the gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
