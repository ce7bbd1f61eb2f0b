package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/sessionbuilder"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/usecases"
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	"github.com/orris-inc/klarnacheckout/internal/domain/shared/events"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/auth"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/cache"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/config"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/currency"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/email"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/klarna"
	"github.com/orris-inc/klarnacheckout/internal/interfaces/http/middleware"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

const eventBufferSize = 100

// Container holds all infrastructure components, repositories, use cases and
// handlers. It is responsible for wiring everything together and providing a
// Shutdown() method for graceful termination.
type Container struct {
	// Core infrastructure
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client // nil when redis is disabled

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter // nil when rate limiting is disabled

	jwtSvc     *auth.JWTService
	dispatcher *events.InMemoryEventDispatcher
	registry   *klarna.Registry
}

// NewContainer wires the checkout application. redisClient may be nil.
func NewContainer(db *gorm.DB, redisClient *redis.Client, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		redis:  redisClient,
	}

	// Section 1: Infrastructure - repositories, events, auth
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Checkout - provider client, builders, use cases
	deps, err := c.initCheckout()
	if err != nil {
		c.Shutdown()
		return nil, err
	}
	c.initUseCases(deps)

	// Section 3: Handlers and middlewares
	if err := c.initHandlers(); err != nil {
		c.Shutdown()
		return nil, err
	}
	c.initMiddlewares()

	return c, nil
}

func (c *Container) initInfrastructure() error {
	c.repos = newRepositories(c.db)

	c.dispatcher = events.NewInMemoryEventDispatcher(eventBufferSize, c.log.Named("events"))
	if err := c.subscribeEventHandlers(); err != nil {
		return err
	}
	if err := c.dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start event dispatcher: %w", err)
	}

	c.jwtSvc = auth.NewJWTService(c.cfg.Auth.JWT.Secret, c.cfg.Auth.JWT.Issuer, c.cfg.Auth.JWT.TokenTTL)
	return nil
}

func (c *Container) subscribeEventHandlers() error {
	auditLog := c.log.Named("payment.audit")
	audit := events.HandlerFunc(func(event events.DomainEvent) error {
		auditLog.Infow("payment event",
			"event_type", event.GetEventType(),
			"payment_id", event.GetAggregateID(),
			"occurred_at", event.GetOccurredAt())
		return nil
	})
	for _, eventType := range []string{payment.EventTypePaymentAuthorized, payment.EventTypePaymentCaptured} {
		if err := c.dispatcher.Subscribe(eventType, audit); err != nil {
			return err
		}
	}

	if !c.cfg.Email.Enabled {
		return nil
	}

	sender := email.NewSMTPEmailService(email.SMTPConfig{
		Host:        c.cfg.Email.SMTPHost,
		Port:        c.cfg.Email.SMTPPort,
		Username:    c.cfg.Email.SMTPUser,
		Password:    c.cfg.Email.SMTPPassword,
		FromAddress: c.cfg.Email.FromAddress,
		FromName:    c.cfg.Email.FromName,
	})
	alerts := email.NewMismatchAlertHandler(sender, c.cfg.Email.AlertAddress, c.log.Named("email.alert"))
	if err := alerts.Subscribe(c.dispatcher); err != nil {
		return fmt.Errorf("failed to subscribe mismatch alerts: %w", err)
	}
	c.log.Infow("mismatch alerts enabled", "to", c.cfg.Email.AlertAddress)
	return nil
}

func (c *Container) initCheckout() (checkoutDeps, error) {
	kc := c.cfg.Klarna

	clientCfg, err := klarna.ConfigFromSettings(kc)
	if err != nil {
		return checkoutDeps{}, err
	}

	c.registry = klarna.NewRegistry(kc.ClientCacheTTL, kc.ClientCacheSize, c.log.Named("klarna"),
		klarna.WithLogger(c.log.Named("klarna.http")),
	)

	converter := sessionbuilder.NewMoneyConverter(currency.NewResolver(c.cfg.Currency.FractionDigits))
	aggregator := sessionbuilder.NewAdjustmentAggregator(sessionbuilder.NewDefaultAdjustmentTransformer(converter))
	hooks := sessionbuilder.NopHooks{}

	deps := checkoutDeps{
		clients:   klarna.NewProvider(c.registry, clientCfg),
		converter: converter,
		builder:   sessionbuilder.NewRequestBuilder(kc, c.cfg.Server.BaseURL, converter, aggregator, hooks),
		hooks:     hooks,
		publisher: c.dispatcher,
	}

	if c.redis != nil {
		deps.locker = cache.NewRedisSessionLocker(c.redis, c.cfg.Redis.LockTTL, c.cfg.Redis.LockWait, c.log.Named("checkout.lock"))
	}

	c.log.Infow("checkout provider configured",
		"base_url", clientCfg.BaseURL,
		"test_mode", kc.IsTestMode(),
		"auto_capture", kc.Capture,
		"session_lock", deps.locker != nil)

	return deps, nil
}

func (c *Container) initMiddlewares() {
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, c.log.Named("http.auth"))

	if c.redis != nil && c.cfg.Redis.RateLimit > 0 {
		c.rateLimiter = middleware.NewRateLimiter(c.redis, "session", c.cfg.Redis.RateLimit, c.cfg.Redis.RateWindow, c.log.Named("http.ratelimit"))
	}
}

// Shutdown stops background components. It is safe to call more than once.
func (c *Container) Shutdown() {
	if c.dispatcher != nil {
		if err := c.dispatcher.Stop(); err != nil {
			c.log.Warnw("failed to stop event dispatcher", "error", err)
		}
		c.dispatcher = nil
	}
}

var _ usecases.SessionLocker = (*cache.RedisSessionLocker)(nil)
