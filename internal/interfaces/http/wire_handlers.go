package http

import (
	"github.com/orris-inc/klarnacheckout/internal/interfaces/http/handlers"
)

// allHandlers holds all HTTP handler instances used by the application.
type allHandlers struct {
	checkoutHandler *handlers.CheckoutHandler
	paymentHandler  *handlers.PaymentHandler
	healthHandler   *handlers.HealthHandler
}

func (c *Container) initHandlers() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}

	c.hdlrs = &allHandlers{
		checkoutHandler: handlers.NewCheckoutHandler(
			c.ucs.createSessionUC,
			c.ucs.getSessionUC,
			c.ucs.handleReturnUC,
			c.ucs.handlePushUC,
			c.log.Named("http.checkout"),
		),
		paymentHandler: handlers.NewPaymentHandler(c.ucs.captureUC, c.log.Named("http.payment")),
		healthHandler:  handlers.NewHealthHandler(sqlDB),
	}
	return nil
}
