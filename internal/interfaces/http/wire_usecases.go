package http

import (
	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/sessionbuilder"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/usecases"
	"github.com/orris-inc/klarnacheckout/internal/domain/shared/events"
)

// allUseCases holds all use case instances used by the application.
type allUseCases struct {
	createSessionUC *usecases.CreateOrUpdateSessionUseCase
	getSessionUC    *usecases.GetSessionUseCase
	snippetUC       *usecases.GetCompletionSnippetUseCase
	captureUC       *usecases.CapturePaymentUseCase
	acknowledgeUC   *usecases.AcknowledgeOrderUseCase
	handleReturnUC  *usecases.HandleReturnUseCase
	handlePushUC    *usecases.HandlePushUseCase
}

// checkoutDeps are the building blocks shared by the checkout use cases.
type checkoutDeps struct {
	clients   paymentgateway.ClientProvider
	converter *sessionbuilder.MoneyConverter
	builder   *sessionbuilder.RequestBuilder
	hooks     sessionbuilder.Hooks
	publisher events.EventPublisher
	locker    usecases.SessionLocker // Optional
}

func (c *Container) initUseCases(deps checkoutDeps) {
	repos := c.repos
	kc := c.cfg.Klarna

	ucs := &allUseCases{}

	ucs.createSessionUC = usecases.NewCreateOrUpdateSessionUseCase(
		repos.orderRepo, deps.clients, deps.builder, c.log.Named("checkout.session"),
	)
	ucs.getSessionUC = usecases.NewGetSessionUseCase(deps.clients, c.log.Named("checkout.session"))
	ucs.snippetUC = usecases.NewGetCompletionSnippetUseCase(deps.clients)

	ucs.captureUC = usecases.NewCapturePaymentUseCase(
		repos.paymentRepo, repos.orderRepo, deps.clients, deps.converter, deps.builder.Lines(),
		c.log.Named("checkout.capture"),
	)
	ucs.captureUC.SetEventPublisher(deps.publisher)

	ucs.acknowledgeUC = usecases.NewAcknowledgeOrderUseCase(
		repos.paymentRepo,
		repos.orderRepo,
		repos.profileRepo,
		deps.clients,
		deps.converter,
		deps.hooks,
		repos.txManager,
		ucs.captureUC,
		usecases.ReconciliationSettings{
			Capture:              kc.Capture,
			UpdateBillingProfile: kc.UpdateBillingProfile,
			TestMode:             kc.IsTestMode(),
		},
		c.log.Named("checkout.reconcile"),
	)
	ucs.acknowledgeUC.SetEventPublisher(deps.publisher)
	if deps.locker != nil {
		ucs.acknowledgeUC.SetSessionLocker(deps.locker)
	}

	ucs.handleReturnUC = usecases.NewHandleReturnUseCase(
		repos.orderRepo, ucs.acknowledgeUC, ucs.snippetUC, c.log.Named("checkout.return"),
	)
	ucs.handlePushUC = usecases.NewHandlePushUseCase(ucs.acknowledgeUC, c.log.Named("checkout.push"))

	c.ucs = ucs
}
