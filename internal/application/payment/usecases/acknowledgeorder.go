package usecases

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/sessionbuilder"
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	"github.com/orris-inc/klarnacheckout/internal/domain/shared/events"
	"github.com/orris-inc/klarnacheckout/internal/shared/db"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
	"github.com/orris-inc/klarnacheckout/internal/shared/utils"
)

type AcknowledgeOrderCommand struct {
	SessionID string
	// Order is optional. When nil it is resolved from the session's
	// merchant_reference2.
	Order *order.Order
}

// AcknowledgeOrderUseCase turns a completed provider checkout into a local
// authorized payment. It is safe to run repeatedly for the same session:
// every call after the first returns the existing payment.
type AcknowledgeOrderUseCase struct {
	paymentRepo payment.PaymentRepository
	orderRepo   order.OrderRepository
	profileRepo order.ProfileRepository
	clients     paymentgateway.ClientProvider
	converter   *sessionbuilder.MoneyConverter
	hooks       sessionbuilder.Hooks
	txManager   db.Transactor
	capturer    *CapturePaymentUseCase
	settings    ReconciliationSettings
	publisher   events.EventPublisher // Optional
	locker      SessionLocker         // Optional
	logger      logger.Interface
}

func NewAcknowledgeOrderUseCase(
	paymentRepo payment.PaymentRepository,
	orderRepo order.OrderRepository,
	profileRepo order.ProfileRepository,
	clients paymentgateway.ClientProvider,
	converter *sessionbuilder.MoneyConverter,
	hooks sessionbuilder.Hooks,
	txManager db.Transactor,
	capturer *CapturePaymentUseCase,
	settings ReconciliationSettings,
	logger logger.Interface,
) *AcknowledgeOrderUseCase {
	if hooks == nil {
		hooks = sessionbuilder.NopHooks{}
	}
	return &AcknowledgeOrderUseCase{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		profileRepo: profileRepo,
		clients:     clients,
		converter:   converter,
		hooks:       hooks,
		txManager:   txManager,
		capturer:    capturer,
		settings:    settings,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher (optional dependency injection)
func (uc *AcknowledgeOrderUseCase) SetEventPublisher(publisher events.EventPublisher) {
	uc.publisher = publisher
}

// SetSessionLocker sets the per-session lock (optional dependency injection)
func (uc *AcknowledgeOrderUseCase) SetSessionLocker(locker SessionLocker) {
	uc.locker = locker
}

func (uc *AcknowledgeOrderUseCase) Execute(ctx context.Context, cmd AcknowledgeOrderCommand) (*payment.Payment, error) {
	if cmd.SessionID == "" {
		return nil, apperrors.NewInvalidArgumentError("session id is required")
	}

	if uc.locker != nil {
		release, err := uc.locker.Acquire(ctx, cmd.SessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to lock session %s: %w", cmd.SessionID, err)
		}
		defer release()
	}

	client, err := uc.clients.Client()
	if err != nil {
		return nil, err
	}

	session, err := client.FetchSession(ctx, cmd.SessionID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypePaymentGateway, "failed to fetch checkout session", err)
	}
	if !session.IsComplete() {
		return nil, apperrors.NewPaymentGatewayError(fmt.Sprintf(
			"unexpected checkout order status (expected: %s, actual: %s)",
			paymentgateway.StatusCheckoutComplete, session.Status,
		))
	}

	existing, err := uc.paymentRepo.GetByRemoteID(ctx, cmd.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payment: %w", err)
	}
	if existing != nil {
		uc.logger.Infow("checkout session already acknowledged", "session_id", cmd.SessionID, "payment_id", existing.ID())
		return existing, nil
	}

	o := cmd.Order
	if o == nil {
		if o, err = uc.resolveOrder(ctx, session); err != nil {
			return nil, err
		}
	}

	if err := uc.hooks.ValidateCompletedSession(ctx, o, session); err != nil {
		uc.logger.Warnw("completed checkout session rejected", "session_id", cmd.SessionID, "order_id", o.ID(), "error", err)
		return nil, apperrors.Wrap(apperrors.ErrorTypePaymentGateway, "checkout session rejected", err)
	}

	if err := client.Acknowledge(ctx, cmd.SessionID); err != nil {
		uc.logger.Errorw("cannot acknowledge checkout order", "session_id", cmd.SessionID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrorTypePaymentGateway, "failed to acknowledge checkout order", err)
	}

	// The provider amount is authoritative even when it differs from the
	// order total.
	amount, err := uc.converter.FromMinorUnits(session.OrderAmount, session.PurchaseCurrency)
	if err != nil {
		return nil, err
	}

	p, err := payment.NewPayment(o.ID(), amount, session.ID, session.Status, uc.settings.TestMode)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrorTypeInternal, "failed to create payment", err)
	}

	err = uc.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if uc.settings.UpdateBillingProfile {
			if err := uc.updateBillingProfile(txCtx, o, session); err != nil {
				return err
			}
		}
		return uc.paymentRepo.Create(txCtx, p)
	})
	if err != nil {
		if apperrors.IsDuplicateError(err) {
			// A concurrent delivery for the same session won the insert.
			winner, lookupErr := uc.paymentRepo.GetByRemoteID(ctx, cmd.SessionID)
			if lookupErr == nil && winner != nil {
				uc.logger.Infow("checkout session acknowledged concurrently", "session_id", cmd.SessionID, "payment_id", winner.ID())
				return winner, nil
			}
		}
		uc.logger.Errorw("failed to persist payment", "session_id", cmd.SessionID, "order_id", o.ID(), "error", err)
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}

	uc.logger.Infow("payment authorized",
		"payment_id", p.ID(),
		"order_id", o.ID(),
		"session_id", session.ID,
		"amount", amount.String(),
	)

	uc.publish(payment.NewPaymentAuthorizedEvent(p))
	if !amount.Equals(o.Total()) {
		uc.logger.Warnw("order total mismatch",
			"session_id", session.ID,
			"order_id", o.ID(),
			"provider_total", amount.String(),
			"order_total", o.Total().String(),
		)
		uc.publish(payment.NewOrderAmountMismatchEvent(p, o.Total()))
	}

	if uc.settings.Capture && uc.capturer != nil {
		captured, err := uc.capturer.Capture(ctx, p, o, nil)
		if err != nil {
			// The authorization is committed and p still matches the stored
			// row; capture can be retried by an operator.
			if apperrors.IsCaptureNotRecordedError(err) {
				uc.logger.Errorw("automatic capture settled by provider but not recorded, retry the capture to record it",
					"payment_id", p.ID(),
					"session_id", session.ID,
					"error", err,
				)
				return p, nil
			}
			uc.logger.Errorw("automatic capture failed, payment stays authorized",
				"payment_id", p.ID(),
				"session_id", session.ID,
				"error", err,
			)
			return p, nil
		}
		return captured, nil
	}

	return p, nil
}

func (uc *AcknowledgeOrderUseCase) resolveOrder(ctx context.Context, session *paymentgateway.RemoteSession) (*order.Order, error) {
	orderID, err := strconv.ParseUint(strings.TrimSpace(session.MerchantReference2), 10, 64)
	if err != nil || orderID == 0 {
		return nil, apperrors.NewPaymentGatewayError(
			"checkout session does not reference an order",
			fmt.Sprintf("merchant_reference2=%q", session.MerchantReference2),
		)
	}
	o, err := uc.orderRepo.GetByID(ctx, uint(orderID))
	if err != nil {
		return nil, fmt.Errorf("failed to load order %d: %w", orderID, err)
	}
	return o, nil
}

func (uc *AcknowledgeOrderUseCase) updateBillingProfile(ctx context.Context, o *order.Order, session *paymentgateway.RemoteSession) error {
	profile := o.BillingProfile()
	if profile == nil {
		profile = order.NewProfile()
	}

	sessionbuilder.PopulateProfile(profile, session.BillingAddress)
	if err := uc.hooks.AlterBillingProfile(ctx, profile, session); err != nil {
		return fmt.Errorf("failed to alter billing profile: %w", err)
	}
	if err := uc.profileRepo.Save(ctx, profile); err != nil {
		return fmt.Errorf("failed to save billing profile: %w", err)
	}
	o.SetBillingProfile(profile)

	if email := strings.TrimSpace(session.BillingAddress[sessionbuilder.AddressKeyEmail]); email != "" {
		o.SetEmail(email)
		uc.logger.Debugw("order email updated from billing address", "order_id", o.ID(), "email", utils.MaskEmail(email))
	}

	if err := uc.orderRepo.Update(ctx, o); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	return nil
}

func (uc *AcknowledgeOrderUseCase) publish(event events.DomainEvent) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.Publish(event); err != nil {
		uc.logger.Warnw("failed to publish event", "event_type", event.GetEventType(), "error", err)
	}
}
