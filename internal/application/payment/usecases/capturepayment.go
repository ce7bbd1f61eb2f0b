package usecases

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/sessionbuilder"
	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	"github.com/orris-inc/klarnacheckout/internal/domain/shared/events"
	sharedvo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
)

type CapturePaymentCommand struct {
	PaymentID uint
	// Amount defaults to the full authorized amount.
	Amount *sharedvo.Money
}

// CapturePaymentUseCase settles an authorized payment with the provider.
// Failed captures leave the payment untouched and are not retried.
type CapturePaymentUseCase struct {
	paymentRepo payment.PaymentRepository
	orderRepo   order.OrderRepository
	clients     paymentgateway.ClientProvider
	converter   *sessionbuilder.MoneyConverter
	lines       *sessionbuilder.LineItemBuilder
	publisher   events.EventPublisher // Optional
	logger      logger.Interface
}

func NewCapturePaymentUseCase(
	paymentRepo payment.PaymentRepository,
	orderRepo order.OrderRepository,
	clients paymentgateway.ClientProvider,
	converter *sessionbuilder.MoneyConverter,
	lines *sessionbuilder.LineItemBuilder,
	logger logger.Interface,
) *CapturePaymentUseCase {
	return &CapturePaymentUseCase{
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
		clients:     clients,
		converter:   converter,
		lines:       lines,
		logger:      logger,
	}
}

// SetEventPublisher sets the publisher for payment.captured events (optional dependency injection)
func (uc *CapturePaymentUseCase) SetEventPublisher(publisher events.EventPublisher) {
	uc.publisher = publisher
}

func (uc *CapturePaymentUseCase) Execute(ctx context.Context, cmd CapturePaymentCommand) (*payment.Payment, error) {
	p, err := uc.paymentRepo.GetByID(ctx, cmd.PaymentID)
	if err != nil {
		return nil, err
	}
	return uc.Capture(ctx, p, nil, cmd.Amount)
}

// Capture settles p. o may be nil, in which case the order is loaded to
// rebuild the order lines.
func (uc *CapturePaymentUseCase) Capture(ctx context.Context, p *payment.Payment, o *order.Order, amount *sharedvo.Money) (*payment.Payment, error) {
	if !p.CanCapture() {
		return nil, apperrors.NewInvalidStateError(
			"payment cannot be captured",
			fmt.Sprintf("payment %d is in state %s", p.ID(), p.State()),
		)
	}

	captureAmount := p.Amount()
	if amount != nil {
		captureAmount = *amount
	}
	if captureAmount.Currency() != p.Amount().Currency() {
		return nil, apperrors.NewInvalidArgumentError("capture currency must match the payment currency",
			fmt.Sprintf("payment %s, capture %s", p.Amount().Currency(), captureAmount.Currency()))
	}
	if !captureAmount.IsPositive() {
		return nil, apperrors.NewInvalidArgumentError("capture amount must be positive")
	}

	minor, err := uc.converter.ToMinorUnits(captureAmount)
	if err != nil {
		return nil, err
	}
	req := &paymentgateway.CaptureRequest{
		CapturedAmount: minor,
		IdempotencyKey: captureIdempotencyKey(p, minor),
	}

	// Lines only describe a full capture; the provider rejects lines that do
	// not add up to the captured amount.
	if captureAmount.Equals(p.Amount()) {
		if o == nil {
			if o, err = uc.orderRepo.GetByID(ctx, p.OrderID()); err != nil {
				return nil, err
			}
		}
		if req.OrderLines, err = uc.lines.Build(o); err != nil {
			return nil, err
		}
	}

	client, err := uc.clients.Client()
	if err != nil {
		return nil, err
	}

	capture, err := client.CreateCapture(ctx, p.RemoteID(), req)
	if err != nil {
		uc.logger.Errorw("failed to capture payment",
			"payment_id", p.ID(),
			"session_id", p.RemoteID(),
			"amount", captureAmount.String(),
			"error", err,
		)
		return nil, apperrors.Wrap(apperrors.ErrorTypePaymentGateway, "failed to capture payment", err)
	}

	// p keeps reflecting the stored row until the update succeeds.
	captured := p.Clone()
	if err := captured.Capture(captureAmount, capture.ID); err != nil {
		return nil, err
	}
	if err := uc.paymentRepo.Update(ctx, captured); err != nil {
		uc.logger.Errorw("payment captured remotely but local update failed",
			"payment_id", p.ID(),
			"session_id", p.RemoteID(),
			"capture_id", capture.ID,
			"error", err,
		)
		appErr := apperrors.NewCaptureNotRecordedError(
			"payment captured by the provider but not recorded",
			fmt.Sprintf("payment_id=%d capture_id=%s", p.ID(), capture.ID),
		)
		appErr.Err = err
		return nil, appErr
	}

	uc.logger.Infow("payment captured",
		"payment_id", captured.ID(),
		"session_id", captured.RemoteID(),
		"capture_id", capture.ID,
		"amount", captureAmount.String(),
	)

	if uc.publisher != nil {
		if err := uc.publisher.Publish(payment.NewPaymentCapturedEvent(captured)); err != nil {
			uc.logger.Warnw("failed to publish payment captured event", "payment_id", captured.ID(), "error", err)
		}
	}

	return captured, nil
}

// captureIdempotencyKey is stable for one stored payment version and amount,
// so repeating a capture whose result was never recorded settles nothing new.
func captureIdempotencyKey(p *payment.Payment, minor int64) string {
	name := fmt.Sprintf("capture:%s:%d:%d:%d", p.RemoteID(), p.ID(), p.Version(), minor)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}
