package payment

import (
	"fmt"
	"time"

	vo "github.com/orris-inc/klarnacheckout/internal/domain/payment/valueobjects"
	sharedvo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/shared/biztime"
	"github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

// Payment is the local record of an acknowledged provider checkout. There is
// at most one Payment per remote id.
type Payment struct {
	id          uint
	orderID     uint
	amount      sharedvo.Money
	state       vo.PaymentState
	remoteID    string
	remoteState string
	test        bool

	captureID    *string
	authorizedAt time.Time
	capturedAt   *time.Time

	metadata map[string]interface{}

	version   int
	createdAt time.Time
	updatedAt time.Time
}

// NewPayment creates an authorized payment for a completed remote session.
func NewPayment(orderID uint, amount sharedvo.Money, remoteID, remoteState string, test bool) (*Payment, error) {
	if orderID == 0 {
		return nil, fmt.Errorf("order ID is required")
	}
	if remoteID == "" {
		return nil, fmt.Errorf("remote ID is required")
	}
	if amount.Currency() == "" {
		return nil, fmt.Errorf("amount currency is required")
	}

	now := biztime.NowUTC()
	return &Payment{
		orderID:      orderID,
		amount:       amount,
		state:        vo.PaymentStateAuthorization,
		remoteID:     remoteID,
		remoteState:  remoteState,
		test:         test,
		authorizedAt: now,
		metadata:     make(map[string]interface{}),
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// CanCapture reports whether the payment is still awaiting settlement.
func (p *Payment) CanCapture() bool {
	return p.state.IsAuthorized()
}

// Capture settles the payment for amount. captureID may be empty when the
// provider did not return one.
func (p *Payment) Capture(amount sharedvo.Money, captureID string) error {
	if !p.CanCapture() {
		return errors.NewInvalidStateError(
			"payment cannot be captured",
			fmt.Sprintf("expected state %s, actual %s", vo.PaymentStateAuthorization, p.state),
		)
	}
	if amount.Currency() != p.amount.Currency() {
		return errors.NewInvalidArgumentError(
			"capture currency mismatch",
			fmt.Sprintf("payment %s, capture %s", p.amount.Currency(), amount.Currency()),
		)
	}

	now := biztime.NowUTC()
	p.state = vo.PaymentStateCompleted
	p.amount = amount
	if captureID != "" {
		p.captureID = &captureID
	}
	p.capturedAt = &now
	p.updatedAt = now
	p.version++

	return nil
}

func (p *Payment) ID() uint {
	return p.id
}

func (p *Payment) OrderID() uint {
	return p.orderID
}

func (p *Payment) Amount() sharedvo.Money {
	return p.amount
}

func (p *Payment) State() vo.PaymentState {
	return p.state
}

func (p *Payment) RemoteID() string {
	return p.remoteID
}

func (p *Payment) RemoteState() string {
	return p.remoteState
}

func (p *Payment) IsTest() bool {
	return p.test
}

// Clone returns an independent copy, so a state change can be tried before
// it is persisted.
func (p *Payment) Clone() *Payment {
	c := *p
	if p.captureID != nil {
		id := *p.captureID
		c.captureID = &id
	}
	if p.capturedAt != nil {
		at := *p.capturedAt
		c.capturedAt = &at
	}
	c.metadata = make(map[string]interface{}, len(p.metadata))
	for k, v := range p.metadata {
		c.metadata[k] = v
	}
	return &c
}

func (p *Payment) CaptureID() *string {
	return p.captureID
}

func (p *Payment) AuthorizedAt() time.Time {
	return p.authorizedAt
}

func (p *Payment) CapturedAt() *time.Time {
	return p.capturedAt
}

func (p *Payment) Metadata() map[string]interface{} {
	return p.metadata
}

// SetMetadata sets a metadata key-value pair
func (p *Payment) SetMetadata(key string, value interface{}) {
	if p.metadata == nil {
		p.metadata = make(map[string]interface{})
	}
	p.metadata[key] = value
	p.updatedAt = biztime.NowUTC()
}

func (p *Payment) Version() int {
	return p.version
}

func (p *Payment) CreatedAt() time.Time {
	return p.createdAt
}

func (p *Payment) UpdatedAt() time.Time {
	return p.updatedAt
}

// SetID sets the payment ID after persistence (used by repository after Create)
func (p *Payment) SetID(id uint) {
	p.id = id
}

// PaymentReconstructParams carries persisted state into ReconstructPayment.
type PaymentReconstructParams struct {
	ID           uint
	OrderID      uint
	Amount       sharedvo.Money
	State        vo.PaymentState
	RemoteID     string
	RemoteState  string
	Test         bool
	CaptureID    *string
	AuthorizedAt time.Time
	CapturedAt   *time.Time
	Metadata     map[string]interface{}
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ReconstructPayment(p PaymentReconstructParams) *Payment {
	metadata := p.Metadata
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return &Payment{
		id:           p.ID,
		orderID:      p.OrderID,
		amount:       p.Amount,
		state:        p.State,
		remoteID:     p.RemoteID,
		remoteState:  p.RemoteState,
		test:         p.Test,
		captureID:    p.CaptureID,
		authorizedAt: p.AuthorizedAt,
		capturedAt:   p.CapturedAt,
		metadata:     metadata,
		version:      p.Version,
		createdAt:    p.CreatedAt,
		updatedAt:    p.UpdatedAt,
	}
}
