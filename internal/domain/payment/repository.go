package payment

import "context"

type PaymentRepository interface {
	// Create fails with a duplicate error when remote_id already exists.
	Create(ctx context.Context, payment *Payment) error
	Update(ctx context.Context, payment *Payment) error
	GetByID(ctx context.Context, id uint) (*Payment, error)
	// GetByRemoteID returns nil, nil when no payment exists.
	GetByRemoteID(ctx context.Context, remoteID string) (*Payment, error)
	GetByOrderID(ctx context.Context, orderID uint) ([]*Payment, error)
}
