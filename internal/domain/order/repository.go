package order

import "context"

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	// Update persists email, data bag and billing profile reference.
	Update(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id uint) (*Order, error)
}

type ProfileRepository interface {
	// Save inserts a profile with a zero ID and updates otherwise.
	Save(ctx context.Context, profile *Profile) error
	GetByID(ctx context.Context, id uint) (*Profile, error)
}
