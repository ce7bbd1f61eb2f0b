package usecases

import "context"

// SessionLocker serializes reconciliation per provider session id.
type SessionLocker interface {
	// Acquire blocks until the lock is held or ctx is done. The returned
	// release function must be called exactly once.
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

// ReconciliationSettings are the checkout options that drive acknowledgement.
type ReconciliationSettings struct {
	// Capture settles the payment right after authorization.
	Capture bool
	// UpdateBillingProfile copies the provider billing address onto the order.
	UpdateBillingProfile bool
	// TestMode marks created payments as test payments.
	TestMode bool
}
