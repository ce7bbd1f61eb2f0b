package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/repository"
	"github.com/orris-inc/klarnacheckout/internal/shared/db"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	orderRepo   order.OrderRepository
	profileRepo order.ProfileRepository
	paymentRepo payment.PaymentRepository
	txManager   *db.TransactionManager
}

func newRepositories(database *gorm.DB) *repositories {
	return &repositories{
		orderRepo:   repository.NewOrderRepository(database),
		profileRepo: repository.NewProfileRepository(database),
		paymentRepo: repository.NewPaymentRepository(database),
		txManager:   db.NewTransactionManager(database),
	}
}
