package migration

import (
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/persistence/models"
)

// AutoMigrateModels lists every persisted model, parents first.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.ProfileModel{},
		&models.OrderModel{},
		&models.OrderItemModel{},
		&models.OrderAdjustmentModel{},
		&models.PaymentModel{},
	}
}
