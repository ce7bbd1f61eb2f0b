package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/persistence/models"
	"github.com/orris-inc/klarnacheckout/internal/shared/db"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order with its items and adjustments. Item ids are
// written back to the domain items.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	model := mappers.OrderToModel(o)

	return db.GetTxFromContext(ctx, r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		o.SetID(model.ID)

		var itemAdjustments []models.OrderAdjustmentModel
		for i, item := range o.Items() {
			item.ID = model.Items[i].ID
			itemAdjustments = append(itemAdjustments, mappers.ItemAdjustmentsToModels(model.ID, item)...)
		}

		if len(itemAdjustments) > 0 {
			if err := tx.Create(&itemAdjustments).Error; err != nil {
				return fmt.Errorf("failed to create item adjustments: %w", err)
			}
		}

		return nil
	})
}

// Update writes the fields checkout owns: email, data bag and billing
// profile reference. Items and adjustments belong to the host order system.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	model := mappers.OrderToModel(o)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.OrderModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"email":              model.Email,
			"data":               model.Data,
			"billing_profile_id": model.BillingProfileID,
			"version":            model.Version,
			"updated_at":         model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}

	return nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*order.Order, error) {
	tx := db.GetTxFromContext(ctx, r.db)

	var model models.OrderModel
	err := tx.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&model, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("order not found", fmt.Sprintf("order_id=%d", id))
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	var adjustments []models.OrderAdjustmentModel
	if err := tx.
		Where("order_id = ?", id).
		Order("position ASC, id ASC").
		Find(&adjustments).Error; err != nil {
		return nil, fmt.Errorf("failed to get order adjustments: %w", err)
	}

	var profile *order.Profile
	if model.BillingProfileID != nil {
		var profileModel models.ProfileModel
		err := tx.First(&profileModel, *model.BillingProfileID).Error
		switch {
		case err == nil:
			profile = mappers.ProfileToDomain(&profileModel)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, fmt.Errorf("failed to get billing profile: %w", err)
		}
	}

	return mappers.OrderToDomain(&model, adjustments, profile)
}
