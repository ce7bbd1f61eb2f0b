package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/persistence/models"
	"github.com/orris-inc/klarnacheckout/internal/shared/db"
	apperrors "github.com/orris-inc/klarnacheckout/internal/shared/errors"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Create fails with a duplicate key error when a payment for the same remote
// id exists. Callers resolve that race with GetByRemoteID.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	// Write back the auto-generated ID to the domain object
	p.SetID(model.ID)

	return nil
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	model := mappers.PaymentToModel(p)

	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"state":        model.State,
			"remote_state": model.RemoteState,
			"capture_id":   model.CaptureID,
			"captured_at":  model.CapturedAt,
			"metadata":     model.Metadata,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}

	// Note: RowsAffected may be 0 when updated values are identical to existing values.

	return nil
}

func (r *PaymentRepository) GetByID(ctx context.Context, id uint) (*payment.Payment, error) {
	var model models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("payment not found", fmt.Sprintf("payment_id=%d", id))
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}

	return mappers.PaymentToDomain(&model)
}

func (r *PaymentRepository) GetByRemoteID(ctx context.Context, remoteID string) (*payment.Payment, error) {
	var model models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("remote_id = ?", remoteID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment by remote_id: %w", err)
	}

	return mappers.PaymentToDomain(&model)
}

func (r *PaymentRepository) GetByOrderID(ctx context.Context, orderID uint) ([]*payment.Payment, error) {
	var paymentModels []models.PaymentModel

	if err := db.GetTxFromContext(ctx, r.db).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&paymentModels).Error; err != nil {
		return nil, fmt.Errorf("failed to get payments by order_id: %w", err)
	}

	payments := make([]*payment.Payment, len(paymentModels))
	for i, model := range paymentModels {
		p, err := mappers.PaymentToDomain(&model)
		if err != nil {
			return nil, err
		}
		payments[i] = p
	}

	return payments, nil
}
