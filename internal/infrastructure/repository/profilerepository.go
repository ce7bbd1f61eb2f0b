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

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Save(ctx context.Context, p *order.Profile) error {
	model := mappers.ProfileToModel(p)
	tx := db.GetTxFromContext(ctx, r.db)

	if model.ID == 0 {
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}
		p.ID = model.ID
		return nil
	}

	if err := tx.Save(model).Error; err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) GetByID(ctx context.Context, id uint) (*order.Profile, error) {
	var model models.ProfileModel

	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("profile not found", fmt.Sprintf("profile_id=%d", id))
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return mappers.ProfileToDomain(&model), nil
}
