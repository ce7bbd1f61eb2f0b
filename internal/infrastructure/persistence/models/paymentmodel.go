package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/orris-inc/klarnacheckout/internal/shared/constants"
)

// PaymentModel is the local record of an acknowledged checkout. RemoteID
// carries a unique index so concurrent acknowledgements cannot both insert.
type PaymentModel struct {
	ID           uint            `gorm:"primaryKey"`
	OrderID      uint            `gorm:"index;not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Currency     string          `gorm:"size:3;not null"`
	State        string          `gorm:"size:20;not null;index"`
	RemoteID     string          `gorm:"uniqueIndex;size:128;not null"`
	RemoteState  string          `gorm:"size:64"`
	Test         bool            `gorm:"not null;default:false"`
	CaptureID    *string         `gorm:"size:128"`
	AuthorizedAt time.Time       `gorm:"not null"`
	CapturedAt   *time.Time
	Metadata     datatypes.JSONMap
	Version      int `gorm:"not null;default:1"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PaymentModel) TableName() string {
	return constants.TablePayments
}
