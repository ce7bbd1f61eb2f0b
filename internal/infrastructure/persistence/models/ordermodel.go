package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/orris-inc/klarnacheckout/internal/shared/constants"
)

// OrderModel is the persisted host order. Items and adjustments live in
// their own tables and are loaded alongside.
type OrderModel struct {
	ID               uint            `gorm:"primaryKey"`
	OrderNumber      string          `gorm:"size:64;index"`
	StoreName        string          `gorm:"size:255"`
	Email            string          `gorm:"size:255"`
	Currency         string          `gorm:"size:3;not null"`
	TotalAmount      decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	BillingProfileID *uint           `gorm:"index"`
	Data             datatypes.JSONMap
	Version          int `gorm:"not null;default:1"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Items       []OrderItemModel       `gorm:"foreignKey:OrderID"`
	Adjustments []OrderAdjustmentModel `gorm:"foreignKey:OrderID"`
}

func (OrderModel) TableName() string {
	return constants.TableOrders
}

type OrderItemModel struct {
	ID         uint            `gorm:"primaryKey"`
	OrderID    uint            `gorm:"index;not null"`
	Label      string          `gorm:"size:255;not null"`
	SKU        string          `gorm:"size:128"`
	Quantity   decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(20,6);not null"`
	Position   int             `gorm:"not null;default:0"`
	CreatedAt  time.Time
}

func (OrderItemModel) TableName() string {
	return constants.TableOrderItems
}

// OrderAdjustmentModel stores both order level adjustments (OrderItemID nil)
// and item adjustments.
type OrderAdjustmentModel struct {
	ID          uint                `gorm:"primaryKey"`
	OrderID     uint                `gorm:"index;not null"`
	OrderItemID *uint               `gorm:"index"`
	Type        string              `gorm:"size:20;not null"`
	Label       string              `gorm:"size:255"`
	Amount      decimal.Decimal     `gorm:"type:decimal(20,6);not null"`
	Percentage  decimal.NullDecimal `gorm:"type:decimal(10,6)"`
	SourceID    string              `gorm:"size:128"`
	Included    bool                `gorm:"not null;default:false"`
	Position    int                 `gorm:"not null;default:0"`
}

func (OrderAdjustmentModel) TableName() string {
	return constants.TableOrderAdjustments
}
