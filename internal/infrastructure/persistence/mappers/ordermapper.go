package mappers

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/orris-inc/klarnacheckout/internal/domain/order"
	vo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/persistence/models"
)

// OrderToModel converts an order with its items and adjustments. Item
// adjustments reference their item through OrderItemID once items are saved,
// so the repository assigns those ids after inserting the items.
func OrderToModel(o *order.Order) *models.OrderModel {
	model := &models.OrderModel{
		ID:          o.ID(),
		OrderNumber: o.OrderNumber(),
		StoreName:   o.StoreName(),
		Email:       o.Email(),
		Currency:    o.Currency(),
		TotalAmount: o.Total().Amount(),
		Version:     o.Version(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}

	if profile := o.BillingProfile(); profile != nil && profile.ID != 0 {
		id := profile.ID
		model.BillingProfileID = &id
	}

	if data := o.Data(); len(data) > 0 {
		model.Data = data
	}

	for i, item := range o.Items() {
		model.Items = append(model.Items, models.OrderItemModel{
			ID:         item.ID,
			OrderID:    o.ID(),
			Label:      item.Label,
			SKU:        item.SKU,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.Amount(),
			TotalPrice: item.TotalPrice.Amount(),
			Position:   i,
		})
	}

	for i, adj := range o.Adjustments() {
		model.Adjustments = append(model.Adjustments, AdjustmentToModel(o.ID(), nil, i, adj))
	}

	return model
}

// ItemAdjustmentsToModels converts the adjustments of a saved item.
func ItemAdjustmentsToModels(orderID uint, item *order.Item) []models.OrderAdjustmentModel {
	if len(item.Adjustments) == 0 {
		return nil
	}
	itemID := item.ID
	out := make([]models.OrderAdjustmentModel, 0, len(item.Adjustments))
	for i, adj := range item.Adjustments {
		out = append(out, AdjustmentToModel(orderID, &itemID, i, adj))
	}
	return out
}

func AdjustmentToModel(orderID uint, itemID *uint, position int, adj order.Adjustment) models.OrderAdjustmentModel {
	model := models.OrderAdjustmentModel{
		OrderID:     orderID,
		OrderItemID: itemID,
		Type:        adj.Type.String(),
		Label:       adj.Label,
		Amount:      adj.Amount.Amount(),
		SourceID:    adj.SourceID,
		Included:    adj.Included,
		Position:    position,
	}
	if adj.Percentage != nil {
		model.Percentage = decimal.NewNullDecimal(*adj.Percentage)
	}
	return model
}

// OrderToDomain rebuilds an order. adjustments holds every adjustment row of
// the order, order level and item level alike, in position order.
func OrderToDomain(model *models.OrderModel, adjustments []models.OrderAdjustmentModel, profile *order.Profile) (*order.Order, error) {
	currency := model.Currency

	itemAdjustments := make(map[uint][]order.Adjustment)
	var orderAdjustments []order.Adjustment
	for _, am := range adjustments {
		adj, err := AdjustmentToDomain(am, currency)
		if err != nil {
			return nil, err
		}
		if am.OrderItemID != nil {
			itemAdjustments[*am.OrderItemID] = append(itemAdjustments[*am.OrderItemID], adj)
			continue
		}
		orderAdjustments = append(orderAdjustments, adj)
	}

	items := make([]*order.Item, 0, len(model.Items))
	for _, im := range model.Items {
		items = append(items, &order.Item{
			ID:          im.ID,
			Label:       im.Label,
			SKU:         im.SKU,
			Quantity:    im.Quantity,
			UnitPrice:   vo.NewMoney(im.UnitPrice, currency),
			TotalPrice:  vo.NewMoney(im.TotalPrice, currency),
			Adjustments: itemAdjustments[im.ID],
		})
	}

	var data map[string]any
	if model.Data != nil {
		data = map[string]any(model.Data)
	}

	return order.ReconstructOrder(order.OrderReconstructParams{
		ID:             model.ID,
		OrderNumber:    model.OrderNumber,
		StoreName:      model.StoreName,
		Email:          model.Email,
		Total:          vo.NewMoney(model.TotalAmount, currency),
		Items:          items,
		Adjustments:    orderAdjustments,
		BillingProfile: profile,
		Data:           data,
		Version:        model.Version,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}), nil
}

func AdjustmentToDomain(model models.OrderAdjustmentModel, currency string) (order.Adjustment, error) {
	adjType := order.AdjustmentType(model.Type)
	if !adjType.IsValid() {
		return order.Adjustment{}, fmt.Errorf("invalid adjustment type: %s", model.Type)
	}

	adj := order.Adjustment{
		Type:     adjType,
		Label:    model.Label,
		Amount:   vo.NewMoney(model.Amount, currency),
		SourceID: model.SourceID,
		Included: model.Included,
	}
	if model.Percentage.Valid {
		pct := model.Percentage.Decimal
		adj.Percentage = &pct
	}
	return adj, nil
}
