package mappers

import (
	"fmt"

	"github.com/orris-inc/klarnacheckout/internal/domain/payment"
	vo "github.com/orris-inc/klarnacheckout/internal/domain/payment/valueobjects"
	sharedvo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/infrastructure/persistence/models"
)

func PaymentToModel(p *payment.Payment) *models.PaymentModel {
	model := &models.PaymentModel{
		ID:           p.ID(),
		OrderID:      p.OrderID(),
		Amount:       p.Amount().Amount(),
		Currency:     p.Amount().Currency(),
		State:        p.State().String(),
		RemoteID:     p.RemoteID(),
		RemoteState:  p.RemoteState(),
		Test:         p.IsTest(),
		CaptureID:    p.CaptureID(),
		AuthorizedAt: p.AuthorizedAt(),
		CapturedAt:   p.CapturedAt(),
		Version:      p.Version(),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}

	if len(p.Metadata()) > 0 {
		model.Metadata = p.Metadata()
	}

	return model
}

func PaymentToDomain(model *models.PaymentModel) (*payment.Payment, error) {
	state := vo.PaymentState(model.State)
	if !state.IsValid() {
		return nil, fmt.Errorf("invalid payment state: %s", model.State)
	}

	return payment.ReconstructPayment(payment.PaymentReconstructParams{
		ID:           model.ID,
		OrderID:      model.OrderID,
		Amount:       sharedvo.NewMoney(model.Amount, model.Currency),
		State:        state,
		RemoteID:     model.RemoteID,
		RemoteState:  model.RemoteState,
		Test:         model.Test,
		CaptureID:    model.CaptureID,
		AuthorizedAt: model.AuthorizedAt,
		CapturedAt:   model.CapturedAt,
		Metadata:     model.Metadata,
		Version:      model.Version,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}), nil
}
