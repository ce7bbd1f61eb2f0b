package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/usecases"
	sharedvo "github.com/orris-inc/klarnacheckout/internal/domain/shared/valueobjects"
	"github.com/orris-inc/klarnacheckout/internal/shared/constants"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
	"github.com/orris-inc/klarnacheckout/internal/shared/utils"
)

type PaymentHandler struct {
	captureUC capturePaymentUseCase
	logger    logger.Interface
}

func NewPaymentHandler(captureUC capturePaymentUseCase, logger logger.Interface) *PaymentHandler {
	return &PaymentHandler{
		captureUC: captureUC,
		logger:    logger,
	}
}

// CapturePaymentRequest captures the full authorized amount when Amount is empty.
type CapturePaymentRequest struct {
	Amount   *decimal.Decimal `json:"amount"`
	Currency string           `json:"currency" binding:"required_with=Amount"`
}

// Capture handles POST /payments/:id/capture
func (h *PaymentHandler) Capture(c *gin.Context) {
	paymentID, err := utils.ParseUintParam(c, "id", "payment")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CapturePaymentRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}
	}

	cmd := usecases.CapturePaymentCommand{PaymentID: paymentID}
	if req.Amount != nil {
		if len(req.Currency) != 3 {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: currency must be a 3-letter code")
			return
		}
		amount := sharedvo.NewMoney(*req.Amount, req.Currency)
		cmd.Amount = &amount
	}

	p, err := h.captureUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to capture payment", "payment_id", paymentID, "operator", c.GetString(constants.ContextKeyOperator), "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	h.logger.Infow("payment captured", "payment_id", paymentID, "operator", c.GetString(constants.ContextKeyOperator))
	utils.SuccessResponse(c, http.StatusOK, "payment captured", ToPaymentResponse(p))
}
