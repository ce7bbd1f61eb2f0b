package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orris-inc/klarnacheckout/internal/application/payment/paymentgateway"
	"github.com/orris-inc/klarnacheckout/internal/application/payment/usecases"
	"github.com/orris-inc/klarnacheckout/internal/shared/constants"
	"github.com/orris-inc/klarnacheckout/internal/shared/logger"
	"github.com/orris-inc/klarnacheckout/internal/shared/utils"
)

type CheckoutHandler struct {
	createSessionUC createSessionUseCase
	getSessionUC    getSessionUseCase
	handleReturnUC  handleReturnUseCase
	handlePushUC    handlePushUseCase
	logger          logger.Interface
}

func NewCheckoutHandler(
	createSessionUC createSessionUseCase,
	getSessionUC getSessionUseCase,
	handleReturnUC handleReturnUseCase,
	handlePushUC handlePushUseCase,
	logger logger.Interface,
) *CheckoutHandler {
	return &CheckoutHandler{
		createSessionUC: createSessionUC,
		getSessionUC:    getSessionUC,
		handleReturnUC:  handleReturnUC,
		handlePushUC:    handlePushUC,
		logger:          logger,
	}
}

// MerchantURLsRequest overrides the configured URLs. Terms is optional and
// falls back to the configured terms path.
type MerchantURLsRequest struct {
	Terms        string `json:"terms" binding:"omitempty,url"`
	Checkout     string `json:"checkout" binding:"required,url"`
	Confirmation string `json:"confirmation" binding:"required,url"`
	Push         string `json:"push" binding:"required,url"`
}

// CreateSessionRequest is optional; an empty body keeps the configured URLs.
type CreateSessionRequest struct {
	MerchantURLs *MerchantURLsRequest `json:"merchant_urls"`
}

// CreateSession handles POST /checkout/orders/:order_id/session
func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	orderID, err := utils.ParseUintParam(c, "order_id", "order")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warnw("invalid session request", "order_id", orderID, "error", err)
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid request: "+err.Error())
			return
		}
	}

	cmd := usecases.CreateOrUpdateSessionCommand{OrderID: orderID}
	if req.MerchantURLs != nil {
		cmd.MerchantURLs = &paymentgateway.MerchantURLs{
			Terms:        req.MerchantURLs.Terms,
			Checkout:     req.MerchantURLs.Checkout,
			Confirmation: req.MerchantURLs.Confirmation,
			Push:         req.MerchantURLs.Push,
		}
	}

	result, err := h.createSessionUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		h.logger.Errorw("failed to create checkout session", "order_id", orderID, "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	if result.Created {
		utils.CreatedResponse(c, ToSessionResponse(result), "checkout session created")
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "checkout session updated", ToSessionResponse(result))
}

// GetSession handles GET /checkout/sessions/:session_id
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	sessionID := c.Param("session_id")
	if sessionID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "session id is required")
		return
	}

	session, err := h.getSessionUC.Execute(c.Request.Context(), sessionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", ToRemoteSessionResponse(session))
}

// Confirmation handles GET /checkout/orders/:order_id/confirmation. Browsers
// get the provider snippet as HTML, API clients get JSON.
func (h *CheckoutHandler) Confirmation(c *gin.Context) {
	orderID, err := utils.ParseUintParam(c, "order_id", "order")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.handleReturnUC.Execute(c.Request.Context(), orderID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	switch c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) {
	case gin.MIMEHTML:
		utils.HTMLResponse(c, http.StatusOK, result.HTMLSnippet)
	default:
		utils.SuccessResponse(c, http.StatusOK, "checkout completed", ConfirmationResponse{
			Payment:     ToPaymentResponse(result.Payment),
			HTMLSnippet: result.HTMLSnippet,
		})
	}
}

// Push handles the provider push callback. It always answers 200 so the
// provider does not keep retrying; failures are logged by the use case.
func (h *CheckoutHandler) Push(c *gin.Context) {
	sessionID := c.Query(constants.QueryKlarnaOrderID)

	p := h.handlePushUC.Execute(c.Request.Context(), sessionID)
	if p == nil {
		utils.SuccessResponse(c, http.StatusOK, "push received", nil)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "push processed", ToPaymentResponse(p))
}
