package constants

const (
	// Environment constants
	EnvDevelopment = "development"
	EnvTest        = "test"
	EnvProduction  = "production"

	// HTTP Headers
	HeaderContentType   = "Content-Type"
	HeaderAuthorization = "Authorization"
	HeaderXRequestID    = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"

	// Content Types
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html; charset=utf-8"

	// Context keys
	ContextKeyOperator  = "operator"
	ContextKeyRequestID = "request_id"

	// Database table names
	TableOrders           = "orders"
	TableOrderItems       = "order_items"
	TableOrderAdjustments = "order_adjustments"
	TableProfiles         = "profiles"
	TablePayments         = "payments"

	// Query parameter the provider substitutes with its checkout order id.
	QueryKlarnaOrderID = "klarna_order_id"

	// Error messages
	ErrMsgInternalServerError = "Internal server error occurred"
	ErrMsgResourceNotFound    = "Resource not found"
	ErrMsgUnauthorized        = "Unauthorized access"
	ErrMsgForbidden           = "Access forbidden"
	ErrMsgValidationFailed    = "Validation failed"
)
