package models

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
	Details []string    `json:"details,omitempty"`
}

// Error codes surfaced to clients.
const (
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeInvalidOrExpired   = "INVALID_OR_EXPIRED"
	CodeAttemptsExceeded   = "ATTEMPTS_EXCEEDED"
	CodeInvalidSignature   = "INVALID_SIGNATURE"
	CodePaymentDisabled    = "PAYMENT_DISABLED"
	CodeFeatureDisabled    = "FEATURE_DISABLED"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodeNotFound           = "NOT_FOUND"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInvalidStatus      = "INVALID_STATUS"
)
