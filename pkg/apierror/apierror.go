package apierror

import "fmt"

const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeInvalidArgument    = "INVALID_ARGUMENT"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeAccountDisabled    = "ACCOUNT_DISABLED"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeMissingToken       = "MISSING_TOKEN"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeUnauthenticated    = "UNAUTHENTICATED"
	CodeForbidden          = "FORBIDDEN"
	CodeAlreadyLiked       = "ALREADY_LIKED"
	CodeNotLiked           = "NOT_LIKED"
	CodeNotFound           = "NOT_FOUND"
	CodeConflict           = "CONFLICT"
	CodeRateLimited        = "RATE_LIMITED"
	CodeRequestTimeout     = "REQUEST_TIMEOUT"
	CodeInternal           = "INTERNAL_ERROR"
)

// APIError is an error with a stable code and the HTTP status it maps to.
// Message and Details are shown to the caller, so they must never carry
// storage or stack information.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}

	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}

	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func New(code string, message string, details string, status int) *APIError {
	return &APIError{Code: code, Message: message, Details: details, HTTPStatus: status}
}
