package dto

import "net/http"

// Transport-level error codes. Domain error codes pass through unchanged
// and are mapped to HTTP statuses below.
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_FAILED"
	ErrCodeInvalidJSON  = "INVALID_JSON"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeConflict     = "CONFLICT"
	ErrCodeRateLimited  = "RATE_LIMIT_EXCEEDED"
	ErrCodeBodyTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeUnavailable  = "SERVICE_UNAVAILABLE"
)

// errorCodeHTTPStatus maps error codes (transport and domain) to HTTP
// status codes. Codes not listed here fall back to 500.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeConflict:     http.StatusConflict,
	ErrCodeRateLimited:  http.StatusTooManyRequests,
	ErrCodeBodyTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeUnavailable:  http.StatusServiceUnavailable,

	// Validation and input errors from the domain layer
	"INVALID_INPUT":    http.StatusBadRequest,
	"INVALID_NAME":     http.StatusBadRequest,
	"INVALID_CODE":     http.StatusBadRequest,
	"INVALID_SKU":      http.StatusBadRequest,
	"INVALID_PRICE":    http.StatusBadRequest,
	"INVALID_QUANTITY": http.StatusBadRequest,
	"INVALID_RATE":     http.StatusBadRequest,
	"INVALID_WINDOW":   http.StatusBadRequest,
	"INVALID_REASON":   http.StatusBadRequest,
	"INVALID_LEVEL":    http.StatusBadRequest,
	"INVALID_PARENT":   http.StatusBadRequest,
	"INVALID_DATE":     http.StatusBadRequest,
	"INVALID_CHANNEL":  http.StatusBadRequest,
	"INVALID_SUBJECT":  http.StatusBadRequest,
	"INVALID_BODY":     http.StatusBadRequest,
	"INVALID_RECIPIENT": http.StatusBadRequest,

	// Auth errors
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"TOKEN_EXPIRED":       http.StatusUnauthorized,
	"TOKEN_REVOKED":       http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusUnauthorized,
	"OUT_OF_SCOPE":        http.StatusForbidden,

	// Resource errors
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"DUPLICATE_PRODUCT":    http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"INVALID_STATE":         http.StatusUnprocessableEntity,
	"EMPTY_ORDER":           http.StatusUnprocessableEntity,
	"ITEM_NOT_FOUND":        http.StatusUnprocessableEntity,
	"SUPPLIER_BLOCKED":      http.StatusUnprocessableEntity,
	"SUPPLIER_MISMATCH":     http.StatusUnprocessableEntity,
	"HIERARCHY_INACTIVE":    http.StatusUnprocessableEntity,
	"NOT_SHARED":            http.StatusUnprocessableEntity,
	"INVALID_NODE":          http.StatusUnprocessableEntity,
	"ALREADY_PARTICIPATING": http.StatusUnprocessableEntity,
	"NOT_PARTICIPATING":     http.StatusUnprocessableEntity,
	"TIER_OVERLAP":          http.StatusUnprocessableEntity,
	"ALREADY_SETTLED":       http.StatusUnprocessableEntity,
	"RATE_CONFIG_MISSING":   http.StatusUnprocessableEntity,
	"NO_EFFECTIVE_CONFIG":   http.StatusUnprocessableEntity,
	"INCOMPLETE_RECORD":     http.StatusUnprocessableEntity,
	"INVALID_PHOTO":         http.StatusUnprocessableEntity,
	"ALREADY_READ":          http.StatusUnprocessableEntity,
	"HAS_CHILDREN":          http.StatusUnprocessableEntity,
	"MAX_DEPTH":             http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 so that new domain codes fail loudly.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
