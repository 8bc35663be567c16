package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation and input error codes
const (
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeBadRequest   = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON  = "ERR_INVALID_JSON"
	ErrCodeTooLarge     = "ERR_REQUEST_TOO_LARGE"
)

// Ledger field error codes
const (
	ErrCodeInvalidAmount      = "ERR_INVALID_AMOUNT"
	ErrCodeInvalidVATRate     = "ERR_INVALID_VAT_RATE"
	ErrCodeInvalidPaymentType = "ERR_INVALID_PAYMENT_TYPE"
	ErrCodeInvalidPaymentPlan = "ERR_INVALID_PAYMENT_PLAN"
	ErrCodeInvalidProjectCode = "ERR_INVALID_PROJECT_CODE"
	ErrCodeInvalidClientName  = "ERR_INVALID_CLIENT_NAME"
	ErrCodeInvalidStatus      = "ERR_INVALID_STATUS"
	ErrCodeInvalidCategory    = "ERR_INVALID_CATEGORY"
	ErrCodeInvalidCostType    = "ERR_INVALID_COST_TYPE"
	ErrCodeInvalidSupplier    = "ERR_INVALID_SUPPLIER"
	ErrCodeInvalidWebhookURL  = "ERR_INVALID_WEBHOOK_URL"
	ErrCodeMalformedImport    = "ERR_MALFORMED_IMPORT"
)

// Resource and state error codes
const (
	ErrCodeNotFound        = "ERR_NOT_FOUND"
	ErrCodeInvalidState    = "ERR_INVALID_STATE"
	ErrCodeNotConfigured   = "ERR_EXPORT_NOT_CONFIGURED"
	ErrCodeNoStorage       = "ERR_STORAGE_NOT_CONFIGURED"
	ErrCodePersistence     = "ERR_PERSISTENCE_FAILED"
	ErrCodeExportFailed    = "ERR_EXPORT_FAILED"
	ErrCodeServiceNotReady = "ERR_SERVICE_NOT_READY"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	ErrCodeInvalidAmount:      http.StatusBadRequest,
	ErrCodeInvalidVATRate:     http.StatusBadRequest,
	ErrCodeInvalidPaymentType: http.StatusBadRequest,
	ErrCodeInvalidPaymentPlan: http.StatusBadRequest,
	ErrCodeInvalidProjectCode: http.StatusBadRequest,
	ErrCodeInvalidClientName:  http.StatusBadRequest,
	ErrCodeInvalidStatus:      http.StatusBadRequest,
	ErrCodeInvalidCategory:    http.StatusBadRequest,
	ErrCodeInvalidCostType:    http.StatusBadRequest,
	ErrCodeInvalidSupplier:    http.StatusBadRequest,
	ErrCodeInvalidWebhookURL:  http.StatusBadRequest,
	ErrCodeMalformedImport:    http.StatusBadRequest,

	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeInvalidState:    http.StatusUnprocessableEntity,
	ErrCodeNotConfigured:   http.StatusConflict,
	ErrCodeNoStorage:       http.StatusServiceUnavailable,
	ErrCodePersistence:     http.StatusBadGateway,
	ErrCodeExportFailed:    http.StatusBadGateway,
	ErrCodeServiceNotReady: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// domainCodeMapping maps domain error codes that do not follow the ERR_ form
var domainCodeMapping = map[string]string{
	"PROJECT_NOT_FOUND": ErrCodeNotFound,
	"VALIDATION_ERROR":  ErrCodeValidation,
	"INTERNAL_ERROR":    ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the ERR_ format.
// Codes already in that format are returned as-is.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainCodeMapping[code]; ok {
		return mapped
	}
	if code == "" {
		return ErrCodeUnknown
	}
	if strings.HasPrefix(code, "ERR_") {
		return code
	}
	return "ERR_" + code
}
