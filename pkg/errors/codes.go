package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_003"
	ErrCodeConflict           ErrorCode = "COMMON_004"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_005"
	ErrCodeTimeout            ErrorCode = "COMMON_006"
	ErrCodeValidation         ErrorCode = "COMMON_007"
	ErrCodeSerialization      ErrorCode = "COMMON_008"
	ErrCodeDatabaseError      ErrorCode = "COMMON_009"
	ErrCodeCacheError         ErrorCode = "COMMON_010"
	ErrCodeMessagingError     ErrorCode = "COMMON_011"
	ErrCodeNotImplemented     ErrorCode = "COMMON_012"

	// CodeOK is the sentinel for "no error"; GetCode returns it for nil.
	CodeOK ErrorCode = "OK"
	// CodeUnknown is returned by GetCode when no AppError is in the chain.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// Entity Module Error Codes
const (
	ErrCodeEntityNotFound    ErrorCode = "ENT_001"
	ErrCodeEntityListFailed  ErrorCode = "ENT_002"
	ErrCodeEntityNameInvalid ErrorCode = "ENT_003"
)

// Case Corpus Module Error Codes
const (
	ErrCodeCaseQueryFailed ErrorCode = "CASE_001"
	ErrCodeCaseScanFailed  ErrorCode = "CASE_002"
)

// Analytics Module Error Codes
const (
	ErrCodeAnalyticsNotFound     ErrorCode = "ANA_001"
	ErrCodeAnalyticsUpsertFailed ErrorCode = "ANA_002"
	ErrCodeAnalyticsLockBusy     ErrorCode = "ANA_003"
	ErrCodeSweepAborted          ErrorCode = "ANA_004"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes for callers
// that surface them over an API.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeEntityNotFound:    http.StatusNotFound,
	ErrCodeEntityListFailed:  http.StatusInternalServerError,
	ErrCodeEntityNameInvalid: http.StatusBadRequest,

	ErrCodeCaseQueryFailed: http.StatusInternalServerError,
	ErrCodeCaseScanFailed:  http.StatusInternalServerError,

	ErrCodeAnalyticsNotFound:     http.StatusNotFound,
	ErrCodeAnalyticsUpsertFailed: http.StatusInternalServerError,
	ErrCodeAnalyticsLockBusy:     http.StatusConflict,
	ErrCodeSweepAborted:          http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default human readable messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "operation timed out",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "message publish failed",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeEntityNotFound:    "entity not found",
	ErrCodeEntityListFailed:  "failed to list entities",
	ErrCodeEntityNameInvalid: "entity display name is invalid",

	ErrCodeCaseQueryFailed: "failed to query case records",
	ErrCodeCaseScanFailed:  "failed to scan case record row",

	ErrCodeAnalyticsNotFound:     "analytics record not found",
	ErrCodeAnalyticsUpsertFailed: "failed to upsert analytics record",
	ErrCodeAnalyticsLockBusy:     "another recomputation holds the entity lock",
	ErrCodeSweepAborted:          "analytics sweep aborted",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError reports whether the ErrorCode maps to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError reports whether the ErrorCode maps to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode
// ("COMMON", "ENT", "CASE", "ANA").
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
