package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the caller lacks permission
	ErrCodeForbidden = "ERR_FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodePresenceRequired is used when the author has no verified session
	ErrCodePresenceRequired = "ERR_PRESENCE_REQUIRED"
	// ErrCodeLocationRejected is used when a location proof fails verification
	ErrCodeLocationRejected = "ERR_LOCATION_REJECTED"
	// ErrCodeOutsideWorkingHours is used when an entry falls outside site hours
	ErrCodeOutsideWorkingHours = "ERR_OUTSIDE_WORKING_HOURS"
	// ErrCodeSequenceViolation is used when work-type ordering is broken
	ErrCodeSequenceViolation = "ERR_SEQUENCE_VIOLATION"
	// ErrCodeDuplicateEntry is used when an identical committed entry exists
	ErrCodeDuplicateEntry = "ERR_DUPLICATE_ENTRY"
	// ErrCodePresenceConflict is used when an open session exists elsewhere
	ErrCodePresenceConflict = "ERR_PRESENCE_CONFLICT"
	// ErrCodeLockBusy is used when a presence slot is held by a concurrent request
	ErrCodeLockBusy = "ERR_LOCK_BUSY"
	// ErrCodeBoundaryLocked is used when a boundary republish is blocked
	ErrCodeBoundaryLocked = "ERR_BOUNDARY_LOCKED"
	// ErrCodeOpenViolations is used when closeout is blocked by open violations
	ErrCodeOpenViolations = "ERR_OPEN_VIOLATIONS"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodePayloadTooLarge is used when the request body exceeds the limit
	ErrCodePayloadTooLarge = "ERR_PAYLOAD_TOO_LARGE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// Business rule errors -> 422 Unprocessable Entity unless the rule
	// expresses a conflict with existing state
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:        http.StatusUnprocessableEntity,
	ErrCodePresenceRequired:    http.StatusUnprocessableEntity,
	ErrCodeLocationRejected:    http.StatusUnprocessableEntity,
	ErrCodeOutsideWorkingHours: http.StatusUnprocessableEntity,
	ErrCodeSequenceViolation:   http.StatusUnprocessableEntity,
	ErrCodeDuplicateEntry:      http.StatusConflict,
	ErrCodePresenceConflict:    http.StatusConflict,
	ErrCodeLockBusy:            http.StatusTooManyRequests,
	ErrCodeBoundaryLocked:      http.StatusConflict,
	ErrCodeOpenViolations:      http.StatusConflict,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeInvalidInput:    http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodePayloadTooLarge: http.StatusRequestEntityTooLarge,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DomainErrorCodeMapping maps domain error codes to the API error codes
var DomainErrorCodeMapping = map[string]string{
	"NOT_FOUND":                    ErrCodeNotFound,
	"ALREADY_EXISTS":               ErrCodeAlreadyExists,
	"INVALID_INPUT":                ErrCodeInvalidInput,
	"INVALID_STATE":                ErrCodeInvalidState,
	"CONCURRENCY_CONFLICT":         ErrCodeConcurrencyConflict,
	"VALIDATION_ERROR":             ErrCodeValidation,
	"BAD_REQUEST":                  ErrCodeBadRequest,
	"INTERNAL_ERROR":               ErrCodeInternal,
	"UNAUTHORIZED":                 ErrCodeUnauthorized,
	"FORBIDDEN":                    ErrCodeForbidden,
	"OUTSIDE_WORKING_HOURS":        ErrCodeOutsideWorkingHours,
	"SEQUENCE_VIOLATION":           ErrCodeSequenceViolation,
	"NO_VERIFIED_PRESENCE":         ErrCodePresenceRequired,
	"LOCATION_UNVERIFIABLE":        ErrCodeLocationRejected,
	"OUTSIDE_WORK_ZONE":            ErrCodeLocationRejected,
	"PROOF_EXPIRED":                ErrCodeLocationRejected,
	"DUPLICATE_ENTRY":              ErrCodeDuplicateEntry,
	"CONCURRENT_PRESENCE_CONFLICT": ErrCodePresenceConflict,
	"PRESENCE_LOCK_BUSY":           ErrCodeLockBusy,
	"SITE_BOUNDARY_LOCKED":         ErrCodeBoundaryLocked,
	"INVALID_VIOLATION_TRANSITION": ErrCodeInvalidState,
	"SITE_HAS_OPEN_VIOLATIONS":     ErrCodeOpenViolations,
	"INVALID_COORDINATE":           ErrCodeValidationRange,
	"INVALID_POLYGON":              ErrCodeValidation,
	"INVALID_BOUNDARY":             ErrCodeValidation,
	"INVALID_WORK_ZONE":            ErrCodeValidation,
	"INVALID_PROOF":                ErrCodeValidation,
	"INVALID_SITE_CODE":            ErrCodeValidation,
	"INVALID_SITE_NAME":            ErrCodeValidation,
	"INVALID_SCHEDULE":             ErrCodeValidation,
	"INVALID_ENTRY":                ErrCodeValidation,
	"INVALID_SESSION":              ErrCodeValidation,
	"INVALID_VIOLATION":            ErrCodeValidation,
	"INVALID_SEQUENCE_TABLE":       ErrCodeValidation,
	"ENTRY_NOT_COMMITTED":          ErrCodeInvalidState,
	"SESSION_CLOSED":               ErrCodeInvalidState,
	"SITE_NOT_ACTIVE":              ErrCodeInvalidState,
}

// NormalizeErrorCode converts a domain error code to the API format
// If the code is already in the API format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if apiCode, ok := DomainErrorCodeMapping[code]; ok {
		return apiCode
	}
	return code
}
