package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// Validation outcomes of the journal commit pipeline. These are expected
// business results, returned to the caller with a reason code and never
// retried automatically.
var (
	ErrOutsideWorkingHours  = NewDomainError("OUTSIDE_WORKING_HOURS", "Entry time range falls outside the site working hours")
	ErrSequenceViolation    = NewDomainError("SEQUENCE_VIOLATION", "Work type is not permitted before its prerequisite work is committed")
	ErrNoVerifiedPresence   = NewDomainError("NO_VERIFIED_PRESENCE", "Author has no verified presence session at the site")
	ErrLocationUnverifiable = NewDomainError("LOCATION_UNVERIFIABLE", "Location proof could not be verified against the site boundary")
	ErrOutsideWorkZone      = NewDomainError("OUTSIDE_WORK_ZONE", "Location proof is outside the declared work zone")
	ErrDuplicateEntry       = NewDomainError("DUPLICATE_ENTRY", "An identical committed entry already exists for this site")
	ErrProofExpired         = NewDomainError("PROOF_EXPIRED", "Location proof is older than the allowed maximum age")
)

// Concurrency errors, retryable by the caller after resolving the conflict
// or after a short backoff.
var (
	ErrConcurrentPresenceConflict = NewDomainError("CONCURRENT_PRESENCE_CONFLICT", "An open presence session exists at a different site")
	ErrPresenceLockBusy           = NewDomainError("PRESENCE_LOCK_BUSY", "Presence slot is locked by a concurrent request, retry shortly")
)

// Invariant-breaking errors indicating process misuse. Reported, not retried.
var (
	ErrSiteBoundaryLocked         = NewDomainError("SITE_BOUNDARY_LOCKED", "Site boundary cannot be republished while open presence sessions exist")
	ErrInvalidViolationTransition = NewDomainError("INVALID_VIOLATION_TRANSITION", "Violation cannot transition from its current status")
	ErrSiteHasOpenViolations      = NewDomainError("SITE_HAS_OPEN_VIOLATIONS", "Site cannot be closed out while open or overdue violations exist")
)
