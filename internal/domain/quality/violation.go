package quality

import (
	"time"

	"github.com/google/uuid"

	"github.com/ejournal/backend/internal/domain/shared"
)

// ViolationStatus represents the lifecycle status of a violation
type ViolationStatus string

const (
	ViolationStatusOpen     ViolationStatus = "OPEN"
	ViolationStatusOverdue  ViolationStatus = "OVERDUE"
	ViolationStatusResolved ViolationStatus = "RESOLVED"
)

// IsValid checks if the status is a valid ViolationStatus
func (s ViolationStatus) IsValid() bool {
	switch s {
	case ViolationStatusOpen, ViolationStatusOverdue, ViolationStatusResolved:
		return true
	}
	return false
}

// String returns the string representation of ViolationStatus
func (s ViolationStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ViolationStatus) CanTransitionTo(target ViolationStatus) bool {
	switch s {
	case ViolationStatusOpen:
		return target == ViolationStatusOverdue || target == ViolationStatusResolved
	case ViolationStatusOverdue:
		return target == ViolationStatusResolved
	}
	return false
}

// IsOutstanding reports whether the violation still blocks site close-out
func (s ViolationStatus) IsOutstanding() bool {
	return s == ViolationStatusOpen || s == ViolationStatusOverdue
}

// Severity grades how serious a violation is
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// IsValid checks if the severity is a known Severity
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// String returns the string representation of Severity
func (s Severity) String() string {
	return string(s)
}

// Violation represents a quality-control violation aggregate root. It is
// always linked to a committed journal entry. Resolved is final; reopening
// is a new violation referencing the original.
type Violation struct {
	shared.BaseAggregateRoot
	EntryID        uuid.UUID
	SiteID         uuid.UUID
	Code           string
	Description    string
	Severity       Severity
	Status         ViolationStatus
	OpenedAt       time.Time
	Deadline       time.Time
	ResolvedAt     *time.Time
	ResolutionNote string
}

// NewViolation opens a violation against a committed entry
func NewViolation(entryID, siteID uuid.UUID, code string, severity Severity, deadline time.Time, now time.Time) (*Violation, error) {
	if entryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VIOLATION", "Entry ID is required")
	}
	if siteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_VIOLATION", "Site ID is required")
	}
	if code == "" {
		return nil, shared.NewDomainError("INVALID_VIOLATION", "Violation code is required")
	}
	if !severity.IsValid() {
		return nil, shared.NewDomainError("INVALID_VIOLATION", "Unknown severity")
	}
	if deadline.Before(now) {
		return nil, shared.NewDomainError("INVALID_VIOLATION", "Deadline cannot be in the past")
	}

	violation := &Violation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EntryID:           entryID,
		SiteID:            siteID,
		Code:              code,
		Severity:          severity,
		Status:            ViolationStatusOpen,
		OpenedAt:          now,
		Deadline:          deadline,
	}

	violation.AddDomainEvent(NewViolationOpenedEvent(violation))

	return violation, nil
}

// Resolve closes the violation with a resolution note. Valid from open or
// overdue only.
func (v *Violation) Resolve(note string, now time.Time) error {
	if !v.Status.CanTransitionTo(ViolationStatusResolved) {
		return shared.ErrInvalidViolationTransition
	}
	if note == "" {
		return shared.NewDomainError("INVALID_VIOLATION", "Resolution note is required")
	}

	v.Status = ViolationStatusResolved
	v.ResolvedAt = &now
	v.ResolutionNote = note
	v.IncrementVersion()
	v.Touch()

	v.AddDomainEvent(NewViolationResolvedEvent(v))

	return nil
}

// MarkOverdue flips an open violation past its deadline to overdue. Called
// by the deadline sweep; a no-op result is reported via the bool so the
// sweep stays idempotent.
func (v *Violation) MarkOverdue(now time.Time) (bool, error) {
	if v.Status != ViolationStatusOpen {
		if v.Status == ViolationStatusOverdue || v.Status == ViolationStatusResolved {
			return false, nil
		}
		return false, shared.ErrInvalidViolationTransition
	}
	if !now.After(v.Deadline) {
		return false, nil
	}

	v.Status = ViolationStatusOverdue
	v.IncrementVersion()
	v.Touch()

	v.AddDomainEvent(NewViolationOverdueEvent(v))

	return true, nil
}

// IsOutstanding reports whether the violation still blocks site close-out
func (v *Violation) IsOutstanding() bool {
	return v.Status.IsOutstanding()
}
