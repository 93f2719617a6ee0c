package quality

import (
	"github.com/google/uuid"

	"github.com/ejournal/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeViolation = "Violation"

// Event type constants
const (
	EventTypeViolationOpened   = "ViolationOpened"
	EventTypeViolationOverdue  = "ViolationOverdue"
	EventTypeViolationResolved = "ViolationResolved"
)

// ViolationOpenedEvent is raised when a violation is recorded against an entry
type ViolationOpenedEvent struct {
	shared.BaseDomainEvent
	ViolationID uuid.UUID `json:"violation_id"`
	EntryID     uuid.UUID `json:"entry_id"`
	SiteID      uuid.UUID `json:"site_id"`
	Code        string    `json:"code"`
	Severity    string    `json:"severity"`
}

// NewViolationOpenedEvent creates a new ViolationOpenedEvent
func NewViolationOpenedEvent(v *Violation) *ViolationOpenedEvent {
	return &ViolationOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeViolationOpened, AggregateTypeViolation, v.ID),
		ViolationID:     v.ID,
		EntryID:         v.EntryID,
		SiteID:          v.SiteID,
		Code:            v.Code,
		Severity:        v.Severity.String(),
	}
}

// EventType returns the event type name
func (e *ViolationOpenedEvent) EventType() string {
	return EventTypeViolationOpened
}

// ViolationOverdueEvent is raised when the deadline sweep escalates a violation
type ViolationOverdueEvent struct {
	shared.BaseDomainEvent
	ViolationID uuid.UUID `json:"violation_id"`
	EntryID     uuid.UUID `json:"entry_id"`
	SiteID      uuid.UUID `json:"site_id"`
	Code        string    `json:"code"`
}

// NewViolationOverdueEvent creates a new ViolationOverdueEvent
func NewViolationOverdueEvent(v *Violation) *ViolationOverdueEvent {
	return &ViolationOverdueEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeViolationOverdue, AggregateTypeViolation, v.ID),
		ViolationID:     v.ID,
		EntryID:         v.EntryID,
		SiteID:          v.SiteID,
		Code:            v.Code,
	}
}

// EventType returns the event type name
func (e *ViolationOverdueEvent) EventType() string {
	return EventTypeViolationOverdue
}

// ViolationResolvedEvent is raised when a violation is resolved
type ViolationResolvedEvent struct {
	shared.BaseDomainEvent
	ViolationID uuid.UUID `json:"violation_id"`
	EntryID     uuid.UUID `json:"entry_id"`
	SiteID      uuid.UUID `json:"site_id"`
}

// NewViolationResolvedEvent creates a new ViolationResolvedEvent
func NewViolationResolvedEvent(v *Violation) *ViolationResolvedEvent {
	return &ViolationResolvedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeViolationResolved, AggregateTypeViolation, v.ID),
		ViolationID:     v.ID,
		EntryID:         v.EntryID,
		SiteID:          v.SiteID,
	}
}

// EventType returns the event type name
func (e *ViolationResolvedEvent) EventType() string {
	return EventTypeViolationResolved
}
