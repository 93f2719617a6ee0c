package journal

import (
	"github.com/google/uuid"

	"github.com/ejournal/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeEntry = "JournalEntry"

// Event type constants
const (
	EventTypeEntryCommitted = "EntryCommitted"
	EventTypeEntryRejected  = "EntryRejected"
)

// EntryCommittedEvent is raised when a draft entry commits. Downstream
// quality control subscribes to this event.
type EntryCommittedEvent struct {
	shared.BaseDomainEvent
	EntryID  uuid.UUID `json:"entry_id"`
	SiteID   uuid.UUID `json:"site_id"`
	AuthorID uuid.UUID `json:"author_id"`
	WorkType string    `json:"work_type"`
	Number   string    `json:"number"`
}

// NewEntryCommittedEvent creates a new EntryCommittedEvent
func NewEntryCommittedEvent(entry *Entry) *EntryCommittedEvent {
	return &EntryCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryCommitted, AggregateTypeEntry, entry.ID),
		EntryID:         entry.ID,
		SiteID:          entry.SiteID,
		AuthorID:        entry.AuthorID,
		WorkType:        entry.WorkType.String(),
		Number:          entry.Number,
	}
}

// EventType returns the event type name
func (e *EntryCommittedEvent) EventType() string {
	return EventTypeEntryCommitted
}

// EntryRejectedEvent is raised when a draft entry fails commit validation
type EntryRejectedEvent struct {
	shared.BaseDomainEvent
	EntryID    uuid.UUID `json:"entry_id"`
	SiteID     uuid.UUID `json:"site_id"`
	AuthorID   uuid.UUID `json:"author_id"`
	ReasonCode string    `json:"reason_code"`
}

// NewEntryRejectedEvent creates a new EntryRejectedEvent
func NewEntryRejectedEvent(entry *Entry) *EntryRejectedEvent {
	return &EntryRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeEntryRejected, AggregateTypeEntry, entry.ID),
		EntryID:         entry.ID,
		SiteID:          entry.SiteID,
		AuthorID:        entry.AuthorID,
		ReasonCode:      entry.RejectReason,
	}
}

// EventType returns the event type name
func (e *EntryRejectedEvent) EventType() string {
	return EventTypeEntryRejected
}
