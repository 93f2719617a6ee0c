package presence

import (
	"github.com/google/uuid"

	"github.com/ejournal/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSession = "PresenceSession"

// Event type constants
const (
	EventTypeSessionOpened            = "SessionOpened"
	EventTypeSessionClosed            = "SessionClosed"
	EventTypePresenceConflictDetected = "PresenceConflictDetected"
)

// SessionOpenedEvent is raised when a presence session is opened
type SessionOpenedEvent struct {
	shared.BaseDomainEvent
	SessionID uuid.UUID `json:"session_id"`
	PersonID  uuid.UUID `json:"person_id"`
	SiteID    uuid.UUID `json:"site_id"`
	Method    string    `json:"method"`
}

// NewSessionOpenedEvent creates a new SessionOpenedEvent
func NewSessionOpenedEvent(session *Session) *SessionOpenedEvent {
	return &SessionOpenedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionOpened, AggregateTypeSession, session.ID),
		SessionID:       session.ID,
		PersonID:        session.PersonID,
		SiteID:          session.SiteID,
		Method:          session.Method.String(),
	}
}

// EventType returns the event type name
func (e *SessionOpenedEvent) EventType() string {
	return EventTypeSessionOpened
}

// SessionClosedEvent is raised when a presence session is closed for any reason
type SessionClosedEvent struct {
	shared.BaseDomainEvent
	SessionID uuid.UUID `json:"session_id"`
	PersonID  uuid.UUID `json:"person_id"`
	SiteID    uuid.UUID `json:"site_id"`
	Reason    string    `json:"reason"`
}

// NewSessionClosedEvent creates a new SessionClosedEvent
func NewSessionClosedEvent(session *Session, reason CloseReason) *SessionClosedEvent {
	return &SessionClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSessionClosed, AggregateTypeSession, session.ID),
		SessionID:       session.ID,
		PersonID:        session.PersonID,
		SiteID:          session.SiteID,
		Reason:          reason.String(),
	}
}

// EventType returns the event type name
func (e *SessionClosedEvent) EventType() string {
	return EventTypeSessionClosed
}

// PresenceConflictDetectedEvent is raised when a claim at one site is refused
// because the person still holds a live session at another site
type PresenceConflictDetectedEvent struct {
	shared.BaseDomainEvent
	PersonID      uuid.UUID `json:"person_id"`
	OpenSiteID    uuid.UUID `json:"open_site_id"`
	ClaimedSiteID uuid.UUID `json:"claimed_site_id"`
}

// NewPresenceConflictDetectedEvent creates a new PresenceConflictDetectedEvent
func NewPresenceConflictDetectedEvent(personID, openSiteID, claimedSiteID uuid.UUID) *PresenceConflictDetectedEvent {
	return &PresenceConflictDetectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePresenceConflictDetected, AggregateTypeSession, personID),
		PersonID:        personID,
		OpenSiteID:      openSiteID,
		ClaimedSiteID:   claimedSiteID,
	}
}

// EventType returns the event type name
func (e *PresenceConflictDetectedEvent) EventType() string {
	return EventTypePresenceConflictDetected
}
