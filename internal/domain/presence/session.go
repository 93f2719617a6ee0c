package presence

import (
	"time"

	"github.com/google/uuid"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/shared"
)

// CloseReason records why a presence session was closed
type CloseReason string

const (
	// CloseReasonCheckout is an explicit release by the person
	CloseReasonCheckout CloseReason = "checkout"
	// CloseReasonTimeout marks sessions reaped after going stale
	CloseReasonTimeout CloseReason = "timeout"
	// CloseReasonSuperseded marks an abandoned session force-closed when the
	// person claimed presence at a different site
	CloseReasonSuperseded CloseReason = "superseded"
)

// IsValid checks if the reason is a known CloseReason
func (r CloseReason) IsValid() bool {
	switch r {
	case CloseReasonCheckout, CloseReasonTimeout, CloseReasonSuperseded:
		return true
	}
	return false
}

// String returns the string representation of CloseReason
func (r CloseReason) String() string {
	return string(r)
}

// Session represents a presence session aggregate root. It is the claim that
// one person is physically at one site for a bounded period of time. A person
// has at most one open session across all sites at any instant; the
// exclusivity check itself lives in the application-layer guard.
type Session struct {
	shared.BaseAggregateRoot
	PersonID     uuid.UUID
	SiteID       uuid.UUID
	Method       geo.VerificationMethod
	OpeningProof geo.LocationProof
	OpenedAt     time.Time
	LastSeenAt   time.Time
	ClosedAt     *time.Time
	CloseReason  CloseReason
}

// NewSession opens a presence session from an accepted location proof
func NewSession(personID, siteID uuid.UUID, proof geo.LocationProof, now time.Time) (*Session, error) {
	if personID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Person ID is required")
	}
	if siteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SESSION", "Site ID is required")
	}

	session := &Session{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		PersonID:          personID,
		SiteID:            siteID,
		Method:            proof.Method,
		OpeningProof:      proof,
		OpenedAt:          now,
		LastSeenAt:        now,
	}

	session.AddDomainEvent(NewSessionOpenedEvent(session))

	return session, nil
}

// IsOpen reports whether the session is still claiming presence
func (s *Session) IsOpen() bool {
	return s.ClosedAt == nil
}

// IdleFor returns how long ago the session was last refreshed
func (s *Session) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastSeenAt)
}

// Refresh bumps the last-seen timestamp on idempotent re-entry at the same
// site. Refreshing a closed session is an error; the caller must claim anew.
func (s *Session) Refresh(now time.Time) error {
	if !s.IsOpen() {
		return shared.NewDomainError("SESSION_CLOSED", "Cannot refresh a closed session")
	}
	s.LastSeenAt = now
	s.Touch()
	return nil
}

// Close marks the session closed. Closing an already-closed session is a
// no-op so that release stays idempotent.
func (s *Session) Close(reason CloseReason, now time.Time) error {
	if !s.IsOpen() {
		return nil
	}
	if !reason.IsValid() {
		return shared.NewDomainError("INVALID_SESSION", "Unknown close reason")
	}

	s.ClosedAt = &now
	s.CloseReason = reason
	s.Touch()

	s.AddDomainEvent(NewSessionClosedEvent(s, reason))

	return nil
}
