package models

import (
	"time"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/presence"
	"github.com/google/uuid"
)

// SessionModel is the persistence model for the presence Session aggregate.
// The partial unique index on (person_id) WHERE closed_at IS NULL backs the
// one-open-session-per-person invariant at the storage level; the claim lock
// in the application layer keeps the read-check-write cycle serialized.
type SessionModel struct {
	AggregateModel
	PersonID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	SiteID          uuid.UUID              `gorm:"type:uuid;not null;index"`
	Method          geo.VerificationMethod `gorm:"type:varchar(10);not null"`
	ProofLat        float64                `gorm:"not null"`
	ProofLon        float64                `gorm:"not null"`
	ProofAccuracyM  float64                `gorm:"not null"`
	ProofCapturedAt time.Time              `gorm:"not null"`
	OpenedAt        time.Time              `gorm:"not null"`
	LastSeenAt      time.Time              `gorm:"not null;index"`
	ClosedAt        *time.Time             `gorm:"index"`
	CloseReason     presence.CloseReason   `gorm:"type:varchar(20)"`
}

// TableName returns the table name for GORM
func (SessionModel) TableName() string {
	return "presence_sessions"
}

// ToDomain converts the persistence model to a domain Session aggregate.
func (m *SessionModel) ToDomain() *presence.Session {
	session := &presence.Session{
		PersonID: m.PersonID,
		SiteID:   m.SiteID,
		Method:   m.Method,
		OpeningProof: geo.LocationProof{
			Coordinate: geo.Coordinate{Lat: m.ProofLat, Lon: m.ProofLon},
			AccuracyM:  m.ProofAccuracyM,
			CapturedAt: m.ProofCapturedAt,
			Method:     m.Method,
		},
		OpenedAt:    m.OpenedAt,
		LastSeenAt:  m.LastSeenAt,
		ClosedAt:    m.ClosedAt,
		CloseReason: m.CloseReason,
	}
	m.PopulateAggregateRoot(&session.BaseAggregateRoot)
	return session
}

// FromDomain populates the persistence model from a domain Session aggregate.
func (m *SessionModel) FromDomain(s *presence.Session) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.PersonID = s.PersonID
	m.SiteID = s.SiteID
	m.Method = s.Method
	m.ProofLat = s.OpeningProof.Coordinate.Lat
	m.ProofLon = s.OpeningProof.Coordinate.Lon
	m.ProofAccuracyM = s.OpeningProof.AccuracyM
	m.ProofCapturedAt = s.OpeningProof.CapturedAt
	m.OpenedAt = s.OpenedAt
	m.LastSeenAt = s.LastSeenAt
	m.ClosedAt = s.ClosedAt
	m.CloseReason = s.CloseReason
}

// SessionModelFromDomain creates a new persistence model from a domain Session aggregate.
func SessionModelFromDomain(s *presence.Session) *SessionModel {
	m := &SessionModel{}
	m.FromDomain(s)
	return m
}
