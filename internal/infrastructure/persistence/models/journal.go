package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/journal"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryModel is the persistence model for the journal Entry aggregate.
// Participants, materials and documents are reference lists stored as JSON.
type EntryModel struct {
	AggregateModel
	SiteID          uuid.UUID              `gorm:"type:uuid;not null;index"`
	AuthorID        uuid.UUID              `gorm:"type:uuid;not null;index"`
	WorkType        journal.WorkType       `gorm:"type:varchar(30);not null;index"`
	Description     string                 `gorm:"type:text"`
	Volume          decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	PlannedVolume   decimal.Decimal        `gorm:"type:decimal(18,4);not null;default:0"`
	Unit            string                 `gorm:"type:varchar(20);not null"`
	StartsAt        time.Time              `gorm:"not null;index"`
	EndsAt          time.Time              `gorm:"not null"`
	Participants    string                 `gorm:"type:jsonb;not null;default:'[]'"`
	Materials       string                 `gorm:"type:jsonb;not null;default:'[]'"`
	Documents       string                 `gorm:"type:jsonb;not null;default:'[]'"`
	ProofLat        float64                `gorm:"not null"`
	ProofLon        float64                `gorm:"not null"`
	ProofAccuracyM  float64                `gorm:"not null"`
	ProofCapturedAt time.Time              `gorm:"not null"`
	ProofMethod     geo.VerificationMethod `gorm:"type:varchar(10);not null"`
	WorkZone        string                 `gorm:"type:varchar(100)"`
	Weather         string                 `gorm:"type:jsonb"`
	Status          journal.EntryStatus    `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	Number          string                 `gorm:"type:varchar(30);index"`
	RejectReason    string                 `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (EntryModel) TableName() string {
	return "journal_entries"
}

// ToDomain converts the persistence model to a domain Entry aggregate.
func (m *EntryModel) ToDomain() (*journal.Entry, error) {
	participants := make([]uuid.UUID, 0)
	if m.Participants != "" {
		if err := json.Unmarshal([]byte(m.Participants), &participants); err != nil {
			return nil, fmt.Errorf("failed to decode entry participants: %w", err)
		}
	}
	materials := make([]string, 0)
	if m.Materials != "" {
		if err := json.Unmarshal([]byte(m.Materials), &materials); err != nil {
			return nil, fmt.Errorf("failed to decode entry materials: %w", err)
		}
	}
	documents := make([]string, 0)
	if m.Documents != "" {
		if err := json.Unmarshal([]byte(m.Documents), &documents); err != nil {
			return nil, fmt.Errorf("failed to decode entry documents: %w", err)
		}
	}
	var weather *journal.Weather
	if m.Weather != "" {
		weather = &journal.Weather{}
		if err := json.Unmarshal([]byte(m.Weather), weather); err != nil {
			return nil, fmt.Errorf("failed to decode entry weather: %w", err)
		}
	}

	entry := &journal.Entry{
		SiteID:        m.SiteID,
		AuthorID:      m.AuthorID,
		WorkType:      m.WorkType,
		Description:   m.Description,
		Volume:        m.Volume,
		PlannedVolume: m.PlannedVolume,
		Unit:          m.Unit,
		StartsAt:      m.StartsAt,
		EndsAt:        m.EndsAt,
		Participants:  participants,
		Materials:     materials,
		Documents:     documents,
		Proof: geo.LocationProof{
			Coordinate: geo.Coordinate{Lat: m.ProofLat, Lon: m.ProofLon},
			AccuracyM:  m.ProofAccuracyM,
			CapturedAt: m.ProofCapturedAt,
			Method:     m.ProofMethod,
		},
		WorkZone:     m.WorkZone,
		Weather:      weather,
		Status:       m.Status,
		Number:       m.Number,
		RejectReason: m.RejectReason,
	}
	m.PopulateAggregateRoot(&entry.BaseAggregateRoot)
	return entry, nil
}

// FromDomain populates the persistence model from a domain Entry aggregate.
func (m *EntryModel) FromDomain(e *journal.Entry) error {
	participants, err := json.Marshal(orEmptyUUIDs(e.Participants))
	if err != nil {
		return fmt.Errorf("failed to encode entry participants: %w", err)
	}
	materials, err := json.Marshal(orEmptyStrings(e.Materials))
	if err != nil {
		return fmt.Errorf("failed to encode entry materials: %w", err)
	}
	documents, err := json.Marshal(orEmptyStrings(e.Documents))
	if err != nil {
		return fmt.Errorf("failed to encode entry documents: %w", err)
	}
	weather := ""
	if e.Weather != nil {
		raw, err := json.Marshal(e.Weather)
		if err != nil {
			return fmt.Errorf("failed to encode entry weather: %w", err)
		}
		weather = string(raw)
	}

	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.SiteID = e.SiteID
	m.AuthorID = e.AuthorID
	m.WorkType = e.WorkType
	m.Description = e.Description
	m.Volume = e.Volume
	m.PlannedVolume = e.PlannedVolume
	m.Unit = e.Unit
	m.StartsAt = e.StartsAt
	m.EndsAt = e.EndsAt
	m.Participants = string(participants)
	m.Materials = string(materials)
	m.Documents = string(documents)
	m.ProofLat = e.Proof.Coordinate.Lat
	m.ProofLon = e.Proof.Coordinate.Lon
	m.ProofAccuracyM = e.Proof.AccuracyM
	m.ProofCapturedAt = e.Proof.CapturedAt
	m.ProofMethod = e.Proof.Method
	m.WorkZone = e.WorkZone
	m.Weather = weather
	m.Status = e.Status
	m.Number = e.Number
	m.RejectReason = e.RejectReason
	return nil
}

// EntryModelFromDomain creates a new persistence model from a domain Entry aggregate.
func EntryModelFromDomain(e *journal.Entry) (*EntryModel, error) {
	m := &EntryModel{}
	if err := m.FromDomain(e); err != nil {
		return nil, err
	}
	return m, nil
}

// EntryCounterModel backs the gap-free per-site yearly entry numbering.
// One row per (site, year); the counter is bumped inside the commit
// transaction so numbers never repeat and never skip.
type EntryCounterModel struct {
	SiteID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Year      int       `gorm:"primaryKey"`
	Counter   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (EntryCounterModel) TableName() string {
	return "entry_counters"
}

func orEmptyUUIDs(s []uuid.UUID) []uuid.UUID {
	if s == nil {
		return make([]uuid.UUID, 0)
	}
	return s
}

func orEmptyStrings(s []string) []string {
	if s == nil {
		return make([]string, 0)
	}
	return s
}
