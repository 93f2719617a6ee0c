package models

import (
	"time"

	"github.com/ejournal/backend/internal/domain/quality"
	"github.com/google/uuid"
)

// ViolationModel is the persistence model for the Violation aggregate.
type ViolationModel struct {
	AggregateModel
	EntryID        uuid.UUID               `gorm:"type:uuid;not null;index"`
	SiteID         uuid.UUID               `gorm:"type:uuid;not null;index"`
	Code           string                  `gorm:"type:varchar(50);not null"`
	Description    string                  `gorm:"type:text"`
	Severity       quality.Severity        `gorm:"type:varchar(20);not null"`
	Status         quality.ViolationStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	OpenedAt       time.Time               `gorm:"not null"`
	Deadline       time.Time               `gorm:"not null;index"`
	ResolvedAt     *time.Time
	ResolutionNote string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ViolationModel) TableName() string {
	return "violations"
}

// ToDomain converts the persistence model to a domain Violation aggregate.
func (m *ViolationModel) ToDomain() *quality.Violation {
	violation := &quality.Violation{
		EntryID:        m.EntryID,
		SiteID:         m.SiteID,
		Code:           m.Code,
		Description:    m.Description,
		Severity:       m.Severity,
		Status:         m.Status,
		OpenedAt:       m.OpenedAt,
		Deadline:       m.Deadline,
		ResolvedAt:     m.ResolvedAt,
		ResolutionNote: m.ResolutionNote,
	}
	m.PopulateAggregateRoot(&violation.BaseAggregateRoot)
	return violation
}

// FromDomain populates the persistence model from a domain Violation aggregate.
func (m *ViolationModel) FromDomain(v *quality.Violation) {
	m.FromDomainAggregateRoot(v.BaseAggregateRoot)
	m.EntryID = v.EntryID
	m.SiteID = v.SiteID
	m.Code = v.Code
	m.Description = v.Description
	m.Severity = v.Severity
	m.Status = v.Status
	m.OpenedAt = v.OpenedAt
	m.Deadline = v.Deadline
	m.ResolvedAt = v.ResolvedAt
	m.ResolutionNote = v.ResolutionNote
}

// ViolationModelFromDomain creates a new persistence model from a domain Violation aggregate.
func ViolationModelFromDomain(v *quality.Violation) *ViolationModel {
	m := &ViolationModel{}
	m.FromDomain(v)
	return m
}
