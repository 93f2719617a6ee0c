package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ejournal/backend/internal/domain/geo"
)

// SiteModel is the persistence model for the Site aggregate. Boundary and
// work zones are stored as JSON documents; the geometry is always read and
// written whole because partial boundary updates are not a thing.
type SiteModel struct {
	AggregateModel
	Code            string         `gorm:"type:varchar(20);not null;uniqueIndex"`
	Name            string         `gorm:"type:varchar(200);not null"`
	Address         string         `gorm:"type:text"`
	Boundary        string         `gorm:"type:jsonb;not null"`
	WorkZones       string         `gorm:"type:jsonb;not null;default:'[]'"`
	Status          geo.SiteStatus `gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	WorkdayStartMin int            `gorm:"not null"`
	WorkdayEndMin   int            `gorm:"not null"`
	BoundaryVersion int            `gorm:"not null;default:1"`
	CompletedAt     *time.Time
	RetiredAt       *time.Time
}

// TableName returns the table name for GORM
func (SiteModel) TableName() string {
	return "sites"
}

// ToDomain converts the persistence model to a domain Site aggregate.
func (m *SiteModel) ToDomain() (*geo.Site, error) {
	var boundary geo.Polygon
	if err := json.Unmarshal([]byte(m.Boundary), &boundary); err != nil {
		return nil, fmt.Errorf("failed to decode site boundary: %w", err)
	}

	zones := make([]geo.WorkZone, 0)
	if m.WorkZones != "" {
		if err := json.Unmarshal([]byte(m.WorkZones), &zones); err != nil {
			return nil, fmt.Errorf("failed to decode site work zones: %w", err)
		}
	}

	site := &geo.Site{
		Code:            m.Code,
		Name:            m.Name,
		Address:         m.Address,
		Boundary:        boundary,
		WorkZones:       zones,
		Status:          m.Status,
		WorkdayStartMin: m.WorkdayStartMin,
		WorkdayEndMin:   m.WorkdayEndMin,
		BoundaryVersion: m.BoundaryVersion,
		CompletedAt:     m.CompletedAt,
		RetiredAt:       m.RetiredAt,
	}
	m.PopulateAggregateRoot(&site.BaseAggregateRoot)
	return site, nil
}

// FromDomain populates the persistence model from a domain Site aggregate.
func (m *SiteModel) FromDomain(s *geo.Site) error {
	boundary, err := json.Marshal(s.Boundary)
	if err != nil {
		return fmt.Errorf("failed to encode site boundary: %w", err)
	}
	zones := s.WorkZones
	if zones == nil {
		zones = make([]geo.WorkZone, 0)
	}
	zonesJSON, err := json.Marshal(zones)
	if err != nil {
		return fmt.Errorf("failed to encode site work zones: %w", err)
	}

	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Code = s.Code
	m.Name = s.Name
	m.Address = s.Address
	m.Boundary = string(boundary)
	m.WorkZones = string(zonesJSON)
	m.Status = s.Status
	m.WorkdayStartMin = s.WorkdayStartMin
	m.WorkdayEndMin = s.WorkdayEndMin
	m.BoundaryVersion = s.BoundaryVersion
	m.CompletedAt = s.CompletedAt
	m.RetiredAt = s.RetiredAt
	return nil
}

// SiteModelFromDomain creates a new persistence model from a domain Site aggregate.
func SiteModelFromDomain(s *geo.Site) (*SiteModel, error) {
	m := &SiteModel{}
	if err := m.FromDomain(s); err != nil {
		return nil, err
	}
	return m, nil
}
