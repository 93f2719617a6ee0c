package geo

import (
	"fmt"
	"time"

	"github.com/ejournal/backend/internal/domain/shared"
)

// SiteStatus represents the lifecycle status of a construction site
type SiteStatus string

const (
	SiteStatusActive    SiteStatus = "ACTIVE"
	SiteStatusCompleted SiteStatus = "COMPLETED"
	SiteStatusRetired   SiteStatus = "RETIRED"
)

// IsValid checks if the status is a valid SiteStatus
func (s SiteStatus) IsValid() bool {
	switch s {
	case SiteStatusActive, SiteStatusCompleted, SiteStatusRetired:
		return true
	}
	return false
}

// String returns the string representation of SiteStatus
func (s SiteStatus) String() string {
	return string(s)
}

// WorkZone is a named sub-polygon of the site boundary where a particular
// operation is permitted
type WorkZone struct {
	Name    string  `json:"name"`
	Polygon Polygon `json:"polygon"`
}

// Site represents a construction site aggregate root. It owns the boundary
// polygon, named work zones and the permitted working-hours window.
type Site struct {
	shared.BaseAggregateRoot
	Code            string
	Name            string
	Address         string
	Boundary        Polygon
	WorkZones       []WorkZone
	Status          SiteStatus
	WorkdayStartMin int // minutes since midnight, inclusive
	WorkdayEndMin   int // minutes since midnight, inclusive
	BoundaryVersion int
	CompletedAt     *time.Time
	RetiredAt       *time.Time
}

// NewSite creates a new active site with its initial boundary
func NewSite(code, name, address string, boundary Polygon, workdayStartMin, workdayEndMin int) (*Site, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_SITE_CODE", "Site code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_SITE_NAME", "Site name cannot be empty")
	}
	if boundary.IsZero() {
		return nil, shared.NewDomainError("INVALID_BOUNDARY", "Site boundary is required")
	}
	if err := validateWorkday(workdayStartMin, workdayEndMin); err != nil {
		return nil, err
	}

	site := &Site{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Address:           address,
		Boundary:          boundary,
		WorkZones:         make([]WorkZone, 0),
		Status:            SiteStatusActive,
		WorkdayStartMin:   workdayStartMin,
		WorkdayEndMin:     workdayEndMin,
		BoundaryVersion:   1,
	}

	site.AddDomainEvent(NewSiteBoundaryPublishedEvent(site))

	return site, nil
}

func validateWorkday(startMin, endMin int) error {
	if startMin < 0 || startMin >= 24*60 || endMin < 0 || endMin >= 24*60 {
		return shared.NewDomainError("INVALID_SCHEDULE", "Workday bounds must fall within a single day")
	}
	if endMin <= startMin {
		return shared.NewDomainError("INVALID_SCHEDULE", "Workday end must be after workday start")
	}
	return nil
}

// PublishBoundary replaces the boundary and work zones. The caller must
// verify that no open presence sessions exist for the site first.
func (s *Site) PublishBoundary(boundary Polygon, zones []WorkZone) error {
	if s.Status != SiteStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot publish boundary for %s site", s.Status))
	}
	if boundary.IsZero() {
		return shared.NewDomainError("INVALID_BOUNDARY", "Site boundary is required")
	}
	for _, z := range zones {
		if z.Name == "" {
			return shared.NewDomainError("INVALID_WORK_ZONE", "Work zone name cannot be empty")
		}
		if z.Polygon.IsZero() {
			return shared.NewDomainError("INVALID_WORK_ZONE", "Work zone polygon is required")
		}
	}

	s.Boundary = boundary
	s.WorkZones = zones
	s.BoundaryVersion++
	s.Touch()

	s.AddDomainEvent(NewSiteBoundaryPublishedEvent(s))

	return nil
}

// Complete marks the site as complete. The quality gate (no open or overdue
// violations) is checked by the site service before this is called.
func (s *Site) Complete() error {
	if s.Status != SiteStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete %s site", s.Status))
	}
	now := time.Now()
	s.Status = SiteStatusCompleted
	s.CompletedAt = &now
	s.Touch()
	return nil
}

// Retire retires the site on project closure
func (s *Site) Retire() error {
	if s.Status == SiteStatusRetired {
		return shared.NewDomainError("INVALID_STATE", "Site is already retired")
	}
	now := time.Now()
	s.Status = SiteStatusRetired
	s.RetiredAt = &now
	s.Touch()

	s.AddDomainEvent(NewSiteRetiredEvent(s))

	return nil
}

// IsActive returns true if the site accepts presence and entries
func (s *Site) IsActive() bool {
	return s.Status == SiteStatusActive
}

// WithinWorkingHours reports whether both ends of the time range fall inside
// the site's permitted working-hours window on the same day
func (s *Site) WithinWorkingHours(start, end time.Time) bool {
	if !end.After(start) {
		return false
	}
	if start.Year() != end.Year() || start.YearDay() != end.YearDay() {
		return false
	}
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	return startMin >= s.WorkdayStartMin && endMin <= s.WorkdayEndMin
}

// Fence returns a read-only geometry snapshot for the fence index
func (s *Site) Fence() Fence {
	zones := make([]WorkZone, len(s.WorkZones))
	copy(zones, s.WorkZones)
	return Fence{
		SiteID:          s.ID,
		SiteCode:        s.Code,
		Boundary:        s.Boundary,
		WorkZones:       zones,
		BoundaryVersion: s.BoundaryVersion,
	}
}

// ZoneByName returns the named work zone, or nil if the site has none
func (s *Site) ZoneByName(name string) *WorkZone {
	for idx := range s.WorkZones {
		if s.WorkZones[idx].Name == name {
			return &s.WorkZones[idx]
		}
	}
	return nil
}

// HasWorkZones reports whether the site restricts work to declared zones
func (s *Site) HasWorkZones() bool {
	return len(s.WorkZones) > 0
}
