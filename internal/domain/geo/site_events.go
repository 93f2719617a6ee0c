package geo

import (
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeSite = "Site"

// Event type constants
const (
	EventTypeSiteBoundaryPublished = "SiteBoundaryPublished"
	EventTypeSiteRetired           = "SiteRetired"
)

// SiteBoundaryPublishedEvent is raised when a site boundary is (re)published
type SiteBoundaryPublishedEvent struct {
	shared.BaseDomainEvent
	SiteID          uuid.UUID `json:"site_id"`
	SiteCode        string    `json:"site_code"`
	BoundaryVersion int       `json:"boundary_version"`
	WorkZoneCount   int       `json:"work_zone_count"`
}

// NewSiteBoundaryPublishedEvent creates a new SiteBoundaryPublishedEvent
func NewSiteBoundaryPublishedEvent(site *Site) *SiteBoundaryPublishedEvent {
	return &SiteBoundaryPublishedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSiteBoundaryPublished, AggregateTypeSite, site.ID),
		SiteID:          site.ID,
		SiteCode:        site.Code,
		BoundaryVersion: site.BoundaryVersion,
		WorkZoneCount:   len(site.WorkZones),
	}
}

// EventType returns the event type name
func (e *SiteBoundaryPublishedEvent) EventType() string {
	return EventTypeSiteBoundaryPublished
}

// SiteRetiredEvent is raised when a site is retired on project closure
type SiteRetiredEvent struct {
	shared.BaseDomainEvent
	SiteID   uuid.UUID `json:"site_id"`
	SiteCode string    `json:"site_code"`
}

// NewSiteRetiredEvent creates a new SiteRetiredEvent
func NewSiteRetiredEvent(site *Site) *SiteRetiredEvent {
	return &SiteRetiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSiteRetired, AggregateTypeSite, site.ID),
		SiteID:          site.ID,
		SiteCode:        site.Code,
	}
}

// EventType returns the event type name
func (e *SiteRetiredEvent) EventType() string {
	return EventTypeSiteRetired
}
