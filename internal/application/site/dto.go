package site

import (
	"time"

	"github.com/google/uuid"

	"github.com/ejournal/backend/internal/domain/geo"
)

// CoordinateDTO is a single vertex of a boundary or work-zone ring
type CoordinateDTO struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// WorkZoneDTO is a named zone polygon
type WorkZoneDTO struct {
	Name string          `json:"name"`
	Ring []CoordinateDTO `json:"ring"`
}

// CreateSiteRequest carries a new site registration
type CreateSiteRequest struct {
	Name            string
	Address         string
	Boundary        []CoordinateDTO
	WorkZones       []WorkZoneDTO
	WorkdayStartMin int
	WorkdayEndMin   int
}

// PublishBoundaryRequest carries a boundary republication
type PublishBoundaryRequest struct {
	Boundary  []CoordinateDTO
	WorkZones []WorkZoneDTO
}

// SiteResponse is the site representation returned to the interface layer
type SiteResponse struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Address         string          `json:"address,omitempty"`
	Boundary        []CoordinateDTO `json:"boundary"`
	WorkZones       []WorkZoneDTO   `json:"work_zones,omitempty"`
	Status          string          `json:"status"`
	WorkdayStartMin int             `json:"workday_start_min"`
	WorkdayEndMin   int             `json:"workday_end_min"`
	BoundaryVersion int             `json:"boundary_version"`
	AreaM2          float64         `json:"area_m2"`
	PerimeterM      float64         `json:"perimeter_m"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`
	RetiredAt       *time.Time      `json:"retired_at,omitempty"`
}

// NearestSiteResponse names the site whose boundary is closest to a point
type NearestSiteResponse struct {
	SiteID    uuid.UUID `json:"site_id"`
	SiteCode  string    `json:"site_code"`
	DistanceM float64   `json:"distance_m"`
	Inside    bool      `json:"inside"`
}

// ToSiteResponse converts a site aggregate to its response form
func ToSiteResponse(site *geo.Site) SiteResponse {
	return SiteResponse{
		ID:              site.ID,
		Code:            site.Code,
		Name:            site.Name,
		Address:         site.Address,
		Boundary:        toCoordinateDTOs(site.Boundary.Ring),
		WorkZones:       toWorkZoneDTOs(site.WorkZones),
		Status:          site.Status.String(),
		WorkdayStartMin: site.WorkdayStartMin,
		WorkdayEndMin:   site.WorkdayEndMin,
		BoundaryVersion: site.BoundaryVersion,
		AreaM2:          site.Boundary.Area(),
		PerimeterM:      site.Boundary.Perimeter(),
		CompletedAt:     site.CompletedAt,
		RetiredAt:       site.RetiredAt,
	}
}

func toCoordinateDTOs(ring []geo.Coordinate) []CoordinateDTO {
	out := make([]CoordinateDTO, 0, len(ring))
	for _, c := range ring {
		out = append(out, CoordinateDTO{Lat: c.Lat, Lon: c.Lon})
	}
	return out
}

func toWorkZoneDTOs(zones []geo.WorkZone) []WorkZoneDTO {
	out := make([]WorkZoneDTO, 0, len(zones))
	for _, z := range zones {
		out = append(out, WorkZoneDTO{Name: z.Name, Ring: toCoordinateDTOs(z.Polygon.Ring)})
	}
	return out
}

func toPolygon(ring []CoordinateDTO) (geo.Polygon, error) {
	coords := make([]geo.Coordinate, 0, len(ring))
	for _, c := range ring {
		coord, err := geo.NewCoordinate(c.Lat, c.Lon)
		if err != nil {
			return geo.Polygon{}, err
		}
		coords = append(coords, coord)
	}
	return geo.NewPolygon(coords)
}

func toWorkZones(dtos []WorkZoneDTO) ([]geo.WorkZone, error) {
	zones := make([]geo.WorkZone, 0, len(dtos))
	for _, z := range dtos {
		poly, err := toPolygon(z.Ring)
		if err != nil {
			return nil, err
		}
		zones = append(zones, geo.WorkZone{Name: z.Name, Polygon: poly})
	}
	return zones, nil
}
