package geo

import (
	"math"

	"github.com/ejournal/backend/internal/domain/shared"
)

// earthRadiusM is the mean Earth radius in meters used for haversine distances
const earthRadiusM = 6371000.0

// metersPerDegree approximates one degree of latitude in meters
const metersPerDegree = 111320.0

// Coordinate is a WGS84 point
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// NewCoordinate creates a validated coordinate
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if lat < -90 || lat > 90 {
		return Coordinate{}, shared.NewDomainError("INVALID_COORDINATE", "Latitude must be between -90 and 90")
	}
	if lon < -180 || lon > 180 {
		return Coordinate{}, shared.NewDomainError("INVALID_COORDINATE", "Longitude must be between -180 and 180")
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// DistanceTo returns the haversine great-circle distance to other in meters
func (c Coordinate) DistanceTo(other Coordinate) float64 {
	lat1 := radians(c.Lat)
	lat2 := radians(other.Lat)
	dLat := radians(other.Lat - c.Lat)
	dLon := radians(other.Lon - c.Lon)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusM * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// planar projects the coordinate onto a local tangent plane centered on origin.
// Adequate for the sub-kilometer spans of a construction site.
func (c Coordinate) planar(origin Coordinate) (x, y float64) {
	x = (c.Lon - origin.Lon) * metersPerDegree * math.Cos(radians(origin.Lat))
	y = (c.Lat - origin.Lat) * metersPerDegree
	return x, y
}
