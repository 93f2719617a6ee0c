package geo

import (
	"math"

	"github.com/ejournal/backend/internal/domain/shared"
)

// Polygon is a closed ring of coordinates. The ring is stored without a
// repeated closing vertex; edges wrap from the last vertex back to the first.
type Polygon struct {
	Ring []Coordinate `json:"ring"`
}

// NewPolygon creates a polygon from at least three vertices
func NewPolygon(ring []Coordinate) (Polygon, error) {
	if len(ring) < 3 {
		return Polygon{}, shared.NewDomainError("INVALID_POLYGON", "Polygon requires at least three vertices")
	}
	// Drop an explicit closing vertex if the caller supplied one
	if len(ring) > 3 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	vertices := make([]Coordinate, len(ring))
	copy(vertices, ring)
	return Polygon{Ring: vertices}, nil
}

// IsZero reports whether the polygon has no vertices
func (p Polygon) IsZero() bool {
	return len(p.Ring) == 0
}

// Contains reports whether the point lies inside the polygon using the
// even-odd ray casting rule. Points on an edge count as inside.
func (p Polygon) Contains(point Coordinate) bool {
	n := len(p.Ring)
	if n < 3 {
		return false
	}
	inside := false
	j := n - 1
	for i := 0; i < n; i++ {
		vi, vj := p.Ring[i], p.Ring[j]
		if (vi.Lat > point.Lat) != (vj.Lat > point.Lat) {
			crossLon := (vj.Lon-vi.Lon)*(point.Lat-vi.Lat)/(vj.Lat-vi.Lat) + vi.Lon
			if point.Lon < crossLon {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// DistanceToBoundary returns the minimum distance in meters from the point to
// the polygon's boundary. The point may be inside or outside; the distance is
// always non-negative.
func (p Polygon) DistanceToBoundary(point Coordinate) float64 {
	n := len(p.Ring)
	if n < 2 {
		return math.Inf(1)
	}
	minDist := math.Inf(1)
	for i := 0; i < n; i++ {
		a := p.Ring[i]
		b := p.Ring[(i+1)%n]
		if d := distanceToSegment(point, a, b); d < minDist {
			minDist = d
		}
	}
	return minDist
}

// Centroid returns the arithmetic mean of the vertices
func (p Polygon) Centroid() Coordinate {
	if len(p.Ring) == 0 {
		return Coordinate{}
	}
	var sumLat, sumLon float64
	for _, v := range p.Ring {
		sumLat += v.Lat
		sumLon += v.Lon
	}
	n := float64(len(p.Ring))
	return Coordinate{Lat: sumLat / n, Lon: sumLon / n}
}

// Area returns the approximate polygon area in square meters using the
// shoelace formula scaled by the cosine of the mean latitude
func (p Polygon) Area() float64 {
	n := len(p.Ring)
	if n < 3 {
		return 0
	}
	var area, sumLat float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += p.Ring[i].Lon * p.Ring[j].Lat
		area -= p.Ring[j].Lon * p.Ring[i].Lat
		sumLat += p.Ring[i].Lat
	}
	area = math.Abs(area) / 2
	latFactor := math.Cos(radians(sumLat / float64(n)))
	return area * metersPerDegree * metersPerDegree * latFactor
}

// Perimeter returns the polygon perimeter in meters
func (p Polygon) Perimeter() float64 {
	n := len(p.Ring)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		total += p.Ring[i].DistanceTo(p.Ring[(i+1)%n])
	}
	return total
}

// distanceToSegment computes the distance in meters from point to the segment
// [a, b] on a local tangent plane centered at the point
func distanceToSegment(point, a, b Coordinate) float64 {
	ax, ay := a.planar(point)
	bx, by := b.planar(point)

	dx := bx - ax
	dy := by - ay
	segLenSq := dx*dx + dy*dy
	if segLenSq == 0 {
		return math.Hypot(ax, ay)
	}

	// Projection parameter of the point (origin) onto the segment, clamped
	t := -(ax*dx + ay*dy) / segLenSq
	t = math.Max(0, math.Min(1, t))

	cx := ax + t*dx
	cy := ay + t*dy
	return math.Hypot(cx, cy)
}
