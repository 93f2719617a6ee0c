package geo

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Fence is the read-only snapshot of a site's geometry used for
// point-in-polygon and nearest-boundary queries
type Fence struct {
	SiteID          uuid.UUID
	SiteCode        string
	Boundary        Polygon
	WorkZones       []WorkZone
	BoundaryVersion int
}

// ZoneByName returns the named work zone snapshot, or nil
func (f Fence) ZoneByName(name string) *WorkZone {
	for idx := range f.WorkZones {
		if f.WorkZones[idx].Name == name {
			return &f.WorkZones[idx]
		}
	}
	return nil
}

// HasWorkZones reports whether the fence restricts work to declared zones
func (f Fence) HasWorkZones() bool {
	return len(f.WorkZones) > 0
}

// FenceIndex holds an in-memory snapshot of every published site boundary.
// Reads are lock-free per call and safely parallelizable; the index is
// refreshed only when a boundary is (re)published or a site retired.
type FenceIndex struct {
	mu     sync.RWMutex
	fences map[uuid.UUID]Fence
}

// NewFenceIndex creates an empty fence index
func NewFenceIndex() *FenceIndex {
	return &FenceIndex{
		fences: make(map[uuid.UUID]Fence),
	}
}

// WarmUp loads all active sites from the repository into the index
func (i *FenceIndex) WarmUp(ctx context.Context, repo SiteRepository) error {
	sites, err := repo.FindActive(ctx)
	if err != nil {
		return err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	for idx := range sites {
		i.fences[sites[idx].ID] = sites[idx].Fence()
	}
	return nil
}

// Lookup returns the fence snapshot for a site
func (i *FenceIndex) Lookup(siteID uuid.UUID) (Fence, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	fence, ok := i.fences[siteID]
	return fence, ok
}

// Update replaces the snapshot for a site after a boundary publication
func (i *FenceIndex) Update(site *Site) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.fences[site.ID] = site.Fence()
}

// Remove drops a retired site from the index
func (i *FenceIndex) Remove(siteID uuid.UUID) {
	i.mu.Lock()
	defer i.mu.Unlock()
	delete(i.fences, siteID)
}

// Nearest returns the fence whose boundary is closest to the coordinate,
// with the distance in meters. Distance is zero when the coordinate lies
// inside a boundary. ok is false when the index is empty.
func (i *FenceIndex) Nearest(coord Coordinate) (Fence, float64, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	var (
		best     Fence
		bestDist float64
		found    bool
	)
	for _, fence := range i.fences {
		dist := 0.0
		if !fence.Boundary.Contains(coord) {
			dist = fence.Boundary.DistanceToBoundary(coord)
		}
		if !found || dist < bestDist {
			best = fence
			bestDist = dist
			found = true
		}
	}
	return best, bestDist, found
}

// Len returns the number of indexed sites
func (i *FenceIndex) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.fences)
}
