package geo

import (
	"context"

	"github.com/google/uuid"
)

// SiteRepository defines the persistence contract for sites. It doubles as
// the geo-fence index source: boundary and work-zone lookups for validation
// go through here (or through an in-memory snapshot fed from here).
type SiteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Site, error)
	FindByCode(ctx context.Context, code string) (*Site, error)
	FindActive(ctx context.Context) ([]Site, error)
	Save(ctx context.Context, site *Site) error
	// GenerateCode issues the next zero-padded site code (e.g. "007")
	GenerateCode(ctx context.Context) (string, error)
}
