package quality

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ejournal/backend/internal/domain/shared"
)

// ViolationRepository defines the interface for violation persistence
type ViolationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Violation, error)
	FindBySite(ctx context.Context, siteID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Violation], error)
	FindByEntry(ctx context.Context, entryID uuid.UUID) ([]*Violation, error)

	// FindOpenPastDeadline returns open violations whose deadline lies before
	// now, the working set of the overdue sweep.
	FindOpenPastDeadline(ctx context.Context, now time.Time) ([]*Violation, error)

	// CountOutstandingBySite counts open and overdue violations for the site
	// close-out gate.
	CountOutstandingBySite(ctx context.Context, siteID uuid.UUID) (int64, error)

	Save(ctx context.Context, violation *Violation) error

	// SaveWithLock persists a status transition guarded by the aggregate
	// version. Returns shared.ErrConcurrencyConflict when another writer
	// changed the violation since it was read.
	SaveWithLock(ctx context.Context, violation *Violation) error
}
