package journal

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ejournal/backend/internal/domain/shared"
)

// EntryRepository defines the interface for journal entry persistence
type EntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Entry, error)
	FindByNumber(ctx context.Context, siteID uuid.UUID, number string) (*Entry, error)
	FindBySite(ctx context.Context, siteID uuid.UUID, filter shared.Filter) (*shared.Paginated[*Entry], error)

	// CommittedWorkTypes returns the distinct work types already committed on
	// the site, the input to the sequence rule.
	CommittedWorkTypes(ctx context.Context, siteID uuid.UUID) ([]WorkType, error)

	// HasCommittedDuplicate reports whether a committed entry with the same
	// site, work type, time range and author already exists.
	HasCommittedDuplicate(ctx context.Context, siteID, authorID uuid.UUID, workType WorkType, startsAt, endsAt time.Time) (bool, error)

	Save(ctx context.Context, entry *Entry) error

	// CommitEntry assigns the next number from the site-scoped yearly counter,
	// applies the commit transition and persists the entry, all in one
	// transaction. Numbers come out gap-free and strictly increasing per site.
	CommitEntry(ctx context.Context, entry *Entry, siteCode string) error
}
