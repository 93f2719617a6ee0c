package presence

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionRepository defines the interface for presence session persistence.
// FindOpenByPerson is the read half of the exclusivity check; callers must
// hold the per-person claim lock around the read-check-write cycle.
type SessionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
	FindOpenByPerson(ctx context.Context, personID uuid.UUID) (*Session, error)
	FindOpenBySite(ctx context.Context, siteID uuid.UUID) ([]*Session, error)
	CountOpenBySite(ctx context.Context, siteID uuid.UUID) (int64, error)
	FindOpenIdleSince(ctx context.Context, lastSeenBefore time.Time) ([]*Session, error)
	Save(ctx context.Context, session *Session) error
}
