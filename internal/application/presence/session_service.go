package presence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/presence"
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/ejournal/backend/internal/infrastructure/locking"
)

// ConflictError is returned when a claim is refused because the person holds
// a live session at a different site. It names both sites so the caller can
// check out explicitly.
type ConflictError struct {
	PersonID      uuid.UUID
	OpenSiteID    uuid.UUID
	ClaimedSiteID uuid.UUID
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("open presence session at site %s blocks claim at site %s", e.OpenSiteID, e.ClaimedSiteID)
}

// Unwrap exposes the reason-coded domain error for errors.Is/As matching
func (e *ConflictError) Unwrap() error {
	return shared.ErrConcurrentPresenceConflict
}

// SessionServiceConfig carries the guard's tunables
type SessionServiceConfig struct {
	// GraceWindow is how long an open session may sit idle before a claim at
	// a different site may force-close it as abandoned
	GraceWindow time.Duration
	// LockWait bounds how long a claim waits on the per-person lock
	LockWait time.Duration
	// StaleTimeout is the idle age past which the reaper closes sessions
	StaleTimeout time.Duration
}

// DefaultSessionServiceConfig returns the standard guard tunables
func DefaultSessionServiceConfig() SessionServiceConfig {
	return SessionServiceConfig{
		GraceWindow:  15 * time.Minute,
		LockWait:     300 * time.Millisecond,
		StaleTimeout: 4 * time.Hour,
	}
}

// SessionService enforces presence exclusivity: at most one open session per
// person across all sites. The read-check-write cycle of Claim is serialized
// per person id through a keyed lock.
type SessionService struct {
	sessionRepo    presence.SessionRepository
	siteRepo       geo.SiteRepository
	fences         *geo.FenceIndex
	validator      *geo.Validator
	locks          *locking.KeyedMutex
	cfg            SessionServiceConfig
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(
	sessionRepo presence.SessionRepository,
	siteRepo geo.SiteRepository,
	fences *geo.FenceIndex,
	validator *geo.Validator,
	cfg SessionServiceConfig,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		siteRepo:    siteRepo,
		fences:      fences,
		validator:   validator,
		locks:       locking.NewKeyedMutex(),
		cfg:         cfg,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SessionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Claim opens or reuses a presence session for the person at the site.
// Idempotent for repeat claims at the same site; claims at a second site
// either supersede an abandoned session or fail with a conflict.
func (s *SessionService) Claim(ctx context.Context, personID, siteID uuid.UUID, proof geo.LocationProof) (*SessionResponse, error) {
	now := time.Now()

	fence, site, err := s.resolveFence(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if !site.IsActive() {
		return nil, shared.NewDomainError("SITE_NOT_ACTIVE", "Site does not accept presence claims")
	}

	if err := s.verifyProof(fence, proof, now); err != nil {
		return nil, err
	}

	lockCtx, cancel := context.WithTimeout(ctx, s.cfg.LockWait)
	defer cancel()
	if !s.locks.Lock(lockCtx, personID) {
		return nil, shared.ErrPresenceLockBusy
	}
	defer s.locks.Unlock(personID)

	existing, err := s.sessionRepo.FindOpenByPerson(ctx, personID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.SiteID == siteID {
			if err := existing.Refresh(now); err != nil {
				return nil, err
			}
			if err := s.sessionRepo.Save(ctx, existing); err != nil {
				return nil, err
			}
			response := ToSessionResponse(existing)
			return &response, nil
		}

		if existing.IdleFor(now) <= s.cfg.GraceWindow {
			s.logger.Info("presence conflict detected",
				zap.String("person_id", personID.String()),
				zap.String("open_site_id", existing.SiteID.String()),
				zap.String("claimed_site_id", siteID.String()),
			)
			s.publish(ctx, presence.NewPresenceConflictDetectedEvent(personID, existing.SiteID, siteID))
			return nil, &ConflictError{
				PersonID:      personID,
				OpenSiteID:    existing.SiteID,
				ClaimedSiteID: siteID,
			}
		}

		// Abandoned session at another site: supersede it
		if err := existing.Close(presence.CloseReasonSuperseded, now); err != nil {
			return nil, err
		}
		if err := s.sessionRepo.Save(ctx, existing); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, existing)
	}

	session, err := presence.NewSession(personID, siteID, proof, now)
	if err != nil {
		return nil, err
	}
	if err := s.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, session)

	response := ToSessionResponse(session)
	return &response, nil
}

// Release closes the session on explicit checkout. Idempotent on an
// already-closed session.
func (s *SessionService) Release(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsOpen() {
		if err := session.Close(presence.CloseReasonCheckout, time.Now()); err != nil {
			return nil, err
		}
		if err := s.sessionRepo.Save(ctx, session); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, session)
	}

	response := ToSessionResponse(session)
	return &response, nil
}

// GetByID retrieves a session by id
func (s *SessionService) GetByID(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// ReapStale closes every open session idle past the stale timeout. Run
// periodically by the scheduler; safe to run repeatedly.
func (s *SessionService) ReapStale(ctx context.Context, now time.Time) (int, error) {
	stale, err := s.sessionRepo.FindOpenIdleSince(ctx, now.Add(-s.cfg.StaleTimeout))
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, session := range stale {
		if err := session.Close(presence.CloseReasonTimeout, now); err != nil {
			return closed, err
		}
		if err := s.sessionRepo.Save(ctx, session); err != nil {
			return closed, err
		}
		s.publishEvents(ctx, session)
		closed++
	}

	if closed > 0 {
		s.logger.Info("reaped stale presence sessions", zap.Int("closed", closed))
	}
	return closed, nil
}

// VerifyOpenSession checks that the person holds an open session at the site.
// The journal commit pipeline calls this for its presence rule.
func (s *SessionService) VerifyOpenSession(ctx context.Context, personID, siteID uuid.UUID) (*presence.Session, error) {
	session, err := s.sessionRepo.FindOpenByPerson(ctx, personID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNoVerifiedPresence
		}
		return nil, err
	}
	if session == nil || session.SiteID != siteID {
		return nil, shared.ErrNoVerifiedPresence
	}
	return session, nil
}

func (s *SessionService) resolveFence(ctx context.Context, siteID uuid.UUID) (geo.Fence, *geo.Site, error) {
	site, err := s.siteRepo.FindByID(ctx, siteID)
	if err != nil {
		return geo.Fence{}, nil, err
	}
	if fence, ok := s.fences.Lookup(siteID); ok {
		return fence, site, nil
	}
	// Index miss, serve from the aggregate and backfill
	s.fences.Update(site)
	return site.Fence(), site, nil
}

func (s *SessionService) verifyProof(fence geo.Fence, proof geo.LocationProof, now time.Time) error {
	result := s.validator.Validate(fence, proof, now, false)
	switch result.Status {
	case geo.VerificationAccepted:
		return nil
	case geo.VerificationInconclusive:
		// An alternate capture method attests presence even when the GPS
		// accuracy radius is too wide
		if proof.Method != geo.MethodGPS {
			return nil
		}
		return shared.ErrLocationUnverifiable
	default:
		if result.ReasonCode == geo.ReasonProofExpired {
			return shared.ErrProofExpired
		}
		return shared.ErrLocationUnverifiable
	}
}

func (s *SessionService) publishEvents(ctx context.Context, session *presence.Session) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range session.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish session event", zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	session.ClearDomainEvents()
}

func (s *SessionService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", zap.String("event_type", event.EventType()), zap.Error(err))
	}
}
