package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/journal"
	"github.com/ejournal/backend/internal/domain/presence"
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/ejournal/backend/internal/infrastructure/locking"
)

// PresenceVerifier is the slice of the presence guard the commit pipeline
// needs: proof that the author holds an open session at the site.
type PresenceVerifier interface {
	VerifyOpenSession(ctx context.Context, personID, siteID uuid.UUID) (*presence.Session, error)
}

// commitLockWait bounds how long a submission waits for the per-site commit
// lock before giving up with a concurrency conflict
const commitLockWait = 2 * time.Second

// EntryService runs journal entry submissions through the commit pipeline.
// Each validation rule is checked in order and the first failure rejects the
// draft with that rule's reason code; rejection is terminal. Commits are
// serialized per site so entry numbers come out gap-free.
type EntryService struct {
	entryRepo      journal.EntryRepository
	siteRepo       geo.SiteRepository
	fences         *geo.FenceIndex
	validator      *geo.Validator
	presence       PresenceVerifier
	sequence       journal.SequenceTable
	locks          *locking.KeyedMutex
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewEntryService creates a new EntryService
func NewEntryService(
	entryRepo journal.EntryRepository,
	siteRepo geo.SiteRepository,
	fences *geo.FenceIndex,
	validator *geo.Validator,
	presenceVerifier PresenceVerifier,
	sequence journal.SequenceTable,
	logger *zap.Logger,
) *EntryService {
	return &EntryService{
		entryRepo: entryRepo,
		siteRepo:  siteRepo,
		fences:    fences,
		validator: validator,
		presence:  presenceVerifier,
		sequence:  sequence,
		locks:     locking.NewKeyedMutex(),
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *EntryService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Submit runs a draft through the commit pipeline. On any rule failure the
// draft is persisted as rejected with the rule's reason code and the reason
// is returned as the error; on success the committed entry carries its
// assigned number. A rejected draft is never retried; a corrected
// resubmission is a new entry.
func (s *EntryService) Submit(ctx context.Context, req SubmitEntryRequest) (*EntryResponse, error) {
	now := time.Now()

	site, err := s.siteRepo.FindByID(ctx, req.SiteID)
	if err != nil {
		return nil, err
	}
	if !site.IsActive() {
		return nil, shared.NewDomainError("SITE_NOT_ACTIVE", "Site does not accept journal entries")
	}

	entry, err := s.buildDraft(req)
	if err != nil {
		return nil, err
	}

	lockCtx, cancel := context.WithTimeout(ctx, commitLockWait)
	defer cancel()
	if !s.locks.Lock(lockCtx, site.ID) {
		return nil, shared.ErrConcurrencyConflict
	}
	defer s.locks.Unlock(site.ID)

	if ruleErr := s.runPipeline(ctx, site, entry, now); ruleErr != nil {
		var domainErr *shared.DomainError
		if !errors.As(ruleErr, &domainErr) {
			return nil, ruleErr
		}
		if err := entry.Reject(domainErr.Code); err != nil {
			return nil, err
		}
		if err := s.entryRepo.Save(ctx, entry); err != nil {
			return nil, err
		}
		s.publishEvents(ctx, entry)

		s.logger.Info("journal entry rejected",
			zap.String("entry_id", entry.ID.String()),
			zap.String("site_id", site.ID.String()),
			zap.String("reason_code", domainErr.Code),
		)
		response := ToEntryResponse(entry)
		return &response, ruleErr
	}

	// Number assignment and the state transition persist atomically
	if err := s.entryRepo.CommitEntry(ctx, entry, site.Code); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, entry)

	s.logger.Info("journal entry committed",
		zap.String("entry_id", entry.ID.String()),
		zap.String("number", entry.Number),
		zap.String("work_type", entry.WorkType.String()),
	)
	response := ToEntryResponse(entry)
	return &response, nil
}

// GetByID retrieves an entry by id
func (s *EntryService) GetByID(ctx context.Context, id uuid.UUID) (*EntryResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToEntryResponse(entry)
	return &response, nil
}

// ListBySite retrieves entries for a site with pagination
func (s *EntryService) ListBySite(ctx context.Context, siteID uuid.UUID, filter shared.Filter) ([]EntryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	page, err := s.entryRepo.FindBySite(ctx, siteID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EntryResponse, 0, len(page.Items))
	for _, entry := range page.Items {
		responses = append(responses, ToEntryResponse(entry))
	}
	return responses, page.Total, nil
}

func (s *EntryService) buildDraft(req SubmitEntryRequest) (*journal.Entry, error) {
	entry, err := journal.NewEntry(req.SiteID, req.AuthorID, req.WorkType, req.Volume, req.Unit, req.StartsAt, req.EndsAt, req.Proof)
	if err != nil {
		return nil, err
	}

	entry.Description = req.Description
	entry.WorkZone = req.WorkZone
	if len(req.Participants) > 0 {
		entry.Participants = req.Participants
	}
	if len(req.Materials) > 0 {
		entry.Materials = req.Materials
	}
	if len(req.Documents) > 0 {
		entry.Documents = req.Documents
	}
	if req.PlannedVolume != nil {
		if err := entry.SetPlannedVolume(*req.PlannedVolume); err != nil {
			return nil, err
		}
	}
	if req.Weather != nil {
		if err := entry.SetWeather(*req.Weather); err != nil {
			return nil, err
		}
	}
	return entry, nil
}

// runPipeline checks the commit rules in their fixed order and returns the
// first failure
func (s *EntryService) runPipeline(ctx context.Context, site *geo.Site, entry *journal.Entry, now time.Time) error {
	// 1. Time window
	if !site.WithinWorkingHours(entry.StartsAt, entry.EndsAt) {
		return shared.ErrOutsideWorkingHours
	}

	// 2. Technology sequence
	committed, err := s.entryRepo.CommittedWorkTypes(ctx, site.ID)
	if err != nil {
		return err
	}
	if err := s.sequence.Check(entry.WorkType, committed); err != nil {
		return err
	}

	// 3. Verified presence
	if _, err := s.presence.VerifyOpenSession(ctx, entry.AuthorID, site.ID); err != nil {
		return err
	}

	// 4. Location
	fence, ok := s.fences.Lookup(site.ID)
	if !ok {
		fence = site.Fence()
		s.fences.Update(site)
	}
	result := s.validator.Validate(fence, entry.Proof, now, true)
	switch result.Status {
	case geo.VerificationAccepted:
	case geo.VerificationInconclusive:
		if entry.Proof.Method == geo.MethodGPS {
			return shared.ErrLocationUnverifiable
		}
	default:
		if result.ReasonCode == geo.ReasonProofExpired {
			return shared.ErrProofExpired
		}
		return shared.ErrLocationUnverifiable
	}
	if fence.HasWorkZones() {
		if entry.WorkZone == "" || !s.validator.InWorkZone(fence, entry.WorkZone, entry.Proof) {
			return shared.ErrOutsideWorkZone
		}
	}

	// 5. Uniqueness
	duplicate, err := s.entryRepo.HasCommittedDuplicate(ctx, site.ID, entry.AuthorID, entry.WorkType, entry.StartsAt, entry.EndsAt)
	if err != nil {
		return err
	}
	if duplicate {
		return shared.ErrDuplicateEntry
	}

	return nil
}

func (s *EntryService) publishEvents(ctx context.Context, entry *journal.Entry) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range entry.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish entry event", zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	entry.ClearDomainEvents()
}
