package quality

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ejournal/backend/internal/domain/journal"
	"github.com/ejournal/backend/internal/domain/quality"
	"github.com/ejournal/backend/internal/domain/shared"
)

// ViolationService handles violation lifecycle operations
type ViolationService struct {
	violationRepo  quality.ViolationRepository
	entryRepo      journal.EntryRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewViolationService creates a new ViolationService
func NewViolationService(violationRepo quality.ViolationRepository, entryRepo journal.EntryRepository, logger *zap.Logger) *ViolationService {
	return &ViolationService{
		violationRepo: violationRepo,
		entryRepo:     entryRepo,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ViolationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Record opens a violation against a committed entry
func (s *ViolationService) Record(ctx context.Context, req RecordViolationRequest) (*ViolationResponse, error) {
	entry, err := s.entryRepo.FindByID(ctx, req.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != journal.EntryStatusCommitted {
		return nil, shared.NewDomainError("ENTRY_NOT_COMMITTED", "Violations can only reference committed entries")
	}

	violation, err := quality.NewViolation(entry.ID, entry.SiteID, req.Code, req.Severity, req.Deadline, time.Now())
	if err != nil {
		return nil, err
	}
	violation.Description = req.Description

	if err := s.violationRepo.Save(ctx, violation); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, violation)

	s.logger.Info("violation recorded",
		zap.String("violation_id", violation.ID.String()),
		zap.String("entry_id", entry.ID.String()),
		zap.String("code", violation.Code),
		zap.String("severity", violation.Severity.String()),
	)
	response := ToViolationResponse(violation)
	return &response, nil
}

// Resolve closes a violation from open or overdue
func (s *ViolationService) Resolve(ctx context.Context, violationID uuid.UUID, note string) (*ViolationResponse, error) {
	violation, err := s.violationRepo.FindByID(ctx, violationID)
	if err != nil {
		return nil, err
	}

	if err := violation.Resolve(note, time.Now()); err != nil {
		return nil, err
	}
	if err := s.violationRepo.SaveWithLock(ctx, violation); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, violation)

	response := ToViolationResponse(violation)
	return &response, nil
}

// SweepOverdue flips every open violation past its deadline to overdue and
// returns the number changed. Pure function of the current time over the
// stored state; running it again with no intervening change flips nothing.
func (s *ViolationService) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	due, err := s.violationRepo.FindOpenPastDeadline(ctx, now)
	if err != nil {
		return 0, err
	}

	flipped := 0
	for _, violation := range due {
		changed, err := violation.MarkOverdue(now)
		if err != nil {
			return flipped, err
		}
		if !changed {
			continue
		}
		if err := s.violationRepo.SaveWithLock(ctx, violation); err != nil {
			if errors.Is(err, shared.ErrConcurrencyConflict) {
				// resolved or escalated by a concurrent writer between the
				// read and this write; their transition wins
				s.logger.Debug("overdue sweep skipped concurrently modified violation",
					zap.String("violation_id", violation.ID.String()))
				continue
			}
			return flipped, err
		}
		s.publishEvents(ctx, violation)
		flipped++
	}

	if flipped > 0 {
		s.logger.Info("overdue sweep escalated violations", zap.Int("flipped", flipped))
	}
	return flipped, nil
}

// GetByID retrieves a violation by id
func (s *ViolationService) GetByID(ctx context.Context, id uuid.UUID) (*ViolationResponse, error) {
	violation, err := s.violationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToViolationResponse(violation)
	return &response, nil
}

// ListBySite retrieves violations for a site with pagination
func (s *ViolationService) ListBySite(ctx context.Context, siteID uuid.UUID, filter shared.Filter) ([]ViolationResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	page, err := s.violationRepo.FindBySite(ctx, siteID, filter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ViolationResponse, 0, len(page.Items))
	for _, violation := range page.Items {
		responses = append(responses, ToViolationResponse(violation))
	}
	return responses, page.Total, nil
}

// ListByEntry retrieves all violations referencing an entry
func (s *ViolationService) ListByEntry(ctx context.Context, entryID uuid.UUID) ([]ViolationResponse, error) {
	violations, err := s.violationRepo.FindByEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	responses := make([]ViolationResponse, 0, len(violations))
	for _, violation := range violations {
		responses = append(responses, ToViolationResponse(violation))
	}
	return responses, nil
}

func (s *ViolationService) publishEvents(ctx context.Context, violation *quality.Violation) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range violation.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish violation event", zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	violation.ClearDomainEvents()
}
