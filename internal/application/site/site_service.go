package site

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/presence"
	"github.com/ejournal/backend/internal/domain/quality"
	"github.com/ejournal/backend/internal/domain/shared"
)

// SiteService handles site registration and lifecycle. It owns the fence
// index refresh: every boundary change lands in the index before the call
// returns.
type SiteService struct {
	siteRepo       geo.SiteRepository
	sessionRepo    presence.SessionRepository
	violationRepo  quality.ViolationRepository
	fences         *geo.FenceIndex
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewSiteService creates a new SiteService
func NewSiteService(
	siteRepo geo.SiteRepository,
	sessionRepo presence.SessionRepository,
	violationRepo quality.ViolationRepository,
	fences *geo.FenceIndex,
	logger *zap.Logger,
) *SiteService {
	return &SiteService{
		siteRepo:      siteRepo,
		sessionRepo:   sessionRepo,
		violationRepo: violationRepo,
		fences:        fences,
		logger:        logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SiteService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new site with its initial boundary
func (s *SiteService) Create(ctx context.Context, req CreateSiteRequest) (*SiteResponse, error) {
	boundary, err := toPolygon(req.Boundary)
	if err != nil {
		return nil, err
	}
	zones, err := toWorkZones(req.WorkZones)
	if err != nil {
		return nil, err
	}

	code, err := s.siteRepo.GenerateCode(ctx)
	if err != nil {
		return nil, err
	}

	site, err := geo.NewSite(code, req.Name, req.Address, boundary, req.WorkdayStartMin, req.WorkdayEndMin)
	if err != nil {
		return nil, err
	}
	if len(zones) > 0 {
		if err := site.PublishBoundary(boundary, zones); err != nil {
			return nil, err
		}
	}

	if err := s.siteRepo.Save(ctx, site); err != nil {
		return nil, err
	}
	s.fences.Update(site)
	s.publishEvents(ctx, site)

	s.logger.Info("site registered",
		zap.String("site_id", site.ID.String()),
		zap.String("code", site.Code),
	)
	response := ToSiteResponse(site)
	return &response, nil
}

// PublishBoundary replaces a site's boundary and work zones. Fails with a
// boundary lock while any open presence session exists for the site, since
// moving the fence under a verified session would invalidate its proof.
func (s *SiteService) PublishBoundary(ctx context.Context, siteID uuid.UUID, req PublishBoundaryRequest) (*SiteResponse, error) {
	site, err := s.siteRepo.FindByID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	open, err := s.sessionRepo.CountOpenBySite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if open > 0 {
		return nil, shared.ErrSiteBoundaryLocked
	}

	boundary, err := toPolygon(req.Boundary)
	if err != nil {
		return nil, err
	}
	zones, err := toWorkZones(req.WorkZones)
	if err != nil {
		return nil, err
	}

	if err := site.PublishBoundary(boundary, zones); err != nil {
		return nil, err
	}
	if err := s.siteRepo.Save(ctx, site); err != nil {
		return nil, err
	}
	s.fences.Update(site)
	s.publishEvents(ctx, site)

	response := ToSiteResponse(site)
	return &response, nil
}

// Complete closes out a site. Blocked while any open or overdue violation
// remains.
func (s *SiteService) Complete(ctx context.Context, siteID uuid.UUID) (*SiteResponse, error) {
	site, err := s.siteRepo.FindByID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.violationRepo.CountOutstandingBySite(ctx, siteID)
	if err != nil {
		return nil, err
	}
	if outstanding > 0 {
		return nil, shared.ErrSiteHasOpenViolations
	}

	if err := site.Complete(); err != nil {
		return nil, err
	}
	if err := s.siteRepo.Save(ctx, site); err != nil {
		return nil, err
	}
	s.fences.Remove(site.ID)
	s.publishEvents(ctx, site)

	response := ToSiteResponse(site)
	return &response, nil
}

// Retire retires a site on project closure
func (s *SiteService) Retire(ctx context.Context, siteID uuid.UUID) (*SiteResponse, error) {
	site, err := s.siteRepo.FindByID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	if err := site.Retire(); err != nil {
		return nil, err
	}
	if err := s.siteRepo.Save(ctx, site); err != nil {
		return nil, err
	}
	s.fences.Remove(site.ID)
	s.publishEvents(ctx, site)

	response := ToSiteResponse(site)
	return &response, nil
}

// GetByID retrieves a site by id
func (s *SiteService) GetByID(ctx context.Context, siteID uuid.UUID) (*SiteResponse, error) {
	site, err := s.siteRepo.FindByID(ctx, siteID)
	if err != nil {
		return nil, err
	}
	response := ToSiteResponse(site)
	return &response, nil
}

// ListActive retrieves all active sites
func (s *SiteService) ListActive(ctx context.Context) ([]SiteResponse, error) {
	sites, err := s.siteRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]SiteResponse, 0, len(sites))
	for idx := range sites {
		responses = append(responses, ToSiteResponse(&sites[idx]))
	}
	return responses, nil
}

// Nearest returns the indexed site closest to the coordinate
func (s *SiteService) Nearest(ctx context.Context, lat, lon float64) (*NearestSiteResponse, error) {
	coord, err := geo.NewCoordinate(lat, lon)
	if err != nil {
		return nil, err
	}

	fence, dist, ok := s.fences.Nearest(coord)
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &NearestSiteResponse{
		SiteID:    fence.SiteID,
		SiteCode:  fence.SiteCode,
		DistanceM: dist,
		Inside:    dist == 0,
	}, nil
}

// WarmFenceIndex loads every active site boundary into the fence index.
// Called once at startup.
func (s *SiteService) WarmFenceIndex(ctx context.Context) error {
	if err := s.fences.WarmUp(ctx, s.siteRepo); err != nil {
		return err
	}
	s.logger.Info("fence index warmed", zap.Int("sites", s.fences.Len()))
	return nil
}

func (s *SiteService) publishEvents(ctx context.Context, site *geo.Site) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range site.GetDomainEvents() {
		if err := s.eventPublisher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish site event", zap.String("event_type", event.EventType()), zap.Error(err))
		}
	}
	site.ClearDomainEvents()
}
