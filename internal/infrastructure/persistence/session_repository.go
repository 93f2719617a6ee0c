package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/ejournal/backend/internal/domain/presence"
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/ejournal/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSessionRepository implements SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByID finds a session by its ID
func (r *GormSessionRepository) FindByID(ctx context.Context, id uuid.UUID) (*presence.Session, error) {
	var model models.SessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenByPerson finds the person's open session across all sites.
// The storage schema admits at most one; callers hold the claim lock.
func (r *GormSessionRepository) FindOpenByPerson(ctx context.Context, personID uuid.UUID) (*presence.Session, error) {
	var model models.SessionModel
	if err := r.db.WithContext(ctx).
		Where("person_id = ? AND closed_at IS NULL", personID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenBySite finds all open sessions for a site
func (r *GormSessionRepository) FindOpenBySite(ctx context.Context, siteID uuid.UUID) ([]*presence.Session, error) {
	var sessionModels []models.SessionModel
	if err := r.db.WithContext(ctx).
		Where("site_id = ? AND closed_at IS NULL", siteID).
		Order("opened_at ASC").
		Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions := make([]*presence.Session, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = sessionModels[i].ToDomain()
	}
	return sessions, nil
}

// CountOpenBySite counts open sessions for a site, the boundary-edit gate
func (r *GormSessionRepository) CountOpenBySite(ctx context.Context, siteID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SessionModel{}).
		Where("site_id = ? AND closed_at IS NULL", siteID).
		Count(&count).Error
	return count, err
}

// FindOpenIdleSince finds open sessions not refreshed since the cutoff,
// the working set of the stale-session reaper
func (r *GormSessionRepository) FindOpenIdleSince(ctx context.Context, lastSeenBefore time.Time) ([]*presence.Session, error) {
	var sessionModels []models.SessionModel
	if err := r.db.WithContext(ctx).
		Where("closed_at IS NULL AND last_seen_at < ?", lastSeenBefore).
		Order("last_seen_at ASC").
		Find(&sessionModels).Error; err != nil {
		return nil, err
	}

	sessions := make([]*presence.Session, len(sessionModels))
	for i := range sessionModels {
		sessions[i] = sessionModels[i].ToDomain()
	}
	return sessions, nil
}

// Save persists a session
func (r *GormSessionRepository) Save(ctx context.Context, session *presence.Session) error {
	model := models.SessionModelFromDomain(session)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormSessionRepository implements SessionRepository
var _ presence.SessionRepository = (*GormSessionRepository)(nil)
