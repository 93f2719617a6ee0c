package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ejournal/backend/internal/domain/quality"
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/ejournal/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormViolationRepository implements ViolationRepository using GORM
type GormViolationRepository struct {
	db *gorm.DB
}

// NewGormViolationRepository creates a new GormViolationRepository
func NewGormViolationRepository(db *gorm.DB) *GormViolationRepository {
	return &GormViolationRepository{db: db}
}

// FindByID finds a violation by its ID
func (r *GormViolationRepository) FindByID(ctx context.Context, id uuid.UUID) (*quality.Violation, error) {
	var model models.ViolationModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindBySite finds violations for a site with pagination
func (r *GormViolationRepository) FindBySite(ctx context.Context, siteID uuid.UUID, filter shared.Filter) (*shared.Paginated[*quality.Violation], error) {
	var total int64
	countQuery := r.applyFilters(
		r.db.WithContext(ctx).Model(&models.ViolationModel{}).Where("site_id = ?", siteID), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var violationModels []models.ViolationModel
	listQuery := r.applyFilters(
		r.db.WithContext(ctx).Model(&models.ViolationModel{}).Where("site_id = ?", siteID), filter)
	if err := r.applyPagination(listQuery, filter).Find(&violationModels).Error; err != nil {
		return nil, err
	}

	violations := make([]*quality.Violation, len(violationModels))
	for i := range violationModels {
		violations[i] = violationModels[i].ToDomain()
	}

	page := shared.NewPaginated(violations, total, filter.Page, filter.PageSize)
	return &page, nil
}

// FindByEntry finds all violations recorded against an entry
func (r *GormViolationRepository) FindByEntry(ctx context.Context, entryID uuid.UUID) ([]*quality.Violation, error) {
	var violationModels []models.ViolationModel
	if err := r.db.WithContext(ctx).
		Where("entry_id = ?", entryID).
		Order("opened_at ASC").
		Find(&violationModels).Error; err != nil {
		return nil, err
	}

	violations := make([]*quality.Violation, len(violationModels))
	for i := range violationModels {
		violations[i] = violationModels[i].ToDomain()
	}
	return violations, nil
}

// FindOpenPastDeadline returns open violations whose deadline lies before now
func (r *GormViolationRepository) FindOpenPastDeadline(ctx context.Context, now time.Time) ([]*quality.Violation, error) {
	var violationModels []models.ViolationModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND deadline < ?", quality.ViolationStatusOpen, now).
		Order("deadline ASC").
		Find(&violationModels).Error; err != nil {
		return nil, err
	}

	violations := make([]*quality.Violation, len(violationModels))
	for i := range violationModels {
		violations[i] = violationModels[i].ToDomain()
	}
	return violations, nil
}

// CountOutstandingBySite counts open and overdue violations for a site
func (r *GormViolationRepository) CountOutstandingBySite(ctx context.Context, siteID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ViolationModel{}).
		Where("site_id = ? AND status IN ?", siteID,
			[]quality.ViolationStatus{quality.ViolationStatusOpen, quality.ViolationStatusOverdue}).
		Count(&count).Error
	return count, err
}

// Save persists a violation
func (r *GormViolationRepository) Save(ctx context.Context, violation *quality.Violation) error {
	model := models.ViolationModelFromDomain(violation)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock persists a status transition with optimistic locking. The
// update only lands when the stored version still matches the version the
// aggregate was read at; a concurrent resolve or escalation leaves zero
// rows affected and the caller gets a concurrency conflict instead of a
// lost update.
func (r *GormViolationRepository) SaveWithLock(ctx context.Context, violation *quality.Violation) error {
	result := r.db.WithContext(ctx).
		Model(&models.ViolationModel{}).
		Where("id = ? AND version = ?", violation.ID, violation.Version-1).
		Updates(map[string]interface{}{
			"status":          violation.Status,
			"resolved_at":     violation.ResolvedAt,
			"resolution_note": violation.ResolutionNote,
			"version":         violation.Version,
			"updated_at":      violation.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// applyFilters applies non-pagination filter criteria
func (r *GormViolationRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "severity":
			query = query.Where("severity = ?", value)
		case "entry_id":
			query = query.Where("entry_id = ?", value)
		}
	}
	return query
}

// applyPagination applies ordering and pagination from the filter
func (r *GormViolationRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, ViolationSortFields, "opened_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(strings.Join([]string{orderBy, orderDir}, " "))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormViolationRepository implements ViolationRepository
var _ quality.ViolationRepository = (*GormViolationRepository)(nil)
