package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ejournal/backend/internal/domain/journal"
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/ejournal/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormEntryRepository implements EntryRepository using GORM
type GormEntryRepository struct {
	db *gorm.DB
}

// NewGormEntryRepository creates a new GormEntryRepository
func NewGormEntryRepository(db *gorm.DB) *GormEntryRepository {
	return &GormEntryRepository{db: db}
}

// FindByID finds an entry by its ID
func (r *GormEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*journal.Entry, error) {
	var model models.EntryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByNumber finds a committed entry by its site-scoped number
func (r *GormEntryRepository) FindByNumber(ctx context.Context, siteID uuid.UUID, number string) (*journal.Entry, error) {
	var model models.EntryModel
	if err := r.db.WithContext(ctx).
		Where("site_id = ? AND number = ?", siteID, number).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindBySite finds entries for a site with pagination
func (r *GormEntryRepository) FindBySite(ctx context.Context, siteID uuid.UUID, filter shared.Filter) (*shared.Paginated[*journal.Entry], error) {
	var total int64
	countQuery := r.applyFilters(
		r.db.WithContext(ctx).Model(&models.EntryModel{}).Where("site_id = ?", siteID), filter)
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, err
	}

	var entryModels []models.EntryModel
	listQuery := r.applyFilters(
		r.db.WithContext(ctx).Model(&models.EntryModel{}).Where("site_id = ?", siteID), filter)
	if err := r.applyPagination(listQuery, filter).Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]*journal.Entry, 0, len(entryModels))
	for i := range entryModels {
		entry, err := entryModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	page := shared.NewPaginated(entries, total, filter.Page, filter.PageSize)
	return &page, nil
}

// CommittedWorkTypes returns the distinct work types already committed on the site
func (r *GormEntryRepository) CommittedWorkTypes(ctx context.Context, siteID uuid.UUID) ([]journal.WorkType, error) {
	var workTypes []journal.WorkType
	err := r.db.WithContext(ctx).
		Model(&models.EntryModel{}).
		Where("site_id = ? AND status = ?", siteID, journal.EntryStatusCommitted).
		Distinct("work_type").
		Pluck("work_type", &workTypes).Error
	if err != nil {
		return nil, err
	}
	return workTypes, nil
}

// HasCommittedDuplicate reports whether a committed entry with the same site,
// work type, time range and author already exists
func (r *GormEntryRepository) HasCommittedDuplicate(ctx context.Context, siteID, authorID uuid.UUID, workType journal.WorkType, startsAt, endsAt time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EntryModel{}).
		Where("site_id = ? AND author_id = ? AND work_type = ? AND starts_at = ? AND ends_at = ? AND status = ?",
			siteID, authorID, workType, startsAt, endsAt, journal.EntryStatusCommitted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save persists an entry
func (r *GormEntryRepository) Save(ctx context.Context, entry *journal.Entry) error {
	model, err := models.EntryModelFromDomain(entry)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// CommitEntry bumps the site's yearly counter, applies the commit transition
// with the resulting number and persists the entry, all in one transaction.
// Concurrent commits on the same site serialize on the counter row, so
// numbers come out gap-free and strictly increasing.
func (r *GormEntryRepository) CommitEntry(ctx context.Context, entry *journal.Entry, siteCode string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		year := entry.StartsAt.Year()

		seed := models.EntryCounterModel{
			SiteID:    entry.SiteID,
			Year:      year,
			Counter:   1,
			UpdatedAt: time.Now(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "site_id"}, {Name: "year"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"counter":    gorm.Expr("entry_counters.counter + 1"),
				"updated_at": time.Now(),
			}),
		}).Create(&seed).Error; err != nil {
			return err
		}

		var counter models.EntryCounterModel
		if err := tx.Where("site_id = ? AND year = ?", entry.SiteID, year).
			First(&counter).Error; err != nil {
			return err
		}

		number := fmt.Sprintf("%d-%s-%03d", year, siteCode, counter.Counter)
		if err := entry.Commit(number); err != nil {
			return err
		}

		model, err := models.EntryModelFromDomain(entry)
		if err != nil {
			return err
		}
		return tx.Save(model).Error
	})
}

// applyFilters applies non-pagination filter criteria
func (r *GormEntryRepository) applyFilters(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "work_type":
			query = query.Where("work_type = ?", value)
		case "author_id":
			query = query.Where("author_id = ?", value)
		case "starts_after":
			if t, ok := value.(time.Time); ok {
				query = query.Where("starts_at >= ?", t)
			}
		case "ends_before":
			if t, ok := value.(time.Time); ok {
				query = query.Where("ends_at <= ?", t)
			}
		}
	}
	return query
}

// applyPagination applies ordering and pagination from the filter
func (r *GormEntryRepository) applyPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, EntrySortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(strings.Join([]string{orderBy, orderDir}, " "))

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormEntryRepository implements EntryRepository
var _ journal.EntryRepository = (*GormEntryRepository)(nil)
