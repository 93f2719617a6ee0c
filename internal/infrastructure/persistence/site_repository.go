package persistence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/ejournal/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSiteRepository implements SiteRepository using GORM
type GormSiteRepository struct {
	db *gorm.DB
}

// NewGormSiteRepository creates a new GormSiteRepository
func NewGormSiteRepository(db *gorm.DB) *GormSiteRepository {
	return &GormSiteRepository{db: db}
}

// FindByID finds a site by its ID
func (r *GormSiteRepository) FindByID(ctx context.Context, id uuid.UUID) (*geo.Site, error) {
	var model models.SiteModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByCode finds a site by its code
func (r *GormSiteRepository) FindByCode(ctx context.Context, code string) (*geo.Site, error) {
	var model models.SiteModel
	if err := r.db.WithContext(ctx).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindActive finds all active sites, the working set for the fence index
func (r *GormSiteRepository) FindActive(ctx context.Context) ([]geo.Site, error) {
	var siteModels []models.SiteModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", geo.SiteStatusActive).
		Order("code ASC").
		Find(&siteModels).Error; err != nil {
		return nil, err
	}

	sites := make([]geo.Site, 0, len(siteModels))
	for i := range siteModels {
		site, err := siteModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		sites = append(sites, *site)
	}
	return sites, nil
}

// Save persists a site
func (r *GormSiteRepository) Save(ctx context.Context, site *geo.Site) error {
	model, err := models.SiteModelFromDomain(site)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Save(model).Error
}

// GenerateCode issues the next zero-padded site code. Codes are derived from
// the numerically largest existing code so retired sites never free a code.
func (r *GormSiteRepository) GenerateCode(ctx context.Context) (string, error) {
	var lastCode string
	err := r.db.WithContext(ctx).
		Model(&models.SiteModel{}).
		Select("code").
		Order("code DESC").
		Limit(1).
		Scan(&lastCode).Error
	if err != nil {
		return "", err
	}

	next := 1
	if lastCode != "" {
		n, err := strconv.Atoi(strings.TrimLeft(lastCode, "0"))
		if err != nil {
			return "", fmt.Errorf("malformed site code %q: %w", lastCode, err)
		}
		next = n + 1
	}
	return fmt.Sprintf("%03d", next), nil
}

// Ensure GormSiteRepository implements SiteRepository
var _ geo.SiteRepository = (*GormSiteRepository)(nil)
