package persistence

import (
	"context"

	"github.com/ejournal/backend/internal/application/audit"
	"github.com/ejournal/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAuditRecordRepository implements audit.RecordRepository using GORM
type GormAuditRecordRepository struct {
	db *gorm.DB
}

// NewGormAuditRecordRepository creates a new GormAuditRecordRepository
func NewGormAuditRecordRepository(db *gorm.DB) *GormAuditRecordRepository {
	return &GormAuditRecordRepository{db: db}
}

// Save appends an audit record
func (r *GormAuditRecordRepository) Save(ctx context.Context, record *audit.Record) error {
	model := models.AuditRecordModelFromDomain(record)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindRecent returns the most recent audit records, newest first
func (r *GormAuditRecordRepository) FindRecent(ctx context.Context, limit int) ([]audit.Record, error) {
	if limit <= 0 {
		limit = 50
	}
	var recordModels []models.AuditRecordModel
	if err := r.db.WithContext(ctx).
		Order("occurred_at DESC").
		Limit(limit).
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]audit.Record, len(recordModels))
	for i := range recordModels {
		records[i] = recordModels[i].ToDomain()
	}
	return records, nil
}

// FindByAggregate returns the audit history of one aggregate, oldest first
func (r *GormAuditRecordRepository) FindByAggregate(ctx context.Context, aggregateID uuid.UUID) ([]audit.Record, error) {
	var recordModels []models.AuditRecordModel
	if err := r.db.WithContext(ctx).
		Where("aggregate_id = ?", aggregateID).
		Order("occurred_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]audit.Record, len(recordModels))
	for i := range recordModels {
		records[i] = recordModels[i].ToDomain()
	}
	return records, nil
}

// Ensure GormAuditRecordRepository implements RecordRepository
var _ audit.RecordRepository = (*GormAuditRecordRepository)(nil)
