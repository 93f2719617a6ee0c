package models

import (
	"time"

	"github.com/ejournal/backend/internal/application/audit"
	"github.com/google/uuid"
)

// AuditRecordModel is the persistence model for audit trail records.
// Records are append-only; there is no update path.
type AuditRecordModel struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	EventType     string    `gorm:"type:varchar(100);not null;index"`
	AggregateType string    `gorm:"type:varchar(100);not null"`
	AggregateID   uuid.UUID `gorm:"type:uuid;not null;index"`
	OccurredAt    time.Time `gorm:"not null;index"`
	Payload       string    `gorm:"type:jsonb;not null"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (AuditRecordModel) TableName() string {
	return "audit_records"
}

// ToDomain converts the persistence model to an audit Record.
func (m *AuditRecordModel) ToDomain() audit.Record {
	return audit.Record{
		ID:            m.ID,
		EventType:     m.EventType,
		AggregateType: m.AggregateType,
		AggregateID:   m.AggregateID,
		OccurredAt:    m.OccurredAt,
		Payload:       []byte(m.Payload),
	}
}

// AuditRecordModelFromDomain creates a new persistence model from an audit Record.
func AuditRecordModelFromDomain(r *audit.Record) *AuditRecordModel {
	return &AuditRecordModel{
		ID:            r.ID,
		EventType:     r.EventType,
		AggregateType: r.AggregateType,
		AggregateID:   r.AggregateID,
		OccurredAt:    r.OccurredAt,
		Payload:       string(r.Payload),
	}
}
