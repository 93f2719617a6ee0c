package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ejournal/backend/internal/domain/shared"
)

// Record is one immutable line of the audit trail
type Record struct {
	ID            uuid.UUID
	EventType     string
	AggregateType string
	AggregateID   uuid.UUID
	OccurredAt    time.Time
	Payload       json.RawMessage
}

// RecordRepository persists audit records
type RecordRepository interface {
	Save(ctx context.Context, record *Record) error
	FindRecent(ctx context.Context, limit int) ([]Record, error)
	FindByAggregate(ctx context.Context, aggregateID uuid.UUID) ([]Record, error)
}

// TrailHandler subscribes to every engine event and appends it to the audit
// trail. Failures are logged, never propagated; the trail is best-effort and
// must not fail the originating operation.
type TrailHandler struct {
	records RecordRepository
	logger  *zap.Logger
}

// NewTrailHandler creates a new TrailHandler
func NewTrailHandler(records RecordRepository, logger *zap.Logger) *TrailHandler {
	return &TrailHandler{
		records: records,
		logger:  logger,
	}
}

// EventTypes returns an empty slice: the trail receives all events
func (h *TrailHandler) EventTypes() []string {
	return nil
}

// Handle appends the event to the audit trail
func (h *TrailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to serialize event for audit trail",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
		return nil
	}

	record := &Record{
		ID:            uuid.New(),
		EventType:     event.EventType(),
		AggregateType: event.AggregateType(),
		AggregateID:   event.AggregateID(),
		OccurredAt:    event.OccurredAt(),
		Payload:       payload,
	}
	if err := h.records.Save(ctx, record); err != nil {
		h.logger.Warn("failed to append audit record",
			zap.String("event_type", event.EventType()),
			zap.Error(err),
		)
	}
	return nil
}
