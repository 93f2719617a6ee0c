package journal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/journal"
)

// SubmitEntryRequest carries a draft entry submission
type SubmitEntryRequest struct {
	SiteID        uuid.UUID
	AuthorID      uuid.UUID
	WorkType      journal.WorkType
	Description   string
	Volume        decimal.Decimal
	PlannedVolume *decimal.Decimal
	Unit          string
	StartsAt      time.Time
	EndsAt        time.Time
	Participants  []uuid.UUID
	Materials     []string
	Documents     []string
	Proof         geo.LocationProof
	WorkZone      string
	Weather       *journal.Weather
}

// EntryResponse is the entry representation returned to the interface layer
type EntryResponse struct {
	ID            uuid.UUID        `json:"id"`
	SiteID        uuid.UUID        `json:"site_id"`
	AuthorID      uuid.UUID        `json:"author_id"`
	Number        string           `json:"number,omitempty"`
	WorkType      string           `json:"work_type"`
	Description   string           `json:"description,omitempty"`
	Volume        decimal.Decimal  `json:"volume"`
	PlannedVolume decimal.Decimal  `json:"planned_volume"`
	Completion    decimal.Decimal  `json:"completion_percent"`
	Unit          string           `json:"unit"`
	StartsAt      time.Time        `json:"starts_at"`
	EndsAt        time.Time        `json:"ends_at"`
	Participants  []uuid.UUID      `json:"participants"`
	Materials     []string         `json:"materials"`
	Documents     []string         `json:"documents"`
	WorkZone      string           `json:"work_zone,omitempty"`
	Weather       *journal.Weather `json:"weather,omitempty"`
	Status        string           `json:"status"`
	RejectReason  string           `json:"reject_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// ToEntryResponse converts an entry aggregate to its response form
func ToEntryResponse(entry *journal.Entry) EntryResponse {
	return EntryResponse{
		ID:            entry.ID,
		SiteID:        entry.SiteID,
		AuthorID:      entry.AuthorID,
		Number:        entry.Number,
		WorkType:      entry.WorkType.String(),
		Description:   entry.Description,
		Volume:        entry.Volume,
		PlannedVolume: entry.PlannedVolume,
		Completion:    entry.CompletionPercent(),
		Unit:          entry.Unit,
		StartsAt:      entry.StartsAt,
		EndsAt:        entry.EndsAt,
		Participants:  entry.Participants,
		Materials:     entry.Materials,
		Documents:     entry.Documents,
		WorkZone:      entry.WorkZone,
		Weather:       entry.Weather,
		Status:        entry.Status.String(),
		RejectReason:  entry.RejectReason,
		CreatedAt:     entry.CreatedAt,
	}
}
