package journal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ejournal/backend/internal/domain/geo"
	"github.com/ejournal/backend/internal/domain/shared"
)

// EntryStatus represents the lifecycle status of a journal entry
type EntryStatus string

const (
	EntryStatusDraft     EntryStatus = "DRAFT"
	EntryStatusCommitted EntryStatus = "COMMITTED"
	EntryStatusRejected  EntryStatus = "REJECTED"
)

// IsValid checks if the status is a valid EntryStatus
func (s EntryStatus) IsValid() bool {
	switch s {
	case EntryStatusDraft, EntryStatusCommitted, EntryStatusRejected:
		return true
	}
	return false
}

// String returns the string representation of EntryStatus
func (s EntryStatus) String() string {
	return string(s)
}

// IsTerminal reports whether the status admits no further transitions
func (s EntryStatus) IsTerminal() bool {
	return s == EntryStatusCommitted || s == EntryStatusRejected
}

// WeatherCondition records the weather during the work period
type WeatherCondition string

const (
	WeatherClear  WeatherCondition = "clear"
	WeatherCloudy WeatherCondition = "cloudy"
	WeatherRain   WeatherCondition = "rain"
	WeatherSnow   WeatherCondition = "snow"
	WeatherFog    WeatherCondition = "fog"
	WeatherWind   WeatherCondition = "wind"
)

// IsValid checks if the condition is a known WeatherCondition
func (w WeatherCondition) IsValid() bool {
	switch w {
	case WeatherClear, WeatherCloudy, WeatherRain, WeatherSnow, WeatherFog, WeatherWind:
		return true
	}
	return false
}

// Weather is the site weather observed for the entry's time range
type Weather struct {
	Condition    WeatherCondition `json:"condition"`
	TemperatureC *float64         `json:"temperature_c,omitempty"`
}

// Entry represents a work journal entry aggregate root. Once committed or
// rejected it is immutable; a correction is always a new draft.
type Entry struct {
	shared.BaseAggregateRoot
	SiteID        uuid.UUID
	AuthorID      uuid.UUID
	WorkType      WorkType
	Description   string
	Volume        decimal.Decimal
	PlannedVolume decimal.Decimal
	Unit          string
	StartsAt      time.Time
	EndsAt        time.Time
	Participants  []uuid.UUID
	Materials     []string // opaque references resolved by the materials collaborator
	Documents     []string // opaque references resolved by the file collaborator
	Proof         geo.LocationProof
	WorkZone      string // empty unless the work is zone-restricted
	Weather       *Weather
	Status        EntryStatus
	Number        string // assigned on commit, site-scoped
	RejectReason  string
}

// NewEntry creates a draft journal entry
func NewEntry(siteID, authorID uuid.UUID, workType WorkType, volume decimal.Decimal, unit string, startsAt, endsAt time.Time, proof geo.LocationProof) (*Entry, error) {
	if siteID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Site ID is required")
	}
	if authorID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Author ID is required")
	}
	if !workType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Unknown work type")
	}
	if volume.IsNegative() {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Declared volume cannot be negative")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Volume unit is required")
	}
	if !endsAt.After(startsAt) {
		return nil, shared.NewDomainError("INVALID_ENTRY", "Time range end must be after start")
	}

	return &Entry{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SiteID:            siteID,
		AuthorID:          authorID,
		WorkType:          workType,
		Volume:            volume,
		Unit:              unit,
		StartsAt:          startsAt,
		EndsAt:            endsAt,
		Participants:      make([]uuid.UUID, 0),
		Materials:         make([]string, 0),
		Documents:         make([]string, 0),
		Proof:             proof,
		Status:            EntryStatusDraft,
	}, nil
}

// Commit transitions the draft to committed with its assigned entry number.
// Number assignment and the transition are one atomic step; the repository
// persists both in the same transaction.
func (e *Entry) Commit(number string) error {
	if e.Status != EntryStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft entries can be committed")
	}
	if number == "" {
		return shared.NewDomainError("INVALID_STATE", "Entry number is required to commit")
	}

	e.Status = EntryStatusCommitted
	e.Number = number
	e.Touch()

	e.AddDomainEvent(NewEntryCommittedEvent(e))

	return nil
}

// Reject transitions the draft to rejected with the failing rule's reason
// code. Rejection is terminal; resubmission is a new entry.
func (e *Entry) Reject(reasonCode string) error {
	if e.Status != EntryStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft entries can be rejected")
	}
	if reasonCode == "" {
		return shared.NewDomainError("INVALID_STATE", "Rejection reason code is required")
	}

	e.Status = EntryStatusRejected
	e.RejectReason = reasonCode
	e.Touch()

	e.AddDomainEvent(NewEntryRejectedEvent(e))

	return nil
}

// SetWeather attaches a weather observation to a draft entry
func (e *Entry) SetWeather(w Weather) error {
	if e.Status != EntryStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a terminal entry")
	}
	if !w.Condition.IsValid() {
		return shared.NewDomainError("INVALID_ENTRY", "Unknown weather condition")
	}
	e.Weather = &w
	return nil
}

// SetPlannedVolume records the planned volume for plan-versus-actual reporting
func (e *Entry) SetPlannedVolume(v decimal.Decimal) error {
	if e.Status != EntryStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Cannot modify a terminal entry")
	}
	if v.IsNegative() {
		return shared.NewDomainError("INVALID_ENTRY", "Planned volume cannot be negative")
	}
	e.PlannedVolume = v
	return nil
}

// VolumeDeviation returns actual minus planned volume, or zero when no plan
// was recorded
func (e *Entry) VolumeDeviation() decimal.Decimal {
	if e.PlannedVolume.IsZero() {
		return decimal.Zero
	}
	return e.Volume.Sub(e.PlannedVolume)
}

// CompletionPercent returns declared volume as a percentage of the plan,
// rounded to two places, or zero when no plan was recorded
func (e *Entry) CompletionPercent() decimal.Decimal {
	if e.PlannedVolume.IsZero() {
		return decimal.Zero
	}
	return e.Volume.Div(e.PlannedVolume).Mul(decimal.NewFromInt(100)).Round(2)
}
