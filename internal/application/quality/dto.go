package quality

import (
	"time"

	"github.com/google/uuid"

	"github.com/ejournal/backend/internal/domain/quality"
)

// RecordViolationRequest carries a new violation against a committed entry
type RecordViolationRequest struct {
	EntryID     uuid.UUID
	Code        string
	Description string
	Severity    quality.Severity
	Deadline    time.Time
}

// ViolationResponse is the violation representation returned to the
// interface layer
type ViolationResponse struct {
	ID             uuid.UUID  `json:"id"`
	EntryID        uuid.UUID  `json:"entry_id"`
	SiteID         uuid.UUID  `json:"site_id"`
	Code           string     `json:"code"`
	Description    string     `json:"description,omitempty"`
	Severity       string     `json:"severity"`
	Status         string     `json:"status"`
	OpenedAt       time.Time  `json:"opened_at"`
	Deadline       time.Time  `json:"deadline"`
	ResolvedAt     *time.Time `json:"resolved_at,omitempty"`
	ResolutionNote string     `json:"resolution_note,omitempty"`
}

// ToViolationResponse converts a violation aggregate to its response form
func ToViolationResponse(v *quality.Violation) ViolationResponse {
	return ViolationResponse{
		ID:             v.ID,
		EntryID:        v.EntryID,
		SiteID:         v.SiteID,
		Code:           v.Code,
		Description:    v.Description,
		Severity:       v.Severity.String(),
		Status:         v.Status.String(),
		OpenedAt:       v.OpenedAt,
		Deadline:       v.Deadline,
		ResolvedAt:     v.ResolvedAt,
		ResolutionNote: v.ResolutionNote,
	}
}
