package presence

import (
	"time"

	"github.com/google/uuid"

	"github.com/ejournal/backend/internal/domain/presence"
)

// SessionResponse is the session representation returned to the interface layer
type SessionResponse struct {
	ID         uuid.UUID  `json:"id"`
	PersonID   uuid.UUID  `json:"person_id"`
	SiteID     uuid.UUID  `json:"site_id"`
	Method     string     `json:"method"`
	OpenedAt   time.Time  `json:"opened_at"`
	LastSeenAt time.Time  `json:"last_seen_at"`
	ClosedAt   *time.Time `json:"closed_at,omitempty"`
	Reason     string     `json:"close_reason,omitempty"`
}

// ToSessionResponse converts a session aggregate to its response form
func ToSessionResponse(session *presence.Session) SessionResponse {
	return SessionResponse{
		ID:         session.ID,
		PersonID:   session.PersonID,
		SiteID:     session.SiteID,
		Method:     session.Method.String(),
		OpenedAt:   session.OpenedAt,
		LastSeenAt: session.LastSeenAt,
		ClosedAt:   session.ClosedAt,
		Reason:     session.CloseReason.String(),
	}
}
