package geo

import (
	"time"

	"github.com/ejournal/backend/internal/domain/shared"
)

// VerificationMethod identifies how a location proof was captured
type VerificationMethod string

const (
	MethodGPS VerificationMethod = "gps"
	MethodQR  VerificationMethod = "qr"
	MethodNFC VerificationMethod = "nfc"
)

// IsValid checks if the method is a known VerificationMethod
func (m VerificationMethod) IsValid() bool {
	switch m {
	case MethodGPS, MethodQR, MethodNFC:
		return true
	}
	return false
}

// String returns the string representation of the method
func (m VerificationMethod) String() string {
	return string(m)
}

// LocationProof is a captured coordinate reading with its accuracy radius.
// It is never persisted standalone; it travels attached to a presence
// session or a journal entry.
type LocationProof struct {
	Coordinate Coordinate         `json:"coordinate"`
	AccuracyM  float64            `json:"accuracy_m"`
	CapturedAt time.Time          `json:"captured_at"`
	Method     VerificationMethod `json:"method"`
}

// NewLocationProof creates a validated location proof
func NewLocationProof(coord Coordinate, accuracyM float64, capturedAt time.Time, method VerificationMethod) (LocationProof, error) {
	if accuracyM < 0 {
		return LocationProof{}, shared.NewDomainError("INVALID_PROOF", "Accuracy radius cannot be negative")
	}
	if capturedAt.IsZero() {
		return LocationProof{}, shared.NewDomainError("INVALID_PROOF", "Capture timestamp is required")
	}
	if !method.IsValid() {
		return LocationProof{}, shared.NewDomainError("INVALID_PROOF", "Unknown verification method")
	}
	return LocationProof{
		Coordinate: coord,
		AccuracyM:  accuracyM,
		CapturedAt: capturedAt,
		Method:     method,
	}, nil
}

// Age returns the gap between capture and evaluation time
func (p LocationProof) Age(now time.Time) time.Duration {
	return now.Sub(p.CapturedAt)
}
