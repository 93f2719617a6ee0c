package geo

import (
	"time"
)

// VerificationStatus is the outcome of validating a location proof
type VerificationStatus string

const (
	// VerificationAccepted means the proof places the person at the site
	VerificationAccepted VerificationStatus = "ACCEPTED"
	// VerificationInconclusive means the reading is too imprecise to decide;
	// the caller may fall back to an alternate method (QR/NFC)
	VerificationInconclusive VerificationStatus = "INCONCLUSIVE"
	// VerificationRejected means the proof does not support presence
	VerificationRejected VerificationStatus = "REJECTED"
)

// Rejection reason codes carried in VerificationResult
const (
	ReasonProofExpired         = "PROOF_EXPIRED"
	ReasonLocationUnverifiable = "LOCATION_UNVERIFIABLE"
)

// VerificationResult carries the decision and the measured geometry
type VerificationResult struct {
	Status     VerificationStatus `json:"status"`
	ReasonCode string             `json:"reason_code,omitempty"` // set when Status is REJECTED
	Inside     bool               `json:"inside"`
	DistanceM  float64            `json:"distance_m"` // distance to boundary; 0 when inside
}

// IsAccepted returns true if the proof was accepted
func (r VerificationResult) IsAccepted() bool {
	return r.Status == VerificationAccepted
}

// IsInconclusive returns true if the proof needs an alternate method
func (r VerificationResult) IsInconclusive() bool {
	return r.Status == VerificationInconclusive
}

// ValidatorConfig holds the geo validation tuning parameters
type ValidatorConfig struct {
	BoundaryToleranceM      float64       // accepted distance outside the boundary
	AccuracyCeilingM        float64       // max accuracy radius for safety-critical work
	RelaxedAccuracyCeilingM float64       // max accuracy radius for other work
	ProofMaxAge             time.Duration // max gap between capture and evaluation
}

// DefaultValidatorConfig returns the standard validation parameters
func DefaultValidatorConfig() ValidatorConfig {
	return ValidatorConfig{
		BoundaryToleranceM:      50,
		AccuracyCeilingM:        10,
		RelaxedAccuracyCeilingM: 30,
		ProofMaxAge:             5 * time.Minute,
	}
}

// Validator decides whether a location reading is an acceptable presence
// proof for a site. Validation is read-only and safe for parallel callers.
type Validator struct {
	cfg ValidatorConfig
}

// NewValidator creates a validator with the given configuration
func NewValidator(cfg ValidatorConfig) *Validator {
	return &Validator{cfg: cfg}
}

// Validate evaluates a location proof against the site's fence snapshot.
// safetyCritical selects the strict accuracy ceiling.
func (v *Validator) Validate(fence Fence, proof LocationProof, now time.Time, safetyCritical bool) VerificationResult {
	// Stale proofs are rejected outright to guard against replayed or
	// staged coordinates; the caller must resubmit a fresh reading.
	if proof.Age(now) > v.cfg.ProofMaxAge || proof.Age(now) < 0 {
		return VerificationResult{
			Status:     VerificationRejected,
			ReasonCode: ReasonProofExpired,
		}
	}

	ceiling := v.cfg.RelaxedAccuracyCeilingM
	if safetyCritical {
		ceiling = v.cfg.AccuracyCeilingM
	}
	if proof.AccuracyM > ceiling {
		// Not a hard rejection: an alternate verification method may still
		// attest presence.
		return VerificationResult{Status: VerificationInconclusive}
	}

	if fence.Boundary.Contains(proof.Coordinate) {
		return VerificationResult{Status: VerificationAccepted, Inside: true}
	}

	dist := fence.Boundary.DistanceToBoundary(proof.Coordinate)
	if dist <= v.cfg.BoundaryToleranceM {
		return VerificationResult{Status: VerificationAccepted, DistanceM: dist}
	}

	return VerificationResult{
		Status:     VerificationRejected,
		ReasonCode: ReasonLocationUnverifiable,
		DistanceM:  dist,
	}
}

// InWorkZone reports whether the proof coordinate lies inside the named work
// zone. A missing zone counts as outside. Failing this never blocks a
// presence session, only entries that require work-zone proof.
func (v *Validator) InWorkZone(fence Fence, zoneName string, proof LocationProof) bool {
	zone := fence.ZoneByName(zoneName)
	if zone == nil {
		return false
	}
	return zone.Polygon.Contains(proof.Coordinate)
}
