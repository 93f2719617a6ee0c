package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	presenceapp "github.com/ejournal/backend/internal/application/presence"
	"github.com/ejournal/backend/internal/domain/geo"
)

// SessionHandler handles presence session HTTP requests
type SessionHandler struct {
	BaseHandler
	sessionService *presenceapp.SessionService
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(sessionService *presenceapp.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// LocationProofHTTPRequest represents a captured location reading
//
//	@Description	Location proof attached to a claim or entry submission
type LocationProofHTTPRequest struct {
	Lat        float64   `json:"lat" binding:"min=-90,max=90" example:"55.7512"`
	Lon        float64   `json:"lon" binding:"min=-180,max=180" example:"37.6184"`
	AccuracyM  float64   `json:"accuracy_m" binding:"min=0" example:"8.5"`
	CapturedAt time.Time `json:"captured_at" binding:"required" example:"2026-03-12T08:41:00Z"`
	Method     string    `json:"method" binding:"required,oneof=gps qr nfc" example:"gps"`
}

// toProof converts the HTTP proof to its domain form
func (r LocationProofHTTPRequest) toProof() (geo.LocationProof, error) {
	coord, err := geo.NewCoordinate(r.Lat, r.Lon)
	if err != nil {
		return geo.LocationProof{}, err
	}
	return geo.NewLocationProof(coord, r.AccuracyM, r.CapturedAt, geo.VerificationMethod(r.Method))
}

// ClaimSessionHTTPRequest represents the HTTP request body for claiming presence
//
//	@Description	Request body for claiming a presence session at a site
type ClaimSessionHTTPRequest struct {
	SiteID string                   `json:"site_id" binding:"required,uuid" example:"550e8400-e29b-41d4-a716-446655440000"`
	Proof  LocationProofHTTPRequest `json:"proof" binding:"required"`
}

// Claim godoc
//
//	@Summary		Claim a presence session at a site
//	@Description	Opens or reuses the caller's presence session. At most one
//	@Description	open session per person exists across all sites.
//	@Tags			presence
//	@Accept			json
//	@Produce		json
//	@Param			X-Person-ID	header		string					true	"Acting person ID"
//	@Param			request		body		ClaimSessionHTTPRequest	true	"Claim request"
//	@Success		200			{object}	APIResponse[presenceapp.SessionResponse]
//	@Failure		409			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Failure		429			{object}	ErrorResponse
//	@Router			/presence/claims [post]
func (h *SessionHandler) Claim(c *gin.Context) {
	personID, err := getPersonID(c)
	if err != nil {
		h.Unauthorized(c, "Person ID is required")
		return
	}

	var req ClaimSessionHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	proof, err := req.Proof.toProof()
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp, err := h.sessionService.Claim(c.Request.Context(), personID, siteID, proof)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Release godoc
//
//	@Summary		Release a presence session
//	@Tags			presence
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	APIResponse[presenceapp.SessionResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Router			/presence/sessions/{id}/release [post]
func (h *SessionHandler) Release(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	resp, err := h.sessionService.Release(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID godoc
//
//	@Summary		Get a presence session by ID
//	@Tags			presence
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"
//	@Success		200	{object}	APIResponse[presenceapp.SessionResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Router			/presence/sessions/{id} [get]
func (h *SessionHandler) GetByID(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	resp, err := h.sessionService.GetByID(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
