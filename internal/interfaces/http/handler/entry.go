package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	journalapp "github.com/ejournal/backend/internal/application/journal"
	"github.com/ejournal/backend/internal/domain/journal"
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/ejournal/backend/internal/interfaces/http/dto"
)

// EntryHandler handles journal entry HTTP requests
type EntryHandler struct {
	BaseHandler
	entryService *journalapp.EntryService
}

// NewEntryHandler creates a new EntryHandler
func NewEntryHandler(entryService *journalapp.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

// WeatherHTTPRequest represents the weather observed during the work
type WeatherHTTPRequest struct {
	Condition    string   `json:"condition" binding:"required,oneof=clear cloudy rain snow fog wind" example:"rain"`
	TemperatureC *float64 `json:"temperature_c,omitempty" example:"12.5"`
}

// SubmitEntryHTTPRequest represents the HTTP request body for submitting an entry
//
//	@Description	Request body for submitting a journal entry draft
type SubmitEntryHTTPRequest struct {
	SiteID        string                   `json:"site_id" binding:"required,uuid"`
	WorkType      string                   `json:"work_type" binding:"required" example:"foundation"`
	Description   string                   `json:"description,omitempty" binding:"max=2000"`
	Volume        float64                  `json:"volume" binding:"min=0" example:"12.5"`
	PlannedVolume *float64                 `json:"planned_volume,omitempty"`
	Unit          string                   `json:"unit" binding:"required,max=20" example:"m3"`
	StartsAt      time.Time                `json:"starts_at" binding:"required"`
	EndsAt        time.Time                `json:"ends_at" binding:"required"`
	Participants  []string                 `json:"participants,omitempty" binding:"dive,uuid"`
	Materials     []string                 `json:"materials,omitempty"`
	Documents     []string                 `json:"documents,omitempty"`
	WorkZone      string                   `json:"work_zone,omitempty" binding:"max=100"`
	Weather       *WeatherHTTPRequest      `json:"weather,omitempty"`
	Proof         LocationProofHTTPRequest `json:"proof" binding:"required"`
}

// EntryListHTTPRequest represents query parameters for listing entries
type EntryListHTTPRequest struct {
	dto.ListRequest
	Status   string `form:"status" binding:"omitempty,oneof=draft committed rejected"`
	WorkType string `form:"work_type"`
	AuthorID string `form:"author_id" binding:"omitempty,uuid"`
}

// Submit godoc
//
//	@Summary		Submit a journal entry
//	@Description	Runs the draft through the verification pipeline. Entries
//	@Description	that pass commit and receive a gap-free journal number;
//	@Description	entries that fail are stored rejected with the reason.
//	@Tags			journal
//	@Accept			json
//	@Produce		json
//	@Param			X-Person-ID	header		string					true	"Author person ID"
//	@Param			request		body		SubmitEntryHTTPRequest	true	"Entry submission"
//	@Success		201			{object}	APIResponse[journalapp.EntryResponse]
//	@Failure		409			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/journal/entries [post]
func (h *EntryHandler) Submit(c *gin.Context) {
	authorID, err := getPersonID(c)
	if err != nil {
		h.Unauthorized(c, "Person ID is required")
		return
	}

	var req SubmitEntryHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	siteID, err := uuid.Parse(req.SiteID)
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	participants := make([]uuid.UUID, 0, len(req.Participants))
	for _, p := range req.Participants {
		id, err := uuid.Parse(p)
		if err != nil {
			h.BadRequest(c, "Invalid participant ID format")
			return
		}
		participants = append(participants, id)
	}

	proof, err := req.Proof.toProof()
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	appReq := journalapp.SubmitEntryRequest{
		SiteID:       siteID,
		AuthorID:     authorID,
		WorkType:     journal.WorkType(req.WorkType),
		Description:  req.Description,
		Volume:       volumeDecimal(req.Volume),
		Unit:         req.Unit,
		StartsAt:     req.StartsAt,
		EndsAt:       req.EndsAt,
		Participants: participants,
		Materials:    req.Materials,
		Documents:    req.Documents,
		Proof:        proof,
		WorkZone:     req.WorkZone,
	}
	if req.PlannedVolume != nil {
		planned := volumeDecimal(*req.PlannedVolume)
		appReq.PlannedVolume = &planned
	}
	if req.Weather != nil {
		appReq.Weather = &journal.Weather{
			Condition:    journal.WeatherCondition(req.Weather.Condition),
			TemperatureC: req.Weather.TemperatureC,
		}
	}

	resp, err := h.entryService.Submit(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// GetByID godoc
//
//	@Summary		Get a journal entry by ID
//	@Tags			journal
//	@Produce		json
//	@Param			id	path		string	true	"Entry ID"
//	@Success		200	{object}	APIResponse[journalapp.EntryResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Router			/journal/entries/{id} [get]
func (h *EntryHandler) GetByID(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	resp, err := h.entryService.GetByID(c.Request.Context(), entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListBySite godoc
//
//	@Summary		List journal entries for a site
//	@Tags			journal
//	@Produce		json
//	@Param			id			path		string	true	"Site ID"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)	maximum(100)
//	@Param			status		query		string	false	"Filter by status"	Enums(draft, committed, rejected)
//	@Param			work_type	query		string	false	"Filter by work type"
//	@Param			author_id	query		string	false	"Filter by author"
//	@Success		200			{object}	APIResponse[[]journalapp.EntryResponse]
//	@Router			/sites/{id}/entries [get]
func (h *EntryHandler) ListBySite(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	req := EntryListHTTPRequest{ListRequest: dto.DefaultListRequest()}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Filters:  map[string]interface{}{},
	}
	if req.Status != "" {
		filter.Filters["status"] = strings.ToUpper(req.Status)
	}
	if req.WorkType != "" {
		filter.Filters["work_type"] = req.WorkType
	}
	if req.AuthorID != "" {
		filter.Filters["author_id"] = req.AuthorID
	}

	entries, total, err := h.entryService.ListBySite(c.Request.Context(), siteID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, entries, total, req.Page, req.PageSize)
}

// volumeDecimal converts a reported work volume to the exact decimal
// representation the journal domain stores.
func volumeDecimal(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
