package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	qualityapp "github.com/ejournal/backend/internal/application/quality"
	"github.com/ejournal/backend/internal/domain/quality"
	"github.com/ejournal/backend/internal/domain/shared"
	"github.com/ejournal/backend/internal/interfaces/http/dto"
)

// ViolationHandler handles quality violation HTTP requests
type ViolationHandler struct {
	BaseHandler
	violationService *qualityapp.ViolationService
}

// NewViolationHandler creates a new ViolationHandler
func NewViolationHandler(violationService *qualityapp.ViolationService) *ViolationHandler {
	return &ViolationHandler{violationService: violationService}
}

// RecordViolationHTTPRequest represents the HTTP request body for recording
// a violation
//
//	@Description	Request body for recording a violation against a committed entry
type RecordViolationHTTPRequest struct {
	EntryID     string    `json:"entry_id" binding:"required,uuid"`
	Code        string    `json:"code" binding:"required,min=1,max=50" example:"CONCRETE_CURING"`
	Description string    `json:"description,omitempty" binding:"max=2000"`
	Severity    string    `json:"severity" binding:"required,oneof=low medium high critical" example:"high"`
	Deadline    time.Time `json:"deadline" binding:"required"`
}

// ResolveViolationHTTPRequest represents the HTTP request body for resolving
// a violation
type ResolveViolationHTTPRequest struct {
	Note string `json:"note" binding:"required,min=1,max=2000"`
}

// ViolationListHTTPRequest represents query parameters for listing violations
type ViolationListHTTPRequest struct {
	dto.ListRequest
	Status   string `form:"status" binding:"omitempty,oneof=open overdue resolved"`
	Severity string `form:"severity" binding:"omitempty,oneof=low medium high critical"`
	EntryID  string `form:"entry_id" binding:"omitempty,uuid"`
}

// Record godoc
//
//	@Summary		Record a violation against a committed entry
//	@Tags			quality
//	@Accept			json
//	@Produce		json
//	@Param			request	body		RecordViolationHTTPRequest	true	"Violation record request"
//	@Success		201		{object}	APIResponse[qualityapp.ViolationResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/quality/violations [post]
func (h *ViolationHandler) Record(c *gin.Context) {
	var req RecordViolationHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entryID, err := uuid.Parse(req.EntryID)
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	resp, err := h.violationService.Record(c.Request.Context(), qualityapp.RecordViolationRequest{
		EntryID:     entryID,
		Code:        req.Code,
		Description: req.Description,
		Severity:    quality.Severity(req.Severity),
		Deadline:    req.Deadline,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// Resolve godoc
//
//	@Summary		Resolve a violation
//	@Tags			quality
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Violation ID"
//	@Param			request	body		ResolveViolationHTTPRequest		true	"Resolution note"
//	@Success		200		{object}	APIResponse[qualityapp.ViolationResponse]
//	@Failure		422		{object}	ErrorResponse
//	@Router			/quality/violations/{id}/resolve [post]
func (h *ViolationHandler) Resolve(c *gin.Context) {
	violationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid violation ID format")
		return
	}

	var req ResolveViolationHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.violationService.Resolve(c.Request.Context(), violationID, req.Note)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// GetByID godoc
//
//	@Summary		Get a violation by ID
//	@Tags			quality
//	@Produce		json
//	@Param			id	path		string	true	"Violation ID"
//	@Success		200	{object}	APIResponse[qualityapp.ViolationResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Router			/quality/violations/{id} [get]
func (h *ViolationHandler) GetByID(c *gin.Context) {
	violationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid violation ID format")
		return
	}

	resp, err := h.violationService.GetByID(c.Request.Context(), violationID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// ListBySite godoc
//
//	@Summary		List violations for a site
//	@Tags			quality
//	@Produce		json
//	@Param			id			path		string	true	"Site ID"
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)	maximum(100)
//	@Param			status		query		string	false	"Filter by status"		Enums(open, overdue, resolved)
//	@Param			severity	query		string	false	"Filter by severity"	Enums(low, medium, high, critical)
//	@Success		200			{object}	APIResponse[[]qualityapp.ViolationResponse]
//	@Router			/sites/{id}/violations [get]
func (h *ViolationHandler) ListBySite(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	req := ViolationListHTTPRequest{ListRequest: dto.DefaultListRequest()}
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
	if req.Severity != "" {
		filter.Filters["severity"] = req.Severity
	}
	if req.EntryID != "" {
		filter.Filters["entry_id"] = req.EntryID
	}

	violations, total, err := h.violationService.ListBySite(c.Request.Context(), siteID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, violations, total, req.Page, req.PageSize)
}

// ListByEntry godoc
//
//	@Summary		List violations recorded against an entry
//	@Tags			quality
//	@Produce		json
//	@Param			id	path		string	true	"Entry ID"
//	@Success		200	{object}	APIResponse[[]qualityapp.ViolationResponse]
//	@Router			/journal/entries/{id}/violations [get]
func (h *ViolationHandler) ListByEntry(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	violations, err := h.violationService.ListByEntry(c.Request.Context(), entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, violations)
}
