package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	siteapp "github.com/ejournal/backend/internal/application/site"
)

// SiteHandler handles construction site HTTP requests
type SiteHandler struct {
	BaseHandler
	siteService *siteapp.SiteService
}

// NewSiteHandler creates a new SiteHandler
func NewSiteHandler(siteService *siteapp.SiteService) *SiteHandler {
	return &SiteHandler{siteService: siteService}
}

// CreateSiteHTTPRequest represents the HTTP request body for registering a site
//
//	@Description	Request body for registering a new construction site
type CreateSiteHTTPRequest struct {
	Name            string                `json:"name" binding:"required,min=1,max=200" example:"North Yard"`
	Address         string                `json:"address,omitempty" binding:"max=500" example:"12 Quay St"`
	Boundary        []siteapp.CoordinateDTO `json:"boundary" binding:"required,min=3"`
	WorkZones       []siteapp.WorkZoneDTO   `json:"work_zones,omitempty"`
	WorkdayStartMin int                   `json:"workday_start_min" binding:"min=0,max=1439" example:"480"`
	WorkdayEndMin   int                   `json:"workday_end_min" binding:"min=0,max=1440" example:"1080"`
}

// PublishBoundaryHTTPRequest represents the HTTP request body for republishing
// a site boundary
//
//	@Description	Request body for republishing a site boundary
type PublishBoundaryHTTPRequest struct {
	Boundary  []siteapp.CoordinateDTO `json:"boundary" binding:"required,min=3"`
	WorkZones []siteapp.WorkZoneDTO   `json:"work_zones,omitempty"`
}

// Create godoc
//
//	@Summary		Register a new construction site
//	@Tags			sites
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateSiteHTTPRequest	true	"Site registration request"
//	@Success		201		{object}	APIResponse[siteapp.SiteResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Router			/sites [post]
func (h *SiteHandler) Create(c *gin.Context) {
	var req CreateSiteHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.siteService.Create(c.Request.Context(), siteapp.CreateSiteRequest{
		Name:            req.Name,
		Address:         req.Address,
		Boundary:        req.Boundary,
		WorkZones:       req.WorkZones,
		WorkdayStartMin: req.WorkdayStartMin,
		WorkdayEndMin:   req.WorkdayEndMin,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, resp)
}

// List godoc
//
//	@Summary		List active sites
//	@Tags			sites
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]siteapp.SiteResponse]
//	@Router			/sites [get]
func (h *SiteHandler) List(c *gin.Context) {
	sites, err := h.siteService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sites)
}

// GetByID godoc
//
//	@Summary		Get a site by ID
//	@Tags			sites
//	@Produce		json
//	@Param			id	path		string	true	"Site ID"
//	@Success		200	{object}	APIResponse[siteapp.SiteResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Router			/sites/{id} [get]
func (h *SiteHandler) GetByID(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	resp, err := h.siteService.GetByID(c.Request.Context(), siteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// PublishBoundary godoc
//
//	@Summary		Republish a site boundary
//	@Description	Replaces the site boundary and work zones. Refused while
//	@Description	open presence sessions exist inside the current boundary.
//	@Tags			sites
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Site ID"
//	@Param			request	body		PublishBoundaryHTTPRequest	true	"Boundary republish request"
//	@Success		200		{object}	APIResponse[siteapp.SiteResponse]
//	@Failure		409		{object}	ErrorResponse
//	@Router			/sites/{id}/boundary [put]
func (h *SiteHandler) PublishBoundary(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	var req PublishBoundaryHTTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.siteService.PublishBoundary(c.Request.Context(), siteID, siteapp.PublishBoundaryRequest{
		Boundary:  req.Boundary,
		WorkZones: req.WorkZones,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Complete godoc
//
//	@Summary		Mark a site completed
//	@Description	Refused while open or overdue violations remain on the site
//	@Tags			sites
//	@Produce		json
//	@Param			id	path		string	true	"Site ID"
//	@Success		200	{object}	APIResponse[siteapp.SiteResponse]
//	@Failure		409	{object}	ErrorResponse
//	@Router			/sites/{id}/complete [post]
func (h *SiteHandler) Complete(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	resp, err := h.siteService.Complete(c.Request.Context(), siteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Retire godoc
//
//	@Summary		Retire a completed site
//	@Tags			sites
//	@Produce		json
//	@Param			id	path		string	true	"Site ID"
//	@Success		200	{object}	APIResponse[siteapp.SiteResponse]
//	@Failure		422	{object}	ErrorResponse
//	@Router			/sites/{id}/retire [post]
func (h *SiteHandler) Retire(c *gin.Context) {
	siteID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid site ID format")
		return
	}

	resp, err := h.siteService.Retire(c.Request.Context(), siteID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Nearest godoc
//
//	@Summary		Find the nearest active site to a coordinate
//	@Tags			sites
//	@Produce		json
//	@Param			lat	query		number	true	"Latitude"
//	@Param			lon	query		number	true	"Longitude"
//	@Success		200	{object}	APIResponse[siteapp.NearestSiteResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Router			/sites/nearest [get]
func (h *SiteHandler) Nearest(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		h.BadRequest(c, "Invalid latitude")
		return
	}
	lon, err := strconv.ParseFloat(c.Query("lon"), 64)
	if err != nil {
		h.BadRequest(c, "Invalid longitude")
		return
	}

	resp, err := h.siteService.Nearest(c.Request.Context(), lat, lon)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}
