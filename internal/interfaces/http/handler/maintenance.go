package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/ejournal/backend/internal/infrastructure/scheduler"
)

// MaintenanceHandler exposes the housekeeping scheduler over HTTP
type MaintenanceHandler struct {
	BaseHandler
	scheduler *scheduler.MaintenanceScheduler
}

// NewMaintenanceHandler creates a new MaintenanceHandler
func NewMaintenanceHandler(sched *scheduler.MaintenanceScheduler) *MaintenanceHandler {
	return &MaintenanceHandler{scheduler: sched}
}

// MaintenanceStatusResponse represents the scheduler status
type MaintenanceStatusResponse struct {
	Running bool `json:"running"`
}

// Status godoc
// @Summary      Get maintenance scheduler status
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[MaintenanceStatusResponse]
// @Router       /system/maintenance [get]
func (h *MaintenanceHandler) Status(c *gin.Context) {
	h.Success(c, MaintenanceStatusResponse{Running: h.scheduler.IsRunning()})
}

// TriggerSweep godoc
// @Summary      Trigger an immediate overdue violation sweep
// @Tags         system
// @Produce      json
// @Success      202 {object} APIResponse[MaintenanceStatusResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /system/maintenance/sweep [post]
func (h *MaintenanceHandler) TriggerSweep(c *gin.Context) {
	if err := h.scheduler.TriggerSweep(c.Request.Context()); err != nil {
		h.Conflict(c, err.Error())
		return
	}
	h.Success(c, MaintenanceStatusResponse{Running: h.scheduler.IsRunning()})
}
