package handlers

import (
	"devsprint/backend/internal/middleware"
	"devsprint/backend/internal/models"
	"devsprint/backend/internal/services"
	"devsprint/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SystemLogHandler struct {
	logService *services.SystemLogService
}

func NewSystemLogHandler(db *gorm.DB) *SystemLogHandler {
	return &SystemLogHandler{
		logService: services.NewSystemLogService(db),
	}
}

// List returns paginated system logs. Leads only.
// GET /api/system-logs
func (h *SystemLogHandler) List(c *gin.Context) {
	if middleware.GetRole(c) != models.RoleLead {
		response.Forbidden(c, "lead role required")
		return
	}

	var req services.SystemLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.logService.List(&req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, resp)
}
