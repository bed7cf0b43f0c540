package handlers

import (
	"strconv"
	"time"

	"devsprint/backend/internal/middleware"
	"devsprint/backend/internal/services"
	"devsprint/backend/pkg/response"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(db *gorm.DB, commandTimeout time.Duration) *TaskHandler {
	return &TaskHandler{
		taskService: services.NewTaskService(db, commandTimeout),
	}
}

// Create creates a task inside a project
// POST /api/projects/:id/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	var req services.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), middleware.GetPrincipal(c), uint(projectID), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, task)
}

// List returns all tasks of a project
// GET /api/projects/:id/tasks
func (h *TaskHandler) List(c *gin.Context) {
	projectID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid project id")
		return
	}

	tasks, err := h.taskService.ListForProject(c.Request.Context(), middleware.GetPrincipal(c), uint(projectID))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, tasks)
}

// Update applies a partial update to a task
// PATCH /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}

	var req services.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), middleware.GetPrincipal(c), uint(id), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, task)
}

// Delete removes a task
// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid task id")
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), middleware.GetPrincipal(c), uint(id)); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
