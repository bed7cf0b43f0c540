package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"devsprint/backend/internal/models"
	"devsprint/backend/internal/policy"
	"gorm.io/gorm"
)

// TaskService coordinates task commands. The assignee-membership invariant is
// validated against the member set loaded in the same transaction, so a task
// can never point at a non-member, even transiently.
type TaskService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewTaskService(db *gorm.DB, commandTimeout time.Duration) *TaskService {
	return &TaskService{db: db, timeout: commandTimeout}
}

type CreateTaskRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority" binding:"required"`
	AssigneeID  *uint  `json:"assignee_id"`
}

// UpdateTaskRequest carries a partial update. Nil pointers mean "unchanged".
// Unassign explicitly clears the assignee and is always permitted.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssigneeID  *uint   `json:"assignee_id"`
	Unassign    bool    `json:"unassign"`
}

// Create creates a task in the project. Any member may create; an assignee,
// if given, must be in the member set at commit time.
func (s *TaskService) Create(ctx context.Context, p policy.Principal, projectID uint, req *CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrValidation("title is required")
	}
	status := req.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !models.IsValidStatus(status) {
		return nil, ErrValidation("invalid status %q", status)
	}
	if !models.IsValidPriority(req.Priority) {
		return nil, ErrValidation("invalid priority %q", req.Priority)
	}

	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	var task models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := loadProject(tx, projectID, true)
		if err != nil {
			return err
		}
		snap, err := memberSnapshot(tx, project)
		if err != nil {
			return err
		}
		if err := gateVisibility(p, snap); err != nil {
			return err
		}
		if err := authorize(p, policy.ActionCreateTask, snap); err != nil {
			return err
		}

		if req.AssigneeID != nil && !snap.IsMember(*req.AssigneeID) {
			return ErrConflict("assignee must be a member of the project")
		}

		task = models.Task{
			Title:       strings.TrimSpace(req.Title),
			Description: req.Description,
			Status:      status,
			Priority:    req.Priority,
			ProjectID:   project.ID,
			AssigneeID:  req.AssigneeID,
		}
		if err := tx.Create(&task).Error; err != nil {
			return wrapStoreErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &task, nil
}

// ListForProject returns all tasks of the project. Members only.
func (s *TaskService) ListForProject(ctx context.Context, p policy.Principal, projectID uint) ([]models.Task, error) {
	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	db := s.db.WithContext(ctx)

	project, err := loadProject(db, projectID, false)
	if err != nil {
		return nil, err
	}
	snap, err := memberSnapshot(db, project)
	if err != nil {
		return nil, err
	}
	if err := gateVisibility(p, snap); err != nil {
		return nil, err
	}
	if err := authorize(p, policy.ActionListTasks, snap); err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := db.Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		return nil, wrapStoreErr(err)
	}
	return tasks, nil
}

// Update applies a partial update. Reassignment is revalidated against the
// current member set inside the transaction, exactly as on create.
func (s *TaskService) Update(ctx context.Context, p policy.Principal, taskID uint, req *UpdateTaskRequest) (*models.Task, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, ErrValidation("title cannot be empty")
	}
	if req.Status != nil && !models.IsValidStatus(*req.Status) {
		return nil, ErrValidation("invalid status %q", *req.Status)
	}
	if req.Priority != nil && !models.IsValidPriority(*req.Priority) {
		return nil, ErrValidation("invalid priority %q", *req.Priority)
	}
	if req.Unassign && req.AssigneeID != nil {
		return nil, ErrValidation("cannot set assignee_id and unassign together")
	}

	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	var task models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound("task not found")
			}
			return wrapStoreErr(err)
		}

		project, err := loadProject(tx, task.ProjectID, true)
		if err != nil {
			return err
		}
		snap, err := memberSnapshot(tx, project)
		if err != nil {
			return err
		}
		if err := gateVisibility(p, snap); err != nil {
			// Hide the task along with its project.
			return ErrNotFound("task not found")
		}
		if err := authorize(p, policy.ActionUpdateTask, snap); err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if req.Title != nil {
			updates["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.Status != nil {
			updates["status"] = *req.Status
		}
		if req.Priority != nil {
			updates["priority"] = *req.Priority
		}
		if req.AssigneeID != nil {
			if !snap.IsMember(*req.AssigneeID) {
				return ErrConflict("assignee must be a member of the project")
			}
			updates["assignee_id"] = *req.AssigneeID
		}
		if req.Unassign {
			updates["assignee_id"] = nil
		}

		if len(updates) > 0 {
			if err := tx.Model(&task).Updates(updates).Error; err != nil {
				return wrapStoreErr(err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &task, nil
}

// Delete removes a task. Leads who are members of the task's project only;
// no cascades.
func (s *TaskService) Delete(ctx context.Context, p policy.Principal, taskID uint) error {
	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, taskID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound("task not found")
			}
			return wrapStoreErr(err)
		}

		project, err := loadProject(tx, task.ProjectID, true)
		if err != nil {
			return err
		}
		snap, err := memberSnapshot(tx, project)
		if err != nil {
			return err
		}
		if err := gateVisibility(p, snap); err != nil {
			return ErrNotFound("task not found")
		}
		if err := authorize(p, policy.ActionDeleteTask, snap); err != nil {
			return err
		}

		if err := tx.Delete(&task).Error; err != nil {
			return wrapStoreErr(err)
		}
		return nil
	})
	return wrapStoreErr(err)
}
