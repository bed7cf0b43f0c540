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

// ProjectService coordinates project commands: authorization, membership
// invariants and cascades, each inside a single transaction.
type ProjectService struct {
	db      *gorm.DB
	timeout time.Duration
}

func NewProjectService(db *gorm.DB, commandTimeout time.Duration) *ProjectService {
	return &ProjectService{db: db, timeout: commandTimeout}
}

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

type UpdateProjectRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type AddMemberRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// Create creates a project owned by the principal. Leads only. The initial
// member set is the owner alone.
func (s *ProjectService) Create(ctx context.Context, p policy.Principal, req *CreateProjectRequest) (*models.Project, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrValidation("title is required")
	}
	if err := authorize(p, policy.ActionCreateProject, policy.Context{}); err != nil {
		return nil, err
	}

	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	project := models.Project{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		OwnerID:     p.ID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return wrapStoreErr(err)
		}
		return resolveMembers(tx, &project)
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return &project, nil
}

// ListForPrincipal returns every project the principal can see: owned or
// joined, each with its member list resolved.
func (s *ProjectService) ListForPrincipal(ctx context.Context, p policy.Principal) ([]models.Project, error) {
	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	db := s.db.WithContext(ctx)

	var projects []models.Project
	if err := db.
		Where("owner_id = ? OR id IN (?)", p.ID,
			db.Model(&models.ProjectMember{}).Select("project_id").Where("user_id = ?", p.ID)).
		Order("created_at ASC").
		Find(&projects).Error; err != nil {
		return nil, wrapStoreErr(err)
	}

	for i := range projects {
		if err := resolveMembers(db, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// GetByID returns a single project with members resolved. Non-members get
// not-found, same as a missing project.
func (s *ProjectService) GetByID(ctx context.Context, p policy.Principal, id uint) (*models.Project, error) {
	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	db := s.db.WithContext(ctx)

	project, err := loadProject(db, id, false)
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
	if err := resolveMembers(db, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Update changes the project's title and/or description. Owner only.
func (s *ProjectService) Update(ctx context.Context, p policy.Principal, id uint, req *UpdateProjectRequest) (*models.Project, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, ErrValidation("title cannot be empty")
	}

	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	var project *models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		project, err = loadProject(tx, id, true)
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
		if err := authorize(p, policy.ActionUpdateProject, snap); err != nil {
			return err
		}

		updates := make(map[string]interface{})
		if req.Title != nil {
			updates["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if len(updates) > 0 {
			if err := tx.Model(project).Updates(updates).Error; err != nil {
				return wrapStoreErr(err)
			}
		}
		return resolveMembers(tx, project)
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return project, nil
}

// Delete removes the project, all its tasks and all membership edges in one
// transaction. Owner only. No partial cascade is ever observable.
func (s *ProjectService) Delete(ctx context.Context, p policy.Principal, id uint) error {
	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := loadProject(tx, id, true)
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
		if err := authorize(p, policy.ActionDeleteProject, snap); err != nil {
			return err
		}

		if err := tx.Where("project_id = ?", project.ID).Delete(&models.Task{}).Error; err != nil {
			return wrapStoreErr(err)
		}
		if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectMember{}).Error; err != nil {
			return wrapStoreErr(err)
		}
		if err := tx.Delete(project).Error; err != nil {
			return wrapStoreErr(err)
		}
		return nil
	})
	return wrapStoreErr(err)
}

// AddMember invites a user into the project. Owner only. Duplicate members,
// including the implicitly-member owner, are a conflict.
func (s *ProjectService) AddMember(ctx context.Context, p policy.Principal, projectID, userID uint) (*models.Project, error) {
	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

	var project *models.Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		project, err = loadProject(tx, projectID, true)
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
		if err := authorize(p, policy.ActionAddMember, snap); err != nil {
			return err
		}

		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound("user not found")
			}
			return wrapStoreErr(err)
		}
		if snap.IsMember(userID) {
			return ErrConflict("user is already a member of this project")
		}

		member := models.ProjectMember{ProjectID: project.ID, UserID: userID}
		if err := tx.Create(&member).Error; err != nil {
			return wrapStoreErr(err)
		}
		return resolveMembers(tx, project)
	})
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return project, nil
}

// RemoveMember removes an invited user and, in the same transaction, unsets
// the assignee of every task in the project currently assigned to them. The
// owner can never be removed.
func (s *ProjectService) RemoveMember(ctx context.Context, p policy.Principal, projectID, userID uint) error {
	ctx, cancel := commandContext(ctx, s.timeout)
	defer cancel()

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
		if err := authorize(p, policy.ActionRemoveMember, snap); err != nil {
			return err
		}

		if userID == project.OwnerID {
			return ErrConflict("project owner cannot be removed")
		}
		if !snap.MemberIDs[userID] {
			return ErrNotFound("user is not a member of this project")
		}

		if err := tx.Where("project_id = ? AND user_id = ?", project.ID, userID).
			Delete(&models.ProjectMember{}).Error; err != nil {
			return wrapStoreErr(err)
		}
		if err := tx.Model(&models.Task{}).
			Where("project_id = ? AND assignee_id = ?", project.ID, userID).
			Update("assignee_id", nil).Error; err != nil {
			return wrapStoreErr(err)
		}
		return nil
	})
	return wrapStoreErr(err)
}
