package services

import (
	"context"
	"errors"
	"time"

	"devsprint/backend/internal/models"
	"devsprint/backend/internal/policy"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Shared helpers for the command coordinators. Every mutating command runs as
// one transaction: load the target, gate visibility, consult the policy
// engine, enforce invariants, commit or roll back. The first failed rule
// determines the surfaced error.

// commandContext bounds a command's execution. The transaction rolls back
// when the budget expires.
func commandContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// lockForUpdate adds a write-intent row lock where the dialect supports it.
// SQLite has no FOR UPDATE grammar; its database-level write lock already
// serializes writers, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// loadProject fetches a project inside tx, taking the row lock when forUpdate
// is set. Commands that read-then-write membership or assignment state must
// lock so the member set cannot change under them before commit.
func loadProject(tx *gorm.DB, id uint, forUpdate bool) (*models.Project, error) {
	q := tx
	if forUpdate {
		q = lockForUpdate(tx)
	}
	var project models.Project
	if err := q.First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound("project not found")
		}
		return nil, wrapStoreErr(err)
	}
	return &project, nil
}

// memberSnapshot loads the project's member-id set fresh inside tx and pairs
// it with the owner as the policy context. Never cached across commands.
func memberSnapshot(tx *gorm.DB, project *models.Project) (policy.Context, error) {
	var ids []uint
	if err := tx.Model(&models.ProjectMember{}).
		Where("project_id = ?", project.ID).
		Pluck("user_id", &ids).Error; err != nil {
		return policy.Context{}, wrapStoreErr(err)
	}

	set := make(map[uint]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return policy.Context{OwnerID: project.OwnerID, MemberIDs: set}, nil
}

// gateVisibility hides another tenant's project: a non-member gets the same
// not-found error as a missing project, so existence cannot be probed.
func gateVisibility(p policy.Principal, snap policy.Context) error {
	if !snap.IsMember(p.ID) {
		return ErrNotFound("project not found")
	}
	return nil
}

// authorize consults the policy engine and converts a deny into the
// forbidden error kind.
func authorize(p policy.Principal, action policy.Action, snap policy.Context) error {
	if d := policy.Authorize(p, action, snap); !d.Allowed {
		return ErrForbidden("%s", d.Reason)
	}
	return nil
}

// resolveMembers fills project.Members with the full member list: the owner
// first, then invited users by membership age.
func resolveMembers(tx *gorm.DB, project *models.Project) error {
	var owner models.User
	if err := tx.First(&owner, project.OwnerID).Error; err != nil {
		return wrapStoreErr(err)
	}

	var memberships []models.ProjectMember
	if err := tx.Where("project_id = ?", project.ID).
		Order("created_at ASC").
		Preload("User").
		Find(&memberships).Error; err != nil {
		return wrapStoreErr(err)
	}

	members := make([]models.User, 0, len(memberships)+1)
	members = append(members, owner)
	for _, m := range memberships {
		if m.User != nil {
			members = append(members, *m.User)
		}
	}
	project.Members = members
	return nil
}
