package services

import (
	"fmt"
	"testing"
	"time"

	"devsprint/backend/internal/models"
	"devsprint/backend/internal/policy"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite database with the schema migrated.
// cache=shared keeps the database alive across the pooled connections gorm
// opens for the same test.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Project{},
		&models.ProjectMember{},
		&models.Task{},
		&models.SystemLog{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

const testTimeout = 5 * time.Second

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := models.User{
		Email:    email,
		Password: "hashed",
		FullName: email,
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return &user
}

func asPrincipal(u *models.User) policy.Principal {
	return policy.Principal{ID: u.ID, Role: u.Role}
}

// createProject makes a project owned by owner and adds the given users as
// invited members, bypassing the service layer for fixture setup.
func createProject(t *testing.T, db *gorm.DB, owner *models.User, members ...*models.User) *models.Project {
	t.Helper()
	project := models.Project{
		Title:   "Test Project",
		OwnerID: owner.ID,
	}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("failed to create project: %v", err)
	}
	for _, m := range members {
		edge := models.ProjectMember{ProjectID: project.ID, UserID: m.ID}
		if err := db.Create(&edge).Error; err != nil {
			t.Fatalf("failed to add member %d: %v", m.ID, err)
		}
	}
	return &project
}

func createTask(t *testing.T, db *gorm.DB, projectID uint, assigneeID *uint) *models.Task {
	t.Helper()
	task := models.Task{
		Title:      "Test Task",
		Status:     models.StatusTodo,
		Priority:   models.PriorityMedium,
		ProjectID:  projectID,
		AssigneeID: assigneeID,
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("failed to create task: %v", err)
	}
	return &task
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}
	if !IsKind(err, kind) {
		t.Fatalf("expected %s error, got: %v", kind, err)
	}
}
