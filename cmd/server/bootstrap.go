package main

import (
	"time"

	"devsprint/backend/internal/config"
	"devsprint/backend/internal/handlers"
	"devsprint/backend/internal/models"
	"devsprint/backend/internal/services"
	"devsprint/backend/internal/utils"
	"devsprint/backend/pkg/logger"
)

// appServices holds all initialized handlers needed by the router.
type appServices struct {
	authHandler      *handlers.AuthHandler
	projectHandler   *handlers.ProjectHandler
	taskHandler      *handlers.TaskHandler
	systemLogHandler *handlers.SystemLogHandler
	healthHandler    *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	services.InitSystemLogger(db)
	services.StartLogCleanupScheduler(db, cfg.Log.RetentionDays)

	commandTimeout := time.Duration(cfg.Server.CommandTimeoutSec) * time.Second

	authService := services.NewAuthService(db, &cfg.JWT)
	if err := authService.CreateLeadIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed lead user")
	}

	return &appServices{
		authHandler:      handlers.NewAuthHandler(db, &cfg.JWT),
		projectHandler:   handlers.NewProjectHandler(db, commandTimeout),
		taskHandler:      handlers.NewTaskHandler(db, commandTimeout),
		systemLogHandler: handlers.NewSystemLogHandler(db),
		healthHandler:    handlers.NewHealthHandler(db),
	}
}

// shutdown gracefully stops background services.
func (s *appServices) shutdown() {
	services.StopLogCleanupScheduler()
	logger.Info().Msg("All schedulers stopped")
}
