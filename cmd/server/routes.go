package main

import (
	"devsprint/backend/internal/config"
	"devsprint/backend/internal/middleware"
	"devsprint/backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	r.Use(middleware.RequestID())
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	// Health check
	r.GET("/health", svc.healthHandler.Check)

	// Public routes
	r.POST("/users", svc.authHandler.Register)

	auth := r.Group("/auth")
	if cfg.RateLimit.Enabled {
		auth.Use(middleware.RateLimit(cfg.RateLimit))
	}
	auth.POST("/login", svc.authHandler.Login)

	// Protected routes
	api := r.Group("/api")
	api.Use(middleware.AuthRequired(), middleware.AuditLog())
	{
		api.GET("/users/me", svc.authHandler.Me)
		api.GET("/users", svc.authHandler.ListUsers)

		api.GET("/projects", svc.projectHandler.List)
		api.POST("/projects", svc.projectHandler.Create)
		api.GET("/projects/:id", svc.projectHandler.GetByID)
		api.PATCH("/projects/:id", svc.projectHandler.Update)
		api.DELETE("/projects/:id", svc.projectHandler.Delete)

		api.POST("/projects/:id/members", svc.projectHandler.AddMember)
		api.DELETE("/projects/:id/members/:userId", svc.projectHandler.RemoveMember)

		api.POST("/projects/:id/tasks", svc.taskHandler.Create)
		api.GET("/projects/:id/tasks", svc.taskHandler.List)
		api.PATCH("/tasks/:id", svc.taskHandler.Update)
		api.DELETE("/tasks/:id", svc.taskHandler.Delete)

		api.GET("/system-logs", svc.systemLogHandler.List)
	}
}
