package services

import (
	"encoding/json"
	"time"

	"devsprint/backend/internal/models"
	"devsprint/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

var globalDB *gorm.DB

func InitSystemLogger(db *gorm.DB) {
	globalDB = db
}

// LogInfo writes an info-level operation log row. Best-effort: a failed
// write never fails the request that triggered it.
func LogInfo(module, action, message string, userID *uint, requestID, ip, userAgent string, extra interface{}) {
	writeLog("info", module, action, message, userID, requestID, ip, userAgent, extra)
}

func LogWarning(module, action, message string, userID *uint, requestID, ip, userAgent string, extra interface{}) {
	writeLog("warning", module, action, message, userID, requestID, ip, userAgent, extra)
}

func writeLog(level, module, action, message string, userID *uint, requestID, ip, userAgent string, extra interface{}) {
	if globalDB == nil {
		return
	}

	var extraStr string
	if extra != nil {
		if b, err := json.Marshal(extra); err == nil {
			extraStr = string(b)
		}
	}

	row := &models.SystemLog{
		Level:     level,
		Module:    module,
		Action:    action,
		Message:   message,
		UserID:    userID,
		RequestID: requestID,
		IP:        ip,
		UserAgent: userAgent,
		Extra:     extraStr,
		CreatedAt: time.Now(),
	}
	globalDB.Create(row)
}

type SystemLogService struct {
	db *gorm.DB
}

func NewSystemLogService(db *gorm.DB) *SystemLogService {
	return &SystemLogService{db: db}
}

type SystemLogListRequest struct {
	Page     int    `form:"page" binding:"min=1"`
	PageSize int    `form:"page_size" binding:"min=1,max=100"`
	Level    string `form:"level"`
	Module   string `form:"module"`
}

type SystemLogListResponse struct {
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Items    []models.SystemLog `json:"items"`
}

func (s *SystemLogService) List(req *SystemLogListRequest) (*SystemLogListResponse, error) {
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 {
		req.PageSize = 20
	}

	var logs []models.SystemLog
	var total int64

	query := s.db.Model(&models.SystemLog{})
	if req.Level != "" {
		query = query.Where("level = ?", req.Level)
	}
	if req.Module != "" {
		query = query.Where("module = ?", req.Module)
	}

	query.Count(&total)

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return &SystemLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}

// CleanupOldLogs deletes logs older than retentionDays. Returns the number
// of deleted rows.
func (s *SystemLogService) CleanupOldLogs(retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.Where("created_at < ?", cutoff).Delete(&models.SystemLog{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

var cleanupCron *cron.Cron

// StartLogCleanupScheduler runs the retention cleanup nightly at 03:00.
func StartLogCleanupScheduler(db *gorm.DB, retentionDays int) {
	if retentionDays <= 0 {
		logger.Info().Msg("system log cleanup disabled (retention_days <= 0)")
		return
	}

	service := NewSystemLogService(db)
	runCleanup(service, retentionDays)

	cleanupCron = cron.New()
	if _, err := cleanupCron.AddFunc("0 3 * * *", func() {
		runCleanup(service, retentionDays)
	}); err != nil {
		logger.Error().Err(err).Msg("failed to schedule log cleanup")
		return
	}
	cleanupCron.Start()
}

// StopLogCleanupScheduler stops the retention cron, if running.
func StopLogCleanupScheduler() {
	if cleanupCron != nil {
		cleanupCron.Stop()
	}
}

func runCleanup(service *SystemLogService, retentionDays int) {
	deleted, err := service.CleanupOldLogs(retentionDays)
	if err != nil {
		logger.Error().Err(err).Msg("system log cleanup failed")
		return
	}
	if deleted > 0 {
		logger.Info().Int64("deleted", deleted).Int("retention_days", retentionDays).Msg("system logs cleaned up")
	}
}
