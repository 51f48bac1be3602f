// internal/repository/audit_log.go
package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opsarc/tenantd/internal/model"
	"gorm.io/gorm"
)

// AuditLogRepository handles database operations for lifecycle audit logs
type AuditLogRepository struct {
	db *gorm.DB
}

// NewAuditLogRepository creates a new AuditLogRepository
func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{
		db: db,
	}
}

// Create inserts a new audit log entry
func (r *AuditLogRepository) Create(ctx context.Context, log *model.AuditLog) error {
	if log.ID == uuid.Nil {
		log.ID = uuid.New()
	}

	result := r.db.WithContext(ctx).Create(log)
	if result.Error != nil {
		return fmt.Errorf("failed to create audit log: %w", result.Error)
	}

	return nil
}

// QueryParams holds parameters for querying audit logs
type QueryParams struct {
	Action           string
	OrganizationName string
	ActorEmail       string
	StartTime        time.Time
	EndTime          time.Time
	Limit            int
	Offset           int
}

// Query retrieves audit logs based on the provided query parameters
func (r *AuditLogRepository) Query(ctx context.Context, params QueryParams) ([]model.AuditLog, int64, error) {
	var logs []model.AuditLog
	var count int64

	query := r.db.WithContext(ctx).Model(&model.AuditLog{})

	// Apply filters
	if params.Action != "" {
		query = query.Where("action = ?", params.Action)
	}
	if params.OrganizationName != "" {
		query = query.Where("organization_name = ?", params.OrganizationName)
	}
	if params.ActorEmail != "" {
		query = query.Where("actor_email = ?", params.ActorEmail)
	}
	if !params.StartTime.IsZero() {
		query = query.Where("created_at >= ?", params.StartTime)
	}
	if !params.EndTime.IsZero() {
		query = query.Where("created_at <= ?", params.EndTime)
	}

	// Get total count for pagination
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	// Apply pagination
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	} else {
		query = query.Limit(100) // Default limit
	}

	if params.Offset > 0 {
		query = query.Offset(params.Offset)
	}

	result := query.Order("created_at DESC").Find(&logs)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to query audit logs: %w", result.Error)
	}

	return logs, count, nil
}
