package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/ai4local/ai4local/internal/model"
	"gorm.io/gorm"
)

// ActivityLogRepository handles database operations for activity logs
type ActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{
		db: db,
	}
}

// Create inserts a new activity log entry
func (r *ActivityLogRepository) Create(ctx context.Context, log *model.ActivityLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}

	result := conn(ctx, r.db).Create(log)
	if result.Error != nil {
		return fmt.Errorf("failed to create activity log: %w", result.Error)
	}

	return nil
}

// ActivityQuery holds parameters for querying activity logs
type ActivityQuery struct {
	OrgID      uint
	Action     string
	EntityType string
	EntityID   uint
	UserID     uint
	StartTime  time.Time
	EndTime    time.Time
	Page       Page
}

// Query retrieves activity logs of one organization, newest first
func (r *ActivityLogRepository) Query(ctx context.Context, params ActivityQuery) ([]model.ActivityLog, int64, error) {
	var logs []model.ActivityLog
	var count int64

	query := conn(ctx, r.db).Model(&model.ActivityLog{}).Where("org_id = ?", params.OrgID)

	if params.Action != "" {
		query = query.Where("action = ?", params.Action)
	}
	if params.EntityType != "" {
		query = query.Where("entity_type = ?", params.EntityType)
	}
	if params.EntityID != 0 {
		query = query.Where("entity_id = ?", params.EntityID)
	}
	if params.UserID != 0 {
		query = query.Where("user_id = ?", params.UserID)
	}
	if !params.StartTime.IsZero() {
		query = query.Where("created_at >= ?", params.StartTime)
	}
	if !params.EndTime.IsZero() {
		query = query.Where("created_at <= ?", params.EndTime)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	if params.Page.Limit <= 0 {
		params.Page.Limit = 100
	}

	result := params.Page.apply(query).Order("created_at DESC, id DESC").Find(&logs)
	if result.Error != nil {
		return nil, 0, fmt.Errorf("failed to query activity logs: %w", result.Error)
	}

	return logs, count, nil
}
