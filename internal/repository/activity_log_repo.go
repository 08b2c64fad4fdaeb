package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/noah-isme/placement-portal-api/internal/models"
)

// ActivityLogFilter narrows audit trail queries. Zero values leave a
// dimension unconstrained.
type ActivityLogFilter struct {
	Page       int
	PageSize   int
	ActorID    *uint
	Action     string
	EntityType string
	EntityID   *uint
	Since      time.Time
}

// ActivityLogRepository persists audit trail entries for admin and student actions.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the audit trail repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.Action = strings.ToLower(strings.TrimSpace(entry.Action))
	entry.EntityType = strings.ToLower(strings.TrimSpace(entry.EntityType))
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	query := scopeActivity(r.db.WithContext(ctx).Model(&models.ActivityLog{}), filter)

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []models.ActivityLog{}, 0, nil
	}

	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Offset((page - 1) * filter.PageSize).Limit(filter.PageSize)
	}

	// Entries written in the same instant keep insertion order reversed.
	var entries []models.ActivityLog
	if err := query.Order("created_at DESC").Order("id DESC").Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}

func scopeActivity(query *gorm.DB, filter ActivityLogFilter) *gorm.DB {
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if action := strings.ToLower(strings.TrimSpace(filter.Action)); action != "" {
		query = query.Where("action = ?", action)
	}
	if entityType := strings.ToLower(strings.TrimSpace(filter.EntityType)); entityType != "" {
		query = query.Where("entity_type = ?", entityType)
	}
	if filter.EntityID != nil {
		query = query.Where("entity_id = ?", *filter.EntityID)
	}
	if !filter.Since.IsZero() {
		query = query.Where("created_at >= ?", filter.Since.UTC())
	}
	return query
}
