package models

import (
	"time"

	"gorm.io/datatypes"
)

// ActivityLog is an audit entry for administrator actions on students and notices.
type ActivityLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	ActorID    uint              `gorm:"not null;index" json:"actor_id"`
	ActorRole  string            `gorm:"size:32;not null" json:"actor_role"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	EntityType string            `gorm:"size:64;not null;index:idx_activity_logs_entity" json:"entity_type"`
	EntityID   *uint             `gorm:"index:idx_activity_logs_entity" json:"entity_id"`
	Metadata   datatypes.JSONMap `json:"metadata"`
	CreatedAt  time.Time         `gorm:"index" json:"created_at"`
}
