package model

import "time"

// ActivityLog records a mutation performed inside an organization.
type ActivityLog struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrgID      uint      `gorm:"not null;index" json:"org_id"`
	UserID     uint      `json:"user_id"`
	Action     string    `gorm:"size:20;not null;index" json:"action"`
	EntityType string    `gorm:"size:40;not null;index" json:"entity_type"`
	EntityID   uint      `json:"entity_id"`
	Details    JSONMap   `gorm:"type:text" json:"details"`
	RequestID  string    `gorm:"size:100" json:"request_id"`
	ClientIP   string    `gorm:"size:64" json:"client_ip"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

// Constants for ActivityLog actions
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
	ActionImport = "import"
)
