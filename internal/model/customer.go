package model

import "time"

// Customer is a contact of an organization. Email is unique within the org.
type Customer struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	OrgID     uint       `gorm:"not null;index;uniqueIndex:idx_customers_org_email,priority:1" json:"org_id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	Phone     *string    `gorm:"size:20" json:"phone"`
	Email     *string    `gorm:"size:120;uniqueIndex:idx_customers_org_email,priority:2" json:"email"`
	Tags      StringList `gorm:"type:text" json:"tags"`
	Metadata  JSONMap    `gorm:"column:extra_data;type:text" json:"metadata"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
