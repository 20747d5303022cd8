package model

import "time"

const DefaultCurrency = "MGA"

type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	OrgID       uint      `gorm:"not null;index" json:"org_id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Price       *float64  `json:"price"`
	Currency    string    `gorm:"size:3;default:MGA" json:"currency"`
	Category    string    `gorm:"size:50" json:"category"`
	ImageURL    string    `gorm:"size:255" json:"image_url"`
	Metadata    JSONMap   `gorm:"column:extra_data;type:text" json:"metadata"`
	IsActive    bool      `gorm:"not null" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
