// internal/model/user.go
package model

import "time"

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOwner    Role = "OWNER"
	RoleEmployee Role = "EMPLOYEE"
)

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	Role         Role       `gorm:"size:20;not null" json:"role"`
	OrgID        uint       `gorm:"not null;index" json:"org_id"`
	CreatedAt    time.Time  `json:"created_at"`
	LastLogin    *time.Time `json:"last_login"`
	IsActive     bool       `gorm:"not null" json:"is_active"`

	Organization *Organization `gorm:"foreignKey:OrgID" json:"-"`
}
