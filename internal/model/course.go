package model

import "time"

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

type Course struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	OrgID           uint       `gorm:"not null;index" json:"org_id"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	Lessons         JSONList   `gorm:"type:text" json:"lessons"`
	DurationMinutes *int       `json:"duration_minutes"`
	DifficultyLevel Difficulty `gorm:"size:20" json:"difficulty_level"`
	IsActive        bool       `gorm:"not null" json:"is_active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
