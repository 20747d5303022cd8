// internal/model/organization.go
package model

import "time"

type Plan string

const (
	PlanFree    Plan = "free"
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

type Organization struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;not null" json:"name"`
	Plan        Plan            `gorm:"size:20;not null;default:free" json:"plan"`
	BillingInfo NullableJSONMap `gorm:"type:text" json:"billing_info"`
	CreatedAt   time.Time       `json:"created_at"`

	Users     []User     `gorm:"foreignKey:OrgID" json:"-"`
	Customers []Customer `gorm:"foreignKey:OrgID" json:"-"`
	Products  []Product  `gorm:"foreignKey:OrgID" json:"-"`
	Campaigns []Campaign `gorm:"foreignKey:OrgID" json:"-"`
	Courses   []Course   `gorm:"foreignKey:OrgID" json:"-"`
	Payments  []Payment  `gorm:"foreignKey:OrgID" json:"-"`
}
