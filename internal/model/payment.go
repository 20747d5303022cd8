package model

import "time"

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

type PaymentProvider string

const (
	ProviderMVola       PaymentProvider = "mvola"
	ProviderAirtelMoney PaymentProvider = "airtel_money"
	ProviderOrangeMoney PaymentProvider = "orange_money"
)

// Payment is a mobile-money transaction recorded for an organization.
type Payment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrgID         uint            `gorm:"not null;index" json:"org_id"`
	Amount        float64         `gorm:"not null" json:"amount"`
	Currency      string          `gorm:"size:3;default:MGA" json:"currency"`
	Provider      PaymentProvider `gorm:"size:50" json:"provider"`
	Status        PaymentStatus   `gorm:"size:20;default:pending" json:"status"`
	ExternalID    string          `gorm:"size:100" json:"external_id"`
	CustomerPhone string          `gorm:"size:20" json:"customer_phone"`
	Description   string          `gorm:"type:text" json:"description"`
	Metadata      JSONMap         `gorm:"column:extra_data;type:text" json:"metadata"`
	CreatedAt     time.Time       `json:"created_at"`
	CompletedAt   *time.Time      `json:"completed_at"`
}
