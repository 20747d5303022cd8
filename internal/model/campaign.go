// internal/model/campaign.go
package model

import "time"

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSent      CampaignStatus = "sent"
	CampaignFailed    CampaignStatus = "failed"
)

// Valid reports whether s is a known campaign status.
func (s CampaignStatus) Valid() bool {
	switch s {
	case CampaignDraft, CampaignScheduled, CampaignSent, CampaignFailed:
		return true
	}
	return false
}

type CampaignType string

const (
	CampaignFacebook CampaignType = "facebook"
	CampaignSMS      CampaignType = "sms"
	CampaignEmail    CampaignType = "email"
	CampaignWhatsApp CampaignType = "whatsapp"
)

// CampaignTypes lists the accepted channels in display order.
var CampaignTypes = []CampaignType{CampaignFacebook, CampaignSMS, CampaignEmail, CampaignWhatsApp}

func (t CampaignType) Valid() bool {
	for _, v := range CampaignTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Campaign struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	OrgID            uint           `gorm:"not null;index" json:"org_id"`
	Title            string         `gorm:"size:200;not null" json:"title"`
	Description      string         `gorm:"type:text" json:"description"`
	DraftContent     string         `gorm:"type:text" json:"draft_content"`
	GeneratedContent string         `gorm:"type:text" json:"generated_content"`
	TargetAudience   StringList     `gorm:"type:text" json:"target_audience"`
	ScheduleAt       *time.Time     `json:"schedule_at"`
	Status           CampaignStatus `gorm:"size:20;not null;default:draft;index" json:"status"`
	CampaignType     CampaignType   `gorm:"size:20;index" json:"campaign_type"`
	Metadata         JSONMap        `gorm:"column:extra_data;type:text" json:"metadata"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}
