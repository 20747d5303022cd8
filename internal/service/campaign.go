package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ai4local/ai4local/internal/aiclient"
	"github.com/ai4local/ai4local/internal/audit"
	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/repository"
)

const (
	entityCampaign = "campaign"

	previewAudienceLimit = 10
	generateMaxTokens    = 200
	generateTemperature  = 0.7
)

// TextGenerator produces text through the AI service
type TextGenerator interface {
	GenerateText(ctx context.Context, req aiclient.GenerateTextRequest) (*aiclient.GenerateTextResponse, error)
}

type CampaignService struct {
	repo  *repository.CampaignRepository
	tx    repository.Transactor
	audit audit.Logger
	ai    TextGenerator
}

func NewCampaignService(repo *repository.CampaignRepository, tx repository.Transactor, auditLogger audit.Logger, ai TextGenerator) *CampaignService {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &CampaignService{repo: repo, tx: tx, audit: auditLogger, ai: ai}
}

type CampaignInput struct {
	Title          string                 `json:"title" validate:"required"`
	Description    string                 `json:"description"`
	DraftContent   string                 `json:"draft_content"`
	TargetAudience []string               `json:"target_audience"`
	ScheduleAt     *string                `json:"schedule_at"`
	CampaignType   string                 `json:"campaign_type" validate:"required"`
	Metadata       map[string]interface{} `json:"metadata"`
}

// CampaignPatch is a partial update; only set fields change.
type CampaignPatch struct {
	Title            Optional[string]                 `json:"title"`
	Description      Optional[string]                 `json:"description"`
	DraftContent     Optional[string]                 `json:"draft_content"`
	GeneratedContent Optional[string]                 `json:"generated_content"`
	TargetAudience   Optional[[]string]               `json:"target_audience"`
	Status           Optional[string]                 `json:"status"`
	ScheduleAt       Optional[string]                 `json:"schedule_at"`
	CampaignType     Optional[string]                 `json:"campaign_type"`
	Metadata         Optional[map[string]interface{}] `json:"metadata"`
}

type CampaignQuery struct {
	Status string
	Type   string
	PageRequest
}

type CampaignPage struct {
	Campaigns  []model.Campaign `json:"campaigns"`
	Pagination Pagination       `json:"pagination"`
}

type GenerateContentInput struct {
	Prompt   string `json:"prompt"`
	Template string `json:"template"`
}

type ContentPreview struct {
	Draft     string `json:"draft"`
	Generated string `json:"generated"`
}

type CampaignPreview struct {
	Campaign               *model.Campaign  `json:"campaign"`
	TargetedCustomersCount int64            `json:"targeted_customers_count"`
	TargetedCustomers      []model.Customer `json:"targeted_customers"`
	ContentPreview         ContentPreview   `json:"content_preview"`
}

type CampaignTemplate struct {
	Name        string `json:"name"`
	Template    string `json:"template"`
	Description string `json:"description"`
}

var scheduleLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseSchedule accepts ISO-8601 dates with or without a zone; dates
// without a zone are UTC.
func ParseSchedule(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range scheduleLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.ErrInvalidSchedule
}

func parseCampaignType(value string) (model.CampaignType, error) {
	t := model.CampaignType(strings.TrimSpace(value))
	if !t.Valid() {
		names := make([]string, len(model.CampaignTypes))
		for i, v := range model.CampaignTypes {
			names[i] = string(v)
		}
		return "", domain.NewValidationError("campaign_type", "%s. Valid types: %s", domain.ErrInvalidCampaignType, strings.Join(names, ", "))
	}
	return t, nil
}

func (s *CampaignService) List(ctx context.Context, orgID uint, query CampaignQuery) (*CampaignPage, error) {
	page := query.PageRequest.normalize()

	campaigns, total, err := s.repo.List(ctx, repository.CampaignFilter{
		OrgID:  orgID,
		Status: strings.TrimSpace(query.Status),
		Type:   strings.TrimSpace(query.Type),
		Page:   page.window(),
	})
	if err != nil {
		return nil, err
	}

	return &CampaignPage{Campaigns: campaigns, Pagination: newPagination(page, total)}, nil
}

func (s *CampaignService) Get(ctx context.Context, orgID, id uint) (*model.Campaign, error) {
	return s.repo.FindByID(ctx, orgID, id)
}

func (s *CampaignService) Create(ctx context.Context, orgID uint, input CampaignInput) (*model.Campaign, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	campaignType, err := parseCampaignType(input.CampaignType)
	if err != nil {
		return nil, err
	}

	campaign := &model.Campaign{
		OrgID:          orgID,
		Title:          input.Title,
		Description:    strings.TrimSpace(input.Description),
		DraftContent:   input.DraftContent,
		TargetAudience: cleanTags(input.TargetAudience),
		Status:         model.CampaignDraft,
		CampaignType:   campaignType,
		Metadata:       model.JSONMap(input.Metadata),
	}
	if campaign.Metadata == nil {
		campaign.Metadata = model.JSONMap{}
	}

	if input.ScheduleAt != nil && strings.TrimSpace(*input.ScheduleAt) != "" {
		at, err := ParseSchedule(*input.ScheduleAt)
		if err != nil {
			return nil, err
		}
		campaign.ScheduleAt = &at
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, campaign); err != nil {
			return err
		}
		return s.audit.LogAction(ctx, audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionCreate,
			EntityType: entityCampaign,
			EntityID:   campaign.ID,
			Details:    map[string]interface{}{"title": campaign.Title, "campaign_type": string(campaign.CampaignType)},
		})
	})
	if err != nil {
		return nil, err
	}

	return campaign, nil
}

func stringOrEmpty(o Optional[string]) string {
	if o.Value == nil {
		return ""
	}
	return *o.Value
}

// applyPatch mutates campaign and returns the names of changed fields.
func applyCampaignPatch(campaign *model.Campaign, patch CampaignPatch) ([]string, error) {
	changed := []string{}

	if patch.Title.Set {
		title := strings.TrimSpace(stringOrEmpty(patch.Title))
		if title == "" {
			return nil, domain.NewValidationError("title", "title is required")
		}
		campaign.Title = title
		changed = append(changed, "title")
	}
	if patch.Description.Set {
		campaign.Description = strings.TrimSpace(stringOrEmpty(patch.Description))
		changed = append(changed, "description")
	}
	if patch.DraftContent.Set {
		campaign.DraftContent = stringOrEmpty(patch.DraftContent)
		changed = append(changed, "draft_content")
	}
	if patch.GeneratedContent.Set {
		campaign.GeneratedContent = stringOrEmpty(patch.GeneratedContent)
		changed = append(changed, "generated_content")
	}
	if patch.TargetAudience.Set {
		var tags []string
		if patch.TargetAudience.Value != nil {
			tags = *patch.TargetAudience.Value
		}
		campaign.TargetAudience = cleanTags(tags)
		changed = append(changed, "target_audience")
	}
	if patch.Status.Set {
		status := model.CampaignStatus(strings.TrimSpace(stringOrEmpty(patch.Status)))
		if !status.Valid() {
			return nil, domain.ErrInvalidCampaignState
		}
		campaign.Status = status
		changed = append(changed, "status")
	}
	if patch.ScheduleAt.Set {
		if v := strings.TrimSpace(stringOrEmpty(patch.ScheduleAt)); v != "" {
			at, err := ParseSchedule(v)
			if err != nil {
				return nil, err
			}
			campaign.ScheduleAt = &at
		} else {
			campaign.ScheduleAt = nil
		}
		changed = append(changed, "schedule_at")
	}
	if patch.CampaignType.Set {
		t, err := parseCampaignType(stringOrEmpty(patch.CampaignType))
		if err != nil {
			return nil, err
		}
		campaign.CampaignType = t
		changed = append(changed, "campaign_type")
	}
	if patch.Metadata.Set {
		campaign.Metadata = model.JSONMap{}
		if patch.Metadata.Value != nil {
			campaign.Metadata = model.JSONMap(*patch.Metadata.Value)
		}
		changed = append(changed, "metadata")
	}

	return changed, nil
}

func (s *CampaignService) Update(ctx context.Context, orgID, id uint, patch CampaignPatch) (*model.Campaign, error) {
	var campaign *model.Campaign

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		campaign, err = s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return err
		}

		changed, err := applyCampaignPatch(campaign, patch)
		if err != nil {
			return err
		}

		if err := s.repo.Update(ctx, campaign); err != nil {
			return err
		}
		return s.audit.LogAction(ctx, audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionUpdate,
			EntityType: entityCampaign,
			EntityID:   campaign.ID,
			Details:    map[string]interface{}{"fields": changed},
		})
	})
	if err != nil {
		return nil, err
	}

	return campaign, nil
}

// Delete removes a campaign unless it has already been sent
func (s *CampaignService) Delete(ctx context.Context, orgID, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		campaign, err := s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return err
		}
		if campaign.Status == model.CampaignSent {
			return domain.ErrCampaignAlreadySent
		}
		if err := s.repo.Delete(ctx, campaign); err != nil {
			return fmt.Errorf("deleting campaign %d: %w", id, err)
		}
		return s.audit.LogAction(ctx, audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionDelete,
			EntityType: entityCampaign,
			EntityID:   id,
			Details:    map[string]interface{}{"title": campaign.Title},
		})
	})
}

// GenerateContent asks the AI service for campaign copy and stores it in
// generated_content.
func (s *CampaignService) GenerateContent(ctx context.Context, orgID, id uint, input GenerateContentInput) (*model.Campaign, error) {
	campaign, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	prompt := strings.TrimSpace(input.Prompt)
	if prompt == "" {
		prompt = campaign.Title
	}
	template := input.Template
	if strings.TrimSpace(template) == "" {
		template = defaultGenerationTemplate(campaign.CampaignType)
	}

	temperature := generateTemperature
	resp, err := s.ai.GenerateText(ctx, aiclient.GenerateTextRequest{
		Prompt:      prompt,
		Template:    template,
		MaxTokens:   generateMaxTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, err
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		campaign.GeneratedContent = resp.GeneratedText
		if err := s.repo.Update(ctx, campaign); err != nil {
			return err
		}
		return s.audit.LogAction(ctx, audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionUpdate,
			EntityType: entityCampaign,
			EntityID:   campaign.ID,
			Details:    map[string]interface{}{"fields": []string{"generated_content"}, "model_used": resp.ModelUsed},
		})
	})
	if err != nil {
		return nil, err
	}

	return campaign, nil
}

// Preview lists the customers carrying every target_audience tag
func (s *CampaignService) Preview(ctx context.Context, orgID, id uint) (*CampaignPreview, error) {
	campaign, err := s.repo.FindByID(ctx, orgID, id)
	if err != nil {
		return nil, err
	}

	customers, total, err := s.repo.Audience(ctx, orgID, campaign.TargetAudience, previewAudienceLimit)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []model.Customer{}
	}

	return &CampaignPreview{
		Campaign:               campaign,
		TargetedCustomersCount: total,
		TargetedCustomers:      customers,
		ContentPreview: ContentPreview{
			Draft:     campaign.DraftContent,
			Generated: campaign.GeneratedContent,
		},
	}, nil
}

func defaultGenerationTemplate(t model.CampaignType) string {
	switch t {
	case model.CampaignFacebook:
		return "Write an engaging Facebook post promoting {prompt}. Include emojis and a call to action. 150 characters maximum."
	case model.CampaignSMS:
		return "Write a promotional SMS for {prompt}. 160 characters maximum. Include a clear call to action."
	case model.CampaignEmail:
		return "Write the subject line and body of a marketing email for {prompt}. Professional but engaging tone."
	case model.CampaignWhatsApp:
		return "Write a WhatsApp Business message promoting {prompt}. Friendly and direct tone."
	default:
		return "Write marketing content for {prompt}"
	}
}

// Templates returns the built-in message templates per campaign type
func (s *CampaignService) Templates() map[model.CampaignType][]CampaignTemplate {
	return map[model.CampaignType][]CampaignTemplate{
		model.CampaignFacebook: {
			{
				Name:        "Product promotion",
				Template:    "🌟 Discover {prompt}! An exceptional offer is waiting for you. Visit us today! #LocalBusiness #Madagascar",
				Description: "Promote a product or service",
			},
			{
				Name:        "Event",
				Template:    "📅 Don't miss {prompt}! Join us for an unforgettable moment. Book your seat now! 🎉",
				Description: "Announce an event",
			},
		},
		model.CampaignSMS: {
			{
				Name:        "Flash sale",
				Template:    "PROMO: {prompt} - Limited offer! Valid until [DATE]. Info: [PHONE]",
				Description: "Announce a flash sale",
			},
			{
				Name:        "Appointment reminder",
				Template:    "Reminder: {prompt} appointment tomorrow at [TIME]. Confirm at [PHONE]. Thank you!",
				Description: "Remind a customer of an appointment",
			},
		},
		model.CampaignEmail: {
			{
				Name:        "Newsletter",
				Template:    "Subject: What's new at {prompt}\n\nHello,\n\nDiscover our latest news about {prompt}. [CONTENT]\n\nBest regards,\nThe team",
				Description: "Monthly newsletter",
			},
		},
		model.CampaignWhatsApp: {
			{
				Name:        "Friendly message",
				Template:    "Hi! 👋 I thought {prompt} might interest you. What do you think? 😊",
				Description: "Friendly WhatsApp message",
			},
		},
	}
}
