package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/model"
	"gorm.io/gorm"
)

// CampaignFilter narrows a campaign listing to one organization.
type CampaignFilter struct {
	OrgID  uint
	Status string
	Type   string
	Page   Page
}

type CampaignRepository struct {
	db *gorm.DB
}

func NewCampaignRepository(db *gorm.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

func (r *CampaignRepository) Create(ctx context.Context, campaign *model.Campaign) error {
	if err := conn(ctx, r.db).Create(campaign).Error; err != nil {
		return fmt.Errorf("failed to create campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) FindByID(ctx context.Context, orgID, id uint) (*model.Campaign, error) {
	var campaign model.Campaign
	err := conn(ctx, r.db).Where("org_id = ? AND id = ?", orgID, id).First(&campaign).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to find campaign: %w", err)
	}
	return &campaign, nil
}

func (r *CampaignRepository) List(ctx context.Context, filter CampaignFilter) ([]model.Campaign, int64, error) {
	query := conn(ctx, r.db).Model(&model.Campaign{}).Where("org_id = ?", filter.OrgID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("campaign_type = ?", filter.Type)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count campaigns: %w", err)
	}

	var campaigns []model.Campaign
	err := filter.Page.apply(query).Order("created_at DESC, id DESC").Find(&campaigns).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, total, nil
}

// Audience returns customers of the organization carrying every tag.
func (r *CampaignRepository) Audience(ctx context.Context, orgID uint, tags []string, limit int) ([]model.Customer, int64, error) {
	query := withTags(conn(ctx, r.db).Model(&model.Customer{}).Where("org_id = ?", orgID), "tags", tags)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audience: %w", err)
	}

	var customers []model.Customer
	err := Page{Limit: limit}.apply(query).Order("id").Find(&customers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list audience: %w", err)
	}
	return customers, total, nil
}

func (r *CampaignRepository) Update(ctx context.Context, campaign *model.Campaign) error {
	if err := conn(ctx, r.db).Save(campaign).Error; err != nil {
		return fmt.Errorf("failed to update campaign: %w", err)
	}
	return nil
}

func (r *CampaignRepository) Delete(ctx context.Context, campaign *model.Campaign) error {
	if err := conn(ctx, r.db).Delete(campaign).Error; err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return nil
}
