package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/model"
	"gorm.io/gorm"
)

// CustomerFilter narrows a customer listing to one organization.
type CustomerFilter struct {
	OrgID  uint
	Search string
	Tags   []string
	Page   Page
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	err := conn(ctx, r.db).Create(customer).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrCustomerEmailExists
	}
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// CreateBatch inserts customers in a single statement batch.
func (r *CustomerRepository) CreateBatch(ctx context.Context, customers []*model.Customer) error {
	if len(customers) == 0 {
		return nil
	}
	if err := conn(ctx, r.db).CreateInBatches(customers, 100).Error; err != nil {
		return fmt.Errorf("failed to create customers: %w", err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, orgID, id uint) (*model.Customer, error) {
	var customer model.Customer
	err := conn(ctx, r.db).Where("org_id = ? AND id = ?", orgID, id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

func (r *CustomerRepository) FindByEmail(ctx context.Context, orgID uint, email string) (*model.Customer, error) {
	var customer model.Customer
	err := conn(ctx, r.db).Where("org_id = ? AND email = ?", orgID, email).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &customer, nil
}

// EmailsInOrg returns the set of customer emails stored for an organization.
func (r *CustomerRepository) EmailsInOrg(ctx context.Context, orgID uint) (map[string]struct{}, error) {
	var emails []string
	err := conn(ctx, r.db).Model(&model.Customer{}).
		Where("org_id = ? AND email IS NOT NULL", orgID).
		Pluck("email", &emails).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list customer emails: %w", err)
	}

	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		set[e] = struct{}{}
	}
	return set, nil
}

// List returns one page of matching customers, newest first, with the
// total number of matches.
func (r *CustomerRepository) List(ctx context.Context, filter CustomerFilter) ([]model.Customer, int64, error) {
	query := conn(ctx, r.db).Model(&model.Customer{}).Where("org_id = ?", filter.OrgID)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := containsPattern(strings.ToLower(search))
		query = query.Where(
			`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(email) LIKE ? ESCAPE '\' OR LOWER(phone) LIKE ? ESCAPE '\'`,
			pattern, pattern, pattern,
		)
	}
	query = withTags(query, "tags", filter.Tags)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	var customers []model.Customer
	err := filter.Page.apply(query).Order("created_at DESC, id DESC").Find(&customers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *model.Customer) error {
	err := conn(ctx, r.db).Save(customer).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrCustomerEmailExists
	}
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) Delete(ctx context.Context, customer *model.Customer) error {
	if err := conn(ctx, r.db).Delete(customer).Error; err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return nil
}
