package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ai4local/ai4local/internal/audit"
	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/repository"
)

const entityCustomer = "customer"

type CustomerService struct {
	repo  *repository.CustomerRepository
	tx    repository.Transactor
	audit audit.Logger
}

func NewCustomerService(repo *repository.CustomerRepository, tx repository.Transactor, auditLogger audit.Logger) *CustomerService {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return &CustomerService{repo: repo, tx: tx, audit: auditLogger}
}

type CustomerInput struct {
	Name     string                 `json:"name" validate:"required"`
	Phone    *string                `json:"phone"`
	Email    *string                `json:"email"`
	Tags     []string               `json:"tags"`
	Metadata map[string]interface{} `json:"metadata"`
}

// CustomerPatch is a partial update; only set fields change.
type CustomerPatch struct {
	Name     Optional[string]                 `json:"name"`
	Phone    Optional[string]                 `json:"phone"`
	Email    Optional[string]                 `json:"email"`
	Tags     Optional[[]string]               `json:"tags"`
	Metadata Optional[map[string]interface{}] `json:"metadata"`
}

type CustomerQuery struct {
	Search string
	Tags   []string
	PageRequest
}

type CustomerPage struct {
	Customers  []model.Customer `json:"customers"`
	Pagination Pagination       `json:"pagination"`
}

// trimmedOrNil trims s and maps an empty result to nil.
func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func normalizedEmailOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := NormalizeEmail(*s)
	if v == "" {
		return nil
	}
	return &v
}

// cleanTags trims tags and drops empty and repeated ones, keeping order.
func cleanTags(tags []string) model.StringList {
	out := model.StringList{}
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func (s *CustomerService) List(ctx context.Context, orgID uint, query CustomerQuery) (*CustomerPage, error) {
	page := query.PageRequest.normalize()

	customers, total, err := s.repo.List(ctx, repository.CustomerFilter{
		OrgID:  orgID,
		Search: query.Search,
		Tags:   cleanTags(query.Tags),
		Page:   page.window(),
	})
	if err != nil {
		return nil, err
	}

	return &CustomerPage{Customers: customers, Pagination: newPagination(page, total)}, nil
}

func (s *CustomerService) Get(ctx context.Context, orgID, id uint) (*model.Customer, error) {
	return s.repo.FindByID(ctx, orgID, id)
}

// ensureEmailFree fails with ErrCustomerEmailExists when another customer
// of the org already uses email.
func (s *CustomerService) ensureEmailFree(ctx context.Context, orgID uint, email *string, exceptID uint) error {
	if email == nil {
		return nil
	}
	existing, err := s.repo.FindByEmail(ctx, orgID, *email)
	if err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != exceptID {
		return domain.ErrCustomerEmailExists
	}
	return nil
}

func (s *CustomerService) Create(ctx context.Context, orgID uint, input CustomerInput) (*model.Customer, error) {
	input.Name = strings.TrimSpace(input.Name)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	customer := &model.Customer{
		OrgID:    orgID,
		Name:     input.Name,
		Phone:    trimmedOrNil(input.Phone),
		Email:    normalizedEmailOrNil(input.Email),
		Tags:     cleanTags(input.Tags),
		Metadata: model.JSONMap(input.Metadata),
	}
	if customer.Metadata == nil {
		customer.Metadata = model.JSONMap{}
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.ensureEmailFree(ctx, orgID, customer.Email, 0); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, customer); err != nil {
			return err
		}
		return s.audit.LogAction(ctx, audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionCreate,
			EntityType: entityCustomer,
			EntityID:   customer.ID,
			Details:    map[string]interface{}{"name": customer.Name},
		})
	})
	if err != nil {
		return nil, err
	}

	return customer, nil
}

func (s *CustomerService) Update(ctx context.Context, orgID, id uint, patch CustomerPatch) (*model.Customer, error) {
	var customer *model.Customer

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		customer, err = s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return err
		}

		changed := []string{}
		if patch.Name.Set {
			name := ""
			if patch.Name.Value != nil {
				name = strings.TrimSpace(*patch.Name.Value)
			}
			if name == "" {
				return domain.NewValidationError("name", "name is required")
			}
			customer.Name = name
			changed = append(changed, "name")
		}
		if patch.Phone.Set {
			customer.Phone = trimmedOrNil(patch.Phone.Value)
			changed = append(changed, "phone")
		}
		if patch.Email.Set {
			email := normalizedEmailOrNil(patch.Email.Value)
			if email != nil && (customer.Email == nil || *customer.Email != *email) {
				if err := s.ensureEmailFree(ctx, orgID, email, customer.ID); err != nil {
					return err
				}
			}
			customer.Email = email
			changed = append(changed, "email")
		}
		if patch.Tags.Set {
			var tags []string
			if patch.Tags.Value != nil {
				tags = *patch.Tags.Value
			}
			customer.Tags = cleanTags(tags)
			changed = append(changed, "tags")
		}
		if patch.Metadata.Set {
			customer.Metadata = model.JSONMap{}
			if patch.Metadata.Value != nil {
				customer.Metadata = model.JSONMap(*patch.Metadata.Value)
			}
			changed = append(changed, "metadata")
		}

		if err := s.repo.Update(ctx, customer); err != nil {
			return err
		}
		return s.audit.LogAction(ctx, audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionUpdate,
			EntityType: entityCustomer,
			EntityID:   customer.ID,
			Details:    map[string]interface{}{"fields": changed},
		})
	})
	if err != nil {
		return nil, err
	}

	return customer, nil
}

func (s *CustomerService) Delete(ctx context.Context, orgID, id uint) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		customer, err := s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, customer); err != nil {
			return fmt.Errorf("deleting customer %d: %w", id, err)
		}
		return s.audit.LogAction(ctx, audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionDelete,
			EntityType: entityCustomer,
			EntityID:   id,
			Details:    map[string]interface{}{"name": customer.Name},
		})
	})
}
