package service

import (
	"context"
	"strings"
	"time"

	"github.com/ai4local/ai4local/internal/audit"
	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/repository"
)

const (
	entityProduct = "product"
	entityCourse  = "course"
	entityPayment = "payment"
)

// auditedStore runs a repository mutation and its activity entry in one
// transaction.
type auditedStore struct {
	tx    repository.Transactor
	audit audit.Logger
}

func newAuditedStore(tx repository.Transactor, auditLogger audit.Logger) auditedStore {
	if auditLogger == nil {
		auditLogger = &audit.NoOpLogger{}
	}
	return auditedStore{tx: tx, audit: auditLogger}
}

func (s auditedStore) run(ctx context.Context, fn func(ctx context.Context) (audit.Entry, error)) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := fn(ctx)
		if err != nil {
			return err
		}
		return s.audit.LogAction(ctx, entry)
	})
}

func currencyOrDefault(c string) string {
	c = strings.ToUpper(strings.TrimSpace(c))
	if c == "" {
		return model.DefaultCurrency
	}
	return c
}

func metadataOrEmpty(m map[string]interface{}) model.JSONMap {
	if m == nil {
		return model.JSONMap{}
	}
	return model.JSONMap(m)
}

type ProductService struct {
	auditedStore
	repo *repository.ProductRepository
}

func NewProductService(repo *repository.ProductRepository, tx repository.Transactor, auditLogger audit.Logger) *ProductService {
	return &ProductService{auditedStore: newAuditedStore(tx, auditLogger), repo: repo}
}

type ProductInput struct {
	Title       string                 `json:"title" validate:"required,max=200"`
	Description string                 `json:"description"`
	Price       *float64               `json:"price" validate:"omitempty,gte=0"`
	Currency    string                 `json:"currency" validate:"omitempty,len=3"`
	Category    string                 `json:"category" validate:"max=50"`
	ImageURL    string                 `json:"image_url" validate:"max=255"`
	Metadata    map[string]interface{} `json:"metadata"`
	IsActive    *bool                  `json:"is_active"`
}

type ProductPatch struct {
	Title       Optional[string]                 `json:"title"`
	Description Optional[string]                 `json:"description"`
	Price       Optional[float64]                `json:"price"`
	Currency    Optional[string]                 `json:"currency"`
	Category    Optional[string]                 `json:"category"`
	ImageURL    Optional[string]                 `json:"image_url"`
	Metadata    Optional[map[string]interface{}] `json:"metadata"`
	IsActive    Optional[bool]                   `json:"is_active"`
}

type ProductQuery struct {
	Category string
	Active   *bool
	PageRequest
}

type ProductPage struct {
	Products   []model.Product `json:"products"`
	Pagination Pagination      `json:"pagination"`
}

func (s *ProductService) List(ctx context.Context, orgID uint, query ProductQuery) (*ProductPage, error) {
	page := query.PageRequest.normalize()

	filters := []repository.Filter{}
	if c := strings.TrimSpace(query.Category); c != "" {
		filters = append(filters, repository.Filter{Column: "category", Value: c})
	}
	if query.Active != nil {
		filters = append(filters, repository.Filter{Column: "is_active", Value: *query.Active})
	}

	products, total, err := s.repo.List(ctx, orgID, filters, page.window())
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []model.Product{}
	}
	return &ProductPage{Products: products, Pagination: newPagination(page, total)}, nil
}

func (s *ProductService) Get(ctx context.Context, orgID, id uint) (*model.Product, error) {
	return s.repo.FindByID(ctx, orgID, id)
}

func (s *ProductService) Create(ctx context.Context, orgID uint, input ProductInput) (*model.Product, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &model.Product{
		OrgID:       orgID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Currency:    currencyOrDefault(input.Currency),
		Category:    strings.TrimSpace(input.Category),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Metadata:    metadataOrEmpty(input.Metadata),
		IsActive:    input.IsActive == nil || *input.IsActive,
	}

	err := s.run(ctx, func(ctx context.Context) (audit.Entry, error) {
		if err := s.repo.Create(ctx, product); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionCreate,
			EntityType: entityProduct,
			EntityID:   product.ID,
			Details:    map[string]interface{}{"title": product.Title},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, orgID, id uint, patch ProductPatch) (*model.Product, error) {
	var product *model.Product

	err := s.run(ctx, func(ctx context.Context) (audit.Entry, error) {
		var err error
		product, err = s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return audit.Entry{}, err
		}

		changed := []string{}
		if patch.Title.Set {
			product.Title = strings.TrimSpace(stringOrEmpty(patch.Title))
			changed = append(changed, "title")
		}
		if patch.Description.Set {
			product.Description = stringOrEmpty(patch.Description)
			changed = append(changed, "description")
		}
		if patch.Price.Set {
			product.Price = patch.Price.Value
			changed = append(changed, "price")
		}
		if patch.Currency.Set {
			product.Currency = currencyOrDefault(stringOrEmpty(patch.Currency))
			changed = append(changed, "currency")
		}
		if patch.Category.Set {
			product.Category = strings.TrimSpace(stringOrEmpty(patch.Category))
			changed = append(changed, "category")
		}
		if patch.ImageURL.Set {
			product.ImageURL = strings.TrimSpace(stringOrEmpty(patch.ImageURL))
			changed = append(changed, "image_url")
		}
		if patch.Metadata.Set {
			product.Metadata = model.JSONMap{}
			if patch.Metadata.Value != nil {
				product.Metadata = model.JSONMap(*patch.Metadata.Value)
			}
			changed = append(changed, "metadata")
		}
		if patch.IsActive.Set && patch.IsActive.Value != nil {
			product.IsActive = *patch.IsActive.Value
			changed = append(changed, "is_active")
		}

		err = validateInput(ProductInput{
			Title:    product.Title,
			Price:    product.Price,
			Currency: product.Currency,
			Category: product.Category,
			ImageURL: product.ImageURL,
		})
		if err != nil {
			return audit.Entry{}, err
		}

		if err := s.repo.Update(ctx, product); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionUpdate,
			EntityType: entityProduct,
			EntityID:   product.ID,
			Details:    map[string]interface{}{"fields": changed},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, orgID, id uint) error {
	return s.run(ctx, func(ctx context.Context) (audit.Entry, error) {
		product, err := s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return audit.Entry{}, err
		}
		if err := s.repo.Delete(ctx, product); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionDelete,
			EntityType: entityProduct,
			EntityID:   id,
			Details:    map[string]interface{}{"title": product.Title},
		}, nil
	})
}

type CourseService struct {
	auditedStore
	repo *repository.CourseRepository
}

func NewCourseService(repo *repository.CourseRepository, tx repository.Transactor, auditLogger audit.Logger) *CourseService {
	return &CourseService{auditedStore: newAuditedStore(tx, auditLogger), repo: repo}
}

type CourseInput struct {
	Title           string        `json:"title" validate:"required,max=200"`
	Description     string        `json:"description"`
	Lessons         []interface{} `json:"lessons"`
	DurationMinutes *int          `json:"duration_minutes" validate:"omitempty,gte=0"`
	DifficultyLevel string        `json:"difficulty_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	IsActive        *bool         `json:"is_active"`
}

type CoursePatch struct {
	Title           Optional[string]        `json:"title"`
	Description     Optional[string]        `json:"description"`
	Lessons         Optional[[]interface{}] `json:"lessons"`
	DurationMinutes Optional[int]           `json:"duration_minutes"`
	DifficultyLevel Optional[string]        `json:"difficulty_level"`
	IsActive        Optional[bool]          `json:"is_active"`
}

type CourseQuery struct {
	Difficulty string
	PageRequest
}

type CoursePage struct {
	Courses    []model.Course `json:"courses"`
	Pagination Pagination     `json:"pagination"`
}

func lessonsOrEmpty(l []interface{}) model.JSONList {
	if l == nil {
		return model.JSONList{}
	}
	return model.JSONList(l)
}

func (s *CourseService) List(ctx context.Context, orgID uint, query CourseQuery) (*CoursePage, error) {
	page := query.PageRequest.normalize()

	filters := []repository.Filter{}
	if d := strings.TrimSpace(query.Difficulty); d != "" {
		filters = append(filters, repository.Filter{Column: "difficulty_level", Value: d})
	}

	courses, total, err := s.repo.List(ctx, orgID, filters, page.window())
	if err != nil {
		return nil, err
	}
	if courses == nil {
		courses = []model.Course{}
	}
	return &CoursePage{Courses: courses, Pagination: newPagination(page, total)}, nil
}

func (s *CourseService) Get(ctx context.Context, orgID, id uint) (*model.Course, error) {
	return s.repo.FindByID(ctx, orgID, id)
}

func (s *CourseService) Create(ctx context.Context, orgID uint, input CourseInput) (*model.Course, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.DifficultyLevel = strings.TrimSpace(input.DifficultyLevel)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	course := &model.Course{
		OrgID:           orgID,
		Title:           input.Title,
		Description:     input.Description,
		Lessons:         lessonsOrEmpty(input.Lessons),
		DurationMinutes: input.DurationMinutes,
		DifficultyLevel: model.Difficulty(input.DifficultyLevel),
		IsActive:        input.IsActive == nil || *input.IsActive,
	}

	err := s.run(ctx, func(ctx context.Context) (audit.Entry, error) {
		if err := s.repo.Create(ctx, course); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionCreate,
			EntityType: entityCourse,
			EntityID:   course.ID,
			Details:    map[string]interface{}{"title": course.Title},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(ctx context.Context, orgID, id uint, patch CoursePatch) (*model.Course, error) {
	var course *model.Course

	err := s.run(ctx, func(ctx context.Context) (audit.Entry, error) {
		var err error
		course, err = s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return audit.Entry{}, err
		}

		changed := []string{}
		if patch.Title.Set {
			course.Title = strings.TrimSpace(stringOrEmpty(patch.Title))
			changed = append(changed, "title")
		}
		if patch.Description.Set {
			course.Description = stringOrEmpty(patch.Description)
			changed = append(changed, "description")
		}
		if patch.Lessons.Set {
			var lessons []interface{}
			if patch.Lessons.Value != nil {
				lessons = *patch.Lessons.Value
			}
			course.Lessons = lessonsOrEmpty(lessons)
			changed = append(changed, "lessons")
		}
		if patch.DurationMinutes.Set {
			course.DurationMinutes = patch.DurationMinutes.Value
			changed = append(changed, "duration_minutes")
		}
		if patch.DifficultyLevel.Set {
			course.DifficultyLevel = model.Difficulty(strings.TrimSpace(stringOrEmpty(patch.DifficultyLevel)))
			changed = append(changed, "difficulty_level")
		}
		if patch.IsActive.Set && patch.IsActive.Value != nil {
			course.IsActive = *patch.IsActive.Value
			changed = append(changed, "is_active")
		}

		err = validateInput(CourseInput{
			Title:           course.Title,
			DurationMinutes: course.DurationMinutes,
			DifficultyLevel: string(course.DifficultyLevel),
		})
		if err != nil {
			return audit.Entry{}, err
		}

		if err := s.repo.Update(ctx, course); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionUpdate,
			EntityType: entityCourse,
			EntityID:   course.ID,
			Details:    map[string]interface{}{"fields": changed},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(ctx context.Context, orgID, id uint) error {
	return s.run(ctx, func(ctx context.Context) (audit.Entry, error) {
		course, err := s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return audit.Entry{}, err
		}
		if err := s.repo.Delete(ctx, course); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionDelete,
			EntityType: entityCourse,
			EntityID:   id,
			Details:    map[string]interface{}{"title": course.Title},
		}, nil
	})
}

type PaymentService struct {
	auditedStore
	repo *repository.PaymentRepository
	now  func() time.Time
}

func NewPaymentService(repo *repository.PaymentRepository, tx repository.Transactor, auditLogger audit.Logger) *PaymentService {
	return &PaymentService{auditedStore: newAuditedStore(tx, auditLogger), repo: repo, now: time.Now}
}

type PaymentInput struct {
	Amount        float64                `json:"amount" validate:"required,gt=0"`
	Currency      string                 `json:"currency" validate:"omitempty,len=3"`
	Provider      string                 `json:"provider" validate:"required,oneof=mvola airtel_money orange_money"`
	Status        string                 `json:"status" validate:"omitempty,oneof=pending completed failed cancelled"`
	ExternalID    string                 `json:"external_id" validate:"max=100"`
	CustomerPhone string                 `json:"customer_phone" validate:"max=20"`
	Description   string                 `json:"description"`
	Metadata      map[string]interface{} `json:"metadata"`
}

type PaymentPatch struct {
	Amount        Optional[float64]                `json:"amount"`
	Currency      Optional[string]                 `json:"currency"`
	Provider      Optional[string]                 `json:"provider"`
	Status        Optional[string]                 `json:"status"`
	ExternalID    Optional[string]                 `json:"external_id"`
	CustomerPhone Optional[string]                 `json:"customer_phone"`
	Description   Optional[string]                 `json:"description"`
	Metadata      Optional[map[string]interface{}] `json:"metadata"`
}

type PaymentQuery struct {
	Status   string
	Provider string
	PageRequest
}

type PaymentPage struct {
	Payments   []model.Payment `json:"payments"`
	Pagination Pagination      `json:"pagination"`
}

// setStatus moves the payment to status, stamping completed_at on the
// transition into completed.
func (s *PaymentService) setStatus(p *model.Payment, status model.PaymentStatus) {
	if status == model.PaymentCompleted && p.Status != model.PaymentCompleted {
		at := s.now().UTC()
		p.CompletedAt = &at
	}
	p.Status = status
}

func (s *PaymentService) List(ctx context.Context, orgID uint, query PaymentQuery) (*PaymentPage, error) {
	page := query.PageRequest.normalize()

	filters := []repository.Filter{}
	if v := strings.TrimSpace(query.Status); v != "" {
		filters = append(filters, repository.Filter{Column: "status", Value: v})
	}
	if v := strings.TrimSpace(query.Provider); v != "" {
		filters = append(filters, repository.Filter{Column: "provider", Value: v})
	}

	payments, total, err := s.repo.List(ctx, orgID, filters, page.window())
	if err != nil {
		return nil, err
	}
	if payments == nil {
		payments = []model.Payment{}
	}
	return &PaymentPage{Payments: payments, Pagination: newPagination(page, total)}, nil
}

func (s *PaymentService) Get(ctx context.Context, orgID, id uint) (*model.Payment, error) {
	return s.repo.FindByID(ctx, orgID, id)
}

func (s *PaymentService) Create(ctx context.Context, orgID uint, input PaymentInput) (*model.Payment, error) {
	input.Provider = strings.TrimSpace(input.Provider)
	input.Status = strings.TrimSpace(input.Status)
	if err := validateInput(input); err != nil {
		return nil, err
	}

	payment := &model.Payment{
		OrgID:         orgID,
		Amount:        input.Amount,
		Currency:      currencyOrDefault(input.Currency),
		Provider:      model.PaymentProvider(input.Provider),
		Status:        model.PaymentPending,
		ExternalID:    strings.TrimSpace(input.ExternalID),
		CustomerPhone: strings.TrimSpace(input.CustomerPhone),
		Description:   input.Description,
		Metadata:      metadataOrEmpty(input.Metadata),
	}
	if input.Status != "" {
		s.setStatus(payment, model.PaymentStatus(input.Status))
	}

	err := s.run(ctx, func(ctx context.Context) (audit.Entry, error) {
		if err := s.repo.Create(ctx, payment); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionCreate,
			EntityType: entityPayment,
			EntityID:   payment.ID,
			Details: map[string]interface{}{
				"amount":   payment.Amount,
				"currency": payment.Currency,
				"provider": string(payment.Provider),
			},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) Update(ctx context.Context, orgID, id uint, patch PaymentPatch) (*model.Payment, error) {
	var payment *model.Payment

	err := s.run(ctx, func(ctx context.Context) (audit.Entry, error) {
		var err error
		payment, err = s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return audit.Entry{}, err
		}

		changed := []string{}
		if patch.Amount.Set {
			payment.Amount = 0
			if patch.Amount.Value != nil {
				payment.Amount = *patch.Amount.Value
			}
			changed = append(changed, "amount")
		}
		if patch.Currency.Set {
			payment.Currency = currencyOrDefault(stringOrEmpty(patch.Currency))
			changed = append(changed, "currency")
		}
		if patch.Provider.Set {
			payment.Provider = model.PaymentProvider(strings.TrimSpace(stringOrEmpty(patch.Provider)))
			changed = append(changed, "provider")
		}
		status := string(payment.Status)
		if patch.Status.Set {
			status = strings.TrimSpace(stringOrEmpty(patch.Status))
			if status == "" {
				return audit.Entry{}, domain.NewValidationError("status", "status is required")
			}
			changed = append(changed, "status")
		}
		if patch.ExternalID.Set {
			payment.ExternalID = strings.TrimSpace(stringOrEmpty(patch.ExternalID))
			changed = append(changed, "external_id")
		}
		if patch.CustomerPhone.Set {
			payment.CustomerPhone = strings.TrimSpace(stringOrEmpty(patch.CustomerPhone))
			changed = append(changed, "customer_phone")
		}
		if patch.Description.Set {
			payment.Description = stringOrEmpty(patch.Description)
			changed = append(changed, "description")
		}
		if patch.Metadata.Set {
			payment.Metadata = model.JSONMap{}
			if patch.Metadata.Value != nil {
				payment.Metadata = model.JSONMap(*patch.Metadata.Value)
			}
			changed = append(changed, "metadata")
		}

		err = validateInput(PaymentInput{
			Amount:        payment.Amount,
			Currency:      payment.Currency,
			Provider:      string(payment.Provider),
			Status:        status,
			ExternalID:    payment.ExternalID,
			CustomerPhone: payment.CustomerPhone,
		})
		if err != nil {
			return audit.Entry{}, err
		}
		s.setStatus(payment, model.PaymentStatus(status))

		if err := s.repo.Update(ctx, payment); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionUpdate,
			EntityType: entityPayment,
			EntityID:   payment.ID,
			Details:    map[string]interface{}{"fields": changed, "status": status},
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *PaymentService) Delete(ctx context.Context, orgID, id uint) error {
	return s.run(ctx, func(ctx context.Context) (audit.Entry, error) {
		payment, err := s.repo.FindByID(ctx, orgID, id)
		if err != nil {
			return audit.Entry{}, err
		}
		if err := s.repo.Delete(ctx, payment); err != nil {
			return audit.Entry{}, err
		}
		return audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionDelete,
			EntityType: entityPayment,
			EntityID:   id,
			Details:    map[string]interface{}{"amount": payment.Amount},
		}, nil
	})
}
