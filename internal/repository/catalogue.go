package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/model"
	"gorm.io/gorm"
)

// Filter is an equality condition on a column. A nil Value is ignored.
type Filter struct {
	Column string
	Value  interface{}
}

// scopedRepository stores rows of T that belong to an organization.
type scopedRepository[T any] struct {
	db       *gorm.DB
	name     string
	notFound error
}

func (r *scopedRepository[T]) Create(ctx context.Context, row *T) error {
	if err := conn(ctx, r.db).Create(row).Error; err != nil {
		return fmt.Errorf("failed to create %s: %w", r.name, err)
	}
	return nil
}

func (r *scopedRepository[T]) FindByID(ctx context.Context, orgID, id uint) (*T, error) {
	var row T
	err := conn(ctx, r.db).Where("org_id = ? AND id = ?", orgID, id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, r.notFound
		}
		return nil, fmt.Errorf("failed to find %s: %w", r.name, err)
	}
	return &row, nil
}

func (r *scopedRepository[T]) List(ctx context.Context, orgID uint, filters []Filter, page Page) ([]T, int64, error) {
	query := conn(ctx, r.db).Model(new(T)).Where("org_id = ?", orgID)
	for _, f := range filters {
		if f.Value != nil {
			query = query.Where(f.Column+" = ?", f.Value)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count %ss: %w", r.name, err)
	}

	var rows []T
	if err := page.apply(query).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list %ss: %w", r.name, err)
	}
	return rows, total, nil
}

func (r *scopedRepository[T]) Update(ctx context.Context, row *T) error {
	if err := conn(ctx, r.db).Save(row).Error; err != nil {
		return fmt.Errorf("failed to update %s: %w", r.name, err)
	}
	return nil
}

func (r *scopedRepository[T]) Delete(ctx context.Context, row *T) error {
	if err := conn(ctx, r.db).Delete(row).Error; err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.name, err)
	}
	return nil
}

type ProductRepository struct {
	scopedRepository[model.Product]
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{scopedRepository[model.Product]{db: db, name: "product", notFound: domain.ErrProductNotFound}}
}

type CourseRepository struct {
	scopedRepository[model.Course]
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{scopedRepository[model.Course]{db: db, name: "course", notFound: domain.ErrCourseNotFound}}
}

type PaymentRepository struct {
	scopedRepository[model.Payment]
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{scopedRepository[model.Payment]{db: db, name: "payment", notFound: domain.ErrPaymentNotFound}}
}
