package service_test

import (
	"testing"

	"github.com/ai4local/ai4local/internal/repository"
	"github.com/ai4local/ai4local/internal/service"
	"github.com/ai4local/ai4local/internal/testutil"
	"gorm.io/gorm"
)

type services struct {
	db        *gorm.DB
	activity  *service.ActivityService
	customers *service.CustomerService
	products  *service.ProductService
	courses   *service.CourseService
	payments  *service.PaymentService
}

func newServices(t *testing.T) *services {
	t.Helper()

	db := testutil.NewDB(t)
	tx := repository.NewTransactor(db)
	activity := service.NewActivityService(repository.NewActivityLogRepository(db))

	return &services{
		db:        db,
		activity:  activity,
		customers: service.NewCustomerService(repository.NewCustomerRepository(db), tx, activity),
		products:  service.NewProductService(repository.NewProductRepository(db), tx, activity),
		courses:   service.NewCourseService(repository.NewCourseRepository(db), tx, activity),
		payments:  service.NewPaymentService(repository.NewPaymentRepository(db), tx, activity),
	}
}
