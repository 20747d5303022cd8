package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/service"
)

// scopedService is the CRUD surface shared by the catalogue services.
type scopedService[T, In, Patch, Query, Page any] interface {
	List(ctx context.Context, orgID uint, query Query) (*Page, error)
	Get(ctx context.Context, orgID, id uint) (*T, error)
	Create(ctx context.Context, orgID uint, input In) (*T, error)
	Update(ctx context.Context, orgID, id uint, patch Patch) (*T, error)
	Delete(ctx context.Context, orgID, id uint) error
}

// ResourceHandler serves list/create/get/update/delete for one
// organization-scoped resource. Single items are wrapped under name.
type ResourceHandler[T, In, Patch, Query, Page any] struct {
	service scopedService[T, In, Patch, Query, Page]
	name    string
	query   func(r *http.Request) Query
}

func (h *ResourceHandler[T, In, Patch, Query, Page]) respondWithItem(w http.ResponseWriter, code int, message string, item *T) {
	body := map[string]interface{}{h.name: item}
	if message != "" {
		body["message"] = message
	}
	respondWithJSON(w, code, body)
}

func (h *ResourceHandler[T, In, Patch, Query, Page]) List(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}

	page, err := h.service.List(r.Context(), org, h.query(r))
	if err != nil {
		respondWithServiceError(w, r, h.name+" list", err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

func (h *ResourceHandler[T, In, Patch, Query, Page]) Create(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}

	var input In
	if !decodeJSON(w, r, &input) {
		return
	}

	item, err := h.service.Create(r.Context(), org, input)
	if err != nil {
		respondWithServiceError(w, r, h.name+" creation", err)
		return
	}

	h.respondWithItem(w, http.StatusCreated, h.name+" created successfully", item)
}

func (h *ResourceHandler[T, In, Patch, Query, Page]) Get(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	item, err := h.service.Get(r.Context(), org, id)
	if err != nil {
		respondWithServiceError(w, r, h.name+" lookup", err)
		return
	}

	h.respondWithItem(w, http.StatusOK, "", item)
}

func (h *ResourceHandler[T, In, Patch, Query, Page]) Update(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var patch Patch
	if !decodeJSON(w, r, &patch) {
		return
	}

	item, err := h.service.Update(r.Context(), org, id, patch)
	if err != nil {
		respondWithServiceError(w, r, h.name+" update", err)
		return
	}

	h.respondWithItem(w, http.StatusOK, h.name+" updated successfully", item)
}

func (h *ResourceHandler[T, In, Patch, Query, Page]) Delete(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), org, id); err != nil {
		respondWithServiceError(w, r, h.name+" deletion", err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: h.name + " deleted successfully"})
}

type ProductHandler = ResourceHandler[model.Product, service.ProductInput, service.ProductPatch, service.ProductQuery, service.ProductPage]

func NewProductHandler(products *service.ProductService) *ProductHandler {
	return &ProductHandler{
		service: products,
		name:    "product",
		query: func(r *http.Request) service.ProductQuery {
			return service.ProductQuery{
				Category:    strings.TrimSpace(r.URL.Query().Get("category")),
				Active:      queryBool(r, "active"),
				PageRequest: pageRequest(r),
			}
		},
	}
}

type CourseHandler = ResourceHandler[model.Course, service.CourseInput, service.CoursePatch, service.CourseQuery, service.CoursePage]

func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{
		service: courses,
		name:    "course",
		query: func(r *http.Request) service.CourseQuery {
			return service.CourseQuery{
				Difficulty:  r.URL.Query().Get("difficulty"),
				PageRequest: pageRequest(r),
			}
		},
	}
}

type PaymentHandler = ResourceHandler[model.Payment, service.PaymentInput, service.PaymentPatch, service.PaymentQuery, service.PaymentPage]

func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service: payments,
		name:    "payment",
		query: func(r *http.Request) service.PaymentQuery {
			return service.PaymentQuery{
				Status:      r.URL.Query().Get("status"),
				Provider:    r.URL.Query().Get("provider"),
				PageRequest: pageRequest(r),
			}
		},
	}
}
