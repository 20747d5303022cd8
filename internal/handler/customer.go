package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/service"
)

const maxUploadSize = 10 << 20

type CustomerHandler struct {
	customers *service.CustomerService
}

func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type CustomerResponse struct {
	Message  string          `json:"message,omitempty"`
	Customer *model.Customer `json:"customer"`
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}

	var tags []string
	if raw := r.URL.Query().Get("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	page, err := h.customers.List(r.Context(), org, service.CustomerQuery{
		Search:      strings.TrimSpace(r.URL.Query().Get("search")),
		Tags:        tags,
		PageRequest: pageRequest(r),
	})
	if err != nil {
		respondWithServiceError(w, r, "Customer list", err)
		return
	}

	respondWithJSON(w, http.StatusOK, page)
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}

	var input service.CustomerInput
	if !decodeJSON(w, r, &input) {
		return
	}

	customer, err := h.customers.Create(r.Context(), org, input)
	if err != nil {
		respondWithServiceError(w, r, "Customer creation", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, CustomerResponse{Message: "customer created successfully", Customer: customer})
}

func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	customer, err := h.customers.Get(r.Context(), org, id)
	if err != nil {
		respondWithServiceError(w, r, "Customer lookup", err)
		return
	}

	respondWithJSON(w, http.StatusOK, CustomerResponse{Customer: customer})
}

func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var patch service.CustomerPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	customer, err := h.customers.Update(r.Context(), org, id, patch)
	if err != nil {
		respondWithServiceError(w, r, "Customer update", err)
		return
	}

	respondWithJSON(w, http.StatusOK, CustomerResponse{Message: "customer updated successfully", Customer: customer})
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.customers.Delete(r.Context(), org, id); err != nil {
		respondWithServiceError(w, r, "Customer deletion", err)
		return
	}

	respondWithJSON(w, http.StatusOK, MessageResponse{Message: "customer deleted successfully"})
}

// ImportCustomers reads the multipart "file" field
func (h *CustomerHandler) ImportCustomers(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "file is too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	result, err := h.customers.Import(r.Context(), org, header.Filename, file)
	if err != nil {
		respondWithServiceError(w, r, "Customer import", err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// ExportCustomers returns the CSV inside JSON, or as an attachment with
// ?download=true.
func (h *CustomerHandler) ExportCustomers(w http.ResponseWriter, r *http.Request) {
	org, ok := orgID(w, r)
	if !ok {
		return
	}

	result, err := h.customers.Export(r.Context(), org)
	if err != nil {
		respondWithServiceError(w, r, "Customer export", err)
		return
	}

	if download := queryBool(r, "download"); download != nil && *download {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(result.CSVData))
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
