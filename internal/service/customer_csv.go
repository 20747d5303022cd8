package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ai4local/ai4local/internal/audit"
	"github.com/ai4local/ai4local/internal/domain"
	"github.com/ai4local/ai4local/internal/metrics"
	"github.com/ai4local/ai4local/internal/model"
	"github.com/ai4local/ai4local/internal/repository"
)

const (
	maxImportRows      = 10000
	exportTimestamp    = "2006-01-02 15:04:05"
	exportFileNameTime = "20060102_150405"
)

var exportHeader = []string{"id", "name", "email", "phone", "tags", "created_at"}

type ImportResult struct {
	Message       string   `json:"message"`
	ImportedCount int      `json:"imported_count"`
	Errors        []string `json:"errors"`
}

type ExportResult struct {
	CSVData  string `json:"csv_data"`
	Filename string `json:"filename"`
}

// Import reads a CSV with the header name,email,phone,tags and creates one
// customer per valid row. Rejected rows are reported, not fatal.
func (s *CustomerService) Import(ctx context.Context, orgID uint, filename string, r io.Reader) (*ImportResult, error) {
	if filename == "" {
		return nil, domain.NewValidationError("file", "no file selected")
	}
	if !strings.EqualFold(filepath.Ext(filename), ".csv") {
		return nil, domain.ErrInvalidCSVFile
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, domain.NewValidationError("file", "CSV file is empty")
		}
		return nil, domain.NewValidationError("file", "unreadable CSV header: %v", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		columns[name] = i
	}
	if _, ok := columns["name"]; !ok {
		return nil, domain.NewValidationError("file", "CSV header must contain a name column")
	}

	field := func(record []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	result := &ImportResult{Errors: []string{}}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		known, err := s.repo.EmailsInOrg(ctx, orgID)
		if err != nil {
			return err
		}

		var customers []*model.Customer
		for row := 2; ; row++ {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				var parseErr *csv.ParseError
				if !errors.As(err, &parseErr) {
					return fmt.Errorf("reading CSV: %w", err)
				}
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", row, parseErr.Err))
				continue
			}
			if row-1 > maxImportRows {
				return domain.NewValidationError("file", "CSV file exceeds %d rows", maxImportRows)
			}

			name := field(record, "name")
			if name == "" {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: name is required", row))
				continue
			}

			var email *string
			if e := NormalizeEmail(field(record, "email")); e != "" {
				if _, dup := known[e]; dup {
					result.Errors = append(result.Errors, fmt.Sprintf("row %d: email %s already exists", row, e))
					continue
				}
				known[e] = struct{}{}
				email = &e
			}

			var phone *string
			if p := field(record, "phone"); p != "" {
				phone = &p
			}

			customers = append(customers, &model.Customer{
				OrgID:    orgID,
				Name:     name,
				Email:    email,
				Phone:    phone,
				Tags:     cleanTags(strings.Split(field(record, "tags"), ",")),
				Metadata: model.JSONMap{},
			})
		}

		if err := s.repo.CreateBatch(ctx, customers); err != nil {
			return err
		}
		result.ImportedCount = len(customers)

		return s.audit.LogAction(ctx, audit.Entry{
			OrgID:      orgID,
			Action:     model.ActionImport,
			EntityType: entityCustomer,
			Details: map[string]interface{}{
				"filename":       filename,
				"imported_count": result.ImportedCount,
				"error_count":    len(result.Errors),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.ObserveCSVImport(result.ImportedCount, len(result.Errors))
	result.Message = fmt.Sprintf("%d customers imported successfully", result.ImportedCount)

	return result, nil
}

// Export renders every customer of the organization as CSV, newest first
func (s *CustomerService) Export(ctx context.Context, orgID uint) (*ExportResult, error) {
	customers, _, err := s.repo.List(ctx, repository.CustomerFilter{OrgID: orgID})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := WriteCustomersCSV(&buf, customers); err != nil {
		return nil, err
	}

	return &ExportResult{
		CSVData:  buf.String(),
		Filename: fmt.Sprintf("clients_org_%d_%s.csv", orgID, time.Now().Format(exportFileNameTime)),
	}, nil
}

// WriteCustomersCSV writes the export header and one row per customer
func WriteCustomersCSV(w io.Writer, customers []model.Customer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exportHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, c := range customers {
		var email, phone, createdAt string
		if c.Email != nil {
			email = *c.Email
		}
		if c.Phone != nil {
			phone = *c.Phone
		}
		if !c.CreatedAt.IsZero() {
			createdAt = c.CreatedAt.Format(exportTimestamp)
		}

		record := []string{
			strconv.FormatUint(uint64(c.ID), 10),
			c.Name,
			email,
			phone,
			strings.Join(c.Tags, ", "),
			createdAt,
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
