package service

import (
	"math"

	"github.com/ai4local/ai4local/internal/repository"
)

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// MaxPage keeps the row offset of the last page within an int32.
const MaxPage = math.MaxInt32/MaxPerPage + 1

// PageRequest is the page and per_page pair of a list request.
type PageRequest struct {
	Page    int
	PerPage int
}

func (p PageRequest) normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p PageRequest) window() repository.Page {
	return repository.Page{Offset: (p.Page - 1) * p.PerPage, Limit: p.PerPage}
}

type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasNext bool  `json:"has_next"`
	HasPrev bool  `json:"has_prev"`
}

func newPagination(p PageRequest, total int64) Pagination {
	pages := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	return Pagination{
		Page:    p.Page,
		PerPage: p.PerPage,
		Total:   total,
		Pages:   pages,
		HasNext: p.Page < pages,
		HasPrev: p.Page > 1,
	}
}
