package service

import (
	"math"
	"testing"

	"github.com/ai4local/ai4local/internal/repository"
	"github.com/stretchr/testify/assert"
)

func TestPageRequestNormalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, PerPage: 20}, PageRequest{}.normalize())
	assert.Equal(t, PageRequest{Page: 3, PerPage: 100}, PageRequest{Page: 3, PerPage: 500}.normalize())
	assert.Equal(t, PageRequest{Page: 1, PerPage: 20}, PageRequest{Page: -2, PerPage: -1}.normalize())
	assert.Equal(t, repository.Page{Offset: 40, Limit: 20}, PageRequest{Page: 3, PerPage: 20}.window())
}

func TestPageRequestCapsPage(t *testing.T) {
	p := PageRequest{Page: math.MaxInt, PerPage: MaxPerPage}.normalize()
	assert.Equal(t, MaxPage, p.Page)

	w := p.window()
	assert.Positive(t, w.Offset)
	assert.LessOrEqual(t, w.Offset, math.MaxInt32)
}

func TestNewPagination(t *testing.T) {
	p := newPagination(PageRequest{Page: 1, PerPage: 20}, 0)
	assert.Equal(t, Pagination{Page: 1, PerPage: 20, Total: 0, Pages: 0}, p)

	p = newPagination(PageRequest{Page: 2, PerPage: 20}, 41)
	assert.Equal(t, 3, p.Pages)
	assert.True(t, p.HasNext)
	assert.True(t, p.HasPrev)

	p = newPagination(PageRequest{Page: 3, PerPage: 20}, 41)
	assert.False(t, p.HasNext)
}
