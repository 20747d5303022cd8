// internal/repository/repository.go
package repository

import (
	"context"
	"log/slog"
	"strings"

	"gorm.io/gorm"
)

// Transactor runs a function inside a database transaction. Repositories
// called with the context passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// GormTransactor is the GORM implementation of Transactor.
type GormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
			slog.WarnContext(ctx, "Rolling back transaction", "error", err)
			return err
		}
		return nil
	})
}

// conn returns the transaction bound to ctx, or db scoped to ctx.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}

// Page selects a window of a result set.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(q *gorm.DB) *gorm.DB {
	if p.Limit > 0 {
		q = q.Limit(p.Limit)
	}
	if p.Offset > 0 {
		q = q.Offset(p.Offset)
	}
	return q
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching s anywhere, with LIKE
// metacharacters in s escaped.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// withTags keeps rows whose JSON tag column holds every tag. Elements are
// compared decoded, so escaping in the stored text does not matter.
func withTags(q *gorm.DB, column string, tags []string) *gorm.DB {
	for _, tag := range tags {
		if q.Dialector.Name() == "postgres" {
			q = q.Where("jsonb_exists(("+column+")::jsonb, ?)", tag)
			continue
		}
		q = q.Where("EXISTS (SELECT 1 FROM json_each("+column+") WHERE json_each.value = ?)", tag)
	}
	return q
}
