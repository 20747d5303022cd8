// Package testutil holds helpers shared by package tests.
package testutil

import (
	"path/filepath"
	"testing"

	"github.com/ai4local/ai4local/internal/config"
	"github.com/ai4local/ai4local/internal/database"
	"github.com/ai4local/ai4local/internal/model"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated SQLite database in a temp directory.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{Env: "test"}
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// CreateOrg inserts an organization with an owner and returns both.
func CreateOrg(t *testing.T, db *gorm.DB, name, email string) (*model.Organization, *model.User) {
	t.Helper()

	org := &model.Organization{Name: name, Plan: model.PlanFree}
	require.NoError(t, db.Create(org).Error)

	user := &model.User{
		Email:        email,
		Name:         name + " owner",
		PasswordHash: "unused",
		Role:         model.RoleOwner,
		OrgID:        org.ID,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)

	return org, user
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
