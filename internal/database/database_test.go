package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ai4local/ai4local/internal/config"
	"github.com/ai4local/ai4local/internal/database"
	"github.com/ai4local/ai4local/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestOpenAndMigrate(t *testing.T) {
	cfg := &config.Config{Env: "test"}
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "nested", "app.db")

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	assert.NoError(t, database.Ping(context.Background(), db))

	for _, m := range model.All() {
		assert.True(t, db.Migrator().HasTable(m), "missing table for %T", m)
	}
}

func TestJSONSideFieldsRoundTrip(t *testing.T) {
	cfg := &config.Config{Env: "test"}
	cfg.Database.Path = filepath.Join(t.TempDir(), "app.db")

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	org := &model.Organization{Name: "Acme"}
	require.NoError(t, db.Create(org).Error)

	c := &model.Customer{OrgID: org.ID, Name: "Rabe", Tags: model.StringList{"vip", "tana"}}
	require.NoError(t, db.Create(c).Error)

	var got model.Customer
	require.NoError(t, db.First(&got, c.ID).Error)
	assert.Equal(t, model.StringList{"vip", "tana"}, got.Tags)
	assert.Equal(t, model.JSONMap{}, got.Metadata)

	var gotOrg model.Organization
	require.NoError(t, db.First(&gotOrg, org.ID).Error)
	assert.Nil(t, gotOrg.BillingInfo)
	assert.Equal(t, model.PlanFree, gotOrg.Plan)
}

func TestOpenSQLiteSettings(t *testing.T) {
	cfg := &config.Config{Env: "development"}
	cfg.Database.Path = filepath.Join(t.TempDir(), "app.db")

	db, err := database.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	var mode string
	require.NoError(t, db.Raw("PRAGMA journal_mode").Scan(&mode).Error)
	assert.Equal(t, "wal", mode)

	org := &model.Organization{Name: "Acme"}
	require.NoError(t, db.Create(org).Error)
	user := model.User{Email: "a@acme.mg", Name: "A", PasswordHash: "x", Role: model.RoleOwner, OrgID: org.ID}
	require.NoError(t, db.Create(&user).Error)

	dup := user
	dup.ID = 0
	err = db.Create(&dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.Database.Driver = "oracle"

	_, err := database.Open(cfg)
	assert.Error(t, err)
}
