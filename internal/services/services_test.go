package services_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gridbase/gridbase/internal/models"
	"github.com/gridbase/gridbase/internal/services"
)

const (
	owner    = "11111111-1111-1111-1111-111111111111"
	stranger = "22222222-2222-2222-2222-222222222222"
)

// setupTestDB creates an in-memory SQLite database for testing. The pool
// is pinned to one connection so every query sees the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Base{},
		&models.Table{},
		&models.Column{},
		&models.Record{},
	))
	return db
}

// seedTable makes a base for owner and returns its table, which comes
// seeded with the Name/Notes columns and three blank records.
func seedTable(t *testing.T, db *gorm.DB) *models.Table {
	t.Helper()
	base, err := services.CreateBase(db, owner, "Test Base")
	require.NoError(t, err)

	table, err := services.CreateTable(db, owner, base.BaseID, "Test Table")
	require.NoError(t, err)
	return table
}

// tableColumns reloads the table's columns in display order.
func tableColumns(t *testing.T, db *gorm.DB, tableID uint64) []models.Column {
	t.Helper()
	var columns []models.Column
	require.NoError(t, db.Where("table_id = ?", tableID).Order("col_order ASC").Find(&columns).Error)
	return columns
}

// tableRecords reloads the table's records in id order.
func tableRecords(t *testing.T, db *gorm.DB, tableID uint64) []models.Record {
	t.Helper()
	var records []models.Record
	require.NoError(t, db.Where("table_id = ?", tableID).Order("record_id ASC").Find(&records).Error)
	return records
}
