package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/gridbase/gridbase/internal/models"
	"github.com/gridbase/gridbase/internal/types"
)

// Every lookup in this package re-resolves the target under the caller's
// ownership join (Record/Column -> Table -> Base -> owner). A target that
// does not resolve is reported as types.ErrNotFound whether it is missing
// or owned by someone else, so existence of other tenants' data never leaks.

func ownedBase(db *gorm.DB, userID string, baseID uint64) (*models.Base, error) {
	var base models.Base
	err := db.Where("base_id = ? AND owner_id = ?", baseID, userID).First(&base).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &base, nil
}

func ownedTable(db *gorm.DB, userID string, tableID uint64) (*models.Table, error) {
	var table models.Table
	err := db.
		Joins("JOIN bases ON bases.base_id = grid_tables.base_id").
		Where("grid_tables.table_id = ? AND bases.owner_id = ?", tableID, userID).
		First(&table).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &table, nil
}

func ownedColumn(db *gorm.DB, userID string, columnID uint64) (*models.Column, error) {
	var column models.Column
	err := db.
		Joins("JOIN grid_tables ON grid_tables.table_id = grid_columns.table_id").
		Joins("JOIN bases ON bases.base_id = grid_tables.base_id").
		Where("grid_columns.column_id = ? AND bases.owner_id = ?", columnID, userID).
		First(&column).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &column, nil
}

func ownedRecord(db *gorm.DB, userID string, recordID uint64) (*models.Record, error) {
	var record models.Record
	err := db.
		Joins("JOIN grid_tables ON grid_tables.table_id = grid_records.table_id").
		Joins("JOIN bases ON bases.base_id = grid_tables.base_id").
		Where("grid_records.record_id = ? AND bases.owner_id = ?", recordID, userID).
		First(&record).Error
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &record, nil
}

func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return types.ErrNotFound
	}
	return err
}

// cleanName trims and bounds a user-supplied display name.
func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", types.InvalidInputf("name must not be empty")
	}
	if len(name) > 255 {
		return "", types.InvalidInputf("name exceeds 255 characters")
	}
	return name, nil
}
