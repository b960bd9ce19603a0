package services

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gridbase/gridbase/internal/models"
)

// Bases and tables. A new base arrives with one default table so it opens
// straight into a usable grid; a new table arrives with the two default
// columns and three blank rows.

const firstPageSize = 200

// CreateBase creates a base for userID with a default table and columns.
// An empty name falls back to "Untitled Base".
func CreateBase(db *gorm.DB, userID, name string) (*models.Base, error) {
	if name == "" {
		name = "Untitled Base"
	}
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	base := models.Base{
		OwnerID: userID,
		Name:    name,
		Tables: []models.Table{
			{
				Name: "Untitled Table",
				Columns: []models.Column{
					{Name: "Name", Type: "TEXT", Order: 0},
					{Name: "Notes", Type: "TEXT", Order: 1},
				},
			},
		},
	}

	if err := db.Create(&base).Error; err != nil {
		return nil, err
	}

	log.Debug().Uint64("base", base.BaseID).Str("owner", userID).Msg("base created")
	return &base, nil
}

// GetBases returns all bases owned by userID, most recently updated first,
// with tables and columns but no records.
func GetBases(db *gorm.DB, userID string) ([]models.Base, error) {
	var bases []models.Base
	err := db.
		Where("owner_id = ?", userID).
		Preload("Tables.Columns", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("col_order ASC")
		}).
		Order("updated_at DESC").
		Find(&bases).Error
	if err != nil {
		return nil, err
	}
	return bases, nil
}

// GetBaseByID returns one owned base with every table's columns in display
// order and its first page of records, so a table opens without a second
// round trip. Rows beyond the first page come through ListRecords.
func GetBaseByID(db *gorm.DB, userID string, baseID uint64) (*models.Base, error) {
	base, err := ownedBase(db, userID, baseID)
	if err != nil {
		return nil, err
	}

	err = db.
		Preload("Columns", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("col_order ASC")
		}).
		Where("base_id = ?", base.BaseID).
		Order("table_id ASC").
		Find(&base.Tables).Error
	if err != nil {
		return nil, err
	}

	// Preload cannot bound records per parent row, so page each table here.
	for i := range base.Tables {
		err = db.
			Where("table_id = ?", base.Tables[i].TableID).
			Order("record_id ASC").
			Limit(firstPageSize).
			Find(&base.Tables[i].Records).Error
		if err != nil {
			return nil, err
		}
	}

	return base, nil
}

// GetTableByID returns one owned table with its columns in display order.
// Records are not included; they come through ListRecords.
func GetTableByID(db *gorm.DB, userID string, tableID uint64) (*models.Table, error) {
	table, err := ownedTable(db, userID, tableID)
	if err != nil {
		return nil, err
	}

	err = db.
		Where("table_id = ?", table.TableID).
		Order("col_order ASC").
		Find(&table.Columns).Error
	if err != nil {
		return nil, err
	}
	return table, nil
}

// RenameBase updates the display name of an owned base.
func RenameBase(db *gorm.DB, userID string, baseID uint64, name string) (*models.Base, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	base, err := ownedBase(db, userID, baseID)
	if err != nil {
		return nil, err
	}

	if err := db.Model(base).Update("name", name).Error; err != nil {
		return nil, err
	}
	return base, nil
}

// DeleteBase removes an owned base. Tables, columns and records go with it.
func DeleteBase(db *gorm.DB, userID string, baseID uint64) error {
	base, err := ownedBase(db, userID, baseID)
	if err != nil {
		return err
	}
	return cascadeDeleteBase(db, base.BaseID)
}

// CreateTable creates a table under an owned base, seeded with the default
// Name/Notes columns and three blank records.
func CreateTable(db *gorm.DB, userID string, baseID uint64, name string) (*models.Table, error) {
	if name == "" {
		name = "Untitled Table"
	}
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	base, err := ownedBase(db, userID, baseID)
	if err != nil {
		return nil, err
	}

	table := models.Table{
		BaseID: base.BaseID,
		Name:   name,
		Columns: []models.Column{
			{Name: "Name", Type: "TEXT", Order: 0},
			{Name: "Notes", Type: "TEXT", Order: 1},
		},
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&table).Error; err != nil {
			return err
		}

		blank := blankCellData(table.Columns)
		records := make([]models.Record, 3)
		for i := range records {
			records[i] = models.Record{TableID: table.TableID, Data: blank.Clone()}
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		return nil, err
	}

	return &table, nil
}

// RenameTable updates the display name of an owned table.
func RenameTable(db *gorm.DB, userID string, tableID uint64, name string) (*models.Table, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	table, err := ownedTable(db, userID, tableID)
	if err != nil {
		return nil, err
	}

	if err := db.Model(table).Update("name", name).Error; err != nil {
		return nil, err
	}
	return table, nil
}

// DeleteTable removes an owned table with its columns and records.
func DeleteTable(db *gorm.DB, userID string, tableID uint64) error {
	table, err := ownedTable(db, userID, tableID)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("table_id = ?", table.TableID).Delete(&models.Record{}).Error; err != nil {
			return err
		}
		if err := tx.Where("table_id = ?", table.TableID).Delete(&models.Column{}).Error; err != nil {
			return err
		}
		return tx.Delete(table).Error
	})
}

// cascadeDeleteBase deletes a base bottom-up in one transaction. SQLite
// created by AutoMigrate does not always enforce ON DELETE CASCADE, so the
// cascade is explicit.
func cascadeDeleteBase(db *gorm.DB, baseID uint64) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var tableIDs []uint64
		if err := tx.Model(&models.Table{}).Where("base_id = ?", baseID).
			Pluck("table_id", &tableIDs).Error; err != nil {
			return err
		}
		if len(tableIDs) > 0 {
			if err := tx.Where("table_id IN ?", tableIDs).Delete(&models.Record{}).Error; err != nil {
				return err
			}
			if err := tx.Where("table_id IN ?", tableIDs).Delete(&models.Column{}).Error; err != nil {
				return err
			}
			if err := tx.Where("base_id = ?", baseID).Delete(&models.Table{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&models.Base{}, "base_id = ?", baseID).Error
	})
}

// blankCellData builds the empty-string seed map for a column set.
func blankCellData(columns []models.Column) models.CellData {
	data := make(models.CellData, len(columns))
	for i := range columns {
		data[columns[i].Key()] = ""
	}
	return data
}
