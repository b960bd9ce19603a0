package services

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gridbase/gridbase/internal/models"
	"github.com/gridbase/gridbase/internal/types"
)

// Column catalog management. Structural edits rewrite every record of the
// table, chunked to bound transaction size. Orders are assigned max+1 and
// never renumbered.

// migrateBatchSize bounds one chunk of a per-record rewrite.
const migrateBatchSize = 1000

// CreateColumn appends a column to an owned table and retrofits every
// existing record with an empty-string cell for it.
func CreateColumn(db *gorm.DB, userID string, tableID uint64, name string, colType types.ColumnType) (*models.Column, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if colType == "" {
		colType = types.ColumnTypeText
	}
	if !colType.Valid() {
		return nil, types.InvalidInputf("unknown column type %q", colType)
	}

	table, err := ownedTable(db, userID, tableID)
	if err != nil {
		return nil, err
	}

	var column models.Column
	err = db.Transaction(func(tx *gorm.DB) error {
		var maxOrder *int
		if err := tx.Model(&models.Column{}).
			Where("table_id = ?", table.TableID).
			Select("MAX(col_order)").
			Scan(&maxOrder).Error; err != nil {
			return err
		}
		order := 0
		if maxOrder != nil {
			order = *maxOrder + 1
		}

		column = models.Column{
			TableID: table.TableID,
			Name:    name,
			Type:    colType,
			Order:   order,
		}
		if err := tx.Create(&column).Error; err != nil {
			return err
		}

		key := column.Key()
		return forEachRecord(tx, table.TableID, func(batch []models.Record) error {
			for i := range batch {
				data := batch[i].Data.Clone()
				if data == nil {
					data = make(models.CellData)
				}
				data[key] = ""
				if err := tx.Model(&batch[i]).Update("data", data).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return &column, nil
}

// RenameColumn updates the display name only. Record data is keyed by
// column id, not name, so no record is touched.
func RenameColumn(db *gorm.DB, userID string, columnID uint64, name string) (*models.Column, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}

	column, err := ownedColumn(db, userID, columnID)
	if err != nil {
		return nil, err
	}

	if err := db.Model(column).Update("name", name).Error; err != nil {
		return nil, err
	}
	return column, nil
}

// DeleteColumn removes a column from the catalog and strips its key from
// every record of the same table. Both run in one transaction: no reader
// observes a live record referencing a deleted column, or vice versa.
func DeleteColumn(db *gorm.DB, userID string, columnID uint64) error {
	column, err := ownedColumn(db, userID, columnID)
	if err != nil {
		return err
	}

	key := column.Key()
	return db.Transaction(func(tx *gorm.DB) error {
		err := forEachRecord(tx, column.TableID, func(batch []models.Record) error {
			for i := range batch {
				if _, ok := batch[i].Data[key]; !ok {
					continue
				}
				data := batch[i].Data.Clone()
				delete(data, key)
				if err := tx.Model(&batch[i]).Update("data", data).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		return tx.Delete(column).Error
	})
}

// UpdateColumnType changes the stored type and coerces the cell under that
// column in every record of the target table. The migration is scoped to
// the one table being retyped, runs in chunks, and is lossy one-way: a
// reader racing it may observe partially-coerced rows, but the end state
// satisfies the type invariant. A column deleted while the migration runs
// stays deleted; the rewrite stops and reports the column as not found.
func UpdateColumnType(db *gorm.DB, userID string, columnID uint64, newType types.ColumnType) (*models.Column, error) {
	if !newType.Valid() {
		return nil, types.InvalidInputf("unknown column type %q", newType)
	}

	column, err := ownedColumn(db, userID, columnID)
	if err != nil {
		return nil, err
	}

	if err := db.Model(column).Update("type", newType).Error; err != nil {
		return nil, err
	}
	column.Type = newType

	key := column.Key()
	migrated := 0
	dropped := false
	err = forEachRecord(db, column.TableID, func(batch []models.Record) error {
		if dropped {
			return nil
		}
		// Each chunk commits independently so a huge table never holds
		// one long transaction open. A concurrent DeleteColumn can commit
		// between chunks; its key-strip must stay stripped, so every chunk
		// re-checks the catalog row before writing the key back.
		return db.Transaction(func(tx *gorm.DB) error {
			var live int64
			if err := tx.Model(&models.Column{}).
				Where("column_id = ?", column.ColumnID).
				Count(&live).Error; err != nil {
				return err
			}
			if live == 0 {
				dropped = true
				return nil
			}
			for i := range batch {
				coerced := types.Coerce(batch[i].Data[key], newType)
				data := batch[i].Data.Clone()
				if data == nil {
					data = make(models.CellData)
				}
				data[key] = coerced
				if err := tx.Model(&batch[i]).Update("data", data).Error; err != nil {
					return err
				}
				migrated++
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	if dropped {
		return nil, types.ErrNotFound
	}

	log.Debug().
		Uint64("column", column.ColumnID).
		Str("type", string(newType)).
		Int("records", migrated).
		Msg("column type migrated")

	return column, nil
}

// forEachRecord feeds a table's records to fn in batches of migrateBatchSize.
func forEachRecord(db *gorm.DB, tableID uint64, fn func(batch []models.Record) error) error {
	var batch []models.Record
	result := db.
		Where("table_id = ?", tableID).
		Order("record_id ASC").
		FindInBatches(&batch, migrateBatchSize, func(_ *gorm.DB, _ int) error {
			return fn(batch)
		})
	return result.Error
}
