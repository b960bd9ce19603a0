package services

import (
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gridbase/gridbase/internal/models"
	"github.com/gridbase/gridbase/internal/types"
)

const (
	// BulkBatchSize rows per insert transaction.
	BulkBatchSize = 1000
	// BulkCountMax caps one AddManyRecords call.
	BulkCountMax = 100000
)

// BulkResult reports how many rows a bulk insert committed. Partial is set
// when a batch failed after earlier batches had already committed; the rows
// from those batches stay in place.
type BulkResult struct {
	Added   int    `json:"added"`
	Partial bool   `json:"partial,omitempty"`
	Message string `json:"message,omitempty"`
}

// AddManyRecords inserts count blank records into an owned table in
// independent fixed-size batches. The operation is best-effort bulk, not
// atomic: callers get the committed count either way.
func AddManyRecords(db *gorm.DB, userID string, tableID uint64, count int) (*BulkResult, error) {
	if count < 1 || count > BulkCountMax {
		return nil, types.InvalidInputf("count must be between 1 and %d", BulkCountMax)
	}

	table, err := ownedTable(db, userID, tableID)
	if err != nil {
		return nil, err
	}

	var columns []models.Column
	if err := db.Where("table_id = ?", table.TableID).Find(&columns).Error; err != nil {
		return nil, err
	}
	blank := blankCellData(columns)

	result := &BulkResult{}
	for offset := 0; offset < count; offset += BulkBatchSize {
		size := count - offset
		if size > BulkBatchSize {
			size = BulkBatchSize
		}

		batch := make([]models.Record, size)
		for i := range batch {
			batch[i] = models.Record{TableID: table.TableID, Data: blank.Clone()}
		}

		if err := db.Create(&batch).Error; err != nil {
			log.Warn().
				Err(err).
				Uint64("table", table.TableID).
				Int("added", result.Added).
				Msg("bulk insert stopped mid-way")
			result.Partial = true
			result.Message = err.Error()
			return result, nil
		}
		result.Added += size
	}

	return result, nil
}
