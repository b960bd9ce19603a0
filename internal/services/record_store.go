package services

import (
	"gorm.io/gorm"

	"github.com/gridbase/gridbase/internal/models"
	"github.com/gridbase/gridbase/internal/types"
)

const (
	// ListLimitMax bounds a single page of ListRecords.
	ListLimitMax = 1000
	// ListLimitDefault applies when the caller gives no limit.
	ListLimitDefault = 1000
)

// RecordPage is one page of a cursor walk over a table's records.
type RecordPage struct {
	Items      []RecordItem `json:"items"`
	NextCursor *uint64      `json:"nextCursor"`
}

// RecordItem is the wire shape of one row.
type RecordItem struct {
	ID   uint64          `json:"id"`
	Data models.CellData `json:"data"`
}

// CreateRecord appends a blank record to an owned table, seeded with one
// empty-string cell per current column.
func CreateRecord(db *gorm.DB, userID string, tableID uint64) (*models.Record, error) {
	table, err := ownedTable(db, userID, tableID)
	if err != nil {
		return nil, err
	}

	var columns []models.Column
	if err := db.Where("table_id = ?", table.TableID).Find(&columns).Error; err != nil {
		return nil, err
	}

	record := models.Record{
		TableID: table.TableID,
		Data:    blankCellData(columns),
	}
	if err := db.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// DeleteRecord hard-deletes an owned record. Deleting an id that is already
// gone is NotFound, not a no-op.
func DeleteRecord(db *gorm.DB, userID string, recordID uint64) error {
	record, err := ownedRecord(db, userID, recordID)
	if err != nil {
		return err
	}
	return db.Delete(record).Error
}

// UpdateRecord shallow-merges values into an owned record's data. Keys that
// do not name a live column of the record's table are dropped silently, so a
// stale client writing through a deleted column neither errors nor persists
// the orphan key. Concurrent updates to the same record are last-writer-wins
// at the map level; that is the stated policy, not an accident.
func UpdateRecord(db *gorm.DB, userID string, recordID uint64, values map[string]interface{}) (*models.Record, error) {
	record, err := ownedRecord(db, userID, recordID)
	if err != nil {
		return nil, err
	}

	var columns []models.Column
	if err := db.Where("table_id = ?", record.TableID).Find(&columns).Error; err != nil {
		return nil, err
	}
	live := make(map[string]struct{}, len(columns))
	for i := range columns {
		live[columns[i].Key()] = struct{}{}
	}

	next := record.Data.Clone()
	if next == nil {
		next = make(models.CellData)
	}
	for key, value := range values {
		if _, ok := live[key]; !ok {
			continue
		}
		if err := validateCellValue(value); err != nil {
			return nil, err
		}
		next[key] = value
	}

	if err := db.Model(record).Update("data", next).Error; err != nil {
		return nil, err
	}
	record.Data = next
	return record, nil
}

// ListRecords walks an owned table's records in ascending record id order.
// cursor is the id returned as nextCursor by the previous page (inclusive);
// zero starts from the beginning. The page holds up to limit rows and
// nextCursor names the first row beyond it, nil once exhausted.
func ListRecords(db *gorm.DB, userID string, tableID uint64, cursor uint64, limit int) (*RecordPage, error) {
	if limit == 0 {
		limit = ListLimitDefault
	}
	if limit < 1 || limit > ListLimitMax {
		return nil, types.InvalidInputf("limit must be between 1 and %d", ListLimitMax)
	}

	table, err := ownedTable(db, userID, tableID)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	query := db.Where("table_id = ?", table.TableID)
	if cursor > 0 {
		query = query.Where("record_id >= ?", cursor)
	}
	if err := query.Order("record_id ASC").Limit(limit + 1).Find(&records).Error; err != nil {
		return nil, err
	}

	page := &RecordPage{}
	if len(records) > limit {
		next := records[limit].RecordID
		page.NextCursor = &next
		records = records[:limit]
	}

	page.Items = make([]RecordItem, len(records))
	for i := range records {
		page.Items[i] = RecordItem{ID: records[i].RecordID, Data: records[i].Data}
	}
	return page, nil
}

// validateCellValue restricts incoming cells to string | number | null.
func validateCellValue(v interface{}) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(string); ok {
		return nil
	}
	if _, ok := types.AsNumber(v); ok {
		return nil
	}
	return types.InvalidInputf("cell values must be string, number, or null")
}
