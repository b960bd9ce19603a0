package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridbase/gridbase/internal/services"
	"github.com/gridbase/gridbase/internal/types"
)

func TestCreateRecordSeedsBlankCells(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)

	record, err := services.CreateRecord(db, owner, table.TableID)
	require.NoError(t, err)

	columns := tableColumns(t, db, table.TableID)
	require.Len(t, record.Data, len(columns))
	for _, col := range columns {
		require.Equal(t, "", record.Data[col.Key()])
	}
}

func TestUpdateRecordMergesAndDropsStaleKeys(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)

	columns := tableColumns(t, db, table.TableID)
	record := tableRecords(t, db, table.TableID)[0]

	updated, err := services.UpdateRecord(db, owner, record.RecordID, map[string]interface{}{
		columns[0].Key(): "hello",
		"999999":         "orphan", // no such column; dropped silently
	})
	require.NoError(t, err)
	require.Equal(t, "hello", updated.Data[columns[0].Key()])
	require.Equal(t, "", updated.Data[columns[1].Key()])
	_, ok := updated.Data["999999"]
	require.False(t, ok)
}

func TestUpdateRecordRejectsBadValueShape(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)

	columns := tableColumns(t, db, table.TableID)
	record := tableRecords(t, db, table.TableID)[0]

	_, err := services.UpdateRecord(db, owner, record.RecordID, map[string]interface{}{
		columns[0].Key(): true,
	})
	require.ErrorIs(t, err, types.ErrInvalidInput)

	// null is a legal cell value.
	updated, err := services.UpdateRecord(db, owner, record.RecordID, map[string]interface{}{
		columns[0].Key(): nil,
	})
	require.NoError(t, err)
	require.Nil(t, updated.Data[columns[0].Key()])
}

func TestDeleteRecordRepeatIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)
	record := tableRecords(t, db, table.TableID)[0]

	require.NoError(t, services.DeleteRecord(db, owner, record.RecordID))
	require.ErrorIs(t, services.DeleteRecord(db, owner, record.RecordID), types.ErrNotFound)
}

// Walking every page must visit the full row set exactly once, in
// ascending id order.
func TestListRecordsPaginationIsExhaustive(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)

	_, err := services.AddManyRecords(db, owner, table.TableID, 22)
	require.NoError(t, err)
	all := tableRecords(t, db, table.TableID)
	require.Len(t, all, 25)

	var walked []uint64
	cursor := uint64(0)
	for {
		page, err := services.ListRecords(db, owner, table.TableID, cursor, 10)
		require.NoError(t, err)
		require.LessOrEqual(t, len(page.Items), 10)
		for _, item := range page.Items {
			walked = append(walked, item.ID)
		}
		if page.NextCursor == nil {
			break
		}
		cursor = *page.NextCursor
	}

	require.Len(t, walked, len(all))
	for i, rec := range all {
		require.Equal(t, rec.RecordID, walked[i])
	}
}

func TestListRecordsLimitBounds(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)

	_, err := services.ListRecords(db, owner, table.TableID, 0, -1)
	require.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = services.ListRecords(db, owner, table.TableID, 0, services.ListLimitMax+1)
	require.ErrorIs(t, err, types.ErrInvalidInput)

	// Zero means the default limit.
	page, err := services.ListRecords(db, owner, table.TableID, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 3)
	require.Nil(t, page.NextCursor)
}

func TestRecordOpsNotOwnedAreNotFound(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)
	record := tableRecords(t, db, table.TableID)[0]

	_, err := services.CreateRecord(db, stranger, table.TableID)
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = services.ListRecords(db, stranger, table.TableID, 0, 10)
	require.ErrorIs(t, err, types.ErrNotFound)
	_, err = services.UpdateRecord(db, stranger, record.RecordID, map[string]interface{}{})
	require.ErrorIs(t, err, types.ErrNotFound)
	require.ErrorIs(t, services.DeleteRecord(db, stranger, record.RecordID), types.ErrNotFound)
}
