package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gridbase/gridbase/internal/services"
	"github.com/gridbase/gridbase/internal/types"
)

// 2500 rows cross three internal batches of 1000 and must all land.
func TestAddManyRecordsSpansBatches(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)

	result, err := services.AddManyRecords(db, owner, table.TableID, 2500)
	require.NoError(t, err)
	require.Equal(t, 2500, result.Added)
	require.False(t, result.Partial)

	require.Len(t, tableRecords(t, db, table.TableID), 2503)
}

func TestAddManyRecordsSeedsBlankCells(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)

	_, err := services.AddManyRecords(db, owner, table.TableID, 4)
	require.NoError(t, err)

	columns := tableColumns(t, db, table.TableID)
	for _, rec := range tableRecords(t, db, table.TableID) {
		require.Len(t, rec.Data, len(columns))
		for _, col := range columns {
			require.Equal(t, "", rec.Data[col.Key()])
		}
	}
}

func TestAddManyRecordsCountBounds(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)

	_, err := services.AddManyRecords(db, owner, table.TableID, 0)
	require.ErrorIs(t, err, types.ErrInvalidInput)
	_, err = services.AddManyRecords(db, owner, table.TableID, services.BulkCountMax+1)
	require.ErrorIs(t, err, types.ErrInvalidInput)
}

func TestAddManyRecordsNotOwnedIsNotFound(t *testing.T) {
	db := setupTestDB(t)
	table := seedTable(t, db)

	_, err := services.AddManyRecords(db, stranger, table.TableID, 10)
	require.ErrorIs(t, err, types.ErrNotFound)
}
