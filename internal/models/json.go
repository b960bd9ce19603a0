package models

import (
	"database/sql/driver"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// CellData maps column id (decimal string) to a cell value, which is one of
// string, float64, or nil. It is stored as a single JSON document per record.
type CellData datatypes.JSONMap

// Value implements driver.Valuer via the embedded datatypes implementation.
func (d CellData) Value() (driver.Value, error) {
	return datatypes.JSONMap(d).Value()
}

// Scan implements sql.Scanner via the embedded datatypes implementation.
func (d *CellData) Scan(value interface{}) error {
	return (*datatypes.JSONMap)(d).Scan(value)
}

// GormDBDataType picks the JSON column type per dialect. MSSQL has no json
// type, so it falls back to NVARCHAR(MAX).
func (CellData) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	switch db.Dialector.Name() {
	case "mysql":
		return "JSON"
	case "postgres":
		return "JSONB"
	case "sqlserver", "mssql":
		return "NVARCHAR(MAX)"
	case "sqlite":
		return "JSON"
	}
	return "TEXT"
}

// Clone returns a shallow copy safe to mutate before writing back.
func (d CellData) Clone() CellData {
	out := make(CellData, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
