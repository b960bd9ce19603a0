package models

import (
	"strconv"
	"time"

	"github.com/gridbase/gridbase/internal/types"
)

// Base is the top-level tenant-owned container. OwnerID is the subject id
// of the authenticated user and is the isolation boundary for every
// operation below it.
type Base struct {
	BaseID    uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID   string    `gorm:"type:char(36);not null;index" json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Tables    []Table   `gorm:"foreignKey:BaseID;constraint:OnDelete:CASCADE" json:"tables,omitempty"`
}

// Table owns an ordered column catalog and a set of records.
type Table struct {
	TableID   uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	BaseID    uint64    `gorm:"not null;index" json:"baseId"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Columns   []Column  `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE" json:"columns,omitempty"`
	Records   []Record  `gorm:"foreignKey:TableID;constraint:OnDelete:CASCADE" json:"records,omitempty"`
}

// Column identity is the immutable ColumnID; name and type are mutable.
// Order defines display order, is unique within a table by construction
// (max+1 on create) and is never renumbered, so it is not required to be
// contiguous.
type Column struct {
	ColumnID  uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TableID   uint64           `gorm:"not null;index" json:"tableId"`
	Name      string           `gorm:"size:255;not null" json:"name"`
	Type      types.ColumnType `gorm:"size:16;not null;default:TEXT" json:"type"`
	Order     int              `gorm:"column:col_order;not null" json:"order"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Record holds cells keyed by column id. RecordID is assigned in creation
// order, which is also the stable iteration order used by cursor pagination.
type Record struct {
	RecordID  uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	TableID   uint64    `gorm:"not null;index" json:"tableId"`
	Data      CellData  `gorm:"type:json" json:"data"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Key returns c's key in a record's data map.
func (c *Column) Key() string {
	return ColumnKey(c.ColumnID)
}

// ColumnKey renders a column id as a record data key. JSON object keys are
// strings, so cell maps are keyed by the decimal form of the id.
func ColumnKey(columnID uint64) string {
	return strconv.FormatUint(columnID, 10)
}

func (Base) TableName() string {
	return "bases"
}

func (Table) TableName() string {
	return "grid_tables"
}

func (Column) TableName() string {
	return "grid_columns"
}

func (Record) TableName() string {
	return "grid_records"
}
