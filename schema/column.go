// column.go - Column definition for legacy table schemas
package schema

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrUnsupportedType = errors.New("unsupported column type")
)

// ColumnType is the on-disk column type code.
type ColumnType uint8

const (
	TypeBool     ColumnType = 0x01
	TypeByte     ColumnType = 0x02
	TypeInt      ColumnType = 0x03 // 16-bit
	TypeLongInt  ColumnType = 0x04 // 32-bit
	TypeMoney    ColumnType = 0x05
	TypeFloat    ColumnType = 0x06
	TypeDouble   ColumnType = 0x07
	TypeDateTime ColumnType = 0x08
	TypeBinary   ColumnType = 0x09
	TypeText     ColumnType = 0x0a
	TypeOLE      ColumnType = 0x0b
	TypeMemo     ColumnType = 0x0c
	TypeRepID    ColumnType = 0x0f
	TypeNumeric  ColumnType = 0x10
)

var typeNames = map[ColumnType]string{
	TypeBool:     "BOOL",
	TypeByte:     "BYTE",
	TypeInt:      "INT",
	TypeLongInt:  "LONGINT",
	TypeMoney:    "MONEY",
	TypeFloat:    "FLOAT",
	TypeDouble:   "DOUBLE",
	TypeDateTime: "DATETIME",
	TypeBinary:   "BINARY",
	TypeText:     "TEXT",
	TypeOLE:      "OLE",
	TypeMemo:     "MEMO",
	TypeRepID:    "REPLID",
	TypeNumeric:  "NUMERIC",
}

func (t ColumnType) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return fmt.Sprintf("TYPE(%#02x)", uint8(t))
}

// Column represents a column definition in a table
type Column struct {
	Name          string     // Column name
	Type          ColumnType // Column data type
	Ordinal       int        // Position in table (0-based)
	Length        int        // Declared length for TEXT and BINARY
	Precision     int        // Precision for NUMERIC
	Scale         int        // Scale for NUMERIC (MONEY is always 4)
	Nullable      bool       // Whether column can be NULL
	AutoIncrement bool       // AUTO_INCREMENT flag
	DefaultValue  string     // Default value
	IsPrimaryKey  bool       // Part of primary key
}

// IsVariableLength returns true if the column is stored in the variable
// part of a row
func (c *Column) IsVariableLength() bool {
	switch c.Type {
	case TypeText, TypeBinary, TypeOLE, TypeMemo:
		return true
	default:
		return false
	}
}

// IsFixedLength returns true if the column occupies bytes in the fixed
// part of a row. BOOL lives in the null mask and takes none.
func (c *Column) IsFixedLength() bool {
	return !c.IsVariableLength() && c.Type != TypeBool
}

// StorageSize returns the storage size in bytes for fixed-length columns
func (c *Column) StorageSize() int {
	switch c.Type {
	case TypeByte:
		return 1
	case TypeInt:
		return 2
	case TypeLongInt, TypeFloat:
		return 4
	case TypeMoney, TypeDouble, TypeDateTime:
		return 8
	case TypeRepID:
		return 16
	case TypeNumeric:
		return 17
	}
	return 0 // BOOL or variable length
}
