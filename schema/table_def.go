// table_def.go - Table definition
package schema

import (
	"fmt"
	"strings"
)

// TableDef represents a table definition with columns and metadata
type TableDef struct {
	Name        string             // Table name
	Columns     []*Column          // All columns in order
	ColumnMap   map[string]*Column // Lower-cased column name to column
	PrimaryKeys []string           // Primary key column names in order
	TdefPage    uint32             // Page holding the table definition, when known

	fixedColumns []*Column
	varColumns   []*Column
}

// NewTableDef creates a new table definition
func NewTableDef(name string) *TableDef {
	return &TableDef{
		Name:      name,
		Columns:   make([]*Column, 0),
		ColumnMap: make(map[string]*Column),
	}
}

// AddColumn adds a column to the table definition
func (td *TableDef) AddColumn(col *Column) error {
	key := strings.ToLower(col.Name)
	if _, exists := td.ColumnMap[key]; exists {
		return fmt.Errorf("column %s already exists", col.Name)
	}

	col.Ordinal = len(td.Columns)
	td.Columns = append(td.Columns, col)
	td.ColumnMap[key] = col

	if col.IsFixedLength() {
		td.fixedColumns = append(td.fixedColumns, col)
	} else if col.IsVariableLength() {
		td.varColumns = append(td.varColumns, col)
	}
	return nil
}

// SetPrimaryKeys sets the primary key columns
func (td *TableDef) SetPrimaryKeys(keys []string) error {
	for _, key := range keys {
		col, exists := td.GetColumn(key)
		if !exists {
			return fmt.Errorf("primary key column %s not found", key)
		}
		col.IsPrimaryKey = true
	}
	td.PrimaryKeys = keys
	return nil
}

// GetColumn returns a column by name, ignoring case
func (td *TableDef) GetColumn(name string) (*Column, bool) {
	col, exists := td.ColumnMap[strings.ToLower(name)]
	return col, exists
}

// GetColumnByOrdinal returns a column by ordinal position
func (td *TableDef) GetColumnByOrdinal(ordinal int) (*Column, error) {
	if ordinal < 0 || ordinal >= len(td.Columns) {
		return nil, fmt.Errorf("ordinal %d out of range", ordinal)
	}
	return td.Columns[ordinal], nil
}

// FixedColumns returns the columns stored in the fixed part of a row
func (td *TableDef) FixedColumns() []*Column {
	return td.fixedColumns
}

// VariableLengthColumns returns all variable length columns
func (td *TableDef) VariableLengthColumns() []*Column {
	return td.varColumns
}

// FixedSize returns the bytes taken by all fixed columns
func (td *TableDef) FixedSize() int {
	n := 0
	for _, c := range td.fixedColumns {
		n += c.StorageSize()
	}
	return n
}

// NullMaskSize returns the size of the trailing null mask in bytes
func (td *TableDef) NullMaskSize() int {
	return (len(td.Columns) + 7) / 8
}

// ColumnCount returns the total number of columns
func (td *TableDef) ColumnCount() int {
	return len(td.Columns)
}

// String returns a string representation of the table definition
func (td *TableDef) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Table: %s\n", td.Name))
	sb.WriteString("Columns:\n")
	for _, col := range td.Columns {
		nullable := " NOT NULL"
		if col.Nullable {
			nullable = " NULL"
		}
		pk := ""
		if col.IsPrimaryKey {
			pk = " PRIMARY KEY"
		}
		typ := col.Type.String()
		switch col.Type {
		case TypeNumeric:
			typ = fmt.Sprintf("%s(%d,%d)", typ, col.Precision, col.Scale)
		case TypeText, TypeBinary:
			typ = fmt.Sprintf("%s(%d)", typ, col.Length)
		}
		sb.WriteString(fmt.Sprintf("  %d. %s %s%s%s\n", col.Ordinal, col.Name, typ, nullable, pk))
	}
	if len(td.PrimaryKeys) > 0 {
		sb.WriteString(fmt.Sprintf("Primary Keys: %v\n", td.PrimaryKeys))
	}
	return sb.String()
}
