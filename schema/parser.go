// parser.go - Parse CREATE TABLE SQL statements to extract schema
package schema

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/xwb1989/sqlparser"
)

// ParseTableDefFromSQL parses a MySQL-dialect CREATE TABLE statement, as
// produced by schema export tools, and maps its column types onto the
// legacy column types. DECIMAL/NUMERIC columns commented 'money' or
// 'currency' become MONEY.
func ParseTableDefFromSQL(sql string) (*TableDef, error) {
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, fmt.Errorf("parse SQL failed: %w", err)
	}

	ddl, ok := stmt.(*sqlparser.DDL)
	if !ok || ddl.Action != sqlparser.CreateStr {
		return nil, fmt.Errorf("statement is not CREATE TABLE")
	}
	if ddl.TableSpec == nil {
		return nil, fmt.Errorf("CREATE TABLE has no column definitions")
	}

	name := ddl.NewName.Name.String()
	if name == "" {
		name = ddl.Table.Name.String()
	}
	tableDef := NewTableDef(name)

	for _, col := range ddl.TableSpec.Columns {
		column, err := parseColumn(col)
		if err != nil {
			return nil, fmt.Errorf("parse column %s failed: %w", col.Name.String(), err)
		}
		if err := tableDef.AddColumn(column); err != nil {
			return nil, err
		}
	}

	var primaryKeys []string
	for _, idx := range ddl.TableSpec.Indexes {
		if idx.Info.Primary {
			primaryKeys = nil
			for _, col := range idx.Columns {
				primaryKeys = append(primaryKeys, col.Column.String())
			}
		}
	}
	if len(primaryKeys) > 0 {
		if err := tableDef.SetPrimaryKeys(primaryKeys); err != nil {
			return nil, err
		}
	}

	return tableDef, nil
}

// ParseTableDefFromSQLFile reads and parses CREATE TABLE from a SQL file
func ParseTableDefFromSQLFile(filename string) (*TableDef, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read SQL file failed: %w", err)
	}
	return ParseTableDefFromSQL(string(content))
}

// parseColumn converts sqlparser.ColumnDefinition to our Column type
func parseColumn(col *sqlparser.ColumnDefinition) (*Column, error) {
	column := &Column{
		Name: col.Name.String(),
	}

	if col.Type.Length != nil {
		if length, err := strconv.Atoi(string(col.Type.Length.Val)); err == nil {
			column.Length = length
			column.Precision = length
		}
	}
	if col.Type.Scale != nil {
		if scale, err := strconv.Atoi(string(col.Type.Scale.Val)); err == nil {
			column.Scale = scale
		}
	}

	column.Nullable = !bool(col.Type.NotNull)
	column.AutoIncrement = bool(col.Type.Autoincrement)
	if col.Type.Default != nil {
		column.DefaultValue = sqlparser.String(col.Type.Default)
	}

	comment := ""
	if col.Type.Comment != nil {
		comment = strings.ToLower(strings.TrimSpace(string(col.Type.Comment.Val)))
	}

	typ, err := mapColumnType(strings.ToUpper(col.Type.Type), comment)
	if err != nil {
		return nil, err
	}
	column.Type = typ

	switch typ {
	case TypeMoney:
		column.Precision, column.Scale = 19, 4
	case TypeNumeric:
		if column.Precision == 0 {
			column.Precision = 18
		}
		if column.Scale > column.Precision {
			return nil, fmt.Errorf("scale %d exceeds precision %d", column.Scale, column.Precision)
		}
	default:
		column.Precision, column.Scale = 0, 0
	}
	return column, nil
}

// mapColumnType maps a SQL type name onto the legacy column type
func mapColumnType(sqlType, comment string) (ColumnType, error) {
	switch sqlType {
	case "BIT", "BOOL", "BOOLEAN":
		return TypeBool, nil
	case "TINYINT":
		return TypeByte, nil
	case "SMALLINT":
		return TypeInt, nil
	case "MEDIUMINT", "INT", "INTEGER":
		return TypeLongInt, nil
	case "FLOAT":
		return TypeFloat, nil
	case "DOUBLE", "REAL":
		return TypeDouble, nil
	case "DATE", "TIME", "DATETIME", "TIMESTAMP":
		return TypeDateTime, nil
	case "DECIMAL", "NUMERIC":
		if comment == "money" || comment == "currency" {
			return TypeMoney, nil
		}
		return TypeNumeric, nil
	case "CHAR", "VARCHAR", "TINYTEXT", "TEXT":
		return TypeText, nil
	case "MEDIUMTEXT", "LONGTEXT":
		return TypeMemo, nil
	case "BINARY", "VARBINARY":
		if comment == "guid" || comment == "replid" {
			return TypeRepID, nil
		}
		return TypeBinary, nil
	case "TINYBLOB", "BLOB", "MEDIUMBLOB", "LONGBLOB":
		return TypeOLE, nil
	default:
		return 0, fmt.Errorf("%s: %w", sqlType, ErrUnsupportedType)
	}
}
