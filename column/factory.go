// factory.go - Factory for getting appropriate column parser
package column

import (
	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/schema"
)

var (
	intParser      = &IntParser{}
	decimalParser  = &DecimalParser{}
	dateTimeParser = &DateTimeParser{}
	jet3Strings    = &StringParser{Version: format.Jet3}
	jet4Strings    = &StringParser{Version: format.Jet4}
)

// GetParser returns the appropriate parser for the column type. BOOL
// columns have no parser: their value is the row's null-mask bit.
func GetParser(col *schema.Column, v format.JetVersion) Parser {
	switch col.Type {
	case schema.TypeByte, schema.TypeInt, schema.TypeLongInt:
		return intParser

	case schema.TypeMoney, schema.TypeNumeric:
		return decimalParser

	case schema.TypeDateTime, schema.TypeFloat, schema.TypeDouble:
		return dateTimeParser

	case schema.TypeText, schema.TypeMemo, schema.TypeBinary,
		schema.TypeOLE, schema.TypeRepID:
		if v == format.Jet3 {
			return jet3Strings
		}
		return jet4Strings

	default:
		return nil
	}
}

// ParseColumn parses a column value using the appropriate parser
func ParseColumn(input []byte, offset int, col *schema.Column, varLen int, v format.JetVersion) (interface{}, int, error) {
	parser := GetParser(col, v)
	if parser == nil {
		return nil, 0, schema.ErrUnsupportedType
	}
	return parser.Parse(input, offset, col, varLen)
}

// SkipColumn skips a column value without parsing
func SkipColumn(input []byte, offset int, col *schema.Column, varLen int, v format.JetVersion) (int, error) {
	parser := GetParser(col, v)
	if parser == nil {
		return 0, schema.ErrUnsupportedType
	}
	return parser.Skip(input, offset, col, varLen)
}
