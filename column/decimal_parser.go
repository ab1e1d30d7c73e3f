// decimal_parser.go - Parser for MONEY and NUMERIC columns
package column

import (
	"github.com/wilhasse/go-mdb/decimal"
	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/schema"
)

// DecimalParser renders fixed-point columns as exact decimal strings.
type DecimalParser struct {
	BaseParser
}

func (p *DecimalParser) Parse(input []byte, offset int, col *schema.Column, varLen int) (interface{}, int, error) {
	switch col.Type {
	case schema.TypeMoney:
		data, err := p.readBytes(input, offset, format.MoneySize)
		if err != nil {
			return nil, 0, err
		}
		s, err := decimal.MoneyToString(data)
		return s, format.MoneySize, err

	case schema.TypeNumeric:
		data, err := p.readBytes(input, offset, format.NumericSize)
		if err != nil {
			return nil, 0, err
		}
		s, err := decimal.NumericToString(data, col.Scale, col.Precision)
		return s, format.NumericSize, err

	default:
		return nil, 0, schema.ErrUnsupportedType
	}
}

func (p *DecimalParser) Skip(input []byte, offset int, col *schema.Column, varLen int) (int, error) {
	switch col.Type {
	case schema.TypeMoney:
		return format.MoneySize, nil
	case schema.TypeNumeric:
		return format.NumericSize, nil
	default:
		return 0, schema.ErrUnsupportedType
	}
}
