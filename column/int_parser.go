// int_parser.go - Parser for integer column types
package column

import (
	"github.com/wilhasse/go-mdb/schema"
)

// IntParser handles BYTE, INT and LONGINT columns. BYTE is unsigned,
// the others are little-endian two's complement.
type IntParser struct {
	BaseParser
}

// Parse parses integer value based on column type
func (p *IntParser) Parse(input []byte, offset int, col *schema.Column, varLen int) (interface{}, int, error) {
	switch col.Type {
	case schema.TypeByte:
		val, err := p.readUint8(input, offset)
		return val, 1, err
	case schema.TypeInt:
		val, err := p.readInt16(input, offset)
		return val, 2, err
	case schema.TypeLongInt:
		val, err := p.readInt32(input, offset)
		return val, 4, err
	default:
		return nil, 0, schema.ErrUnsupportedType
	}
}

// Skip skips integer value without parsing
func (p *IntParser) Skip(input []byte, offset int, col *schema.Column, varLen int) (int, error) {
	switch col.Type {
	case schema.TypeByte, schema.TypeInt, schema.TypeLongInt:
		return col.StorageSize(), nil
	default:
		return 0, schema.ErrUnsupportedType
	}
}
