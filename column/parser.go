// parser.go - Column parser interface and base implementation
package column

import (
	"math"

	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/schema"
)

// Parser interface for parsing column values from raw bytes
type Parser interface {
	// Parse reads and parses column value from input
	Parse(input []byte, offset int, col *schema.Column, varLen int) (value interface{}, bytesRead int, err error)

	// Skip skips column value in input without parsing
	Skip(input []byte, offset int, col *schema.Column, varLen int) (bytesRead int, err error)
}

// BaseParser provides common functionality for column parsers
type BaseParser struct{}

// readBytes reads specified number of bytes from input
func (p *BaseParser) readBytes(input []byte, offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > len(input) {
		return nil, format.ErrShortRead
	}
	return input[offset : offset+length], nil
}

func (p *BaseParser) readUint8(input []byte, offset int) (uint8, error) {
	if offset < 0 || offset+1 > len(input) {
		return 0, format.ErrShortRead
	}
	return input[offset], nil
}

// readInt16 reads a little-endian two's complement 16-bit integer
func (p *BaseParser) readInt16(input []byte, offset int) (int16, error) {
	val, err := format.Le16(input, offset)
	return int16(val), err
}

// readInt32 reads a little-endian two's complement 32-bit integer
func (p *BaseParser) readInt32(input []byte, offset int) (int32, error) {
	val, err := format.Le32(input, offset)
	return int32(val), err
}

func (p *BaseParser) readFloat32(input []byte, offset int) (float32, error) {
	val, err := format.Le32(input, offset)
	return math.Float32frombits(val), err
}

func (p *BaseParser) readFloat64(input []byte, offset int) (float64, error) {
	val, err := format.Le64(input, offset)
	return math.Float64frombits(val), err
}
