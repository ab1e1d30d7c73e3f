// datetime_parser.go - Parser for DATETIME and floating point columns
package column

import (
	"math"
	"time"

	"github.com/wilhasse/go-mdb/schema"
)

// DateTimeLayout is the text form DATETIME values are rendered in.
const DateTimeLayout = "2006-01-02 15:04:05"

// dateEpoch is day zero of the DATETIME encoding.
var dateEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// DateTimeFromDays converts the stored day count to a time. The integer
// part counts days from 1899-12-30 and the fraction is the time of day;
// for negative values the fraction still counts forward from midnight.
func DateTimeFromDays(days float64) time.Time {
	whole := math.Trunc(days)
	secs := math.Floor(math.Abs(days-whole)*86400 + 0.5)
	return dateEpoch.AddDate(0, 0, int(whole)).Add(time.Duration(secs) * time.Second)
}

// DateTimeParser handles DATETIME, FLOAT and DOUBLE, which share the
// IEEE 754 little-endian storage.
type DateTimeParser struct {
	BaseParser
}

// Parse parses date/time value based on column type
func (p *DateTimeParser) Parse(input []byte, offset int, col *schema.Column, varLen int) (interface{}, int, error) {
	switch col.Type {
	case schema.TypeDateTime:
		days, err := p.readFloat64(input, offset)
		if err != nil {
			return nil, 0, err
		}
		return DateTimeFromDays(days).Format(DateTimeLayout), 8, nil

	case schema.TypeFloat:
		val, err := p.readFloat32(input, offset)
		return val, 4, err

	case schema.TypeDouble:
		val, err := p.readFloat64(input, offset)
		return val, 8, err

	default:
		return nil, 0, schema.ErrUnsupportedType
	}
}

// Skip skips date/time value without parsing
func (p *DateTimeParser) Skip(input []byte, offset int, col *schema.Column, varLen int) (int, error) {
	switch col.Type {
	case schema.TypeDateTime, schema.TypeDouble:
		return 8, nil
	case schema.TypeFloat:
		return 4, nil
	default:
		return 0, schema.ErrUnsupportedType
	}
}
