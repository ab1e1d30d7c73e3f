// Package decimal turns the fixed-point Money and Numeric column
// encodings into exact decimal text.
//
// Money is an 8-byte little-endian two's-complement integer with an
// implied scale of 4. Numeric is a sign byte followed by a 16-byte
// magnitude made of four little-endian 32-bit words stored most
// significant word first, so logical byte i (least significant first)
// lives at index 12-4*(i/4)+i%4. Both are converted by schoolbook
// base-256 to base-10 arithmetic on digit arrays; no floating point is
// involved.
package decimal

import (
	"fmt"

	"github.com/wilhasse/go-mdb/format"
)

// MoneyToString decodes an 8-byte Money field.
func MoneyToString(b []byte) (string, error) {
	if len(b) != format.MoneySize {
		return "", &format.NumericFieldError{
			Kind:    "money",
			Message: fmt.Sprintf("need %d bytes, got %d", format.MoneySize, len(b)),
		}
	}
	var money [format.MoneySize]byte
	copy(money[:], b)

	neg := money[7]&0x80 != 0
	if neg {
		twosComplement(money[:])
	}

	d, err := fromBase256(moneyDigits, len(money), func(i int) byte { return money[i] })
	if err != nil {
		return "", &format.NumericFieldError{Kind: "money", Message: err.Error()}
	}
	return d.render(format.MoneyScale, neg), nil
}

// twosComplement negates a little-endian integer in place.
func twosComplement(b []byte) {
	for i := range b {
		b[i] = ^b[i]
	}
	for i := range b {
		b[i]++
		if b[i] != 0 {
			break
		}
	}
}

// NumericToString decodes a 17-byte Numeric field: sign byte then the
// 16 magnitude bytes. scale and precision come from column metadata.
func NumericToString(b []byte, scale, precision int) (string, error) {
	if len(b) != format.NumericSize {
		return "", &format.NumericFieldError{
			Kind:    "numeric",
			Message: fmt.Sprintf("need %d bytes, got %d", format.NumericSize, len(b)),
		}
	}
	return NumericFromParts(b[0], b[1:], scale, precision)
}

// NumericFromParts decodes a Numeric value from its sign byte and
// 16-byte magnitude. A precision of zero means the column did not
// declare one.
func NumericFromParts(sign byte, mag []byte, scale, precision int) (string, error) {
	if len(mag) != format.NumericMagnitude {
		return "", &format.NumericFieldError{
			Kind:    "numeric",
			Message: fmt.Sprintf("need %d magnitude bytes, got %d", format.NumericMagnitude, len(mag)),
		}
	}
	if err := checkScale(scale, precision); err != nil {
		return "", err
	}

	d, err := fromBase256(numericDigits, len(mag), func(i int) byte {
		return mag[12-4*(i/4)+i%4]
	})
	if err != nil {
		return "", &format.NumericFieldError{Kind: "numeric", Message: err.Error()}
	}
	return d.render(scale, sign&0x80 != 0), nil
}

func checkScale(scale, precision int) error {
	if scale < 0 || scale > format.MaxNumericScale {
		return &format.NumericFieldError{
			Kind:    "numeric",
			Message: fmt.Sprintf("scale %d out of range 0..%d", scale, format.MaxNumericScale),
		}
	}
	if precision == 0 {
		return nil
	}
	if precision < 0 || precision > format.MaxNumericDigits {
		return &format.NumericFieldError{
			Kind:    "numeric",
			Message: fmt.Sprintf("precision %d out of range 1..%d", precision, format.MaxNumericDigits),
		}
	}
	if scale > precision {
		return &format.NumericFieldError{
			Kind:    "numeric",
			Message: fmt.Sprintf("scale %d exceeds precision %d", scale, precision),
		}
	}
	return nil
}
