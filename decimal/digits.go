package decimal

import (
	"errors"
	"strings"
)

// Working buffer widths in decimal digits. 2^64 needs 20 digits and
// 2^128 needs 39, so neither conversion can run out of room.
const (
	moneyDigits   = 20
	numericDigits = 40
)

var errPrecision = errors.New("value exceeds working precision")

// digits is a base-10 number stored one digit per slot, least
// significant digit first.
type digits []byte

func newDigits(n int) digits { return make(digits, n) }

// mulAdd adds multiplier*num to d. num is at most 256 so it spans
// three decimal digits.
func (d digits) mulAdd(num int, multiplier digits) error {
	number := [3]byte{byte(num % 10), byte(num / 10 % 10), byte(num / 100 % 10)}
	for i, m := range multiplier {
		if m == 0 {
			continue
		}
		for j, n := range number {
			if n == 0 {
				continue
			}
			if i+j >= len(d) {
				return errPrecision
			}
			d[i+j] += m * n
		}
		if err := d.carry(); err != nil {
			return err
		}
	}
	return nil
}

// carry normalizes every slot back to a single digit.
func (d digits) carry() error {
	last := len(d) - 1
	for j := 0; j < last; j++ {
		if d[j] > 9 {
			d[j+1] += d[j] / 10
			d[j] %= 10
		}
	}
	if d[last] > 9 {
		return errPrecision
	}
	return nil
}

// times256 replaces d with d*256.
func (d digits) times256() error {
	tmp := make(digits, len(d))
	copy(tmp, d)
	clear(d)
	return d.mulAdd(256, tmp)
}

// fromBase256 converts little-endian base-256 bytes, visited in the order
// given by at, into decimal digits.
func fromBase256(width, n int, at func(i int) byte) (digits, error) {
	product := newDigits(width)
	multiplier := newDigits(width)
	multiplier[0] = 1
	for i := 0; i < n; i++ {
		if err := product.mulAdd(int(at(i)), multiplier); err != nil {
			return nil, err
		}
		if i == n-1 {
			break
		}
		if err := multiplier.times256(); err != nil {
			return nil, err
		}
	}
	return product, nil
}

// render writes d with scale digits after the decimal point. Leading
// zeros are dropped down to the digit just above the point.
func (d digits) render(scale int, neg bool) string {
	top := len(d)
	for top > 0 && top-1 > scale && d[top-1] == 0 {
		top--
	}
	var sb strings.Builder
	sb.Grow(top + 2)
	if neg {
		sb.WriteByte('-')
	}
	for i := top; i > 0; i-- {
		if i == scale {
			sb.WriteByte('.')
		}
		sb.WriteByte('0' + d[i-1])
	}
	return sb.String()
}
