// row.go - Page/row pointers used by table definitions
package page

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/usagemap"
)

// RowPointer packs a page number (high 24 bits) and a row index (low 8
// bits). Table definitions use it to locate their usage maps.
type RowPointer uint32

func (rp RowPointer) Page() uint32 { return uint32(rp) >> 8 }
func (rp RowPointer) Row() int     { return int(rp & 0xff) }

func (rp RowPointer) String() string {
	return fmt.Sprintf("%d:%d", rp.Page(), rp.Row())
}

func ParseRowPointer(p []byte, off int) (RowPointer, error) {
	v, err := format.Le32(p, off)
	if err != nil {
		return 0, fmt.Errorf("row pointer: %w", err)
	}
	return RowPointer(v), nil
}

// FindRow loads the page a pointer names and returns the row's bytes.
// The slice aliases the loaded page.
func FindRow(loader usagemap.PageLoader, rp RowPointer, v format.JetVersion) ([]byte, error) {
	p, err := loader.LoadPage(rp.Page())
	if err != nil {
		return nil, fmt.Errorf("load page %d: %w", rp.Page(), err)
	}
	rco := v.RowCountOffset()
	count, err := format.Le16(p, rco)
	if err != nil {
		return nil, fmt.Errorf("page %d row count: %w", rp.Page(), err)
	}
	if rp.Row() >= int(count) {
		return nil, fmt.Errorf("row %s: page has %d rows", rp, count)
	}
	slot, err := rowSlot(p, rco, rp.Row())
	if err != nil {
		return nil, fmt.Errorf("row %s: %w", rp, err)
	}
	return p[slot.Start:slot.End], nil
}

// ParseRowPointerString accepts "page:row" or a plain number in any base
// strconv understands, such as "0x0201".
func ParseRowPointerString(s string) (RowPointer, error) {
	if pg, row, ok := strings.Cut(s, ":"); ok {
		p, err := strconv.ParseUint(pg, 10, 24)
		if err != nil {
			return 0, fmt.Errorf("row pointer %q: page: %w", s, err)
		}
		r, err := strconv.ParseUint(row, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("row pointer %q: row: %w", s, err)
		}
		return RowPointer(p<<8 | r), nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("row pointer %q: %w", s, err)
	}
	return RowPointer(v), nil
}
