// data.go - Data page parsing with the row offset table
package page

import (
	"fmt"

	"github.com/wilhasse/go-mdb/format"
)

// RowSlot is one entry of a data page's row offset table. Rows are packed
// from the end of the page downwards, so row 0 ends at the page end and
// row i ends where row i-1 starts.
type RowSlot struct {
	Start   int
	End     int
	Deleted bool
	Lookup  bool // row holds a pointer to an overflow row
}

func (s RowSlot) Len() int { return s.End - s.Start }

type DataPage struct {
	PageNo uint32
	Hdr    Header
	Slots  []RowSlot
	Data   []byte
}

func ParseDataPage(pageNo uint32, p []byte, v format.JetVersion) (*DataPage, error) {
	hdr, err := ParseHeader(p, v)
	if err != nil {
		return nil, err
	}
	if hdr.Type != format.PageTypeData {
		return nil, fmt.Errorf("page %d: not a data page: type=%#02x", pageNo, uint8(hdr.Type))
	}

	rco := v.RowCountOffset()
	n := int(hdr.RowCount)
	slots := make([]RowSlot, n)
	for i := 0; i < n; i++ {
		slot, err := rowSlot(p, rco, i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNo, err)
		}
		slots[i] = slot
	}
	return &DataPage{PageNo: pageNo, Hdr: hdr, Slots: slots, Data: p}, nil
}

// rowSlot decodes entry i of the offset table that follows the row count.
func rowSlot(p []byte, rco, i int) (RowSlot, error) {
	raw, err := format.Le16(p, rco+2+i*2)
	if err != nil {
		return RowSlot{}, fmt.Errorf("row %d offset: %w", i, err)
	}
	end := len(p)
	if i > 0 {
		prev, err := format.Le16(p, rco+i*2)
		if err != nil {
			return RowSlot{}, fmt.Errorf("row %d offset: %w", i-1, err)
		}
		end = int(prev & format.RowOffsetMask)
	}
	start := int(raw & format.RowOffsetMask)
	if start >= len(p) || start > end || end > len(p) {
		return RowSlot{}, fmt.Errorf("row %d out of bounds: start=%d end=%d", i, start, end)
	}
	return RowSlot{
		Start:   start,
		End:     end,
		Deleted: raw&format.RowFlagDeleted != 0,
		Lookup:  raw&format.RowFlagLookup != 0,
	}, nil
}

// Row returns the bytes of row i.
func (dp *DataPage) Row(i int) ([]byte, error) {
	if i < 0 || i >= len(dp.Slots) {
		return nil, fmt.Errorf("row %d out of range (page has %d)", i, len(dp.Slots))
	}
	s := dp.Slots[i]
	return dp.Data[s.Start:s.End], nil
}

// LiveRows returns the indexes of rows that are neither deleted nor lookups.
func (dp *DataPage) LiveRows() []int {
	var out []int
	for i, s := range dp.Slots {
		if !s.Deleted && !s.Lookup {
			out = append(out, i)
		}
	}
	return out
}
