// header.go - Data page header parsing
package page

import (
	"fmt"

	"github.com/wilhasse/go-mdb/format"
)

// Header is the fixed part at the start of a data page. For other page
// types only Type is meaningful.
type Header struct {
	Type      format.PageType
	FreeSpace uint16 // bytes still unused on the page
	TableDef  uint32 // page number of the owning table definition
	RowCount  uint16
}

func ParseHeader(p []byte, v format.JetVersion) (Header, error) {
	rco := v.RowCountOffset()
	if len(p) < rco+2 {
		return Header{}, fmt.Errorf("short page header: %d bytes", len(p))
	}
	free, _ := format.Le16(p, format.FreeSpaceOffset)
	tdef, _ := format.Le32(p, format.TableDefOffset)
	rows, _ := format.Le16(p, rco)
	return Header{
		Type:      format.PageType(p[0]),
		FreeSpace: free,
		TableDef:  tdef,
		RowCount:  rows,
	}, nil
}

// FreeSpace reads only the free-space field of a page.
func FreeSpace(p []byte) (int, error) {
	free, err := format.Le16(p, format.FreeSpaceOffset)
	if err != nil {
		return 0, fmt.Errorf("free space header: %w", err)
	}
	return int(free), nil
}
