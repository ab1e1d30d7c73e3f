// parser.go - Row decoding for data pages
package record

// Row layout: [column count][fixed columns][variable data]...
// [variable offsets, last column first][variable count][null mask].
// A set null-mask bit means the column has a value; BOOL columns store
// their value in that bit.
import (
	"fmt"

	"github.com/wilhasse/go-mdb/column"
	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/page"
	"github.com/wilhasse/go-mdb/schema"
)

const (
	longValueHeaderSize = 12
	longValueInline     = 0x80000000
	longValueLengthMask = 0x3fffffff
)

// RowParser decodes rows of one table.
type RowParser struct {
	tableDef *schema.TableDef
	version  format.JetVersion
}

// NewRowParser creates a row parser for a table in a file of version v.
func NewRowParser(tableDef *schema.TableDef, v format.JetVersion) *RowParser {
	return &RowParser{tableDef: tableDef, version: v}
}

// ParseRow decodes one row. data is exactly the row's bytes as bounded
// by the page's row offset table.
func (p *RowParser) ParseRow(pageNo uint32, rowNo int, data []byte) (*Row, error) {
	countSize := 2
	if p.version == format.Jet3 {
		countSize = 1
	}
	if len(data) < countSize+1 {
		return nil, fmt.Errorf("row %d:%d: %d bytes: %w", pageNo, rowNo, len(data), format.ErrShortRead)
	}

	rowCols := int(data[0])
	if countSize == 2 {
		rowCols |= int(data[1]) << 8
	}
	maskSize := (rowCols + 7) / 8
	if maskSize >= len(data) {
		return nil, fmt.Errorf("row %d:%d: null mask of %d bytes: %w", pageNo, rowNo, maskSize, format.ErrShortRead)
	}
	mask := data[len(data)-maskSize:]
	present := func(ord int) bool {
		if ord >= rowCols {
			return false
		}
		return mask[ord/8]&(1<<(ord%8)) != 0
	}

	row := newRow(pageNo, rowNo, p.tableDef.ColumnCount())
	fixed, err := p.fixedValues(data, countSize, present)
	if err != nil {
		return nil, fmt.Errorf("row %d:%d: %w", pageNo, rowNo, err)
	}
	vars, err := p.variableValues(data, maskSize, present)
	if err != nil {
		return nil, fmt.Errorf("row %d:%d: %w", pageNo, rowNo, err)
	}

	for _, col := range p.tableDef.Columns {
		switch {
		case col.Type == schema.TypeBool:
			row.set(col.Name, present(col.Ordinal))
		case col.IsVariableLength():
			row.set(col.Name, vars[col.Ordinal])
		default:
			row.set(col.Name, fixed[col.Ordinal])
		}
	}
	return row, nil
}

// fixedValues decodes fixed-width columns, which are laid out back to
// back after the column count whether or not they are NULL.
func (p *RowParser) fixedValues(data []byte, offset int, present func(int) bool) (map[int]interface{}, error) {
	values := make(map[int]interface{})
	for _, col := range p.tableDef.FixedColumns() {
		size := col.StorageSize()
		if !present(col.Ordinal) {
			values[col.Ordinal] = nil
			offset += size
			continue
		}
		v, n, err := column.ParseColumn(data, offset, col, 0, p.version)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		values[col.Ordinal] = v
		offset += n
	}
	return values, nil
}

func (p *RowParser) variableValues(data []byte, maskSize int, present func(int) bool) (map[int]interface{}, error) {
	values := make(map[int]interface{})
	varCols := p.tableDef.VariableLengthColumns()
	if len(varCols) == 0 {
		return values, nil
	}

	var offsets []int
	var err error
	if p.version == format.Jet3 {
		offsets, err = jet3VarOffsets(data, maskSize)
	} else {
		offsets, err = jet4VarOffsets(data, maskSize)
	}
	if err != nil {
		return nil, err
	}

	for j, col := range varCols {
		if j+1 >= len(offsets) || !present(col.Ordinal) {
			values[col.Ordinal] = nil
			continue
		}
		start, end := offsets[j], offsets[j+1]
		if start < 0 || start > end || end > len(data) {
			return nil, fmt.Errorf("column %s: bad bounds %d..%d", col.Name, start, end)
		}
		v, err := p.variableValue(data[start:end], col)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", col.Name, err)
		}
		values[col.Ordinal] = v
	}
	return values, nil
}

func (p *RowParser) variableValue(field []byte, col *schema.Column) (interface{}, error) {
	if col.Type != schema.TypeMemo && col.Type != schema.TypeOLE {
		v, _, err := column.ParseColumn(field, 0, col, len(field), p.version)
		return v, err
	}

	if len(field) < longValueHeaderSize {
		return nil, fmt.Errorf("long value header: %d bytes: %w", len(field), format.ErrShortRead)
	}
	hdr, _ := format.Le32(field, 0)
	length := hdr & longValueLengthMask
	if hdr&longValueInline == 0 {
		ptr, err := page.ParseRowPointer(field, 4)
		if err != nil {
			return nil, err
		}
		return LongValue{Length: length, Pointer: ptr}, nil
	}
	v, _, err := column.ParseColumn(field, longValueHeaderSize, col, int(length), p.version)
	return v, err
}

// jet4VarOffsets reads the 16-bit offset table. It holds one entry per
// variable column plus the end-of-data offset.
func jet4VarOffsets(data []byte, maskSize int) ([]int, error) {
	rowEnd := len(data) - 1
	count, err := format.Le16(data, rowEnd-maskSize-1)
	if err != nil {
		return nil, fmt.Errorf("variable column count: %w", err)
	}
	offsets := make([]int, int(count)+1)
	for i := range offsets {
		off, err := format.Le16(data, rowEnd-maskSize-3-2*i)
		if err != nil {
			return nil, fmt.Errorf("variable offset %d: %w", i, err)
		}
		offsets[i] = int(off)
	}
	return offsets, nil
}

// jet3VarOffsets reads the one-byte offset table. Rows longer than 256
// bytes carry a jump table: each entry names the first variable column
// whose offset lies in the next 256-byte block.
func jet3VarOffsets(data []byte, maskSize int) ([]int, error) {
	rowEnd := len(data) - 1
	at := func(i int) (int, error) {
		if i < 0 || i >= len(data) {
			return 0, fmt.Errorf("offset table at %d: %w", i, format.ErrShortRead)
		}
		return int(data[i]), nil
	}

	count, err := at(rowEnd - maskSize)
	if err != nil {
		return nil, err
	}
	jumps := rowEnd / 256
	colPtr := rowEnd - maskSize - jumps - 1
	// the last jump entry is padding when it points past the data
	if (colPtr-count)/256 < jumps {
		jumps--
	}

	offsets := make([]int, count+1)
	used := 0
	for i := range offsets {
		for used < jumps {
			j, err := at(rowEnd - maskSize - used - 1)
			if err != nil {
				return nil, err
			}
			if j != i {
				break
			}
			used++
		}
		off, err := at(colPtr - i)
		if err != nil {
			return nil, err
		}
		offsets[i] = off + used*256
	}
	return offsets, nil
}
