// row.go - Decoded row container
package record

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/wilhasse/go-mdb/page"
)

// Row holds the decoded values of one table row. A nil value is NULL.
type Row struct {
	PageNumber uint32
	RowNumber  int
	Values     map[string]interface{} // keyed by lower-cased column name
	Columns    []string               // column names in table order
}

func newRow(pageNo uint32, rowNo int, ncols int) *Row {
	return &Row{
		PageNumber: pageNo,
		RowNumber:  rowNo,
		Values:     make(map[string]interface{}, ncols),
		Columns:    make([]string, 0, ncols),
	}
}

func (r *Row) set(name string, v interface{}) {
	r.Values[strings.ToLower(name)] = v
	r.Columns = append(r.Columns, name)
}

// GetValue looks a column up case-insensitively. ok is false when the
// table has no such column.
func (r *Row) GetValue(name string) (v interface{}, ok bool) {
	v, ok = r.Values[strings.ToLower(name)]
	return v, ok
}

// Text renders a column as text. ok is false for NULL or unknown columns.
func (r *Row) Text(name string) (string, bool) {
	v, ok := r.GetValue(name)
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		return x, true
	case []byte:
		return hex.EncodeToString(x), true
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	default:
		return fmt.Sprint(x), true
	}
}

// LongValue references MEMO or OLE data kept outside the row.
type LongValue struct {
	Length  uint32
	Pointer page.RowPointer
}

func (lv LongValue) String() string {
	return fmt.Sprintf("<long value %d bytes at %s>", lv.Length, lv.Pointer)
}
