package usagemap

import (
	"fmt"

	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/internal/logging"
)

// scanInline decodes a type 0 map: LE32 page base at offset 1, bitmap
// from offset 5 to the end of the buffer.
func scanInline(m []byte, after int64, opts Options, yield func(uint32) bool) error {
	base, err := format.Le32(m, 1)
	if err != nil {
		return fmt.Errorf("inline usage map header: %w", err)
	}
	cur := bitmapCursor{
		pg:     uint64(base),
		after:  after,
		logger: logging.OrDiscard(opts.Logger),
	}
	cur.walk(m[format.InlineMapHeader:], yield)
	return nil
}
