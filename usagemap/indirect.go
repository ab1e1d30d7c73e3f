package usagemap

import (
	"errors"
	"fmt"

	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/internal/logging"
)

var errNoLoader = errors.New("indirect usage map needs a page loader")

// scanIndirect decodes a type 1 map. Each non-zero LE32 reference names a
// usage-map page whose bytes 4..PageSize-1 continue the bitmap; the page
// counter runs on across referenced pages and zero references add nothing.
func scanIndirect(m []byte, after int64, loader PageLoader, opts Options, yield func(uint32) bool) error {
	if loader == nil {
		return errNoLoader
	}
	if opts.PageSize <= format.IndirectPageStart {
		return fmt.Errorf("indirect usage map: invalid page size %d", opts.PageSize)
	}
	cur := bitmapCursor{after: after, logger: logging.OrDiscard(opts.Logger)}

	for off := 1; off+format.IndirectRefSize <= len(m); off += format.IndirectRefSize {
		mapPg, _ := format.Le32(m, off)
		if mapPg == 0 {
			continue
		}
		buf, err := loader.LoadPage(mapPg)
		if err != nil {
			return fmt.Errorf("load usage map page %d: %w", mapPg, err)
		}
		if len(buf) != opts.PageSize {
			return &format.TruncatedPageError{PageNo: mapPg, Got: len(buf), Want: opts.PageSize}
		}
		cur.logger.Debug("usage map page", "ref", mapPg, "first", cur.pg)
		if !cur.walk(buf[format.IndirectPageStart:], yield) {
			return nil
		}
	}
	return nil
}
