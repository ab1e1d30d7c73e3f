// Package usagemap decodes the bitmaps that record which pages belong to
// a table or to its free-space pool.
//
// Two encodings exist. An inline map (type 0) carries a 4-byte page base
// followed by the bitmap itself. An indirect map (type 1) is a list of
// 4-byte references to usage-map pages whose bodies hold the bitmap; the
// page numbers covered by those bodies are assigned sequentially across
// all referenced pages in traversal order.
//
// Page 0 is the file header page and is never reported: every query asks
// for pages strictly after a start page, and scans begin at start page 0.
package usagemap

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/internal/logging"
)

// PageLoader delivers the raw bytes of one page. Implementations must
// return exactly one page worth of bytes or an error.
type PageLoader interface {
	LoadPage(pageNo uint32) ([]byte, error)
}

// LoaderFunc adapts a function to PageLoader.
type LoaderFunc func(pageNo uint32) ([]byte, error)

func (f LoaderFunc) LoadPage(pageNo uint32) ([]byte, error) { return f(pageNo) }

// Options configures a scan.
type Options struct {
	// PageSize is the size of the pages referenced by indirect maps.
	PageSize int
	// BruteForcePages, when non-zero, turns an unrecognized map type into
	// a full scan over pages [start+1, BruteForcePages). The caller must
	// filter the result itself. Zero keeps the default of failing with
	// format.ErrUnsupportedMapType.
	BruteForcePages uint32
	// Logger receives debug traces of the scan. Nil discards them.
	Logger *slog.Logger
}

// FindNextAllocated returns the smallest page number strictly greater
// than start that the map marks as allocated. ok is false when the scan
// reaches the end of the bitmap without a match.
func FindNextAllocated(m []byte, start uint32, loader PageLoader, opts Options) (page uint32, ok bool, err error) {
	err = scan(m, int64(start), loader, opts, func(p uint32) bool {
		page, ok = p, true
		return false
	})
	if err != nil {
		return 0, false, err
	}
	return page, ok, nil
}

// IsAllocated reports whether the map marks page as allocated. Page 0 is
// the header page and is never allocated to a table.
func IsAllocated(m []byte, page uint32, loader PageLoader, opts Options) (bool, error) {
	if page == 0 {
		return false, nil
	}
	next, ok, err := FindNextAllocated(m, page-1, loader, opts)
	if err != nil {
		return false, err
	}
	return ok && next == page, nil
}

// Type returns the map discriminant, validating that it is one this
// package can decode.
func Type(m []byte) (byte, error) {
	if len(m) == 0 {
		return 0, fmt.Errorf("empty usage map: %w", format.ErrShortRead)
	}
	switch m[0] {
	case format.MapTypeInline, format.MapTypeIndirect:
		return m[0], nil
	default:
		return m[0], &format.MapTypeError{Type: m[0]}
	}
}

// scan calls yield for every allocated page greater than after, in
// increasing order, until yield returns false or the bitmap ends.
func scan(m []byte, after int64, loader PageLoader, opts Options, yield func(uint32) bool) error {
	typ, err := Type(m)
	if err != nil {
		if len(m) > 0 && opts.BruteForcePages > 0 {
			return bruteForce(typ, after, opts, yield)
		}
		return err
	}
	if typ == format.MapTypeInline {
		return scanInline(m, after, opts, yield)
	}
	return scanIndirect(m, after, loader, opts, yield)
}

// bitmapCursor walks a bitmap byte-major, bit-minor, advancing one page
// per bit whether or not the bit is set.
type bitmapCursor struct {
	pg     uint64
	after  int64
	logger *slog.Logger
}

// walk returns false when yield asked to stop or page numbers ran past
// the 32-bit range.
func (c *bitmapCursor) walk(bitmap []byte, yield func(uint32) bool) bool {
	for _, b := range bitmap {
		if b == 0 || int64(c.pg)+7 <= c.after {
			c.pg += 8
			continue
		}
		for bit := uint(0); bit < 8; bit++ {
			if c.pg > math.MaxUint32 {
				return false
			}
			if b&(1<<bit) != 0 && int64(c.pg) > c.after {
				c.logger.Debug("usage map hit", "page", c.pg)
				if !yield(uint32(c.pg)) {
					return false
				}
			}
			c.pg++
		}
	}
	return true
}

func bruteForce(typ byte, after int64, opts Options, yield func(uint32) bool) error {
	logger := logging.OrDiscard(opts.Logger)
	logger.Warn("unrecognized usage map type, scanning every page",
		"type", typ, "pages", opts.BruteForcePages)
	for pg := after + 1; pg < int64(opts.BruteForcePages); pg++ {
		if pg <= 0 {
			continue
		}
		if !yield(uint32(pg)) {
			return nil
		}
	}
	return nil
}
