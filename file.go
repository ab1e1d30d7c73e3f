// file.go - Database file access
package gomdb

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/wilhasse/go-mdb/config"
	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/internal/logging"
	"github.com/wilhasse/go-mdb/like"
	"github.com/wilhasse/go-mdb/page"
	"github.com/wilhasse/go-mdb/record"
	"github.com/wilhasse/go-mdb/sarg"
	"github.com/wilhasse/go-mdb/schema"
	"github.com/wilhasse/go-mdb/usagemap"
)

// headerSize covers the magic and the version byte of page 0.
const headerSize = format.VersionOffset + 1

var magicPrefix = []byte{0x00, 0x01, 0x00, 0x00}

// File is an open database file. Pages are read on demand through a
// bounded cache.
type File struct {
	path     string
	version  format.JetVersion
	pageSize int
	size     int64

	closer io.Closer
	cache  *page.Cache
	cfg    *config.Config
	logger *slog.Logger
}

type Option func(*File)

// WithLogger sets the logger. The default writes to stderr at the
// configured level and format.
func WithLogger(l *slog.Logger) Option {
	return func(f *File) { f.logger = l }
}

// Open opens a database file. Files ending in ".xz" are decompressed
// into memory first. A nil cfg uses config.Default().
func Open(path string, cfg *config.Config, opts ...Option) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".xz") {
		defer fh.Close()
		zr, err := xz.NewReader(bufio.NewReader(fh))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		data, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", path, err)
		}
		f, err := NewFile(bytes.NewReader(data), int64(len(data)), cfg, opts...)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		f.path = path
		return f, nil
	}

	st, err := fh.Stat()
	if err != nil {
		fh.Close()
		return nil, err
	}
	f, err := NewFile(fh, st.Size(), cfg, opts...)
	if err != nil {
		fh.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	f.path = path
	f.closer = fh
	return f, nil
}

// NewFile reads a database from r, which holds size bytes.
func NewFile(r io.ReaderAt, size int64, cfg *config.Config, opts ...Option) (*File, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	f := &File{size: size, cfg: cfg}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logging.New(logging.ParseLevel(cfg.Log.Level), logging.ParseFormat(cfg.Log.Format), os.Stderr)
	}

	hdr := make([]byte, headerSize)
	if n, err := r.ReadAt(hdr, 0); n < len(hdr) {
		return nil, fmt.Errorf("read file header: %w", firstErr(err, format.ErrShortRead))
	}
	version, err := parseFileHeader(hdr)
	if err != nil {
		return nil, err
	}
	f.version = version
	f.pageSize = version.PageSize()
	if cfg.PageSize != 0 {
		f.pageSize = cfg.PageSize
	}
	f.cache = page.NewCache(page.NewReader(r, f.pageSize), cfg.CachePages)

	f.logger.Debug("opened database", "version", version, "page_size", f.pageSize, "pages", f.PageCount())
	return f, nil
}

func parseFileHeader(hdr []byte) (format.JetVersion, error) {
	if !bytes.Equal(hdr[:len(magicPrefix)], magicPrefix) {
		return 0, fmt.Errorf("not a database file: bad signature % x", hdr[:len(magicPrefix)])
	}
	magic := hdr[format.MagicOffset : format.MagicOffset+len(format.MagicJet)]
	if !bytes.Equal(magic, format.MagicJet) && !bytes.Equal(magic, format.MagicACE) {
		return 0, fmt.Errorf("not a database file: magic %q", magic)
	}
	v := format.JetVersion(hdr[format.VersionOffset])
	if v > format.Jet2019 {
		return 0, fmt.Errorf("unsupported database version %#02x", uint8(v))
	}
	return v, nil
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil && err != io.EOF {
			return err
		}
	}
	return io.ErrUnexpectedEOF
}

func (f *File) Path() string                   { return f.path }
func (f *File) Version() format.JetVersion     { return f.version }
func (f *File) PageSize() int                  { return f.pageSize }
func (f *File) Size() int64                    { return f.size }
func (f *File) Config() *config.Config         { return f.cfg }
func (f *File) Logger() *slog.Logger           { return f.logger }
func (f *File) PageCount() uint32              { return uint32(f.size / int64(f.pageSize)) }
func (f *File) CacheStats() (hits, misses int) { return f.cache.Stats() }

// LoadPage returns a page through the cache. The slice is shared and
// must not be modified.
func (f *File) LoadPage(pageNo uint32) ([]byte, error) {
	if pageNo >= f.PageCount() {
		return nil, fmt.Errorf("page %d beyond end of file (%d pages)", pageNo, f.PageCount())
	}
	return f.cache.LoadPage(pageNo)
}

func (f *File) debugLogger(d config.Debug) *slog.Logger {
	if f.cfg.Debug.Has(d) {
		return f.logger
	}
	return logging.Discard()
}

// MapOptions returns the usage map options for this file. With
// brute_force_fallback set, unknown map types scan the whole file.
func (f *File) MapOptions() usagemap.Options {
	opts := usagemap.Options{PageSize: f.pageSize, Logger: f.debugLogger(config.DebugUsage)}
	if f.cfg.BruteForceFallback {
		opts.BruteForcePages = f.PageCount()
	}
	return opts
}

// UsageMap returns the usage map stored in the row a table definition
// points to.
func (f *File) UsageMap(rp page.RowPointer) ([]byte, error) {
	return page.FindRow(f, rp, f.version)
}

// FindNextAllocated returns the first page after start that m marks as
// allocated.
func (f *File) FindNextAllocated(m []byte, start uint32) (uint32, bool, error) {
	return usagemap.FindNextAllocated(m, start, f, f.MapOptions())
}

// AllocatedPages lists every page m marks as allocated.
func (f *File) AllocatedPages(m []byte) ([]uint32, error) {
	return usagemap.Collect(m, f, f.MapOptions())
}

// Locator returns a free-space locator over this file. alloc may be nil
// for read-only use, in which case a full map ends in
// format.ErrStorageExhausted.
func (f *File) Locator(alloc page.Allocator) *page.Locator {
	return &page.Locator{
		Loader:    f,
		Allocator: alloc,
		Map:       f.MapOptions(),
		Logger:    f.debugLogger(config.DebugWrite),
	}
}

// FindPageWithSpace returns the first page in freeMap with at least
// minFree unused bytes.
func (f *File) FindPageWithSpace(freeMap []byte, minFree int) (uint32, error) {
	return f.Locator(nil).FindPageWithSpace(freeMap, minFree)
}

// Matcher returns a LIKE matcher configured from the file's config.
func (f *File) Matcher() *like.Matcher {
	return like.New(like.Options{MaxPatternLen: f.cfg.MaxPatternLen, Logger: f.debugLogger(config.DebugLike)})
}

// CompileFilter compiles a WHERE clause with this file's matcher.
func (f *File) CompileFilter(where string, ignoreCase bool) (*sarg.Filter, error) {
	return sarg.Compile(where, sarg.Options{IgnoreCase: ignoreCase, Matcher: f.Matcher()})
}

// Scan visits the live rows of a table whose pages are listed in usageMap.
func (f *File) Scan(usageMap []byte, td *schema.TableDef, fn func(*record.Row) bool) error {
	return record.Scan(f, usageMap, td, record.ScanOptions{
		Version: f.version,
		Map:     f.MapOptions(),
		Logger:  f.debugLogger(config.DebugRow),
	}, fn)
}

func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}
