// freespace.go - Free page search over a table's free-space usage map
package page

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/internal/logging"
	"github.com/wilhasse/go-mdb/usagemap"
)

var errNoLoader = errors.New("free page search needs a page loader")

// Allocator hands out a fresh page when no existing page has room. It
// returns format.ErrStorageExhausted when the file cannot grow.
type Allocator interface {
	AllocPage() (uint32, error)
}

// AllocatorFunc adapts a function to Allocator.
type AllocatorFunc func() (uint32, error)

func (f AllocatorFunc) AllocPage() (uint32, error) { return f() }

// Locator finds a page with enough free space for a new row.
type Locator struct {
	Loader    usagemap.PageLoader
	Allocator Allocator // nil means the file cannot grow
	Map       usagemap.Options
	Logger    *slog.Logger
}

// FindPageWithSpace walks the free-space map and returns the first
// candidate whose free-space header is at least minFree. When the map is
// exhausted it asks the Allocator for a new page.
//
// Each candidate is strictly greater than the previous one, so the loop
// ends after at most one iteration per page in the map.
func (l *Locator) FindPageWithSpace(freeMap []byte, minFree int) (uint32, error) {
	if l.Loader == nil {
		return 0, errNoLoader
	}
	logger := logging.OrDiscard(l.Logger)
	cur := uint32(0)
	for {
		pg, ok, err := usagemap.FindNextAllocated(freeMap, cur, l.Loader, l.Map)
		if err != nil {
			return 0, fmt.Errorf("free space map: %w", err)
		}
		if !ok {
			return l.allocate(logger, minFree)
		}
		if pg <= cur {
			return 0, fmt.Errorf("free space map did not advance: page %d after %d", pg, cur)
		}
		cur = pg

		buf, err := l.Loader.LoadPage(pg)
		if err != nil {
			return 0, fmt.Errorf("load candidate page %d: %w", pg, err)
		}
		if l.Map.PageSize > 0 && len(buf) != l.Map.PageSize {
			return 0, &format.TruncatedPageError{PageNo: pg, Got: len(buf), Want: l.Map.PageSize}
		}
		free, err := FreeSpace(buf)
		if err != nil {
			return 0, fmt.Errorf("candidate page %d: %w", pg, err)
		}
		logger.Debug("free space candidate", "page", pg, "free", free, "need", minFree)
		if free >= minFree {
			return pg, nil
		}
	}
}

func (l *Locator) allocate(logger *slog.Logger, minFree int) (uint32, error) {
	if l.Allocator == nil {
		return 0, fmt.Errorf("no page with %d free bytes: %w", minFree, format.ErrStorageExhausted)
	}
	pg, err := l.Allocator.AllocPage()
	if err != nil {
		if errors.Is(err, format.ErrStorageExhausted) {
			return 0, err
		}
		return 0, fmt.Errorf("allocate page: %w", err)
	}
	if pg == 0 {
		return 0, fmt.Errorf("allocator returned the header page: %w", format.ErrStorageExhausted)
	}
	logger.Debug("allocated new page", "page", pg)
	return pg, nil
}
