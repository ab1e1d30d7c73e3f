// scan.go - Table scans driven by a usage map
package record

import (
	"fmt"
	"log/slog"

	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/internal/logging"
	"github.com/wilhasse/go-mdb/page"
	"github.com/wilhasse/go-mdb/schema"
	"github.com/wilhasse/go-mdb/usagemap"
)

type ScanOptions struct {
	Version format.JetVersion
	Map     usagemap.Options
	Logger  *slog.Logger
}

// Scan visits every live row of a table. Pages come from the table's
// usage map in ascending order; pages that are not data pages or that
// belong to another table definition are skipped. fn returns false to
// stop the scan.
func Scan(loader usagemap.PageLoader, usageMap []byte, td *schema.TableDef, opts ScanOptions, fn func(*Row) bool) error {
	logger := logging.OrDiscard(opts.Logger)
	if opts.Map.Logger == nil {
		opts.Map.Logger = logger
	}
	parser := NewRowParser(td, opts.Version)

	for pageNo, err := range usagemap.Pages(usageMap, loader, opts.Map) {
		if err != nil {
			return fmt.Errorf("scan %s: %w", td.Name, err)
		}
		buf, err := loader.LoadPage(pageNo)
		if err != nil {
			return fmt.Errorf("scan %s: load page %d: %w", td.Name, pageNo, err)
		}
		if len(buf) == 0 || format.PageType(buf[0]) != format.PageTypeData {
			logger.Debug("skip non-data page", "table", td.Name, "page", pageNo)
			continue
		}
		dp, err := page.ParseDataPage(pageNo, buf, opts.Version)
		if err != nil {
			return fmt.Errorf("scan %s: %w", td.Name, err)
		}
		if td.TdefPage != 0 && dp.Hdr.TableDef != td.TdefPage {
			logger.Debug("skip foreign page", "table", td.Name, "page", pageNo, "tdef", dp.Hdr.TableDef)
			continue
		}
		for _, i := range dp.LiveRows() {
			data, err := dp.Row(i)
			if err != nil {
				return fmt.Errorf("scan %s: %w", td.Name, err)
			}
			row, err := parser.ParseRow(pageNo, i, data)
			if err != nil {
				return fmt.Errorf("scan %s: %w", td.Name, err)
			}
			if !fn(row) {
				return nil
			}
		}
	}
	return nil
}
