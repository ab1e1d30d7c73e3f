package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"

	gomdb "github.com/wilhasse/go-mdb"
	"github.com/wilhasse/go-mdb/config"
	"github.com/wilhasse/go-mdb/decimal"
	"github.com/wilhasse/go-mdb/internal/inventory"
	"github.com/wilhasse/go-mdb/internal/logging"
	"github.com/wilhasse/go-mdb/like"
	"github.com/wilhasse/go-mdb/page"
	"github.com/wilhasse/go-mdb/record"
	"github.com/wilhasse/go-mdb/schema"
)

// Globals are flags shared by every command.
type Globals struct {
	Config   string `name:"config" short:"c" help:"YAML config file" type:"path"`
	LogLevel string `name:"log-level" help:"Override log level (debug, info, warn, error)"`
	Debug    string `name:"debug" help:"Debug categories, e.g. debug_like:debug_usage"`
}

func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if g.Debug != "" {
		d, err := config.ParseDebugOptions(g.Debug)
		if err != nil {
			return nil, err
		}
		cfg.Debug |= d
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

// debugLogger returns a logger writing to w when category d is enabled
// and a discarding one otherwise.
func debugLogger(cfg *config.Config, d config.Debug, w io.Writer) *slog.Logger {
	if !cfg.Debug.Has(d) {
		return logging.Discard()
	}
	return logging.New(logging.ParseLevel(cfg.Log.Level), logging.ParseFormat(cfg.Log.Format), w)
}

func (g *Globals) open(path string) (*gomdb.File, error) {
	cfg, err := g.load()
	if err != nil {
		return nil, err
	}
	return gomdb.Open(path, cfg)
}

var CLI struct {
	Globals

	Info      InfoCmd      `cmd:"" help:"Show file version and geometry"`
	Pages     PagesCmd     `cmd:"" help:"List pages marked in a usage map"`
	Free      FreeCmd      `cmd:"" help:"Find a page with enough free space"`
	Money     MoneyCmd     `cmd:"" help:"Decode an 8-byte MONEY field given in hex"`
	Numeric   NumericCmd   `cmd:"" help:"Decode a 17-byte NUMERIC field given in hex"`
	Like      LikeCmd      `cmd:"" help:"Match a string against a LIKE pattern"`
	Filter    FilterCmd    `cmd:"" help:"Scan a table and print rows matching a WHERE clause"`
	Inventory InventoryCmd `cmd:"" help:"Record and compare page digests"`
}

type InfoCmd struct {
	File string `arg:"" help:"Database file (.mdb, .accdb or .xz)" type:"existingfile"`
}

func (c *InfoCmd) Run(g *Globals) error {
	f, err := g.open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("File:       %s\n", c.File)
	fmt.Printf("Version:    %s\n", f.Version())
	fmt.Printf("Page size:  %s\n", humanize.IBytes(uint64(f.PageSize())))
	fmt.Printf("Pages:      %s\n", humanize.Comma(int64(f.PageCount())))
	fmt.Printf("Size:       %s\n", humanize.IBytes(uint64(f.Size())))
	return nil
}

// MapRef names the row holding a usage map.
type MapRef struct {
	File string `arg:"" help:"Database file" type:"existingfile"`
	Map  string `name:"map" required:"" help:"Row pointer of the usage map, as page:row or a number"`
}

func (m *MapRef) load(g *Globals) (*gomdb.File, []byte, error) {
	rp, err := page.ParseRowPointerString(m.Map)
	if err != nil {
		return nil, nil, err
	}
	f, err := g.open(m.File)
	if err != nil {
		return nil, nil, err
	}
	usage, err := f.UsageMap(rp)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, usage, nil
}

type PagesCmd struct {
	MapRef
	Hash bool `name:"hash" help:"Print a BLAKE3 digest of each page"`
}

func (c *PagesCmd) Run(g *Globals) error {
	f, usage, err := c.load(g)
	if err != nil {
		return err
	}
	defer f.Close()

	pages, err := f.AllocatedPages(usage)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PAGE\tTYPE\tFREE")
	if c.Hash {
		fmt.Fprintf(w, "\tBLAKE3")
	}
	fmt.Fprintln(w)
	for _, pg := range pages {
		buf, err := f.LoadPage(pg)
		if err != nil {
			return err
		}
		e, err := inventory.NewEntry(pg, buf)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%s\t%s", e.Page, e.Type, humanize.IBytes(uint64(e.FreeSpace)))
		if c.Hash {
			fmt.Fprintf(w, "\t%s", e.Digest)
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	fmt.Printf("%d pages\n", len(pages))
	return nil
}

type FreeCmd struct {
	MapRef
	Min int `name:"min" required:"" help:"Minimum free bytes"`
}

func (c *FreeCmd) Run(g *Globals) error {
	f, freeMap, err := c.load(g)
	if err != nil {
		return err
	}
	defer f.Close()

	pg, err := f.FindPageWithSpace(freeMap, c.Min)
	if err != nil {
		return err
	}
	fmt.Println(pg)
	return nil
}

type MoneyCmd struct {
	Hex string `arg:"" help:"Field bytes in hex, little-endian as stored"`
}

func (c *MoneyCmd) Run() error {
	b, err := hex.DecodeString(c.Hex)
	if err != nil {
		return err
	}
	s, err := decimal.MoneyToString(b)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

type NumericCmd struct {
	Hex       string `arg:"" help:"Field bytes in hex: sign byte then 16 magnitude bytes"`
	Scale     int    `name:"scale" default:"0" help:"Digits after the decimal point"`
	Precision int    `name:"precision" default:"0" help:"Declared precision; 0 when unknown"`
}

func (c *NumericCmd) Run() error {
	b, err := hex.DecodeString(c.Hex)
	if err != nil {
		return err
	}
	s, err := decimal.NumericToString(b, c.Scale, c.Precision)
	if err != nil {
		return err
	}
	fmt.Println(s)
	return nil
}

var errNoMatch = errors.New("no match")

type LikeCmd struct {
	Subject    string `arg:"" help:"String to test"`
	Pattern    string `arg:"" help:"Pattern with % and _ wildcards"`
	IgnoreCase bool   `name:"ignore-case" short:"i" help:"Case-insensitive match (ILIKE)"`
}

func (c *LikeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	m := like.New(like.Options{
		MaxPatternLen: cfg.MaxPatternLen,
		Logger:        debugLogger(cfg, config.DebugLike, os.Stderr),
	})
	if err := m.Check(c.Pattern); err != nil {
		return err
	}
	match := m.Like
	if c.IgnoreCase {
		match = m.ILike
	}
	if !match(c.Subject, c.Pattern) {
		return errNoMatch
	}
	fmt.Println("match")
	return nil
}

type FilterCmd struct {
	MapRef
	Schema     string `name:"schema" required:"" help:"SQL file with the CREATE TABLE statement" type:"existingfile"`
	Tdef       uint32 `name:"tdef" help:"Only rows on pages owned by this table definition page"`
	Where      string `name:"where" help:"WHERE clause, e.g. \"name like 'A%'\""`
	IgnoreCase bool   `name:"ignore-case" short:"i" help:"Case-insensitive LIKE"`
	Limit      int    `name:"limit" default:"100" help:"Maximum rows to print; 0 for all"`
}

func (c *FilterCmd) Run(g *Globals) error {
	td, err := schema.ParseTableDefFromSQLFile(c.Schema)
	if err != nil {
		return err
	}
	td.TdefPage = c.Tdef

	f, usage, err := c.load(g)
	if err != nil {
		return err
	}
	defer f.Close()

	var match func(*record.Row) bool
	if strings.TrimSpace(c.Where) != "" {
		filter, err := f.CompileFilter(c.Where, c.IgnoreCase)
		if err != nil {
			return err
		}
		for _, name := range filter.Columns() {
			if _, ok := td.GetColumn(name); !ok {
				return fmt.Errorf("unknown column %s in filter", name)
			}
		}
		match = func(r *record.Row) bool { return filter.Match(r) }
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "ROW\t")
	for _, col := range td.Columns {
		fmt.Fprintf(w, "%s\t", col.Name)
	}
	fmt.Fprintln(w)

	n := 0
	err = f.Scan(usage, td, func(r *record.Row) bool {
		if match != nil && !match(r) {
			return true
		}
		fmt.Fprintf(w, "%d:%d\t", r.PageNumber, r.RowNumber)
		for _, col := range td.Columns {
			s, ok := r.Text(col.Name)
			if !ok {
				s = "NULL"
			}
			fmt.Fprintf(w, "%s\t", s)
		}
		fmt.Fprintln(w)
		n++
		return c.Limit == 0 || n < c.Limit
	})
	w.Flush()
	if err != nil {
		return err
	}
	if c.Limit > 0 && n == c.Limit {
		fmt.Printf("... (showing first %d rows)\n", n)
	}
	return nil
}

type InventoryCmd struct {
	Record InventoryRecordCmd `cmd:"" help:"Store digests of the pages in a usage map"`
	Diff   InventoryDiffCmd   `cmd:"" help:"Compare two recorded snapshots"`
}

type InventoryRecordCmd struct {
	MapRef
	DB       string `name:"db" required:"" help:"Inventory database" type:"path"`
	Snapshot string `name:"snapshot" required:"" help:"Snapshot name"`
}

func (c *InventoryRecordCmd) Run(g *Globals) error {
	f, usage, err := c.load(g)
	if err != nil {
		return err
	}
	defer f.Close()

	entries, err := inventory.Collect(f, usage, f.MapOptions())
	if err != nil {
		return err
	}
	store, err := inventory.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Record(c.Snapshot, entries); err != nil {
		return err
	}
	fmt.Printf("recorded %d pages as %q\n", len(entries), c.Snapshot)
	return nil
}

type InventoryDiffCmd struct {
	DB   string `name:"db" required:"" help:"Inventory database" type:"existingfile"`
	From string `arg:"" help:"Older snapshot"`
	To   string `arg:"" help:"Newer snapshot"`
}

func (c *InventoryDiffCmd) Run() error {
	store, err := inventory.Open(c.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	changes, err := store.Diff(c.From, c.To)
	if err != nil {
		return err
	}
	for _, ch := range changes {
		fmt.Printf("%-8s %d\n", ch.Kind, ch.Page)
	}
	fmt.Printf("%d changed pages\n", len(changes))
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("go-mdb"),
		kong.Description("Inspect legacy desktop database files"),
		kong.UsageOnError(),
		kong.Bind(&CLI.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
