// Package inventory records per-page digests of a database file in a
// SQLite store so two snapshots of the same file can be compared.
package inventory

import (
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite"

	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/page"
	"github.com/wilhasse/go-mdb/usagemap"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
	snapshot TEXT NOT NULL,
	page     INTEGER NOT NULL,
	type     INTEGER NOT NULL,
	free     INTEGER NOT NULL,
	digest   TEXT NOT NULL,
	PRIMARY KEY (snapshot, page)
);`

// Entry describes one page of a snapshot.
type Entry struct {
	Page      uint32
	Type      format.PageType
	FreeSpace int
	Digest    string // hex BLAKE3-256 of the page bytes
}

// ChangeKind classifies a page in a snapshot comparison.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Removed  ChangeKind = "removed"
	Modified ChangeKind = "modified"
)

type Change struct {
	Page uint32
	Kind ChangeKind
}

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens or creates the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open inventory %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init inventory: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Digest returns the hex BLAKE3-256 digest of a page.
func Digest(p []byte) string {
	sum := blake3.Sum256(p)
	return hex.EncodeToString(sum[:])
}

// Collect builds entries for every page a usage map marks as allocated.
func Collect(loader usagemap.PageLoader, usageMap []byte, opts usagemap.Options) ([]Entry, error) {
	var out []Entry
	for pageNo, err := range usagemap.Pages(usageMap, loader, opts) {
		if err != nil {
			return nil, err
		}
		p, err := loader.LoadPage(pageNo)
		if err != nil {
			return nil, fmt.Errorf("load page %d: %w", pageNo, err)
		}
		e, err := NewEntry(pageNo, p)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// NewEntry describes a single loaded page.
func NewEntry(pageNo uint32, p []byte) (Entry, error) {
	if len(p) == 0 {
		return Entry{}, fmt.Errorf("page %d: empty", pageNo)
	}
	free, err := page.FreeSpace(p)
	if err != nil {
		return Entry{}, fmt.Errorf("page %d: %w", pageNo, err)
	}
	return Entry{Page: pageNo, Type: format.PageType(p[0]), FreeSpace: free, Digest: Digest(p)}, nil
}

// Record replaces the entries of a snapshot.
func (s *Store) Record(snapshot string, entries []Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM pages WHERE snapshot = ?", snapshot); err != nil {
		tx.Rollback()
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO pages (snapshot, page, type, free, digest) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(snapshot, int64(e.Page), int(e.Type), e.FreeSpace, e.Digest); err != nil {
			tx.Rollback()
			return fmt.Errorf("record page %d: %w", e.Page, err)
		}
	}
	return tx.Commit()
}

// List returns a snapshot's entries in page order.
func (s *Store) List(snapshot string) ([]Entry, error) {
	rows, err := s.db.Query("SELECT page, type, free, digest FROM pages WHERE snapshot = ? ORDER BY page ASC", snapshot)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var pg int64
		var typ int
		var e Entry
		if err := rows.Scan(&pg, &typ, &e.FreeSpace, &e.Digest); err != nil {
			return nil, err
		}
		e.Page = uint32(pg)
		e.Type = format.PageType(typ)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Snapshots lists recorded snapshot names.
func (s *Store) Snapshots() ([]string, error) {
	rows, err := s.db.Query("SELECT DISTINCT snapshot FROM pages ORDER BY snapshot")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// Diff compares two snapshots page by page, in page order.
func (s *Store) Diff(from, to string) ([]Change, error) {
	a, err := s.List(from)
	if err != nil {
		return nil, err
	}
	b, err := s.List(to)
	if err != nil {
		return nil, err
	}

	var out []Change
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i].Page < b[j].Page):
			out = append(out, Change{Page: a[i].Page, Kind: Removed})
			i++
		case i >= len(a) || b[j].Page < a[i].Page:
			out = append(out, Change{Page: b[j].Page, Kind: Added})
			j++
		default:
			if a[i].Digest != b[j].Digest {
				out = append(out, Change{Page: a[i].Page, Kind: Modified})
			}
			i++
			j++
		}
	}
	return out, nil
}
