package inventory

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/usagemap"
)

type memLoader map[uint32][]byte

func (m memLoader) LoadPage(pageNo uint32) ([]byte, error) {
	p, ok := m[pageNo]
	if !ok {
		return nil, fmt.Errorf("no page %d", pageNo)
	}
	return p, nil
}

func dataPage(free uint16, fill byte) []byte {
	p := make([]byte, 64)
	p[0] = byte(format.PageTypeData)
	p[2], p[3] = byte(free), byte(free>>8)
	p[63] = fill
	return p
}

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "inventory.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCollectAndList(t *testing.T) {
	loader := memLoader{1: dataPage(300, 1), 3: dataPage(10, 2)}
	usage := []byte{0x00, 0, 0, 0, 0, 0x0a}

	entries, err := Collect(loader, usage, usagemap.Options{})
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(entries) != 2 || entries[0].Page != 1 || entries[1].FreeSpace != 10 {
		t.Fatalf("entries=%+v", entries)
	}
	if entries[0].Digest == entries[1].Digest || len(entries[0].Digest) != 64 {
		t.Fatalf("digests=%s %s", entries[0].Digest, entries[1].Digest)
	}

	s := openStore(t)
	if err := s.Record("before", entries); err != nil {
		t.Fatalf("Record: %v", err)
	}
	got, err := s.List("before")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[1] != entries[1] || got[0].Type != format.PageTypeData {
		t.Fatalf("List=%+v", got)
	}

	// recording again replaces the snapshot
	if err := s.Record("before", entries[:1]); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.List("before"); len(got) != 1 {
		t.Fatalf("List after replace=%+v", got)
	}
}

func TestDiff(t *testing.T) {
	s := openStore(t)
	before := []Entry{
		{Page: 1, Digest: "a"},
		{Page: 2, Digest: "b"},
		{Page: 4, Digest: "d"},
	}
	after := []Entry{
		{Page: 1, Digest: "a"},
		{Page: 2, Digest: "B"},
		{Page: 3, Digest: "c"},
	}
	if err := s.Record("before", before); err != nil {
		t.Fatal(err)
	}
	if err := s.Record("after", after); err != nil {
		t.Fatal(err)
	}

	changes, err := s.Diff("before", "after")
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}
	want := []Change{{2, Modified}, {3, Added}, {4, Removed}}
	if len(changes) != len(want) {
		t.Fatalf("Diff=%+v", changes)
	}
	for i := range want {
		if changes[i] != want[i] {
			t.Errorf("change %d=%+v, want %+v", i, changes[i], want[i])
		}
	}

	names, err := s.Snapshots()
	if err != nil || len(names) != 2 || names[0] != "after" {
		t.Fatalf("Snapshots=%v err=%v", names, err)
	}
}

func TestCollectErrors(t *testing.T) {
	if _, err := Collect(memLoader{}, []byte{0x00, 0, 0, 0, 0, 0x02}, usagemap.Options{}); err == nil {
		t.Fatalf("expected load error")
	}
	if _, err := NewEntry(1, []byte{1}); err == nil {
		t.Fatalf("expected short page error")
	}
}
