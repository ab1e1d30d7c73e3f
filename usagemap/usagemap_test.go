package usagemap

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/wilhasse/go-mdb/format"
)

func inlineMap(base uint32, bitmap ...byte) []byte {
	m := []byte{format.MapTypeInline, byte(base), byte(base >> 8), byte(base >> 16), byte(base >> 24)}
	return append(m, bitmap...)
}

func indirectMap(refs ...uint32) []byte {
	m := []byte{format.MapTypeIndirect}
	for _, r := range refs {
		m = append(m, byte(r), byte(r>>8), byte(r>>16), byte(r>>24))
	}
	return m
}

// memLoader serves pages from a map and counts loads.
type memLoader struct {
	pages map[uint32][]byte
	loads int
}

func (l *memLoader) LoadPage(pageNo uint32) ([]byte, error) {
	l.loads++
	p, ok := l.pages[pageNo]
	if !ok {
		return nil, fmt.Errorf("no page %d", pageNo)
	}
	return p, nil
}

const testPageSize = 16

// mapPage builds an indirect map page whose bitmap body is body, padded
// to testPageSize.
func mapPage(body ...byte) []byte {
	p := make([]byte, testPageSize)
	p[0] = byte(format.PageTypeUsageMap)
	copy(p[format.IndirectPageStart:], body)
	return p
}

func TestInlineFindNext(t *testing.T) {
	m := inlineMap(100, 0x05, 0x00, 0x80)
	opts := Options{}

	tests := []struct {
		start uint32
		want  uint32
		ok    bool
	}{
		{0, 100, true},
		{99, 100, true},
		{100, 102, true},
		{101, 102, true},
		{102, 123, true},
		{123, 0, false},
		{5000, 0, false},
	}
	for _, tt := range tests {
		got, ok, err := FindNextAllocated(m, tt.start, nil, opts)
		if err != nil {
			t.Fatalf("start=%d: %v", tt.start, err)
		}
		if got != tt.want || ok != tt.ok {
			t.Errorf("FindNextAllocated(start=%d)=%d,%v want %d,%v", tt.start, got, ok, tt.want, tt.ok)
		}
	}
}

func TestInlineNeverReportsStartPage(t *testing.T) {
	m := inlineMap(0, 0x03)
	got, ok, err := FindNextAllocated(m, 0, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if !ok || got != 1 {
		t.Fatalf("got=%d ok=%v want 1", got, ok)
	}
}

func TestInlineShortHeader(t *testing.T) {
	_, _, err := FindNextAllocated([]byte{0, 1, 2}, 0, nil, Options{})
	if !errors.Is(err, format.ErrShortRead) {
		t.Fatalf("err=%v want ErrShortRead", err)
	}
	if _, _, err := FindNextAllocated(nil, 0, nil, Options{}); !errors.Is(err, format.ErrShortRead) {
		t.Fatalf("empty map err=%v", err)
	}
}

func TestInlineEmptyBitmap(t *testing.T) {
	_, ok, err := FindNextAllocated(inlineMap(7), 0, nil, Options{})
	if err != nil || ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestIndirectFindNext(t *testing.T) {
	loader := &memLoader{pages: map[uint32][]byte{
		3: mapPage(0x20),       // page 5
		7: mapPage(0x02, 0x01), // pages 97 and 104
	}}
	m := indirectMap(3, 0, 7)
	opts := Options{PageSize: testPageSize}

	got, err := Collect(m, loader, opts)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{5, 97, 104}
	if !slices.Equal(got, want) {
		t.Fatalf("Collect=%v want %v", got, want)
	}

	next, ok, err := FindNextAllocated(m, 5, loader, opts)
	if err != nil || !ok || next != 97 {
		t.Fatalf("FindNextAllocated(5)=%d,%v,%v", next, ok, err)
	}
	_, ok, err = FindNextAllocated(m, 104, loader, opts)
	if err != nil || ok {
		t.Fatalf("FindNextAllocated(104) ok=%v err=%v", ok, err)
	}
}

func TestIndirectStopsLoadingAfterHit(t *testing.T) {
	loader := &memLoader{pages: map[uint32][]byte{
		3: mapPage(0x20),
		7: mapPage(0x02),
	}}
	if _, _, err := FindNextAllocated(indirectMap(3, 7), 0, loader, Options{PageSize: testPageSize}); err != nil {
		t.Fatal(err)
	}
	if loader.loads != 1 {
		t.Fatalf("loads=%d want 1", loader.loads)
	}
}

func TestIndirectIgnoresPartialReference(t *testing.T) {
	loader := &memLoader{pages: map[uint32][]byte{3: mapPage(0x02)}}
	m := append(indirectMap(3), 9, 0)
	got, err := Collect(m, loader, Options{PageSize: testPageSize})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []uint32{1}) {
		t.Fatalf("got=%v", got)
	}
	if loader.loads != 1 {
		t.Fatalf("loads=%d want 1", loader.loads)
	}
}

func TestIndirectTruncatedPage(t *testing.T) {
	loader := &memLoader{pages: map[uint32][]byte{3: make([]byte, testPageSize-1)}}
	_, _, err := FindNextAllocated(indirectMap(3), 0, loader, Options{PageSize: testPageSize})
	if !errors.Is(err, format.ErrTruncatedPage) {
		t.Fatalf("err=%v want ErrTruncatedPage", err)
	}
	var te *format.TruncatedPageError
	if !errors.As(err, &te) || te.PageNo != 3 || te.Got != testPageSize-1 {
		t.Fatalf("TruncatedPageError=%+v", te)
	}
}

func TestIndirectLoaderErrorPropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	loader := LoaderFunc(func(uint32) ([]byte, error) { return nil, boom })
	_, _, err := FindNextAllocated(indirectMap(3), 0, loader, Options{PageSize: testPageSize})
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
}

func TestIndirectNeedsLoader(t *testing.T) {
	if _, _, err := FindNextAllocated(indirectMap(3), 0, nil, Options{PageSize: testPageSize}); err == nil {
		t.Fatalf("expected error without loader")
	}
}

func TestUnsupportedMapType(t *testing.T) {
	m := []byte{2, 0, 0, 0, 0, 0xff}
	_, _, err := FindNextAllocated(m, 0, nil, Options{})
	if !errors.Is(err, format.ErrUnsupportedMapType) {
		t.Fatalf("err=%v want ErrUnsupportedMapType", err)
	}
	var me *format.MapTypeError
	if !errors.As(err, &me) || me.Type != 2 {
		t.Fatalf("MapTypeError=%+v", me)
	}
}

func TestBruteForceFallback(t *testing.T) {
	m := []byte{9}
	opts := Options{BruteForcePages: 5}

	next, ok, err := FindNextAllocated(m, 2, nil, opts)
	if err != nil || !ok || next != 3 {
		t.Fatalf("FindNextAllocated(2)=%d,%v,%v", next, ok, err)
	}
	got, err := Collect(m, nil, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(got, []uint32{1, 2, 3, 4}) {
		t.Fatalf("Collect=%v", got)
	}
	if _, ok, _ := FindNextAllocated(m, 4, nil, opts); ok {
		t.Fatalf("scan ran past BruteForcePages")
	}
}

func TestIsAllocated(t *testing.T) {
	m := inlineMap(10, 0x05)
	tests := []struct {
		page uint32
		want bool
	}{
		{0, false},
		{9, false},
		{10, true},
		{11, false},
		{12, true},
		{17, false},
		{18, false},
	}
	for _, tt := range tests {
		got, err := IsAllocated(m, tt.page, nil, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("IsAllocated(%d)=%v want %v", tt.page, got, tt.want)
		}
	}
}

func TestPagesEarlyStop(t *testing.T) {
	m := inlineMap(1, 0xff)
	var seen []uint32
	for p, err := range Pages(m, nil, Options{}) {
		if err != nil {
			t.Fatal(err)
		}
		seen = append(seen, p)
		if len(seen) == 3 {
			break
		}
	}
	if !slices.Equal(seen, []uint32{1, 2, 3}) {
		t.Fatalf("seen=%v", seen)
	}
}

func TestPagesYieldsError(t *testing.T) {
	var last error
	n := 0
	for _, err := range Pages([]byte{7}, nil, Options{}) {
		n++
		last = err
	}
	if n != 1 || !errors.Is(last, format.ErrUnsupportedMapType) {
		t.Fatalf("n=%d last=%v", n, last)
	}
}

// referenceInline decodes a type 0 map the slow way.
func referenceInline(base uint32, bitmap []byte) []uint32 {
	var out []uint32
	for i := 0; i < len(bitmap)*8; i++ {
		if bitmap[i/8]&(1<<(i%8)) != 0 && base+uint32(i) > 0 {
			out = append(out, base+uint32(i))
		}
	}
	return out
}

func TestInlineMonotonicChain(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 200; iter++ {
		base := uint32(rng.Intn(1000))
		bitmap := make([]byte, rng.Intn(40))
		for i := range bitmap {
			if rng.Intn(3) == 0 {
				bitmap[i] = byte(rng.Intn(256))
			}
		}
		m := inlineMap(base, bitmap...)

		var chain []uint32
		cur := uint32(0)
		for {
			next, ok, err := FindNextAllocated(m, cur, nil, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				break
			}
			if next <= cur {
				t.Fatalf("iter %d: next=%d not after %d", iter, next, cur)
			}
			chain = append(chain, next)
			cur = next
		}
		want := referenceInline(base, bitmap)
		if len(want) == 0 {
			want = nil
		}
		if !slices.Equal(chain, want) {
			t.Fatalf("iter %d: chain=%v want %v", iter, chain, want)
		}
	}
}

func TestIndirectMatchesContiguousBitmap(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	body := testPageSize - format.IndirectPageStart
	for iter := 0; iter < 50; iter++ {
		nPages := 1 + rng.Intn(5)
		contiguous := make([]byte, nPages*body)
		rng.Read(contiguous)

		loader := &memLoader{pages: map[uint32][]byte{}}
		var refs []uint32
		for i := 0; i < nPages; i++ {
			ref := uint32(200 + i*3)
			loader.pages[ref] = mapPage(contiguous[i*body : (i+1)*body]...)
			refs = append(refs, ref)
			if rng.Intn(2) == 0 {
				refs = append(refs, 0)
			}
		}

		got, err := Collect(indirectMap(refs...), loader, Options{PageSize: testPageSize})
		if err != nil {
			t.Fatal(err)
		}
		want, err := Collect(inlineMap(0, contiguous...), nil, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Equal(got, want) {
			t.Fatalf("iter %d: indirect=%v contiguous=%v", iter, got, want)
		}
	}
}

func TestCount(t *testing.T) {
	n, err := Count(inlineMap(1, 0xff, 0x01), nil, Options{})
	if err != nil || n != 9 {
		t.Fatalf("Count=%d,%v", n, err)
	}
}
