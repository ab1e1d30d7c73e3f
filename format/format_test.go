package format

import (
	"errors"
	"io"
	"testing"
)

func TestLittleEndian(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09}
	if v, err := Le16(b, 1); err != nil || v != 0x0302 {
		t.Fatalf("Le16=%#x err=%v", v, err)
	}
	if v, err := Le24(b, 0); err != nil || v != 0x030201 {
		t.Fatalf("Le24=%#x err=%v", v, err)
	}
	if v, err := Le32(b, 5); err != nil || v != 0x09080706 {
		t.Fatalf("Le32=%#x err=%v", v, err)
	}
	if v, err := Le64(b, 1); err != nil || v != 0x0908070605040302 {
		t.Fatalf("Le64=%#x err=%v", v, err)
	}

	shortReads := []struct {
		name string
		read func() error
	}{
		{"Le16 end", func() error { _, err := Le16(b, 8); return err }},
		{"Le16 negative", func() error { _, err := Le16(b, -1); return err }},
		{"Le24", func() error { _, err := Le24(b, 7); return err }},
		{"Le32", func() error { _, err := Le32(b, 6); return err }},
		{"Le64", func() error { _, err := Le64(b, 2); return err }},
	}
	for _, tc := range shortReads {
		if err := tc.read(); !errors.Is(err, ErrShortRead) {
			t.Errorf("%s: err=%v", tc.name, err)
		}
	}
}

func TestVersion(t *testing.T) {
	cases := []struct {
		v    JetVersion
		size int
		rco  int
		name string
	}{
		{Jet3, 2048, 8, "Jet3"},
		{Jet4, 4096, 12, "Jet4"},
		{Jet2010, 4096, 12, "ACE14"},
		{Jet2019, 4096, 12, "ACE17"},
	}
	for _, tc := range cases {
		if tc.v.PageSize() != tc.size || tc.v.RowCountOffset() != tc.rco || tc.v.String() != tc.name {
			t.Errorf("%d: PageSize=%d RowCountOffset=%d String=%s", tc.v, tc.v.PageSize(), tc.v.RowCountOffset(), tc.v)
		}
	}
}

func TestErrors(t *testing.T) {
	var err error = &MapTypeError{Type: 7}
	if !errors.Is(err, ErrUnsupportedMapType) {
		t.Fatalf("MapTypeError does not unwrap")
	}
	var mte *MapTypeError
	if !errors.As(err, &mte) || mte.Type != 7 {
		t.Fatalf("errors.As failed: %v", err)
	}

	err = &TruncatedPageError{PageNo: 3, Got: 10, Want: 4096, Err: io.ErrUnexpectedEOF}
	if !errors.Is(err, ErrTruncatedPage) || !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("TruncatedPageError unwrap: %v", err)
	}
	if err.Error() != "page 3: got 10 of 4096 bytes: unexpected EOF" {
		t.Fatalf("Error=%q", err.Error())
	}

	err = &NumericFieldError{Kind: "money", Message: "need 8 bytes, got 3"}
	if !errors.Is(err, ErrMalformedNumericField) {
		t.Fatalf("NumericFieldError does not unwrap")
	}
}

func TestPageTypeString(t *testing.T) {
	if PageTypeData.String() == PageTypeUsageMap.String() {
		t.Fatalf("page type names collide")
	}
}
