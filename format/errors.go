package format

import (
	"errors"
	"fmt"
)

var (
	ErrShortRead             = errors.New("short read")
	ErrUnsupportedMapType    = errors.New("unsupported usage map type")
	ErrTruncatedPage         = errors.New("truncated page")
	ErrMalformedNumericField = errors.New("malformed numeric field")
	ErrStorageExhausted      = errors.New("storage exhausted")
)

// MapTypeError reports a usage map whose discriminant byte is neither
// inline nor indirect.
type MapTypeError struct {
	Type byte
}

func (e *MapTypeError) Error() string {
	return fmt.Sprintf("usage map type %#02x: %v", e.Type, ErrUnsupportedMapType)
}

func (e *MapTypeError) Unwrap() error { return ErrUnsupportedMapType }

// TruncatedPageError reports a page load that returned fewer bytes than
// the page size.
type TruncatedPageError struct {
	PageNo uint32
	Got    int
	Want   int
	Err    error // underlying I/O error, if any
}

func (e *TruncatedPageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("page %d: got %d of %d bytes: %v", e.PageNo, e.Got, e.Want, e.Err)
	}
	return fmt.Sprintf("page %d: got %d of %d bytes", e.PageNo, e.Got, e.Want)
}

func (e *TruncatedPageError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrTruncatedPage, e.Err}
	}
	return []error{ErrTruncatedPage}
}

// NumericFieldError reports a Money or Numeric field that cannot be
// decoded without reading out of bounds.
type NumericFieldError struct {
	Kind    string // "money" or "numeric"
	Message string
}

func (e *NumericFieldError) Error() string {
	return fmt.Sprintf("%s field: %s", e.Kind, e.Message)
}

func (e *NumericFieldError) Unwrap() error { return ErrMalformedNumericField }
