// reader.go - Page reader over an io.ReaderAt
package page

import (
	"errors"
	"fmt"
	"io"

	"github.com/wilhasse/go-mdb/format"
)

type Reader struct {
	r        io.ReaderAt
	pageSize int
}

func NewReader(r io.ReaderAt, pageSize int) *Reader {
	return &Reader{r: r, pageSize: pageSize}
}

func (pr *Reader) PageSize() int { return pr.pageSize }

// LoadPage reads one full page. A read that ends early is reported as a
// *format.TruncatedPageError; other I/O errors are wrapped as they are.
func (pr *Reader) LoadPage(pageNo uint32) ([]byte, error) {
	buf := make([]byte, pr.pageSize)
	off := int64(pageNo) * int64(pr.pageSize)
	n, err := pr.r.ReadAt(buf, off)
	if n == pr.pageSize {
		return buf, nil
	}
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, fmt.Errorf("read page %d: %w", pageNo, err)
	}
	return nil, &format.TruncatedPageError{PageNo: pageNo, Got: n, Want: pr.pageSize, Err: err}
}
