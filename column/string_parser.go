// string_parser.go - Parser for text and binary column types
package column

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/wilhasse/go-mdb/format"
	"github.com/wilhasse/go-mdb/schema"
)

// compressedTextMarker prefixes Jet4 text stored in the one-byte-per-
// character "compressed unicode" form.
var compressedTextMarker = [2]byte{0xff, 0xfe}

// StringParser handles TEXT, MEMO, BINARY, OLE and REPLID columns. Text
// is Windows-1252 in Jet3 files and UCS-2 little-endian in Jet4 files.
type StringParser struct {
	BaseParser
	Version format.JetVersion
}

// Parse parses string value based on column type
func (p *StringParser) Parse(input []byte, offset int, col *schema.Column, varLen int) (interface{}, int, error) {
	switch col.Type {
	case schema.TypeText, schema.TypeMemo:
		if varLen <= 0 {
			return "", 0, nil
		}
		data, err := p.readBytes(input, offset, varLen)
		if err != nil {
			return nil, 0, err
		}
		s, err := DecodeText(data, p.Version)
		if err != nil {
			return nil, 0, fmt.Errorf("column %s: %w", col.Name, err)
		}
		return s, varLen, nil

	case schema.TypeBinary, schema.TypeOLE:
		if varLen <= 0 {
			return []byte{}, 0, nil
		}
		data, err := p.readBytes(input, offset, varLen)
		if err != nil {
			return nil, 0, err
		}
		return data, varLen, nil

	case schema.TypeRepID:
		data, err := p.readBytes(input, offset, 16)
		if err != nil {
			return nil, 0, err
		}
		return data, 16, nil

	default:
		return nil, 0, schema.ErrUnsupportedType
	}
}

// Skip skips string value without parsing
func (p *StringParser) Skip(input []byte, offset int, col *schema.Column, varLen int) (int, error) {
	switch col.Type {
	case schema.TypeText, schema.TypeMemo, schema.TypeBinary, schema.TypeOLE:
		if varLen < 0 {
			return 0, nil
		}
		return varLen, nil
	case schema.TypeRepID:
		return 16, nil
	default:
		return 0, schema.ErrUnsupportedType
	}
}

// DecodeText converts stored text bytes to a Go string.
func DecodeText(data []byte, v format.JetVersion) (string, error) {
	var dec *encoding.Decoder
	if v == format.Jet3 {
		dec = charmap.Windows1252.NewDecoder()
	} else {
		if len(data) >= 2 && data[0] == compressedTextMarker[0] && data[1] == compressedTextMarker[1] {
			data = expandCompressedText(data[2:])
		}
		dec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	}
	out, err := dec.Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// expandCompressedText rebuilds UCS-2 from compressed text. A zero byte
// toggles between one-byte characters and raw two-byte units; the data
// starts in one-byte mode.
func expandCompressedText(src []byte) []byte {
	dst := make([]byte, 0, len(src)*2)
	compressed := true
	for i := 0; i < len(src); {
		switch {
		case src[i] == 0:
			compressed = !compressed
			i++
		case compressed:
			dst = append(dst, src[i], 0)
			i++
		case i+1 < len(src):
			dst = append(dst, src[i], src[i+1])
			i += 2
		default:
			return dst
		}
	}
	return dst
}
