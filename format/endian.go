// endian.go - Little-endian byte reading utilities
package format

import (
	"encoding/binary"
	"fmt"
)

func Le16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, fmt.Errorf("Le16 at %d: %w", off, ErrShortRead)
	}
	return binary.LittleEndian.Uint16(b[off : off+2]), nil
}

func Le24(b []byte, off int) (uint32, error) {
	if off < 0 || off+3 > len(b) {
		return 0, fmt.Errorf("Le24 at %d: %w", off, ErrShortRead)
	}
	return uint32(b[off]) | uint32(b[off+1])<<8 | uint32(b[off+2])<<16, nil
}

func Le32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, fmt.Errorf("Le32 at %d: %w", off, ErrShortRead)
	}
	return binary.LittleEndian.Uint32(b[off : off+4]), nil
}

func Le64(b []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(b) {
		return 0, fmt.Errorf("Le64 at %d: %w", off, ErrShortRead)
	}
	return binary.LittleEndian.Uint64(b[off : off+8]), nil
}
