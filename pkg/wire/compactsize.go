// Package wire implements the primitive codec of the legacy transaction format.
//
// Every multi-byte integer on the wire is little-endian. Variable length
// values (scripts, input and output lists) are prefixed with a "compact size"
// integer:
//
//	n <= 0xfc        1 byte, literal value
//	n <= 0xffff      0xfd || uint16le
//	n <= 0xffffffff  0xfe || uint32le
//	otherwise        0xff || uint64le
//
// The encoders never fail. The decoders reject truncated input and
// non-canonical compact sizes (a value encoded with a wider form than needed).
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Compact size markers.
const (
	compactSize16 = 0xfd
	compactSize32 = 0xfe
	compactSize64 = 0xff

	// MaxCompactSizeLen is the widest encoding of a compact size integer.
	MaxCompactSizeLen = 9
)

var (
	// ErrNonCanonical is returned when a compact size uses a wider encoding
	// than its value requires.
	ErrNonCanonical = errors.New("non-canonical compact size")

	// ErrTooLarge is returned when a length prefix exceeds the caller's limit.
	ErrTooLarge = errors.New("length prefix exceeds limit")
)

// EncodeUint32 returns the 4-byte little-endian encoding of n.
func EncodeUint32(n uint32) []byte {
	return AppendUint32(nil, n)
}

// EncodeUint64 returns the 8-byte little-endian encoding of n.
func EncodeUint64(n uint64) []byte {
	return AppendUint64(nil, n)
}

// AppendUint32 appends the little-endian encoding of n to buf.
func AppendUint32(buf []byte, n uint32) []byte {
	return binary.LittleEndian.AppendUint32(buf, n)
}

// AppendUint64 appends the little-endian encoding of n to buf.
func AppendUint64(buf []byte, n uint64) []byte {
	return binary.LittleEndian.AppendUint64(buf, n)
}

// EncodeCompactSize returns the compact size encoding of n.
func EncodeCompactSize(n uint64) []byte {
	return AppendCompactSize(make([]byte, 0, CompactSizeLen(n)), n)
}

// AppendCompactSize appends the compact size encoding of n to buf.
func AppendCompactSize(buf []byte, n uint64) []byte {
	switch {
	case n <= 0xfc:
		return append(buf, byte(n))
	case n <= 0xffff:
		buf = append(buf, compactSize16)
		return binary.LittleEndian.AppendUint16(buf, uint16(n))
	case n <= 0xffffffff:
		buf = append(buf, compactSize32)
		return binary.LittleEndian.AppendUint32(buf, uint32(n))
	default:
		buf = append(buf, compactSize64)
		return binary.LittleEndian.AppendUint64(buf, n)
	}
}

// CompactSizeLen returns the number of bytes EncodeCompactSize(n) produces.
func CompactSizeLen(n uint64) int {
	switch {
	case n <= 0xfc:
		return 1
	case n <= 0xffff:
		return 3
	case n <= 0xffffffff:
		return 5
	default:
		return 9
	}
}

// EncodeBytes returns the compact size length of b followed by b.
func EncodeBytes(b []byte) []byte {
	return AppendBytes(make([]byte, 0, CompactSizeLen(uint64(len(b)))+len(b)), b)
}

// AppendBytes appends the length-prefixed encoding of b to buf.
func AppendBytes(buf []byte, b []byte) []byte {
	buf = AppendCompactSize(buf, uint64(len(b)))
	return append(buf, b...)
}

// EncodeArray returns the compact size item count followed by the
// concatenation of the already encoded items.
func EncodeArray(items [][]byte) []byte {
	size := CompactSizeLen(uint64(len(items)))
	for _, item := range items {
		size += len(item)
	}

	buf := make([]byte, 0, size)
	buf = AppendCompactSize(buf, uint64(len(items)))
	for _, item := range items {
		buf = append(buf, item...)
	}
	return buf
}

// ReadUint32 reads a little-endian uint32.
func ReadUint32(r io.Reader) (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b[:]), nil
}

// ReadUint64 reads a little-endian uint64.
func ReadUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// ReadCompactSize reads a compact size integer, rejecting non-canonical forms.
func ReadCompactSize(r io.Reader) (uint64, error) {
	var first [1]byte
	if _, err := io.ReadFull(r, first[:]); err != nil {
		return 0, err
	}

	var (
		v     uint64
		floor uint64
	)
	switch first[0] {
	case compactSize16:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		v, floor = uint64(binary.LittleEndian.Uint16(b[:])), 0xfd
	case compactSize32:
		n, err := ReadUint32(r)
		if err != nil {
			return 0, err
		}
		v, floor = uint64(n), 0x10000
	case compactSize64:
		n, err := ReadUint64(r)
		if err != nil {
			return 0, err
		}
		v, floor = n, 0x100000000
	default:
		return uint64(first[0]), nil
	}

	if v < floor {
		return 0, fmt.Errorf("%w: %d encoded with marker 0x%02x", ErrNonCanonical, v, first[0])
	}
	return v, nil
}

// ReadBytes reads a length-prefixed byte blob of at most limit bytes.
func ReadBytes(r io.Reader, limit uint64) ([]byte, error) {
	n, err := ReadCompactSize(r)
	if err != nil {
		return nil, fmt.Errorf("reading length: %w", err)
	}
	if n > limit {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooLarge, n, limit)
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}
