package wire

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompactSizeBoundaries(t *testing.T) {
	tests := []struct {
		value uint64
		want  string
	}{
		{0, "00"},
		{0xfc, "fc"},
		{0xfd, "fdfd00"},
		{0xffff, "fdffff"},
		{0x10000, "fe00000100"},
		{0xffffffff, "feffffffff"},
		{0x100000000, "ff0000000001000000"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("0x%x", tt.value), func(t *testing.T) {
			encoded := EncodeCompactSize(tt.value)
			assert.Equal(t, tt.want, hex.EncodeToString(encoded))
			assert.Len(t, encoded, CompactSizeLen(tt.value))

			decoded, err := ReadCompactSize(bytes.NewReader(encoded))
			require.NoError(t, err)
			assert.Equal(t, tt.value, decoded, "round trip mismatch")
		})
	}
}

func TestReadCompactSizeRejectsNonCanonical(t *testing.T) {
	tests := []string{
		"fdfc00",             // 0xfc fits in one byte
		"feffff0000",         // 0xffff fits in the 16-bit form
		"ffffffffff00000000", // 0xffffffff fits in the 32-bit form
	}

	for _, in := range tests {
		raw, _ := hex.DecodeString(in)
		_, err := ReadCompactSize(bytes.NewReader(raw))
		assert.ErrorIs(t, err, ErrNonCanonical, in)
	}

	// 0xffff0000 needs the 32-bit form.
	raw, _ := hex.DecodeString("fe0000ffff")
	v, err := ReadCompactSize(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, uint64(0xffff0000), v)
}

func TestReadCompactSizeTruncated(t *testing.T) {
	for _, in := range []string{"", "fd00", "fe000000", "ff00000000000000"} {
		raw, _ := hex.DecodeString(in)
		_, err := ReadCompactSize(bytes.NewReader(raw))
		assert.Error(t, err, in)
	}
}

func TestFixedWidthIntegers(t *testing.T) {
	assert.Equal(t, "01000000", hex.EncodeToString(EncodeUint32(1)))
	assert.Equal(t, "ffffffff", hex.EncodeToString(EncodeUint32(0xffffffff)))
	assert.Equal(t, "23ce010000000000", hex.EncodeToString(EncodeUint64(118307)))

	v32, err := ReadUint32(bytes.NewReader(EncodeUint32(0xdeadbeef)))
	require.NoError(t, err)
	assert.Equal(t, uint32(0xdeadbeef), v32)

	v64, err := ReadUint64(bytes.NewReader(EncodeUint64(1 << 60)))
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<60), v64)
}

func TestEncodeBytes(t *testing.T) {
	assert.Equal(t, []byte{0x00}, EncodeBytes(nil))
	assert.Equal(t, []byte{0x03, 0xaa, 0xbb, 0xcc}, EncodeBytes([]byte{0xaa, 0xbb, 0xcc}))

	long := bytes.Repeat([]byte{0x01}, 300)
	encoded := EncodeBytes(long)
	assert.Equal(t, []byte{0xfd, 0x2c, 0x01}, encoded[:3])
	assert.Len(t, encoded, 303)

	decoded, err := ReadBytes(bytes.NewReader(encoded), 1000)
	require.NoError(t, err)
	assert.Equal(t, long, decoded)
}

func TestReadBytesLimit(t *testing.T) {
	encoded := EncodeBytes(make([]byte, 10))

	_, err := ReadBytes(bytes.NewReader(encoded), 9)
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = ReadBytes(bytes.NewReader(encoded[:5]), 10)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestEncodeArray(t *testing.T) {
	assert.Equal(t, []byte{0x00}, EncodeArray(nil))

	items := [][]byte{{0x01, 0x02}, {0x03}, {}}
	assert.Equal(t, []byte{0x03, 0x01, 0x02, 0x03}, EncodeArray(items))
}

func TestAppendMatchesEncode(t *testing.T) {
	prefix := []byte{0xee}
	for _, n := range []uint64{0, 0xfc, 0xfd, 0x10000, 0x100000000} {
		got := AppendCompactSize(append([]byte(nil), prefix...), n)
		assert.Equal(t, append(append([]byte(nil), prefix...), EncodeCompactSize(n)...), got)
	}
}
