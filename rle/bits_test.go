package rle

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitReaderLSBFirst(t *testing.T) {
	br := NewBitReader(bytes.NewReader([]byte{0xb2, 0x01}))

	// 0xb2 is 10110010, read least significant bit first.
	want := []byte{0, 1, 0, 0, 1, 1, 0, 1, 1}
	for i, w := range want {
		bit, err := br.ReadBit()
		require.NoError(t, err)
		assert.Equal(t, w, bit, "bit %d", i)
	}
}

func TestBitReaderEOF(t *testing.T) {
	br := NewBitReader(bytes.NewReader(nil))

	_, err := br.ReadBit()
	assert.Equal(t, io.EOF, err)

	br = NewBitReader(bytes.NewReader([]byte{0xff}))
	_, err = br.ReadBits(9)
	assert.Equal(t, io.EOF, err)
}

func TestBitsRoundTrip(t *testing.T) {
	tables := []struct {
		v uint32
		n int
	}{
		{0, 1},
		{1, 1},
		{5, 3},
		{0xf0, 8},
		{0x1234, 13},
		{0x7fffffff, 31},
	}

	var buf bytes.Buffer
	bw := NewBitWriter(&buf)
	for _, table := range tables {
		require.NoError(t, bw.WriteBits(table.v, table.n))
	}
	require.NoError(t, bw.Flush())

	br := NewBitReader(bytes.NewReader(buf.Bytes()))
	for _, table := range tables {
		v, err := br.ReadBits(table.n)
		require.NoError(t, err)
		assert.Equal(t, table.v, v)
	}
}

func TestSpanLengthKnownEncodings(t *testing.T) {
	tables := []struct {
		n    int
		want []byte
	}{
		{1, []byte{0x01}}, // prefix 1, value 0
		{2, []byte{0x03}}, // prefix 1, value 1
		{3, []byte{0x0a}}, // prefix 01, value 010
	}

	for _, table := range tables {
		var buf bytes.Buffer
		bw := NewBitWriter(&buf)
		require.NoError(t, bw.WriteSpanLength(table.n))
		require.NoError(t, bw.Flush())
		assert.Equal(t, table.want, buf.Bytes(), "span %d", table.n)
	}
}

func TestSpanLengthRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)

	lengths := make([]int, 0, 2100)
	for n := 1; n <= 2048; n++ {
		lengths = append(lengths, n)
	}
	// The longest runs a full size image can produce.
	lengths = append(lengths, 65535, 65536)

	for _, n := range lengths {
		require.NoError(t, bw.WriteSpanLength(n))
	}
	require.NoError(t, bw.Flush())

	br := NewBitReader(bytes.NewReader(buf.Bytes()))
	for _, n := range lengths {
		got, err := br.ReadSpanLength()
		require.NoError(t, err)
		require.Equal(t, n, got)
	}
}

func TestReadSpanLengthOverflow(t *testing.T) {
	// An all zero stream never terminates the length prefix.
	br := NewBitReader(bytes.NewReader(make([]byte, 8)))

	_, err := br.ReadSpanLength()
	assert.ErrorIs(t, err, ErrSpanOverflow)
}

func TestFlush(t *testing.T) {
	var buf bytes.Buffer
	bw := NewBitWriter(&buf)

	require.NoError(t, bw.WriteBits(0x07, 3))
	require.NoError(t, bw.Flush())
	assert.Equal(t, []byte{0x07}, buf.Bytes())

	// Flush at a byte boundary emits nothing.
	require.NoError(t, bw.Flush())
	assert.Equal(t, 1, buf.Len())
}
