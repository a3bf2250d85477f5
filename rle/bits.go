package rle

import (
	"errors"
	"io"
)

// ErrSpanOverflow is returned when a span length prefix claims more value
// bits than a conforming encoder can produce.
var ErrSpanOverflow = errors.New("rle: span length overflows")

// Span length value fields are kept below the integer width so decoded
// lengths never go negative.
const maxSpanBits = 31

// A BitReader reads values of one or more bits from a byte stream, least
// significant bit first within each byte.
type BitReader struct {
	r    io.ByteReader
	cur  byte
	mask byte
}

// NewBitReader returns a BitReader consuming bytes from r.
func NewBitReader(r io.ByteReader) *BitReader {
	return &BitReader{r: r}
}

// ReadBit returns the next bit in the stream.
func (br *BitReader) ReadBit() (byte, error) {
	if br.mask == 0 {
		b, err := br.r.ReadByte()
		if err != nil {
			return 0, err
		}
		br.cur = b
		br.mask = 1
	}
	var bit byte
	if br.cur&br.mask != 0 {
		bit = 1
	}
	br.mask <<= 1
	return bit, nil
}

// ReadBits returns the next n bits, 1 <= n <= 31, assembled least
// significant bit first.
func (br *BitReader) ReadBits(n int) (uint32, error) {
	var v uint32
	for i := 0; i < n; i++ {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		v |= uint32(bit) << i
	}
	return v, nil
}

// ReadSpanLength decodes one span length. Zero bits widen the value field
// by two bits each, a one bit terminates the prefix, then the value
// follows in that many bits.
func (br *BitReader) ReadSpanLength() (int, error) {
	blen := 1
	for {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit != 0 {
			break
		}
		blen += 2
		if blen > maxSpanBits {
			return 0, ErrSpanOverflow
		}
	}
	v, err := br.ReadBits(blen)
	if err != nil {
		return 0, err
	}
	return int(v) + 1, nil
}

// A BitWriter writes values of one or more bits to a byte stream, least
// significant bit first within each byte.
type BitWriter struct {
	w    io.ByteWriter
	cur  byte
	mask byte
}

// NewBitWriter returns a BitWriter emitting bytes to w.
func NewBitWriter(w io.ByteWriter) *BitWriter {
	return &BitWriter{w: w, mask: 1}
}

// WriteBit appends a single bit to the stream.
func (bw *BitWriter) WriteBit(bit byte) error {
	if bit != 0 {
		bw.cur |= bw.mask
	}
	bw.mask <<= 1
	if bw.mask == 0 {
		if err := bw.w.WriteByte(bw.cur); err != nil {
			return err
		}
		bw.cur = 0
		bw.mask = 1
	}
	return nil
}

// WriteBits appends the low n bits of v, least significant first.
func (bw *BitWriter) WriteBits(v uint32, n int) error {
	for i := 0; i < n; i++ {
		if err := bw.WriteBit(byte(v >> i & 1)); err != nil {
			return err
		}
	}
	return nil
}

// WriteSpanLength encodes a run of length n, n >= 1, in the prefix code
// ReadSpanLength expects.
func (bw *BitWriter) WriteSpanLength(n int) error {
	v := uint32(n - 1)
	blen := 1
	for blen < maxSpanBits && uint32(1)<<blen <= v {
		blen += 2
	}
	for i := 0; i < (blen-1)/2; i++ {
		if err := bw.WriteBit(0); err != nil {
			return err
		}
	}
	if err := bw.WriteBit(1); err != nil {
		return err
	}
	return bw.WriteBits(v, blen)
}

// Flush pads the current byte with zero bits and writes it out. It is a
// no-op at a byte boundary.
func (bw *BitWriter) Flush() error {
	if bw.mask == 1 {
		return nil
	}
	if err := bw.w.WriteByte(bw.cur); err != nil {
		return err
	}
	bw.cur = 0
	bw.mask = 1
	return nil
}
