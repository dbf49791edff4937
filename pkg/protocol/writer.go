package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"net/netip"
	"unicode/utf16"
)

// Writer builds a packet payload as a continuous bit stream, mirroring
// Reader. The *Bits methods append at the exact bit position; the aligned
// methods (WriteU8, WriteString, ...) flush the partial byte first and then
// emit whole bytes. Mixing the two corrupts a bit-packed layout, so inside a
// continuous region only the *Bits forms are correct.
//
// Field values are masked to their declared width. A width outside [1,64]
// panics: that is a malformed schema, not a runtime condition.
//
// A Writer is owned by a single encode call and must not be shared.
type Writer struct {
	buf []byte
	bit uint // bits used in the final byte of buf, 0 = aligned
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// BitLen reports the number of bits written so far.
func (w *Writer) BitLen() int {
	if w.bit == 0 {
		return len(w.buf) * 8
	}
	return (len(w.buf)-1)*8 + int(w.bit)
}

// WriteBits appends the low n bits (1-64) of v at the current bit position,
// least significant bit first within each byte, splitting across byte
// boundaries as needed.
func (w *Writer) WriteBits(v uint64, n uint) {
	if n < 1 || n > 64 {
		panic(fmt.Sprintf("protocol: write width %d out of range [1,64]", n))
	}
	if n < 64 {
		v &= 1<<n - 1
	}
	for n > 0 {
		if w.bit == 0 {
			w.buf = append(w.buf, 0)
		}
		take := 8 - w.bit
		if n < take {
			take = n
		}
		w.buf[len(w.buf)-1] |= byte(v&(1<<take-1)) << w.bit
		v >>= take
		n -= take
		w.bit = (w.bit + take) % 8
	}
}

// WriteBit appends a single bit.
func (w *Writer) WriteBit(b bool) {
	var v uint64
	if b {
		v = 1
	}
	w.WriteBits(v, 1)
}

// WriteSignedBits appends v as an n-bit two's-complement field. Reader side
// sign-extends symmetrically via ReadSignedBits.
func (w *Writer) WriteSignedBits(v int64, n uint) {
	w.WriteBits(uint64(v), n)
}

// WriteU32Bits appends a 32-bit integer at the current bit position without
// flushing first. Required when the value sits mid-stream between other
// bit-packed fields.
func (w *Writer) WriteU32Bits(v uint32) {
	w.WriteBits(uint64(v), 32)
}

// WriteU64Bits appends a 64-bit integer at the current bit position without
// flushing first.
func (w *Writer) WriteU64Bits(v uint64) {
	w.WriteBits(v, 64)
}

// WriteF32Bits appends the bit pattern of an IEEE 754 float at the current
// bit position without flushing first.
func (w *Writer) WriteF32Bits(f float32) {
	w.WriteBits(uint64(math.Float32bits(f)), 32)
}

// WriteBytesBits appends raw bytes without a prior flush, for blobs that
// must sit at a non-byte-aligned position inside a continuous stream.
func (w *Writer) WriteBytesBits(b []byte) {
	if w.bit == 0 {
		w.buf = append(w.buf, b...)
		return
	}
	for _, c := range b {
		w.WriteBits(uint64(c), 8)
	}
}

// FlushBits pads the current partial byte with zero bits, advancing to the
// next byte boundary. Idempotent; implicit in every aligned write.
func (w *Writer) FlushBits() {
	w.bit = 0
}

// WriteU8 flushes and appends a byte.
func (w *Writer) WriteU8(v uint8) {
	w.FlushBits()
	w.buf = append(w.buf, v)
}

// WriteU16 flushes and appends a little-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	w.FlushBits()
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

// WriteU32 flushes and appends a little-endian uint32.
func (w *Writer) WriteU32(v uint32) {
	w.FlushBits()
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

// WriteU64 flushes and appends a little-endian uint64.
func (w *Writer) WriteU64(v uint64) {
	w.FlushBits()
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// WriteI32 flushes and appends a little-endian int32.
func (w *Writer) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteF32 flushes and appends a little-endian IEEE 754 float.
func (w *Writer) WriteF32(f float32) {
	w.WriteU32(math.Float32bits(f))
}

// WriteBool flushes and appends a boolean as one byte.
func (w *Writer) WriteBool(b bool) {
	if b {
		w.WriteU8(1)
	} else {
		w.WriteU8(0)
	}
}

// WriteBytes flushes and appends a raw byte blob.
func (w *Writer) WriteBytes(b []byte) {
	w.FlushBits()
	w.buf = append(w.buf, b...)
}

// WriteString flushes and appends a narrow string: little-endian uint16
// byte count, then the raw bytes.
func (w *Writer) WriteString(s string) {
	if len(s) > math.MaxUint16 {
		panic(fmt.Sprintf("protocol: string length %d exceeds prefix range", len(s)))
	}
	w.WriteU16(uint16(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteWideString flushes and appends a wide string: little-endian uint16
// UTF-16 code-unit count, then the UTF-16LE units. Used for all localized
// text (names, chat, realm names).
func (w *Writer) WriteWideString(s string) {
	units := utf16.Encode([]rune(s))
	if len(units) > math.MaxUint16 {
		panic(fmt.Sprintf("protocol: wide string length %d exceeds prefix range", len(units)))
	}
	w.WriteU16(uint16(len(units)))
	for _, u := range units {
		w.buf = binary.LittleEndian.AppendUint16(w.buf, u)
	}
}

// WriteWideStringBits appends a wide string inside a continuous bit stream:
// a countBits-wide code-unit count followed by the UTF-16LE units, with no
// flush anywhere.
func (w *Writer) WriteWideStringBits(s string, countBits uint) {
	units := utf16.Encode([]rune(s))
	if countBits < 64 && uint64(len(units)) >= 1<<countBits {
		panic(fmt.Sprintf("protocol: wide string length %d exceeds %d-bit prefix", len(units), countBits))
	}
	w.WriteBits(uint64(len(units)), countBits)
	for _, u := range units {
		w.WriteBits(uint64(u), 16)
	}
}

// WriteIPv4 flushes and appends the four address bytes in network
// (big-endian) order, the one big-endian exception in the protocol.
func (w *Writer) WriteIPv4(addr netip.Addr) {
	a := addr.As4()
	w.WriteBytes(a[:])
}

// Finish flushes any pending partial byte and returns the accumulated
// payload. The Writer must not be reused afterwards.
func (w *Writer) Finish() []byte {
	w.FlushBits()
	return w.buf
}
