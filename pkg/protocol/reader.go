package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"net/netip"
	"unicode/utf16"
)

// Reader consumes a packet payload as a continuous bit stream. It keeps a
// byte cursor plus a bit offset within the current byte, so fields of
// arbitrary bit widths can be chained with no alignment between them.
//
// Two calling conventions share the same cursor: the *Bits methods read at
// the exact bit position, while the aligned methods (ReadU8, ReadString, ...)
// first discard the remainder of a partial byte and then consume whole bytes.
//
// A Reader is owned by a single decode call and must not be shared.
type Reader struct {
	buf []byte
	pos int
	bit uint // bit offset within buf[pos], always < 8
}

// NewReader returns a Reader positioned at the first bit of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// BitsRemaining reports how many unread bits are left in the payload.
func (r *Reader) BitsRemaining() int {
	return (len(r.buf)-r.pos)*8 - int(r.bit)
}

// ReadBits returns the next n bits (1-64) as an unsigned integer, least
// significant bit first within each byte, and advances the cursor by exactly
// n bits regardless of byte boundaries.
func (r *Reader) ReadBits(n uint) (uint64, error) {
	if n < 1 || n > 64 {
		panic(fmt.Sprintf("protocol: read width %d out of range [1,64]", n))
	}
	if int(n) > r.BitsRemaining() {
		return 0, fmt.Errorf("read %d bits with %d remaining: %w", n, r.BitsRemaining(), ErrUnderrun)
	}

	var v uint64
	var got uint
	for got < n {
		take := 8 - r.bit
		if rem := n - got; rem < take {
			take = rem
		}
		chunk := uint64(r.buf[r.pos]>>r.bit) & (1<<take - 1)
		v |= chunk << got
		got += take
		r.bit += take
		if r.bit == 8 {
			r.bit = 0
			r.pos++
		}
	}
	return v, nil
}

// ReadBit reads a single bit as a boolean.
func (r *Reader) ReadBit() (bool, error) {
	v, err := r.ReadBits(1)
	return v == 1, err
}

// ReadSignedBits reads an n-bit two's-complement field and sign-extends it.
func (r *Reader) ReadSignedBits(n uint) (int64, error) {
	v, err := r.ReadBits(n)
	if err != nil {
		return 0, err
	}
	if n < 64 && v&(1<<(n-1)) != 0 {
		v |= ^uint64(0) << n
	}
	return int64(v), nil
}

// ReadU32Bits reads a 32-bit integer at the current bit position without
// aligning first. Counterpart of Writer.WriteU32Bits.
func (r *Reader) ReadU32Bits() (uint32, error) {
	v, err := r.ReadBits(32)
	return uint32(v), err
}

// ReadU64Bits reads a 64-bit integer at the current bit position without
// aligning first.
func (r *Reader) ReadU64Bits() (uint64, error) {
	return r.ReadBits(64)
}

// ReadF32Bits reads an IEEE 754 float embedded mid-stream between other
// bit-packed fields.
func (r *Reader) ReadF32Bits() (float32, error) {
	v, err := r.ReadBits(32)
	return math.Float32frombits(uint32(v)), err
}

// ReadBytesBits reads n raw bytes at the current bit position without
// aligning first.
func (r *Reader) ReadBytesBits(n int) ([]byte, error) {
	if n < 0 || n*8 > r.BitsRemaining() {
		return nil, fmt.Errorf("read %d unaligned bytes with %d bits remaining: %w", n, r.BitsRemaining(), ErrUnderrun)
	}
	if r.bit == 0 {
		b := r.buf[r.pos : r.pos+n : r.pos+n]
		r.pos += n
		return b, nil
	}
	b := make([]byte, n)
	for i := range b {
		v, err := r.ReadBits(8)
		if err != nil {
			return nil, err
		}
		b[i] = byte(v)
	}
	return b, nil
}

// Align discards the remaining bits of a partial byte. No-op when the cursor
// is already on a byte boundary. Counterpart of Writer.FlushBits.
func (r *Reader) Align() {
	if r.bit != 0 {
		r.bit = 0
		r.pos++
	}
}

// aligned pads to the next byte boundary and takes n whole bytes.
func (r *Reader) aligned(n int) ([]byte, error) {
	r.Align()
	if n < 0 || len(r.buf)-r.pos < n {
		return nil, fmt.Errorf("read %d bytes with %d remaining: %w", n, len(r.buf)-r.pos, ErrUnderrun)
	}
	b := r.buf[r.pos : r.pos+n : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads an aligned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.aligned(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads an aligned little-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.aligned(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads an aligned little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.aligned(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadU64 reads an aligned little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.aligned(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadI32 reads an aligned little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadF32 reads an aligned little-endian IEEE 754 float.
func (r *Reader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadBool reads an aligned byte as a boolean.
func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadU8()
	return v != 0, err
}

// ReadBytes reads an aligned raw byte blob of length n.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.aligned(n)
}

// ReadString reads an aligned narrow string: a little-endian uint16 byte
// count followed by that many raw bytes, no transcoding.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return "", fmt.Errorf("string length: %w", err)
	}
	b, err := r.aligned(int(n))
	if err != nil {
		return "", fmt.Errorf("string data: %w", err)
	}
	return string(b), nil
}

// ReadWideString reads an aligned wide string: a little-endian uint16
// UTF-16 code-unit count followed by that many UTF-16LE units.
func (r *Reader) ReadWideString() (string, error) {
	n, err := r.ReadU16()
	if err != nil {
		return "", fmt.Errorf("wide string length: %w", err)
	}
	b, err := r.aligned(int(n) * 2)
	if err != nil {
		return "", fmt.Errorf("wide string data: %w", err)
	}
	return decodeUTF16LE(b), nil
}

// ReadWideStringBits reads a wide string embedded in a continuous bit
// stream: a countBits-wide code-unit count followed by the UTF-16LE units,
// none of it aligned.
func (r *Reader) ReadWideStringBits(countBits uint) (string, error) {
	n, err := r.ReadBits(countBits)
	if err != nil {
		return "", fmt.Errorf("wide string length: %w", err)
	}
	b, err := r.ReadBytesBits(int(n) * 2)
	if err != nil {
		return "", fmt.Errorf("wide string data: %w", err)
	}
	return decodeUTF16LE(b), nil
}

// ReadIPv4 reads four aligned bytes in network (big-endian) order. IPv4
// addresses are the one big-endian exception in the protocol.
func (r *Reader) ReadIPv4() (netip.Addr, error) {
	b, err := r.aligned(4)
	if err != nil {
		return netip.Addr{}, err
	}
	return netip.AddrFrom4([4]byte(b)), nil
}

func decodeUTF16LE(b []byte) string {
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[i*2:])
	}
	return string(utf16.Decode(units))
}
