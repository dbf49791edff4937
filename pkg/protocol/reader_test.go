package protocol

import (
	"errors"
	"testing"
)

func TestReadBitsRoundTrip(t *testing.T) {
	for n := uint(1); n <= 64; n++ {
		var max uint64
		if n == 64 {
			max = ^uint64(0)
		} else {
			max = 1<<n - 1
		}
		values := []uint64{0, 1 & max, max, 0xA5A5A5A5A5A5A5A5 & max}

		for _, v := range values {
			w := NewWriter()
			w.WriteBits(v, n)
			r := NewReader(w.Finish())

			got, err := r.ReadBits(n)
			if err != nil {
				t.Fatalf("ReadBits(%d) after WriteBits(%#x, %d): %v", n, v, n, err)
			}
			if got != v {
				t.Errorf("round trip width %d: got %#x, want %#x", n, got, v)
			}
		}
	}
}

func TestMixedWidthRoundTrip(t *testing.T) {
	fields := []struct {
		width uint
		value uint64
	}{
		{3, 5},
		{32, 100000},
		{1, 1},
	}

	w := NewWriter()
	for _, f := range fields {
		w.WriteBits(f.value, f.width)
	}
	if w.BitLen() != 36 {
		t.Errorf("BitLen = %d, want 36", w.BitLen())
	}

	buf := w.Finish()
	if len(buf) != 5 {
		t.Fatalf("buffer length = %d, want 5", len(buf))
	}

	r := NewReader(buf)
	for _, f := range fields {
		got, err := r.ReadBits(f.width)
		if err != nil {
			t.Fatalf("ReadBits(%d): %v", f.width, err)
		}
		if got != f.value {
			t.Errorf("ReadBits(%d) = %d, want %d", f.width, got, f.value)
		}
	}
}

// The client packs fields LSB-first within each byte; these bytes are fixed
// by reference captures, not by choice.
func TestBitPackingByteLayout(t *testing.T) {
	w := NewWriter()
	w.WriteBits(5, 3) // 0b101
	w.WriteBit(true)
	w.WriteBits(2, 4) // 0b0010

	buf := w.Finish()
	if len(buf) != 1 || buf[0] != 0x2D {
		t.Fatalf("packed byte = %#02x, want 0x2d", buf[0])
	}
}

func TestReadBitsUnderrun(t *testing.T) {
	r := NewReader([]byte{0xFF, 0xFF})

	if _, err := r.ReadBits(17); !errors.Is(err, ErrUnderrun) {
		t.Fatalf("ReadBits(17) on 16 bits: err = %v, want ErrUnderrun", err)
	}

	// The failed read must not have consumed anything.
	got, err := r.ReadBits(16)
	if err != nil {
		t.Fatalf("ReadBits(16) after failed read: %v", err)
	}
	if got != 0xFFFF {
		t.Errorf("ReadBits(16) = %#x, want 0xffff", got)
	}
}

func TestAlignedReadDiscardsPartialByte(t *testing.T) {
	w := NewWriter()
	w.WriteBits(5, 3)
	w.WriteU32(0xDEADBEEF)

	r := NewReader(w.Finish())
	if _, err := r.ReadBits(3); err != nil {
		t.Fatal(err)
	}
	got, err := r.ReadU32()
	if err != nil {
		t.Fatal(err)
	}
	if got != 0xDEADBEEF {
		t.Errorf("ReadU32 = %#x, want 0xdeadbeef", got)
	}
}

func TestSignedBits(t *testing.T) {
	tests := []struct {
		name  string
		write int64
		width uint
		want  int64
	}{
		{"minus_three", -3, 8, -3},
		{"minus_one_narrow", -1, 5, -1},
		{"positive", 42, 8, 42},
		{"wide_negative", -100000, 32, -100000},
		{"min_of_width", -128, 8, -128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter()
			w.WriteSignedBits(tt.write, tt.width)
			r := NewReader(w.Finish())

			got, err := r.ReadSignedBits(tt.width)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("ReadSignedBits(%d) = %d, want %d", tt.width, got, tt.want)
			}
		})
	}
}

func TestSignExtendUnsignedPattern(t *testing.T) {
	// 250 as an unsigned 8-bit pattern is -6 in two's complement.
	w := NewWriter()
	w.WriteBits(250, 8)
	r := NewReader(w.Finish())

	got, err := r.ReadSignedBits(8)
	if err != nil {
		t.Fatal(err)
	}
	if got != -6 {
		t.Errorf("sign-extended 250 = %d, want -6", got)
	}
}

func TestWideStringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteWideString("Bezgelor")
	buf := w.Finish()

	// u16 LE code-unit count, then UTF-16LE units.
	if buf[0] != 8 || buf[1] != 0 {
		t.Errorf("length prefix = %02x %02x, want 08 00", buf[0], buf[1])
	}
	if len(buf) != 2+8*2 {
		t.Errorf("encoded length = %d, want 18", len(buf))
	}

	r := NewReader(buf)
	got, err := r.ReadWideString()
	if err != nil {
		t.Fatal(err)
	}
	if got != "Bezgelor" {
		t.Errorf("ReadWideString = %q, want %q", got, "Bezgelor")
	}
}

func TestWideStringNonASCII(t *testing.T) {
	const name = "Déraciné"

	w := NewWriter()
	w.WriteWideString(name)
	r := NewReader(w.Finish())

	got, err := r.ReadWideString()
	if err != nil {
		t.Fatal(err)
	}
	if got != name {
		t.Errorf("ReadWideString = %q, want %q", got, name)
	}
}

func TestWideStringBitsMidStream(t *testing.T) {
	w := NewWriter()
	w.WriteBit(true)
	w.WriteWideStringBits("Ori", 7)
	w.WriteBits(5, 3)

	r := NewReader(w.Finish())
	b, err := r.ReadBit()
	if err != nil || !b {
		t.Fatalf("leading bit = %v, %v", b, err)
	}
	s, err := r.ReadWideStringBits(7)
	if err != nil {
		t.Fatal(err)
	}
	if s != "Ori" {
		t.Errorf("ReadWideStringBits = %q, want %q", s, "Ori")
	}
	tail, err := r.ReadBits(3)
	if err != nil || tail != 5 {
		t.Errorf("trailing field = %d, %v, want 5", tail, err)
	}
}

func TestNarrowStringRoundTrip(t *testing.T) {
	w := NewWriter()
	w.WriteString("account@realm")
	r := NewReader(w.Finish())

	got, err := r.ReadString()
	if err != nil {
		t.Fatal(err)
	}
	if got != "account@realm" {
		t.Errorf("ReadString = %q", got)
	}
}

func TestStringUnderrun(t *testing.T) {
	// Declared length runs past the end of the buffer.
	r := NewReader([]byte{0x10, 0x00, 'a', 'b'})
	if _, err := r.ReadString(); !errors.Is(err, ErrUnderrun) {
		t.Errorf("truncated string: err = %v, want ErrUnderrun", err)
	}
}

func TestReadBytesBitsUnaligned(t *testing.T) {
	w := NewWriter()
	w.WriteBit(true)
	w.WriteBytesBits([]byte{0xDE, 0xAD})

	r := NewReader(w.Finish())
	if _, err := r.ReadBit(); err != nil {
		t.Fatal(err)
	}
	got, err := r.ReadBytesBits(2)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != 0xDE || got[1] != 0xAD {
		t.Errorf("ReadBytesBits = %x, want dead", got)
	}
}

func TestReadIPv4(t *testing.T) {
	r := NewReader([]byte{192, 168, 0, 1})
	addr, err := r.ReadIPv4()
	if err != nil {
		t.Fatal(err)
	}
	if addr.String() != "192.168.0.1" {
		t.Errorf("ReadIPv4 = %s, want 192.168.0.1", addr)
	}
}
