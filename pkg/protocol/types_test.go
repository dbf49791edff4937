package protocol

import (
	"math"
	"testing"
)

func TestPackedFloatRoundTrip(t *testing.T) {
	// Values exactly representable in binary16 survive the round trip.
	values := []float32{0, 1, -1, 0.5, 1.5, -2.25, 100, 1024, 65504, -65504}

	for _, v := range values {
		w := NewWriter()
		w.WritePackedFloat(v)
		r := NewReader(w.Finish())

		got, err := r.ReadPackedFloat()
		if err != nil {
			t.Fatalf("ReadPackedFloat(%v): %v", v, err)
		}
		if got != v {
			t.Errorf("packed round trip %v = %v", v, got)
		}
	}
}

func TestPackedFloatSaturates(t *testing.T) {
	w := NewWriter()
	w.WritePackedFloat(1e30)
	w.WritePackedFloat(float32(math.Inf(-1)))
	r := NewReader(w.Finish())

	hi, err := r.ReadPackedFloat()
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(float64(hi), 1) {
		t.Errorf("overflow quantized to %v, want +Inf", hi)
	}
	lo, err := r.ReadPackedFloat()
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsInf(float64(lo), -1) {
		t.Errorf("-Inf quantized to %v, want -Inf", lo)
	}
}

func TestPackedFloatSignedZero(t *testing.T) {
	w := NewWriter()
	w.WritePackedFloat(float32(math.Copysign(0, -1)))
	r := NewReader(w.Finish())

	got, err := r.ReadPackedFloat()
	if err != nil {
		t.Fatal(err)
	}
	if !math.Signbit(float64(got)) || got != 0 {
		t.Errorf("negative zero round trip = %v", got)
	}
}

func TestVector3RoundTrip(t *testing.T) {
	v := Vector3{X: 1021.5, Y: -880.25, Z: 64}

	w := NewWriter()
	w.WriteVector3(v)
	r := NewReader(w.Finish())

	got, err := r.ReadVector3()
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Errorf("ReadVector3 = %+v, want %+v", got, v)
	}
}

func TestVector3BitsMidStream(t *testing.T) {
	v := Vector3{X: -1.5, Y: 2.5, Z: 3}

	w := NewWriter()
	w.WriteBits(5, 3)
	w.WriteVector3Bits(v)
	w.WriteBit(true)

	// 3 + 96 + 1 bits: nothing was aligned.
	if w.BitLen() != 100 {
		t.Fatalf("BitLen = %d, want 100", w.BitLen())
	}

	r := NewReader(w.Finish())
	if _, err := r.ReadBits(3); err != nil {
		t.Fatal(err)
	}
	got, err := r.ReadVector3Bits()
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Errorf("ReadVector3Bits = %+v, want %+v", got, v)
	}
}

func TestPackedVector3RoundTrip(t *testing.T) {
	v := Vector3{X: 12.5, Y: -0.25, Z: 300}

	w := NewWriter()
	w.WritePackedVector3(v)
	if w.BitLen() != 48 {
		t.Fatalf("BitLen = %d, want 48", w.BitLen())
	}

	r := NewReader(w.Finish())
	got, err := r.ReadPackedVector3()
	if err != nil {
		t.Fatal(err)
	}
	if got != v {
		t.Errorf("ReadPackedVector3 = %+v, want %+v", got, v)
	}
}
