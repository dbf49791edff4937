package protocol

import "math"

// Vector3 is a 3D position or direction as carried on the wire.
type Vector3 struct {
	X, Y, Z float32
}

// ReadVector3 reads three aligned little-endian floats.
func (r *Reader) ReadVector3() (Vector3, error) {
	var v Vector3
	var err error
	if v.X, err = r.ReadF32(); err != nil {
		return Vector3{}, err
	}
	if v.Y, err = r.ReadF32(); err != nil {
		return Vector3{}, err
	}
	if v.Z, err = r.ReadF32(); err != nil {
		return Vector3{}, err
	}
	return v, nil
}

// WriteVector3 writes three aligned little-endian floats.
func (w *Writer) WriteVector3(v Vector3) {
	w.WriteF32(v.X)
	w.WriteF32(v.Y)
	w.WriteF32(v.Z)
}

// ReadVector3Bits reads three floats at the current bit position without
// aligning first.
func (r *Reader) ReadVector3Bits() (Vector3, error) {
	var v Vector3
	var err error
	if v.X, err = r.ReadF32Bits(); err != nil {
		return Vector3{}, err
	}
	if v.Y, err = r.ReadF32Bits(); err != nil {
		return Vector3{}, err
	}
	if v.Z, err = r.ReadF32Bits(); err != nil {
		return Vector3{}, err
	}
	return v, nil
}

// WriteVector3Bits writes three floats at the current bit position without
// flushing first.
func (w *Writer) WriteVector3Bits(v Vector3) {
	w.WriteF32Bits(v.X)
	w.WriteF32Bits(v.Y)
	w.WriteF32Bits(v.Z)
}

// ReadPackedFloat reads a 16-bit quantized (half precision) float from the
// continuous stream. Movement packets use this form to halve their size.
func (r *Reader) ReadPackedFloat() (float32, error) {
	v, err := r.ReadBits(16)
	if err != nil {
		return 0, err
	}
	return float16From(uint16(v)), nil
}

// WritePackedFloat writes f quantized to 16 bits at the current bit
// position. Precision loss is bounded by half-float resolution.
func (w *Writer) WritePackedFloat(f float32) {
	w.WriteBits(uint64(float16Bits(f)), 16)
}

// ReadPackedVector3 reads three packed floats with no alignment between
// components.
func (r *Reader) ReadPackedVector3() (Vector3, error) {
	var v Vector3
	var err error
	if v.X, err = r.ReadPackedFloat(); err != nil {
		return Vector3{}, err
	}
	if v.Y, err = r.ReadPackedFloat(); err != nil {
		return Vector3{}, err
	}
	if v.Z, err = r.ReadPackedFloat(); err != nil {
		return Vector3{}, err
	}
	return v, nil
}

// WritePackedVector3 writes three packed floats back to back.
func (w *Writer) WritePackedVector3(v Vector3) {
	w.WritePackedFloat(v.X)
	w.WritePackedFloat(v.Y)
	w.WritePackedFloat(v.Z)
}

// float16From expands an IEEE 754 binary16 bit pattern to float32.
func float16From(h uint16) float32 {
	sign := uint32(h>>15) << 31
	exp := uint32(h>>10) & 0x1F
	mant := uint32(h & 0x3FF)

	switch {
	case exp == 0:
		if mant == 0 {
			return math.Float32frombits(sign) // signed zero
		}
		// Subnormal half: renormalize into the float32 range.
		e := uint32(113)
		for mant&0x400 == 0 {
			mant <<= 1
			e--
		}
		return math.Float32frombits(sign | e<<23 | (mant&0x3FF)<<13)
	case exp == 0x1F:
		return math.Float32frombits(sign | 0xFF<<23 | mant<<13) // Inf/NaN
	}
	return math.Float32frombits(sign | (exp+112)<<23 | mant<<13)
}

// float16Bits quantizes a float32 to an IEEE 754 binary16 bit pattern with
// round-to-nearest. Out-of-range magnitudes saturate to infinity.
func float16Bits(f float32) uint16 {
	b := math.Float32bits(f)
	sign := uint16(b>>31) << 15
	exp := int32(b>>23&0xFF) - 127 + 15
	mant := b & 0x7FFFFF

	switch {
	case exp >= 0x1F:
		if b&0x7F800000 == 0x7F800000 && mant != 0 {
			return sign | 0x7E00 // NaN
		}
		return sign | 0x7C00
	case exp <= 0:
		if exp < -10 {
			return sign // underflow to signed zero
		}
		mant |= 0x800000
		shift := uint(14 - exp)
		half := uint16(mant >> shift)
		if mant>>(shift-1)&1 != 0 {
			half++
		}
		return sign | half
	}

	half := sign | uint16(exp)<<10 | uint16(mant>>13)
	if mant&0x1000 != 0 {
		half++ // carry from rounding propagates into the exponent
	}
	return half
}
