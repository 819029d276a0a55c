// Package lane implements the 8-wide single-precision SIMD abstraction that
// every geometry, ray, and shading computation in this renderer is written
// against. All lane-wise operations are branch-free; control flow depends
// only on mask reductions (Any/All-style queries), never on individual lane
// values.
package lane

import "math"

// Width is the number of lanes carried by F32x8 and Mask8.
const Width = 8

// F32x8 holds 8 lanes of 32-bit float, the packet scalar of the renderer.
type F32x8 [Width]float32

// Mask8 has the same shape as F32x8; a lane's sign bit encodes truth (a set
// sign bit means "true", with the caller deciding what "true" means in
// context — a hit mask, an active-ray mask, and so on).
type Mask8 [Width]float32

// Broadcast returns a lane with every element set to x.
func Broadcast(x float32) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = x
	}
	return r
}

// Zero returns the all-zero lane.
func Zero() F32x8 { return F32x8{} }

// Generate builds a lane by applying f to the indices 0..7.
func Generate(f func(i int) float32) F32x8 {
	var r F32x8
	for i := range r {
		r[i] = f(i)
	}
	return r
}

func (a F32x8) Add(b F32x8) F32x8 { return add(a, b) }
func (a F32x8) Sub(b F32x8) F32x8 { return sub(a, b) }
func (a F32x8) Mul(b F32x8) F32x8 { return mul(a, b) }
func (a F32x8) Div(b F32x8) F32x8 { return div(a, b) }

// MulAdd returns a*factor + term.
func (a F32x8) MulAdd(factor, term F32x8) F32x8 { return mulAdd(a, factor, term) }

// MulSub returns a*factor - term.
func (a F32x8) MulSub(factor, term F32x8) F32x8 { return mulSub(a, factor, term) }

// Recip returns 1/a, computed as an exact float32 division on every lane
// (so 1/0 is +Inf).
func (a F32x8) Recip() F32x8 { return recip(a) }

// Rsqrt approximates 1/sqrt(a).
func (a F32x8) Rsqrt() F32x8 { return rsqrt(a) }

func (a F32x8) Min(b F32x8) F32x8 { return minLane(a, b) }
func (a F32x8) Max(b F32x8) F32x8 { return maxLane(a, b) }

// Leq returns a mask set on lanes where a <= b. The comparison is unordered
// and non-signalling: a NaN operand yields a false (unset) lane rather than
// a panic or a propagated NaN mask.
func (a F32x8) Leq(b F32x8) Mask8 {
	var m Mask8
	for i := range a {
		m[i] = boolToMaskF32(a[i] <= b[i])
	}
	return m
}

// Geq returns a mask set on lanes where a >= b, with the same unordered,
// non-signalling semantics as Leq.
func (a F32x8) Geq(b F32x8) Mask8 {
	var m Mask8
	for i := range a {
		m[i] = boolToMaskF32(a[i] >= b[i])
	}
	return m
}

// Pick selects b[k] where mask[k]'s sign bit is set, else a[k].
func Pick(a, b F32x8, mask Mask8) F32x8 {
	var r F32x8
	for i := range r {
		if maskBit(mask[i]) {
			r[i] = b[i]
		} else {
			r[i] = a[i]
		}
	}
	return r
}

// MaskTrue returns a mask with every lane set to "true".
func MaskTrue() Mask8 {
	var m Mask8
	for i := range m {
		m[i] = trueBitsPattern
	}
	return m
}

// MaskFalse returns a mask with every lane set to "false".
func MaskFalse() Mask8 { return Mask8{} }

// And returns the bitwise AND of two masks.
func (a Mask8) And(b Mask8) Mask8 {
	var r Mask8
	for i := range r {
		r[i] = bitsToF32(f32Bits(a[i]) & f32Bits(b[i]))
	}
	return r
}

// Or returns the bitwise OR of two masks.
func (a Mask8) Or(b Mask8) Mask8 {
	var r Mask8
	for i := range r {
		r[i] = bitsToF32(f32Bits(a[i]) | f32Bits(b[i]))
	}
	return r
}

// Not returns the bitwise complement of a mask.
func (a Mask8) Not() Mask8 {
	var r Mask8
	for i := range r {
		r[i] = bitsToF32(^f32Bits(a[i]))
	}
	return r
}

// SignMask returns a mask set on every lane of a whose sign bit is 1. Unlike
// Geq(Zero()), this distinguishes -0.0 (sign bit set) from +0.0, which
// matters when a F32x8 is carrying bit-packed data (e.g. a material index)
// rather than a genuine floating point quantity.
func (a F32x8) SignMask() Mask8 {
	var m Mask8
	for i := range a {
		m[i] = boolToMaskF32(maskBit(a[i]))
	}
	return m
}

// AnyPositiveMasked returns whether any lane of a selected by mask (the
// mask lane's sign bit is set) holds a positive value, where "positive"
// means the sign bit is clear: +0.0 counts as positive, -0.0 does not.
func (a F32x8) AnyPositiveMasked(mask Mask8) bool {
	for i := range a {
		if !maskBit(mask[i]) {
			continue
		}
		if !maskBit(a[i]) {
			return true
		}
	}
	return false
}

// AllSignBitsNegative returns true iff every lane's sign bit is unset (i.e.
// every lane is "false" under the sign-bit truth convention).
func (a Mask8) AllSignBitsNegative() bool {
	for i := range a {
		if maskBit(a[i]) {
			return false
		}
	}
	return true
}

// Any returns true iff at least one lane's sign bit is set.
func (a Mask8) Any() bool {
	for i := range a {
		if maskBit(a[i]) {
			return true
		}
	}
	return false
}

// All returns true iff every lane's sign bit is set.
func (a Mask8) All() bool {
	for i := range a {
		if !maskBit(a[i]) {
			return false
		}
	}
	return true
}

// Lane returns the scalar value of lane i.
func (a F32x8) Lane(i int) float32 { return a[i] }

// BitcastFromU32 reinterprets the bits of u as a float32, without a
// value-preserving numeric conversion. Used to ride a packed material index
// alongside other intersection fields through Pick.
func BitcastFromU32(u uint32) float32 { return math.Float32frombits(u) }

// BitcastToU32 reinterprets the bits of f as a uint32.
func BitcastToU32(f float32) uint32 { return math.Float32bits(f) }

// "True" is represented by every bit set (sign bit included), matching the
// blendv/testc convention the lane semantics are modeled on.
var trueBitsPattern = bitsToF32(0xffffffff)

func maskBit(f float32) bool {
	return f32Bits(f)&0x80000000 != 0
}

func boolToMaskF32(b bool) float32 {
	if b {
		return trueBitsPattern
	}
	return 0
}

func f32Bits(f float32) uint32 { return math.Float32bits(f) }
func bitsToF32(u uint32) float32 { return math.Float32frombits(u) }
