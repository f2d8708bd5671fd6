// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package float16 converts float32 values to and from 16-bit
// half-precision (F16) and brain floating point (BF16) bit patterns.
//
// The F16 conversion is intentionally simple: the mantissa is truncated,
// values below the smallest normal half are flushed to signed zero, values
// beyond the largest finite half (and NaN) become signed infinity, and
// decoding does not rescale subnormal patterns.
package float16

import (
	"math"
	"strconv"
)

const (
	signMask16 = 0x8000
	expMask16  = 0x1f
	mantMask16 = 0x3ff
	mantBits16 = 10

	expMask32  = 0xff
	mantBits32 = 23

	// expRebias is the difference between the float32 (127) and the
	// float16 (15) exponent biases.
	expRebias = 127 - 15

	// mantShift aligns a 10-bit half mantissa with a 23-bit single one.
	mantShift = mantBits32 - mantBits16
)

// F16 holds the raw bits of a 16-bit half-precision floating-point value.
type F16 uint16

const (
	// PosInf is positive infinity.
	PosInf F16 = 0x7c00
	// NegInf is negative infinity.
	NegInf F16 = 0xfc00
	// One is the value 1.
	One F16 = 0x3c00
	// MaxValue is the largest finite value, 65504.
	MaxValue F16 = 0x7bff
	// SmallestNormal is the smallest positive normal value, 2^-14.
	SmallestNormal F16 = 0x0400
)

// EncodeHalf converts f to half-precision bits.
//
// The result is always defined: magnitudes too small for a normal half
// become signed zero, magnitudes too large become signed infinity, and
// the mantissa is truncated toward zero.
func EncodeHalf(f float32) uint16 {
	b := math.Float32bits(f)

	sign := uint16(b>>16) & signMask16
	exp := int32(b>>mantBits32&expMask32) - expRebias
	mant := uint16(b>>mantShift) & mantMask16

	switch {
	case exp <= 0:
		exp, mant = 0, 0
	case exp >= expMask16:
		exp, mant = expMask16, 0
	}
	return sign | uint16(exp)<<mantBits16 | mant
}

// DecodeHalf converts half-precision bits to a float32.
//
// A zero exponent field is kept as zero and its mantissa is copied as-is,
// so only the zero patterns (0x0000, 0x8000) decode to their exact value.
func DecodeHalf(h uint16) float32 {
	sign := uint32(h&signMask16) << 16
	exp := uint32(h>>mantBits16) & expMask16
	mant := uint32(h&mantMask16) << mantShift

	switch exp {
	case 0:
	case expMask16:
		exp = expMask32
	default:
		exp += expRebias
	}
	return math.Float32frombits(sign | exp<<mantBits32 | mant)
}

// FromFloat32 converts f with EncodeHalf.
func FromFloat32(f float32) F16 {
	return F16(EncodeHalf(f))
}

// FromBits returns the F16 with the given raw bits.
func FromBits(b uint16) F16 {
	return F16(b)
}

// Bits returns the raw bits of h.
func (h F16) Bits() uint16 {
	return uint16(h)
}

// Float32 returns the float32 value of h, see DecodeHalf.
func (h F16) Float32() float32 {
	return DecodeHalf(uint16(h))
}

// Signbit reports whether h is negative or negative zero.
func (h F16) Signbit() bool {
	return h&signMask16 != 0
}

// IsInf reports whether h is an infinity, according to sign.
// If sign > 0, IsInf reports whether h is positive infinity.
// If sign < 0, IsInf reports whether h is negative infinity.
// If sign == 0, IsInf reports whether h is either infinity.
func (h F16) IsInf(sign int) bool {
	return sign >= 0 && h == PosInf || sign <= 0 && h == NegInf
}

// IsNaN reports whether h is a "not-a-number" pattern.
// EncodeHalf never produces one, but DecodeHalf accepts them.
func (h F16) IsNaN() bool {
	return uint16(h)>>mantBits16&expMask16 == expMask16 && h&mantMask16 != 0
}

func (h F16) String() string {
	return strconv.FormatFloat(float64(h.Float32()), 'g', -1, 32)
}
