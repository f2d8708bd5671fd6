// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package float16

import (
	"math"
	"strconv"
)

// BF16 holds the raw bits of a 16-bit brain floating-point value:
// the upper half of a float32 (1 sign, 8 exponent and 7 mantissa bits).
type BF16 uint16

const bf16QuietNaN = 0x7fc0

// BF16FromFloat32 converts f to a BF16 by dropping the low 16 mantissa
// bits. Like FromFloat32, it truncates toward zero. A NaN stays a NaN:
// its sign is kept and the quiet bit is set, since plain truncation could
// otherwise turn a low-payload NaN into an infinity.
func BF16FromFloat32(f float32) BF16 {
	b := math.Float32bits(f)
	if b&0x7fffffff > 0x7f800000 {
		return BF16(b>>16&signMask16 | bf16QuietNaN)
	}
	return BF16(b >> 16)
}

// Bits returns the raw bits of h.
func (h BF16) Bits() uint16 {
	return uint16(h)
}

// Float32 returns the exact float32 value of h.
func (h BF16) Float32() float32 {
	return math.Float32frombits(uint32(h) << 16)
}

func (h BF16) String() string {
	return strconv.FormatFloat(float64(h.Float32()), 'g', -1, 32)
}
