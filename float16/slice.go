// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package float16

// Half is satisfied by the 16-bit floating-point types of this package.
type Half interface {
	~uint16
	Float32() float32
}

// FromFloat32s converts each value of src with FromFloat32.
// It returns nil if src is empty.
func FromFloat32s(src []float32) []F16 {
	if len(src) == 0 {
		return nil
	}
	out := make([]F16, len(src))
	for i, v := range src {
		out[i] = FromFloat32(v)
	}
	return out
}

// BF16FromFloat32s converts each value of src with BF16FromFloat32.
// It returns nil if src is empty.
func BF16FromFloat32s(src []float32) []BF16 {
	if len(src) == 0 {
		return nil
	}
	out := make([]BF16, len(src))
	for i, v := range src {
		out[i] = BF16FromFloat32(v)
	}
	return out
}

// ToFloat32s converts each value of src to float32.
// It returns nil if src is empty.
func ToFloat32s[T Half](src []T) []float32 {
	if len(src) == 0 {
		return nil
	}
	out := make([]float32, len(src))
	for i, v := range src {
		out[i] = v.Float32()
	}
	return out
}
