// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import "encoding/json"

// Shape lists the dimensions of an array in row-major order. An empty
// shape is a scalar holding one element. The byte size of an array is the
// product of its dimensions multiplied by the size of its floating-point
// dtype (2 bytes for F16 and BF16, 4 for F32, 8 for F64).
type Shape []int

// MarshalJSON satisfies json.Marshaler interface.
// A nil Shape is written as an empty array, never as null.
func (s Shape) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(s))
}
