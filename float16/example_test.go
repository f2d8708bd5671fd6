// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package float16_test

import (
	"fmt"

	"github.com/nlpodyssey/halfpack/float16"
)

func ExampleEncodeHalf() {
	for _, v := range []float32{1, -2.5, 3.14159, 70000, 1e-7} {
		fmt.Printf("%g -> %#04x\n", v, float16.EncodeHalf(v))
	}

	// Output:
	// 1 -> 0x3c00
	// -2.5 -> 0xc100
	// 3.14159 -> 0x4248
	// 70000 -> 0x7c00
	// 1e-07 -> 0x0000
}

func ExampleDecodeHalf() {
	for _, h := range []uint16{0x3c00, 0xc100, 0x4248, 0x7bff, 0xfc00} {
		fmt.Printf("%#04x -> %g\n", h, float16.DecodeHalf(h))
	}

	// Output:
	// 0x3c00 -> 1
	// 0xc100 -> -2.5
	// 0x4248 -> 3.140625
	// 0x7bff -> 65504
	// 0xfc00 -> -Inf
}
