// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package halfpack

import (
	"math"

	"github.com/nlpodyssey/halfpack/dtype"
	"github.com/nlpodyssey/halfpack/float16"
)

// ChooseDType returns the narrowest data type able to store all values
// within the given relative tolerance: F16, then BF16, falling back to F32.
//
// A value fits a type if converting it there and back yields the same
// bits, or a finite result whose relative error is at most tolerance.
// With a tolerance of zero (or less) only exact conversions fit.
// Infinities must keep their sign and NaN must stay NaN, so a NaN never
// fits F16, whose encoder turns it into an infinity. Values flushed to
// zero have a relative error of 1.
//
// An empty slice fits any type, and F16 is returned.
func ChooseDType(values []float32, tolerance float64) dtype.DType {
	switch {
	case fitsAll(values, tolerance, halfRoundTrip):
		return dtype.F16
	case fitsAll(values, tolerance, brainRoundTrip):
		return dtype.BF16
	}
	return dtype.F32
}

func halfRoundTrip(v float32) float32 {
	return float16.DecodeHalf(float16.EncodeHalf(v))
}

func brainRoundTrip(v float32) float32 {
	return float16.BF16FromFloat32(v).Float32()
}

func fitsAll(values []float32, tolerance float64, roundTrip func(float32) float32) bool {
	for _, v := range values {
		if !withinTolerance(v, roundTrip(v), tolerance) {
			return false
		}
	}
	return true
}

func withinTolerance(want, got float32, tolerance float64) bool {
	if math.Float32bits(want) == math.Float32bits(got) {
		return true
	}
	w, g := float64(want), float64(got)
	switch {
	case math.IsNaN(w) || math.IsNaN(g):
		return math.IsNaN(w) && math.IsNaN(g)
	case math.IsInf(w, 0) || math.IsInf(g, 0):
		return false
	case tolerance <= 0:
		return false
	}
	return math.Abs(w-g) <= tolerance*math.Abs(w)
}
