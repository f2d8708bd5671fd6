// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package halfpack

import (
	"fmt"
	"io"
	"math"

	"github.com/nlpodyssey/halfpack/dtype"
	"github.com/nlpodyssey/halfpack/header"
)

// An Array of float32 values, with the data type used to store them.
//
// Values are always held in memory as float32. The DType only decides
// their width once serialized: writing an F16 or BF16 array is lossy
// (see package float16 for the exact conversion rules), while F32 is
// exact and F64 is a lossless widening.
type Array struct {
	name   string
	dType  dtype.DType
	shape  []int
	values []float32
}

// NewArray performs validity checks over the given properties and returns
// an Array with those properties if validation succeeds, otherwise an error.
//
// Validation rules:
//   - an empty name ("") is allowed
//   - the dType must be valid (see dtype.DType.Validate)
//   - an empty or nil shape is allowed (a scalar value is implied)
//   - the shape must not contain negative values
//   - the number of values must match the shape
//   - the serialized byte size must fit an int
//
// The shape is copied. The values are NOT copied: later changes to the
// given slice are visible through the Array.
func NewArray(name string, dType dtype.DType, shape []int, values []float32) (Array, error) {
	if err := dType.Validate(); err != nil {
		return Array{}, err
	}
	n, err := header.Shape(shape).NumElements()
	if err != nil {
		return Array{}, err
	}
	if n != len(values) {
		return Array{}, fmt.Errorf("the size computed from shape (%d) does not match values length (%d)", n, len(values))
	}
	byteSize, err := checkedMul(uint64(n), uint64(dType.Size()))
	if err != nil || byteSize > math.MaxInt {
		return Array{}, fmt.Errorf("array byte size overflows int: %d values of %s", n, dType)
	}
	return Array{
		name:   name,
		dType:  dType,
		shape:  copyShape(shape),
		values: values,
	}, nil
}

// NewCompactArray is like NewArray, with the data type chosen by ChooseDType.
func NewCompactArray(name string, shape []int, values []float32, tolerance float64) (Array, error) {
	return NewArray(name, ChooseDType(values, tolerance), shape, values)
}

// The Name of the array.
func (a Array) Name() string {
	return a.name
}

// DType returns the storage data type of the array.
func (a Array) DType() dtype.DType {
	return a.dType
}

// The Shape of the array.
//
// If the shape is zero-length, it returns nil, otherwise a new slice
// is allocated and returned.
func (a Array) Shape() []int {
	return copyShape(a.shape)
}

// Values returns the array values. The slice is NOT a copy.
func (a Array) Values() []float32 {
	return a.values
}

// ByteSize returns the length of the serialized array data.
func (a Array) ByteSize() int {
	return len(a.values) * a.dType.Size()
}

// WriteTo converts the values to the array's storage width, writing
// little-endian bytes to w. It satisfies io.WriterTo interface.
func (a Array) WriteTo(w io.Writer) (int64, error) {
	return writeValues(w, a.dType, a.values)
}

func copyShape(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	s := make([]int, len(shape))
	copy(s, shape)
	return s
}
