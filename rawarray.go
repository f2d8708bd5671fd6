// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package halfpack

import (
	"fmt"
	"io"

	"github.com/nlpodyssey/halfpack/dtype"
)

// RawArray is an array with data fully loaded in memory, kept in its
// serialized form: little-endian elements of DType, row-major ("C") order,
// no striding.
//
// Unlike Array, nothing is converted, so a RawArray can be copied to
// another stream without any loss.
type RawArray struct {
	name  string
	dType dtype.DType
	shape []int
	data  []byte
}

// The Name of the array.
func (ra RawArray) Name() string {
	return ra.name
}

// DType returns the storage data type of the array.
func (ra RawArray) DType() dtype.DType {
	return ra.dType
}

// The Shape of the array. It can be nil.
func (ra RawArray) Shape() []int {
	return ra.shape
}

// Data returns the raw data of the array.
func (ra RawArray) Data() []byte {
	return ra.data
}

// Decode converts the raw data to float32 values, returning a new Array.
func (ra RawArray) Decode() (Array, error) {
	values, err := decodeValues(ra.dType, ra.data)
	if err != nil {
		return Array{}, fmt.Errorf("failed to decode array %q: %w", ra.name, err)
	}
	return NewArray(ra.name, ra.dType, ra.shape, values)
}

// WriteTo writes the raw data to w. It satisfies io.WriterTo interface.
func (ra RawArray) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(ra.data)
	return int64(n), err
}
