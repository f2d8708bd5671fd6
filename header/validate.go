// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"fmt"
	"math"
	"math/bits"
)

// Validate checks that the entries are consistent with each other: every
// name matches its map key, the data offsets cover the byte-buffer from
// zero without holes or overlaps, and each byte length equals the shape
// size multiplied by the dtype size.
func (h Header) Validate() error {
	if h.ByteBufferOffset < 0 {
		return fmt.Errorf("invalid byte-buffer offset negative value %d", h.ByteBufferOffset)
	}
	for name, e := range h.Entries {
		if name != e.Name {
			return fmt.Errorf("array names mismatch: EntryMap key %q, Entry.Name %q", name, e.Name)
		}
	}

	es := h.Entries.Slice()
	es.SortByDataOffsets()

	begin := 0
	for _, e := range es {
		if err := e.validate(begin); err != nil {
			return fmt.Errorf("invalid array %q: %w", e.Name, err)
		}
		begin = e.DataOffsets.End
	}
	return nil
}

func (e Entry) validate(begin int) error {
	if e.DataOffsets.Begin != begin {
		return fmt.Errorf("expected data-offsets begin %d, actual %d", begin, e.DataOffsets.Begin)
	}
	if e.DataOffsets.End < e.DataOffsets.Begin {
		return fmt.Errorf("expected data-offsets end >= %d (begin), actual %d", e.DataOffsets.Begin, e.DataOffsets.End)
	}
	byteSize, err := e.ByteSize()
	if err != nil {
		return err
	}
	if n := e.DataOffsets.Len(); n != byteSize {
		return fmt.Errorf("byte size computed from shape (%d) differs from data-offsets size (%d)", byteSize, n)
	}
	return nil
}

// ByteSize returns the number of bytes required by the entry's data,
// computed from its shape and dtype.
func (e Entry) ByteSize() (int, error) {
	if err := e.DType.Validate(); err != nil {
		return 0, err
	}
	n, err := e.Shape.NumElements()
	if err != nil {
		return 0, err
	}
	hi, size := bits.Mul(uint(n), uint(e.DType.Size()))
	if hi != 0 {
		return 0, fmt.Errorf("int overflow computing array byte size from shape")
	}
	if size > math.MaxInt {
		return 0, fmt.Errorf("array byte size computed from shape is too large for int type: %d", size)
	}
	return int(size), nil
}

// NumElements returns the product of the dimensions of s, which is 1 for
// an empty shape.
func (s Shape) NumElements() (int, error) {
	size := uint(1)
	for _, v := range s {
		if v < 0 {
			return 0, fmt.Errorf("shape contains negative value %d", v)
		}
		var hi uint
		if hi, size = bits.Mul(size, uint(v)); hi != 0 {
			return 0, fmt.Errorf("int overflow computing array elements size from shape")
		}
	}
	if size > math.MaxInt {
		return 0, fmt.Errorf("array elements size computed from shape is too large for int type: %d", size)
	}
	return int(size), nil
}
