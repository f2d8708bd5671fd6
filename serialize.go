// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package halfpack

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/nlpodyssey/halfpack/dtype"
	"github.com/nlpodyssey/halfpack/header"
)

// SerializableArray is implemented by any array object whose data can be
// serialized to safetensors format, such as Array, RawArray and LazyArray.
type SerializableArray interface {
	Name() string
	DType() dtype.DType
	Shape() []int
	io.WriterTo
}

// Serialize the given arrays and additional metadata to safetensors format,
// writing the result to w. Array data is laid out in the given order.
func Serialize[T SerializableArray](w io.Writer, arrays []T, metadata map[string]string) error {
	entries, err := makeEntries(arrays)
	if err != nil {
		return err
	}
	head, err := makeValidHeader(entries, metadata)
	if err != nil {
		return err
	}
	if err = writeHeader(w, head); err != nil {
		return err
	}
	return writeArrays(w, arrays, entries)
}

func makeEntries[T SerializableArray](arrays []T) (header.EntrySlice, error) {
	out := make(header.EntrySlice, len(arrays))
	offset := 0
	for i, a := range arrays {
		e := header.Entry{
			Name:  a.Name(),
			DType: a.DType(),
			Shape: a.Shape(),
		}
		size, err := e.ByteSize()
		if err != nil {
			return nil, fmt.Errorf("invalid array %q: %w", e.Name, err)
		}
		end, err := checkedAddNonNegInt64(int64(offset), int64(size))
		if err != nil {
			return nil, fmt.Errorf("invalid array %q: data offset: %w", e.Name, err)
		}
		e.DataOffsets = header.DataOffsets{Begin: offset, End: int(end)}
		out[i] = e
		offset = int(end)
	}
	return out, nil
}

func makeValidHeader(entries header.EntrySlice, metadata map[string]string) (header.Header, error) {
	em := make(header.EntryMap, len(entries))
	for _, e := range entries {
		if _, ok := em[e.Name]; ok {
			return header.Header{}, fmt.Errorf("duplicate array name %q", e.Name)
		}
		em[e.Name] = e
	}
	head := header.Header{
		Entries:  em,
		Metadata: metadata,
	}
	if err := head.Validate(); err != nil {
		return header.Header{}, fmt.Errorf("failed to generate a valid header: %w", err)
	}
	return head, nil
}

var headerPadding = [8]byte{' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}

func writeHeader(w io.Writer, head header.Header) error {
	jsonHeader, err := head.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to JSON-marshal header: %w", err)
	}

	// data must start on an 8-byte boundary
	toAlign := (8 - len(jsonHeader)%8) % 8

	var size [8]byte
	binary.LittleEndian.PutUint64(size[:], uint64(len(jsonHeader)+toAlign))
	if _, err = w.Write(size[:]); err != nil {
		return fmt.Errorf("failed to write header size: %w", err)
	}
	if _, err = w.Write(jsonHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if toAlign > 0 {
		if _, err = w.Write(headerPadding[:toAlign]); err != nil {
			return fmt.Errorf("failed to write header padding: %w", err)
		}
	}
	return nil
}

func writeArrays[T SerializableArray](w io.Writer, arrays []T, entries header.EntrySlice) error {
	for i, a := range arrays {
		e := entries[i]
		n, err := a.WriteTo(w)
		if err != nil {
			return fmt.Errorf("failed to write data of array %q: %w", e.Name, err)
		}
		if want := int64(e.DataOffsets.Len()); n != want {
			return fmt.Errorf("failed to write data of array %q: expected %d written bytes, actual %d", e.Name, want, n)
		}
	}
	return nil
}
