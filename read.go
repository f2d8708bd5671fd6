// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package halfpack

import (
	"fmt"
	"io"

	"github.com/nlpodyssey/halfpack/header"
)

// File is the result of reading the full content of a safetensors data
// stream (or file), with every array decoded to float32 values.
type File struct {
	Arrays   []Array
	Metadata map[string]string
}

// RawFile is like File, with arrays kept in their serialized form.
type RawFile struct {
	Arrays   []RawArray
	Metadata map[string]string
}

// ReadAll reads and interprets the whole content of a safetensors data
// stream (or file). After reading successfully the header part, the data
// of each array is read and decoded to float32 values. Arrays are returned
// in the order their data appears in the stream.
//
// If headerSizeLimit is set to a positive number, its value is used to
// limit the reading of the header. This guards against tampered or garbage
// data, avoiding giant memory allocations to hold header information.
// A value of zero, or a negative number, have no limiting effects.
func ReadAll(r io.Reader, headerSizeLimit int) (File, error) {
	head, err := readValidHeader(r, headerSizeLimit)
	if err != nil {
		return File{}, err
	}
	arrays, err := readAllArrays(head.Entries, r, false)
	if err != nil {
		return File{}, err
	}
	return File{
		Arrays:   arrays,
		Metadata: head.Metadata,
	}, nil
}

// ReadAllRaw is similar to ReadAll, but returns raw arrays data.
func ReadAllRaw(r io.Reader, headerSizeLimit int) (RawFile, error) {
	head, err := readValidHeader(r, headerSizeLimit)
	if err != nil {
		return RawFile{}, err
	}
	arrays, err := readAllRawArrays(head.Entries, r, false)
	if err != nil {
		return RawFile{}, err
	}
	return RawFile{
		Arrays:   arrays,
		Metadata: head.Metadata,
	}, nil
}

// Array returns the array with the given name, and whether it was found.
func (f File) Array(name string) (Array, bool) {
	for _, a := range f.Arrays {
		if a.name == name {
			return a, true
		}
	}
	return Array{}, false
}

func readValidHeader(r io.Reader, sizeLimit int) (header.Header, error) {
	if sizeLimit > 0 {
		r = io.LimitReader(r, int64(sizeLimit))
	}
	head, err := header.Read(r)
	if err != nil {
		return header.Header{}, fmt.Errorf("failed to read safetensors header: %w", err)
	}
	if err = head.Validate(); err != nil {
		return header.Header{}, fmt.Errorf("safetensors header is invalid: %w", err)
	}
	return head, nil
}

func readAllArrays(em header.EntryMap, r io.Reader, safeCopy bool) ([]Array, error) {
	raws, err := readAllRawArrays(em, r, safeCopy)
	if err != nil {
		return nil, err
	}
	out := make([]Array, len(raws))
	for i, ra := range raws {
		if out[i], err = ra.Decode(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func readAllRawArrays(em header.EntryMap, r io.Reader, safeCopy bool) ([]RawArray, error) {
	entries := em.Slice()
	entries.SortByDataOffsets()

	out := make([]RawArray, len(entries))
	for i, e := range entries {
		var err error
		if out[i], err = readRawArray(e, r, safeCopy); err != nil {
			return nil, fmt.Errorf("failed to read data of array %q: %w", e.Name, err)
		}
	}
	return out, nil
}

func readRawArray(e header.Entry, r io.Reader, safeCopy bool) (RawArray, error) {
	shape := []int(e.Shape)
	if safeCopy {
		shape = copyShape(shape)
	}
	ra := RawArray{
		name:  e.Name,
		dType: e.DType,
		shape: shape,
	}

	size := e.DataOffsets.Len()
	if size == 0 {
		return ra, nil
	}
	ra.data = make([]byte, size)
	if _, err := io.ReadFull(r, ra.data); err != nil {
		return RawArray{}, fmt.Errorf("failed to read array data: %w", err)
	}
	return ra, nil
}
