// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package halfpack

import (
	"fmt"
	"io"
	"sort"

	"github.com/nlpodyssey/halfpack/dtype"
	"github.com/nlpodyssey/halfpack/header"
)

// LazyFile reads the header of a safetensors stream up front, and loads
// the data of individual arrays only on request.
//
// It is not safe for concurrent use: every load seeks the shared reader.
type LazyFile struct {
	rs       io.ReadSeeker
	entries  header.EntryMap
	metadata header.Metadata
	// dataOffset is the byte-buffer offset relative to the start of rs
	dataOffset int64
}

// LazyArray describes an array of a LazyFile and loads its data on request.
type LazyArray struct {
	rs         io.ReadSeeker
	e          header.Entry
	dataOffset int64
}

// NewLazy reads from rs the safetensors header and validates it, then
// returns a new LazyFile in case of success, otherwise nil and an error.
//
// See ReadAll for the meaning of headerSizeLimit.
//
// The current seek position of rs is used as a base for all further
// seek-based operations. rs must stay usable as long as the LazyFile,
// or any LazyArray obtained from it, is in use. Arrays already loaded
// are independent of it.
func NewLazy(rs io.ReadSeeker, headerSizeLimit int) (*LazyFile, error) {
	initialOffset, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("failed to get initial offset: %w", err)
	}

	head, err := readValidHeader(rs, headerSizeLimit)
	if err != nil {
		return nil, err
	}

	dataOffset, err := checkedAddNonNegInt64(initialOffset, int64(head.ByteBufferOffset))
	if err != nil {
		return nil, fmt.Errorf("failed to calculate total byte-buffer offset: %w", err)
	}

	return &LazyFile{
		rs:         rs,
		entries:    head.Entries,
		metadata:   head.Metadata,
		dataOffset: dataOffset,
	}, nil
}

// Metadata returns the free-form key/value string pairs read from the
// header, without copy. It can be nil.
func (f *LazyFile) Metadata() map[string]string {
	return f.metadata
}

// ArrayNames returns the sorted names of all arrays, or nil if there are none.
func (f *LazyFile) ArrayNames() []string {
	if len(f.entries) == 0 {
		return nil
	}
	names := make([]string, 0, len(f.entries))
	for name := range f.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AllArrays reads and decodes the data of every array, in the order their
// data appears in the stream.
func (f *LazyFile) AllArrays() ([]Array, error) {
	if _, err := f.rs.Seek(f.dataOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to byte-buffer offset: %w", err)
	}
	return readAllArrays(f.entries, f.rs, true)
}

// AllRawArrays is similar to AllArrays, but returns RawArray objects.
func (f *LazyFile) AllRawArrays() ([]RawArray, error) {
	if _, err := f.rs.Seek(f.dataOffset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to byte-buffer offset: %w", err)
	}
	return readAllRawArrays(f.entries, f.rs, true)
}

// LazyArray returns a LazyArray by its name, and whether it has been found.
func (f *LazyFile) LazyArray(name string) (_ LazyArray, ok bool) {
	e, ok := f.entries[name]
	if !ok {
		return LazyArray{}, false
	}
	return LazyArray{
		rs:         f.rs,
		e:          e,
		dataOffset: f.dataOffset,
	}, true
}

// Name returns the name of the array.
func (la LazyArray) Name() string {
	return la.e.Name
}

// DType returns the storage data type of the array.
func (la LazyArray) DType() dtype.DType {
	return la.e.DType
}

// Shape returns a copy of the shape of the array, or nil if it is empty.
func (la LazyArray) Shape() []int {
	return copyShape(la.e.Shape)
}

// Array reads and decodes the array data, returning a new Array.
func (la LazyArray) Array() (Array, error) {
	ra, err := la.RawArray()
	if err != nil {
		return Array{}, err
	}
	return ra.Decode()
}

// RawArray reads the array data, returning a new RawArray.
func (la LazyArray) RawArray() (RawArray, error) {
	data, err := la.ReadData()
	if err != nil {
		return RawArray{}, err
	}
	return RawArray{
		name:  la.e.Name,
		dType: la.e.DType,
		shape: copyShape(la.e.Shape),
		data:  data,
	}, nil
}

// ReadData reads and returns the raw little-endian data of the array.
func (la LazyArray) ReadData() ([]byte, error) {
	size := la.e.DataOffsets.Len()
	if size == 0 {
		return nil, nil
	}
	if err := la.seekData(); err != nil {
		return nil, err
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(la.rs, data); err != nil {
		return nil, fmt.Errorf("failed to read array data: %w", err)
	}
	return data, nil
}

// WriteTo copies the raw array data to w with io.CopyN, without loading
// it all in memory. It satisfies io.WriterTo interface.
func (la LazyArray) WriteTo(w io.Writer) (int64, error) {
	size := la.e.DataOffsets.Len()
	if size == 0 {
		return 0, nil
	}
	if err := la.seekData(); err != nil {
		return 0, err
	}
	return io.CopyN(w, la.rs, int64(size))
}

func (la LazyArray) seekData() error {
	offset, err := checkedAddNonNegInt64(la.dataOffset, int64(la.e.DataOffsets.Begin))
	if err != nil {
		return fmt.Errorf("failed to calculate array data offset: %w", err)
	}
	if _, err = la.rs.Seek(offset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to array data offset: %w", err)
	}
	return nil
}
