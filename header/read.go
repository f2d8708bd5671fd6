// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/nlpodyssey/halfpack/dtype"
)

type rawHeader map[string]map[string]any

// Read reads the 8-byte little-endian header size followed by the JSON
// header from r, leaving r positioned at the start of the byte-buffer.
//
// The returned Header is not validated, see Header.Validate.
func Read(r io.Reader) (Header, error) {
	size, err := readSize(r)
	switch {
	case err != nil:
		return Header{}, err
	case size < 2: // "{}" is the smallest valid header
		return Header{}, fmt.Errorf("header size too small: %d", size)
	case size > math.MaxInt-8: // the 8 size bytes are already consumed
		return Header{}, fmt.Errorf("header size too large: %d", size)
	}

	raw, err := decodeRawHeader(r, int64(size))
	if err != nil {
		return Header{}, fmt.Errorf("failed to JSON-decode header: %w", err)
	}

	h, err := convertRawHeader(raw)
	if err != nil {
		return Header{}, err
	}
	h.ByteBufferOffset = 8 + int(size)
	return h, nil
}

func readSize(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("failed to read header size: %w", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func decodeRawHeader(r io.Reader, size int64) (rawHeader, error) {
	dec := json.NewDecoder(&io.LimitedReader{R: r, N: size})
	dec.UseNumber()

	var raw rawHeader
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	// Only whitespace padding may follow the JSON object.
	if off := dec.InputOffset(); off != size {
		if _, err := dec.Token(); err == nil {
			return nil, fmt.Errorf("unexpected data at byte offset %d", off)
		} else if err != io.EOF {
			return nil, err
		}
	}
	return raw, nil
}

func convertRawHeader(raw rawHeader) (h Header, err error) {
	if rawMeta, ok := raw[metadataKey]; ok {
		delete(raw, metadataKey)
		if h.Metadata, err = convertRawMetadata(rawMeta); err != nil {
			return Header{}, err
		}
	}
	if h.Entries, err = convertRawEntries(raw); err != nil {
		return Header{}, err
	}
	return h, nil
}

func convertRawMetadata(raw map[string]any) (Metadata, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	metadata := make(Metadata, len(raw))
	for key, value := range raw {
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("failed to interpret header metadata: found non-string value for key %q", key)
		}
		metadata[key] = s
	}
	return metadata, nil
}

func convertRawEntries(raw rawHeader) (EntryMap, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	entries := make(EntryMap, len(raw))
	for name, fields := range raw {
		e, err := convertRawEntry(name, fields)
		if err != nil {
			return nil, fmt.Errorf("failed to interpret header array %q: %w", name, err)
		}
		entries[name] = e
	}
	return entries, nil
}

func convertRawEntry(name string, raw map[string]any) (Entry, error) {
	if raw == nil {
		return Entry{}, errors.New("value is not a JSON object")
	}
	dt, err := convertRawDType(raw)
	if err != nil {
		return Entry{}, err
	}
	shape, err := convertRawShape(raw)
	if err != nil {
		return Entry{}, err
	}
	offsets, err := convertRawDataOffsets(raw)
	if err != nil {
		return Entry{}, err
	}
	if len(raw) != 3 {
		return Entry{}, errors.New("JSON object contains unknown keys")
	}
	return Entry{Name: name, DType: dt, Shape: shape, DataOffsets: offsets}, nil
}

func convertRawDType(raw map[string]any) (dtype.DType, error) {
	value, ok := raw["dtype"]
	if !ok {
		return 0, errors.New(`"dtype" is missing`)
	}
	s, ok := value.(string)
	if !ok {
		return 0, errors.New(`found non-string "dtype" value`)
	}
	dt, err := dtype.Parse(s)
	if err != nil {
		return 0, fmt.Errorf(`invalid "dtype" value: %q`, s)
	}
	return dt, nil
}

func convertRawShape(raw map[string]any) (Shape, error) {
	items, err := rawIntArray(raw, "shape")
	if err != nil {
		return nil, err
	}
	shape := make(Shape, len(items))
	for i, item := range items {
		if shape[i], err = convertNonNegInt(item); err != nil {
			return nil, fmt.Errorf(`failed to interpret "shape" value at index %d: %w`, i, err)
		}
	}
	return shape, nil
}

func convertRawDataOffsets(raw map[string]any) (DataOffsets, error) {
	items, err := rawIntArray(raw, "data_offsets")
	if err != nil {
		return DataOffsets{}, err
	}
	if n := len(items); n != 2 {
		return DataOffsets{}, fmt.Errorf(`bad "data_offsets" length: expected 2, actual %d`, n)
	}
	var bounds [2]int
	for i, item := range items {
		if bounds[i], err = convertNonNegInt(item); err != nil {
			return DataOffsets{}, fmt.Errorf(`failed to interpret "data_offsets" value at index %d: %w`, i, err)
		}
	}
	return DataOffsets{Begin: bounds[0], End: bounds[1]}, nil
}

func rawIntArray(raw map[string]any, key string) ([]any, error) {
	value, ok := raw[key]
	if !ok {
		return nil, fmt.Errorf("%q is missing", key)
	}
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("found non-array %q value", key)
	}
	return items, nil
}

func convertNonNegInt(value any) (int, error) {
	num, ok := value.(json.Number)
	if !ok {
		return 0, errors.New("value is not a number")
	}
	n, err := strconv.ParseInt(num.String(), 10, strconv.IntSize)
	if err != nil {
		return 0, fmt.Errorf("failed to convert value %q to int: %w", num.String(), err)
	}
	if n < 0 {
		return 0, fmt.Errorf("value is negative: %d", n)
	}
	return int(n), nil
}
