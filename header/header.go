// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package header models the JSON header of a safetensors stream whose
// arrays hold floating-point data.
package header

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Header is the decoded content of a safetensors header.
type Header struct {
	Entries  EntryMap
	Metadata Metadata
	// ByteBufferOffset indicates the byte index position where the byte-buffer
	// is expected to start, relative to the beginning of the whole
	// data stream (or file).
	ByteBufferOffset int
}

// Metadata is the free-form string map stored under the "__metadata__" key.
type Metadata map[string]string

const metadataKey = "__metadata__"

type jsonEntry struct {
	DType       string      `json:"dtype"`
	Shape       Shape       `json:"shape"`
	DataOffsets DataOffsets `json:"data_offsets"`
}

// MarshalJSON satisfies json.Marshaler interface.
//
// Object keys are sorted, so equal headers always produce equal output.
// ByteBufferOffset is not part of the JSON representation.
func (h Header) MarshalJSON() ([]byte, error) {
	obj := make(map[string]any, len(h.Entries)+1)
	if len(h.Metadata) > 0 {
		obj[metadataKey] = h.Metadata
	}
	for name, e := range h.Entries {
		if name == metadataKey {
			return nil, fmt.Errorf("reserved array name %q", name)
		}
		if err := e.DType.Validate(); err != nil {
			return nil, fmt.Errorf("array %q: %w", name, err)
		}
		obj[name] = jsonEntry{
			DType:       e.DType.String(),
			Shape:       e.Shape,
			DataOffsets: e.DataOffsets,
		}
	}
	return json.Marshal(obj)
}

// UnmarshalJSON satisfies json.Unmarshaler interface.
// It applies the same rules as Read to a bare JSON object.
func (h *Header) UnmarshalJSON(b []byte) error {
	raw, err := decodeRawHeader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		return err
	}
	v, err := convertRawHeader(raw)
	if err != nil {
		return err
	}
	*h = v
	return nil
}
