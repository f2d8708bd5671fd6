// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dtype enumerates the floating-point widths an array can be
// stored with.
package dtype

import (
	"fmt"
)

// DType represents the storage data type of an array's elements.
type DType uint8

const (
	// F16 represents a 16-bit half-precision floating point data type.
	F16 DType = iota + 1
	// BF16 represents a 16-bit brain floating point data type.
	BF16
	// F32 represents a 32-bit floating point data type.
	F32
	// F64 represents a 64-bit floating point data type.
	F64
)

type dTypeInfo struct {
	name string
	size int
}

var dTypes = [...]dTypeInfo{
	F16:  {"F16", 2},
	BF16: {"BF16", 2},
	F32:  {"F32", 4},
	F64:  {"F64", 8},
}

// Validate returns an error if the DType is not valid, otherwise nil.
func (dt DType) Validate() error {
	if dt == 0 || int(dt) >= len(dTypes) {
		return fmt.Errorf("invalid DType(%d)", dt)
	}
	return nil
}

// String returns a string representation of a DType.
func (dt DType) String() string {
	if err := dt.Validate(); err != nil {
		return err.Error()
	}
	return dTypes[dt].name
}

// Size returns the size in bytes of one element of this data type,
// or -1 if the DType value is invalid.
func (dt DType) Size() int {
	if err := dt.Validate(); err != nil {
		return -1
	}
	return dTypes[dt].size
}

// Parse returns the DType whose name is s.
func Parse(s string) (DType, error) {
	for dt := F16; dt <= F64; dt++ {
		if dTypes[dt].name == s {
			return dt, nil
		}
	}
	return 0, fmt.Errorf("invalid DType name %q", s)
}

// MarshalJSON satisfies json.Marshaler interface.
func (dt DType) MarshalJSON() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(`"` + dTypes[dt].name + `"`), nil
}

// UnmarshalJSON satisfies json.Unmarshaler interface.
func (dt *DType) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		if v, err := Parse(s[1 : len(s)-1]); err == nil {
			*dt = v
			return nil
		}
	}
	return fmt.Errorf("failed to JSON-unmarshal DType from value %q", s)
}

// MarshalText satisfies encoding.TextMarshaler interface.
func (dt DType) MarshalText() ([]byte, error) {
	if err := dt.Validate(); err != nil {
		return nil, err
	}
	return []byte(dTypes[dt].name), nil
}

// UnmarshalText satisfies encoding.TextUnmarshaler interface.
func (dt *DType) UnmarshalText(text []byte) error {
	v, err := Parse(string(text))
	if err != nil {
		return fmt.Errorf("failed to text-unmarshal DType from value %q", text)
	}
	*dt = v
	return nil
}
