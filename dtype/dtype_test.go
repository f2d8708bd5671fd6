// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package dtype

import (
	"encoding"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ json.Marshaler           = F16
	_ json.Unmarshaler         = new(DType)
	_ encoding.TextMarshaler   = F16
	_ encoding.TextUnmarshaler = new(DType)
	_ fmt.Stringer             = F16
)

func TestDType(t *testing.T) {
	testCases := []struct {
		dt   DType
		name string
		size int
	}{
		{F16, "F16", 2},
		{BF16, "BF16", 2},
		{F32, "F32", 4},
		{F64, "F64", 8},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NoError(t, tc.dt.Validate())
			assert.Equal(t, tc.name, tc.dt.String())
			assert.Equal(t, tc.size, tc.dt.Size())

			parsed, err := Parse(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.dt, parsed)

			j, err := tc.dt.MarshalJSON()
			require.NoError(t, err)
			assert.Equal(t, `"`+tc.name+`"`, string(j))

			var fromJSON DType
			require.NoError(t, fromJSON.UnmarshalJSON(j))
			assert.Equal(t, tc.dt, fromJSON)

			text, err := tc.dt.MarshalText()
			require.NoError(t, err)
			assert.Equal(t, tc.name, string(text))

			var fromText DType
			require.NoError(t, fromText.UnmarshalText(text))
			assert.Equal(t, tc.dt, fromText)
		})
	}
}

func TestDType_Invalid(t *testing.T) {
	for _, dt := range []DType{0, 5, 6, 100, 255} {
		want := fmt.Sprintf("invalid DType(%d)", dt)

		assert.EqualError(t, dt.Validate(), want)
		assert.Equal(t, want, dt.String())
		assert.Equal(t, -1, dt.Size())

		_, err := dt.MarshalJSON()
		assert.EqualError(t, err, want)
		_, err = dt.MarshalText()
		assert.EqualError(t, err, want)
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "f16", "FP16", "U8", "I32", "F8", " F16"} {
		dt, err := Parse(s)
		assert.EqualError(t, err, fmt.Sprintf("invalid DType name %q", s))
		assert.Equal(t, DType(0), dt)
	}
}

func TestDType_UnmarshalJSON_Invalid(t *testing.T) {
	for _, s := range []string{``, `"`, `""`, `F16`, `"f16"`, `"U8"`, `null`, `16`} {
		dt := F32
		err := dt.UnmarshalJSON([]byte(s))
		assert.EqualError(t, err, fmt.Sprintf("failed to JSON-unmarshal DType from value %q", s))
		assert.Equal(t, F32, dt, "unchanged on failure")
	}
}

func TestDType_UnmarshalText_Invalid(t *testing.T) {
	for _, s := range []string{``, `"F16"`, `bf16`, `I64`} {
		dt := F64
		err := dt.UnmarshalText([]byte(s))
		assert.EqualError(t, err, fmt.Sprintf("failed to text-unmarshal DType from value %q", s))
		assert.Equal(t, F64, dt, "unchanged on failure")
	}
}

func TestDType_InJSONDocuments(t *testing.T) {
	type array struct {
		DType DType `json:"dtype"`
	}

	b, err := json.Marshal(array{DType: BF16})
	require.NoError(t, err)
	assert.Equal(t, `{"dtype":"BF16"}`, string(b))

	var a array
	require.NoError(t, json.Unmarshal([]byte(`{"dtype":"F64"}`), &a))
	assert.Equal(t, F64, a.DType)

	assert.Error(t, json.Unmarshal([]byte(`{"dtype":"BOOL"}`), &a))

	counts := map[DType]int{F16: 1, F32: 2}
	b, err = json.Marshal(counts)
	require.NoError(t, err)
	assert.Equal(t, `{"F16":1,"F32":2}`, string(b))
}
