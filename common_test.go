// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package halfpack

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/nlpodyssey/halfpack/dtype"
	"github.com/stretchr/testify/require"
)

// commonDefinitions hold values that every storage width represents
// exactly, so that reading back what was written is lossless.
var commonDefinitions = map[string]struct {
	dType  dtype.DType
	shape  []int
	values []float32
	bytes  []byte
}{
	"f16": {
		dtype.F16, []int{2, 2},
		[]float32{1, -2, 0.5, 65504},
		[]byte{
			0x00, 0x3c /**/, 0x00, 0xc0,
			0x00, 0x38 /**/, 0xff, 0x7b,
		},
	},
	"f16 special values": {
		dtype.F16, []int{3},
		[]float32{float32(math.Inf(1)), float32(math.Inf(-1)), 0},
		[]byte{0x00, 0x7c /**/, 0x00, 0xfc /**/, 0x00, 0x00},
	},
	"bf16": {
		dtype.BF16, []int{2},
		[]float32{1, -3.5},
		[]byte{0x80, 0x3f /**/, 0x60, 0xc0},
	},
	"f32": {
		dtype.F32, []int{2, 2},
		[]float32{1, 2, -1, -2},
		[]byte{
			0x00, 0x00, 0x80, 0x3f /**/, 0x00, 0x00, 0x00, 0x40,
			0x00, 0x00, 0x80, 0xbf /**/, 0x00, 0x00, 0x00, 0xc0,
		},
	},
	"f64": {
		dtype.F64, []int{2},
		[]float32{1, -1},
		[]byte{
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0x3f,
			0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xf0, 0xbf,
		},
	},
	"zero data": {
		dtype.F16, []int{0},
		nil,
		nil,
	},
	"no shape scalar": {
		dtype.F32, nil,
		[]float32{42},
		[]byte{0x00, 0x00, 0x28, 0x42},
	},
}

func makeCommonData(t *testing.T) []byte {
	head := make(map[string]any, len(commonDefinitions))
	byteBuffer := bytes.NewBuffer(nil)

	for name, def := range commonDefinitions {
		shape := def.shape
		if shape == nil {
			shape = []int{}
		}
		head[name] = map[string]any{
			"dtype":        def.dType.String(),
			"shape":        shape,
			"data_offsets": [2]int{byteBuffer.Len(), byteBuffer.Len() + len(def.bytes)},
		}
		_, err := byteBuffer.Write(def.bytes)
		require.NoError(t, err)
	}

	head["__metadata__"] = map[string]string{"meta...": "data!"}

	jsonHeader, err := json.Marshal(head)
	require.NoError(t, err)

	return makeData(string(jsonHeader), byteBuffer.Bytes())
}

func makeData(jsonHeader string, byteBuffer []byte) []byte {
	data := make([]byte, 8+len(jsonHeader)+len(byteBuffer))
	binary.LittleEndian.PutUint64(data, uint64(len(jsonHeader)))
	copy(data[8:8+len(jsonHeader)], jsonHeader)
	copy(data[8+len(jsonHeader):], byteBuffer)
	return data
}

var errWriterFull = errors.New("writer is full")

// limitedWriter accepts up to n bytes, then fails.
type limitedWriter struct {
	bytes.Buffer
	n int
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	if room := w.n - w.Len(); len(p) > room {
		n, _ := w.Buffer.Write(p[:room])
		return n, errWriterFull
	}
	return w.Buffer.Write(p)
}
