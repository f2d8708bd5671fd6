// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package halfpack

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/nlpodyssey/halfpack/dtype"
	"github.com/nlpodyssey/halfpack/float16"
)

// writeChunkSize bounds the buffer used to write encoded values.
const writeChunkSize = 4096

type appendFunc func(b []byte, v float32) []byte

func appender(dt dtype.DType) (appendFunc, error) {
	switch dt {
	case dtype.F16:
		return func(b []byte, v float32) []byte {
			return binary.LittleEndian.AppendUint16(b, float16.EncodeHalf(v))
		}, nil
	case dtype.BF16:
		return func(b []byte, v float32) []byte {
			return binary.LittleEndian.AppendUint16(b, float16.BF16FromFloat32(v).Bits())
		}, nil
	case dtype.F32:
		return func(b []byte, v float32) []byte {
			return binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
		}, nil
	case dtype.F64:
		return func(b []byte, v float32) []byte {
			return binary.LittleEndian.AppendUint64(b, math.Float64bits(float64(v)))
		}, nil
	}
	return nil, fmt.Errorf("invalid or unsupported DType: %s", dt)
}

func writeValues(w io.Writer, dt dtype.DType, values []float32) (int64, error) {
	appendValue, err := appender(dt)
	if err != nil {
		return 0, err
	}

	buf := make([]byte, 0, writeChunkSize)
	var written int64
	for i, v := range values {
		buf = appendValue(buf, v)
		if len(buf)+dt.Size() <= writeChunkSize && i < len(values)-1 {
			continue
		}
		n, err := w.Write(buf)
		written += int64(n)
		if err != nil {
			return written, err
		}
		buf = buf[:0]
	}
	return written, nil
}

// decodeValues interprets little-endian data of the given type.
// It returns nil if data is empty.
func decodeValues(dt dtype.DType, data []byte) ([]float32, error) {
	size := dt.Size()
	if size < 0 {
		return nil, fmt.Errorf("invalid or unsupported DType: %s", dt)
	}
	if len(data)%size != 0 {
		return nil, fmt.Errorf("data length %d is not a multiple of %s size %d", len(data), dt, size)
	}
	if len(data) == 0 {
		return nil, nil
	}

	out := make([]float32, len(data)/size)
	switch dt {
	case dtype.F16:
		for i := range out {
			out[i] = float16.DecodeHalf(binary.LittleEndian.Uint16(data[i*2:]))
		}
	case dtype.BF16:
		for i := range out {
			out[i] = float16.BF16(binary.LittleEndian.Uint16(data[i*2:])).Float32()
		}
	case dtype.F32:
		for i := range out {
			out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
		}
	case dtype.F64:
		for i := range out {
			out[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(data[i*8:])))
		}
	}
	return out, nil
}
