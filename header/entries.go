// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"sort"

	"github.com/nlpodyssey/halfpack/dtype"
)

// Entry describes one array of a safetensors stream.
type Entry struct {
	Name        string
	DType       dtype.DType
	Shape       Shape
	DataOffsets DataOffsets
}

// EntryMap associates each Entry with its name.
type EntryMap map[string]Entry

// EntrySlice is a list of entries.
type EntrySlice []Entry

// Slice returns the entries of the map in no particular order, or nil if
// the map is empty.
func (em EntryMap) Slice() EntrySlice {
	if len(em) == 0 {
		return nil
	}
	es := make(EntrySlice, 0, len(em))
	for _, e := range em {
		es = append(es, e)
	}
	return es
}

// SortByDataOffsets sorts the entries by ascending data offsets,
// which is the order their data appears in the byte-buffer.
func (es EntrySlice) SortByDataOffsets() {
	sort.Slice(es, func(i, j int) bool {
		return es[i].DataOffsets.Less(es[j].DataOffsets)
	})
}
