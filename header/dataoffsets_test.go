// Copyright 2023 The NLP Odyssey Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package header

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataOffsets_JSON(t *testing.T) {
	for _, src := range []string{"[0,0]", "[1,2]", "[12,92]"} {
		var d DataOffsets
		require.NoError(t, json.Unmarshal([]byte(src), &d))

		b, err := json.Marshal(d)
		require.NoError(t, err)
		assert.Equal(t, src, string(b))
	}

	var d DataOffsets
	require.NoError(t, d.UnmarshalJSON([]byte(" [ 3 , 7 ] ")))
	assert.Equal(t, DataOffsets{Begin: 3, End: 7}, d)

	for _, src := range []string{"null", "{}", "[]", "[1]", "[1,2,3]", `["1",2]`, "["} {
		var d DataOffsets
		assert.Error(t, d.UnmarshalJSON([]byte(src)), src)
	}
}

func TestDataOffsets_Len(t *testing.T) {
	assert.Equal(t, 0, DataOffsets{}.Len())
	assert.Equal(t, 0, DataOffsets{Begin: 4, End: 4}.Len())
	assert.Equal(t, 6, DataOffsets{Begin: 2, End: 8}.Len())
}

func TestDataOffsets_Less(t *testing.T) {
	dOff := func(b, e int) DataOffsets { return DataOffsets{Begin: b, End: e} }

	testCases := []struct {
		a    DataOffsets
		b    DataOffsets
		want bool
	}{
		{dOff(1, 2), dOff(1, 2), false},
		{dOff(1, 2), dOff(3, 4), true},
		{dOff(3, 4), dOff(1, 2), false},
		{dOff(1, 2), dOff(1, 3), true},
		{dOff(1, 3), dOff(1, 2), false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, tc.a.Less(tc.b))
	}
}
