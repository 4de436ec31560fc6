// Copyright 2024 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package stagebuilder

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequirementsCloneIsIndependent(t *testing.T) {
	require := require.New(t)

	base := NewRequirements().Set(Result)
	clone := base.Clone().Set(RecordID)

	require.True(base.Has(Result))
	require.False(base.Has(RecordID))
	require.True(clone.Has(Result))
	require.True(clone.Has(RecordID))
}

func TestRequirementsNamesStableOrder(t *testing.T) {
	require := require.New(t)

	reqs := NewRequirements().Set(OplogTS).Set(Result).Set(ReturnKey)
	require.Equal([]SlotName{Result, ReturnKey, OplogTS}, reqs.Names())
}

func TestRequirementsIndexKeyBitset(t *testing.T) {
	require := require.New(t)

	reqs := NewRequirements()
	require.False(reqs.HasIndexKeyBitset())

	reqs = reqs.WithIndexKeyBitset([]bool{true, false, true})
	require.True(reqs.HasIndexKeyBitset())
	require.Equal([]bool{true, false, true}, reqs.IndexKeyBitset())

	clone := reqs.Clone()
	clone.IndexKeyBitset()[0] = false
	require.True(reqs.IndexKeyBitset()[0], "clone must not alias the parent's bitset backing array")
}

func TestRequirementsTailableFlagsDefaultFalse(t *testing.T) {
	require := require.New(t)

	reqs := NewRequirements()
	require.False(reqs.IsTailableResumeBranch())
	require.False(reqs.IsBuildingTailableUnion())

	reqs = reqs.withTailableResumeBranch(true).withBuildingTailableUnion(true)
	require.True(reqs.IsTailableResumeBranch())
	require.True(reqs.IsBuildingTailableUnion())
}

func TestBitsetUnion(t *testing.T) {
	testCases := []struct {
		name     string
		a, b     []bool
		expected []bool
	}{
		{"equal length", []bool{true, false}, []bool{false, true}, []bool{true, true}},
		{"a shorter", []bool{true}, []bool{false, true}, []bool{true, true}},
		{"both nil", nil, nil, []bool{}},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, bitsetUnion(tt.a, tt.b))
		})
	}
}

func TestAllTrue(t *testing.T) {
	require.Equal(t, []bool{true, true, true}, allTrue(3))
	require.Equal(t, []bool{}, allTrue(0))
}
