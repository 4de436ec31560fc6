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

package qsn

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTagStringCoversEveryTag(t *testing.T) {
	require := require.New(t)

	tags := []Tag{
		CollScan, VirtualScan, IxScan, Fetch, Limit, Skip,
		SortSimple, SortDefault, SortKeyGenerator,
		ProjSimple, ProjCovered, ProjDefault,
		Or, TextOr, TextMatch, ReturnKey, EOF,
		AndHash, AndSorted, SortMerge, ShardingFilter,
	}
	seen := map[string]bool{}
	for _, tag := range tags {
		s := tag.String()
		require.NotEqual("UNKNOWN", s, "tag %d has no String() case", tag)
		require.False(seen[s], "duplicate Tag.String() value %q", s)
		seen[s] = true
	}
}

func TestTagStringUnknownValue(t *testing.T) {
	require.Equal(t, "UNKNOWN", Tag(9999).String())
}

func TestNewIDSetsPlanNodeID(t *testing.T) {
	require := require.New(t)
	n := &CollScanNode{base: NewID(42), Namespace: "test"}
	require.Equal(int64(42), n.PlanNodeID())
}

func TestNodeTagAndChildrenDispatch(t *testing.T) {
	require := require.New(t)

	leaf := &CollScanNode{Namespace: "test"}
	require.Equal(CollScan, leaf.Tag())
	require.Nil(leaf.Children())

	fetch := &FetchNode{Child: leaf}
	require.Equal(Fetch, fetch.Tag())
	require.Equal([]Node{leaf}, fetch.Children())

	or := &OrNode{Subnodes: []Node{leaf, fetch}}
	require.Equal(Or, or.Tag())
	require.Equal([]Node{leaf, fetch}, or.Children())

	andHash := &AndHashNode{Subnodes: []Node{leaf, fetch}}
	require.Equal(AndHash, andHash.Tag())
	require.Equal([]Node{leaf, fetch}, andHash.Children())
}
