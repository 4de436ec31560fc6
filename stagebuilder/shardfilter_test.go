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

	"github.com/dolthub/stagebuilder/catalog"
	"github.com/dolthub/stagebuilder/internal/testutil"
	"github.com/dolthub/stagebuilder/qsn"
	"github.com/dolthub/stagebuilder/sbe"
)

func shardedTestQuery() *CanonicalQuery {
	return &CanonicalQuery{
		Namespace:            "test",
		ShardKeyPattern:      &catalog.ShardKeyPattern{Fields: []catalog.ShardKeyField{{Path: "region"}}},
		ShardFiltererFactory: testutil.ShardFiltererFactory{Filterer: testutil.ShardFilterer{Field: "region", Allow: map[any]bool{"east": true}}},
	}
}

func TestTranslateShardingFilterRejectsWithoutShardKeyPattern(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, &CanonicalQuery{Namespace: "test"})
	node := &qsn.ShardingFilterNode{Child: &qsn.CollScanNode{Namespace: "test"}}

	_, _, err := translateShardingFilter(b, node, NewRequirements().Set(Result))
	require.True(ErrNoShardKeyPattern.Is(err))
}

func TestTranslateShardingFilterCoveredPathOverIxScan(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, shardedTestQuery())
	ix := &qsn.IxScanNode{IndexName: "region_1", KeyPattern: []qsn.KeyPatternField{{Path: "region"}}}
	node := &qsn.ShardingFilterNode{Child: ix}

	phys, bindings, err := translateShardingFilter(b, node, NewRequirements().Set(RecordID))
	require.NoError(err)

	filter, ok := phys.(*sbe.FilterNode)
	require.True(ok)
	call, ok := filter.Predicate.(sbe.FunctionCallExpr)
	require.True(ok)
	require.Equal("shardFilter", call.Name)

	makeObj, ok := filter.Child.(*sbe.MakeObjNode)
	require.True(ok)
	require.Len(makeObj.Fields, 1)
	require.Equal("region", makeObj.Fields[0].Name)
	slotExpr, ok := makeObj.Fields[0].Value.(sbe.SlotExpr)
	require.True(ok)
	require.NotZero(slotExpr.Slot)

	require.True(bindings.Has(RecordID))
	_, hasKeys := bindings.IndexKeySlots()
	require.False(hasKeys)
}

func TestTranslateShardingFilterCoveredPathNarrowsToParentBitset(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, shardedTestQuery())
	ix := &qsn.IxScanNode{IndexName: "compound", KeyPattern: []qsn.KeyPatternField{{Path: "other"}, {Path: "region"}}}
	node := &qsn.ShardingFilterNode{Child: ix}

	reqs := NewRequirements().Set(RecordID).WithIndexKeyBitset([]bool{true, false})
	_, bindings, err := translateShardingFilter(b, node, reqs)
	require.NoError(err)

	keys, ok := bindings.IndexKeySlots()
	require.True(ok)
	require.Len(keys, 2)
	require.NotZero(keys[0])
	require.Zero(keys[1])
}

func TestTranslateShardingFilterFallsBackOverFetch(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, shardedTestQuery())
	scan := &qsn.CollScanNode{Namespace: "test"}
	node := &qsn.ShardingFilterNode{Child: scan}

	phys, bindings, err := translateShardingFilter(b, node, NewRequirements().Set(Result))
	require.NoError(err)

	filter, ok := phys.(*sbe.FilterNode)
	require.True(ok)
	_, ok = filter.Child.(*sbe.ProjectNode)
	require.True(ok)
	require.True(bindings.Has(Result))
}

func TestTranslateShardingFilterFallbackDropsResultWhenNotRequested(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, shardedTestQuery())
	scan := &qsn.CollScanNode{Namespace: "test"}
	node := &qsn.ShardingFilterNode{Child: scan}

	_, bindings, err := translateShardingFilter(b, node, NewRequirements().Set(RecordID))
	require.NoError(err)
	require.False(bindings.Has(Result))
	require.True(bindings.Has(RecordID))
}

func TestBuildShardKeyBindingExprCollapsesToNothingWhenMissing(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	pattern := &catalog.ShardKeyPattern{Fields: []catalog.ShardKeyField{{Path: "region"}, {Path: "zone", Hashed: true}}}

	slot, proj := b.buildShardKeyBindingExpr(sbe.SlotID(1), pattern)
	ifExpr, ok := proj[slot].(sbe.IfExpr)
	require.True(ok)
	require.Equal(sbe.Nothing, ifExpr.Else)

	and, ok := ifExpr.Cond.(sbe.AndExpr)
	require.True(ok)
	require.Len(and.Operands, 2)
}

func TestShardKeyBitsetMapsMatchingPositions(t *testing.T) {
	require := require.New(t)

	kp := []catalog.KeyPatternField{{Path: "a"}, {Path: "region"}, {Path: "b"}}
	pattern := &catalog.ShardKeyPattern{Fields: []catalog.ShardKeyField{{Path: "region"}}}

	bits, pos := shardKeyBitset(kp, pattern)
	require.Equal([]bool{false, true, false}, bits)
	require.Equal(map[string]int{"region": 1}, pos)
}
