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
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/stagebuilder/qsn"
	"github.com/dolthub/stagebuilder/sbe"
)

func TestBuildCollScanWithLimitAndProjection(t *testing.T) {
	require := require.New(t)

	root := &qsn.LimitNode{
		Child: &qsn.ProjSimpleNode{
			Child:  &qsn.CollScanNode{Namespace: "test"},
			Fields: []string{"a", "b"},
		},
		Limit: 10,
	}

	b := New(context.Background(), &CanonicalQuery{Namespace: "test"})
	phys, data, err := b.Build(root, NewRequirements().Set(Result))
	require.NoError(err)

	limitSkip, ok := phys.(*sbe.LimitSkipNode)
	require.True(ok)
	require.Equal(int64(10), *limitSkip.Limit)

	makeObj, ok := limitSkip.Child.(*sbe.MakeObjNode)
	require.True(ok)
	require.Len(makeObj.Fields, 2)

	_, ok = makeObj.Child.(*sbe.CollScanNode)
	require.True(ok)

	require.True(data.TopLevelBindings.Has(Result))
	require.False(data.ShouldUseTailableScan)
}

func TestBuildIxScanFetchLimitSkip(t *testing.T) {
	require := require.New(t)

	root := &qsn.LimitNode{
		Child: &qsn.SkipNode{
			Child: &qsn.FetchNode{
				Child: &qsn.IxScanNode{IndexName: "a_1", KeyPattern: []qsn.KeyPatternField{{Path: "a"}}},
			},
			Skip: 5,
		},
		Limit: 10,
	}

	b := New(context.Background(), &CanonicalQuery{Namespace: "test"})
	phys, data, err := b.Build(root, NewRequirements().Set(Result).Set(RecordID))
	require.NoError(err)

	limitSkip, ok := phys.(*sbe.LimitSkipNode)
	require.True(ok)
	require.Equal(int64(10), *limitSkip.Limit)
	require.Equal(int64(5), limitSkip.Skip)

	_, ok = limitSkip.Child.(*sbe.LoopJoinNode)
	require.True(ok)

	require.True(data.TopLevelBindings.Has(Result))
	require.True(data.TopLevelBindings.Has(RecordID))
}

func TestBuildShardedIxScanQuery(t *testing.T) {
	require := require.New(t)

	root := &qsn.ShardingFilterNode{
		Child: &qsn.IxScanNode{IndexName: "region_1", KeyPattern: []qsn.KeyPatternField{{Path: "region"}}},
	}

	b := New(context.Background(), shardedTestQuery())
	phys, data, err := b.Build(root, NewRequirements().Set(RecordID))
	require.NoError(err)

	filter, ok := phys.(*sbe.FilterNode)
	require.True(ok)
	_, ok = filter.Child.(*sbe.MakeObjNode)
	require.True(ok)

	require.True(data.TopLevelBindings.Has(RecordID))
}

func TestBuildEOFBindsNothingForEveryRequestedName(t *testing.T) {
	require := require.New(t)

	root := &qsn.EOFNode{}

	b := New(context.Background(), &CanonicalQuery{Namespace: "test"})
	phys, data, err := b.Build(root, NewRequirements().Set(Result).Set(RecordID))
	require.NoError(err)

	eof, ok := phys.(*sbe.EOFNode)
	require.True(ok)
	require.Len(eof.OutputSlots, 2)

	require.True(data.TopLevelBindings.Has(Result))
	require.True(data.TopLevelBindings.Has(RecordID))
}

func TestBuildRejectsUnsupportedRequirementFromUnsatisfyingTranslator(t *testing.T) {
	require := require.New(t)

	root := &qsn.IxScanNode{IndexName: "a_1", KeyPattern: []qsn.KeyPatternField{{Path: "a"}}}

	b := New(context.Background(), &CanonicalQuery{Namespace: "test"})
	_, _, err := b.Build(root, NewRequirements().Set(OplogTS))
	require.Error(err)
	require.True(ErrUnsupportedRequirement.Is(err))
}
