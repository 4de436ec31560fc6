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

	"github.com/dolthub/stagebuilder/qsn"
	"github.com/dolthub/stagebuilder/sbe"
)

func TestTranslateFetchBuildsSeekByRecordIDJoin(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.FetchNode{Child: &qsn.IxScanNode{IndexName: "a_1", KeyPattern: []qsn.KeyPatternField{{Path: "a"}}}}

	phys, bindings, err := translateFetch(b, node, NewRequirements().Set(Result))
	require.NoError(err)

	join, ok := phys.(*sbe.LoopJoinNode)
	require.True(ok)
	_, ok = join.Inner.(*sbe.CollScanNode)
	require.True(ok)

	require.True(bindings.Has(Result))
	require.False(bindings.Has(RecordID))
}

func TestTranslateFetchKeepsRecordIDWhenRequested(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.FetchNode{Child: &qsn.IxScanNode{IndexName: "a_1", KeyPattern: []qsn.KeyPatternField{{Path: "a"}}}}

	_, bindings, err := translateFetch(b, node, NewRequirements().Set(Result).Set(RecordID))
	require.NoError(err)
	require.True(bindings.Has(RecordID))
}

func TestTranslateFetchAppliesResidualFilter(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	pred := sbe.FunctionCallExpr{Name: "exists", Args: []sbe.Expr{sbe.SlotExpr{Slot: 1}}}
	node := &qsn.FetchNode{
		Child:  &qsn.IxScanNode{IndexName: "a_1", KeyPattern: []qsn.KeyPatternField{{Path: "a"}}},
		Filter: pred,
	}

	phys, _, err := translateFetch(b, node, NewRequirements().Set(Result))
	require.NoError(err)

	filter, ok := phys.(*sbe.FilterNode)
	require.True(ok)
	require.Equal(pred, filter.Predicate)
}
