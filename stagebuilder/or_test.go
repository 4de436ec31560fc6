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

func TestTranslateOrUnionsBranchesWithFreshOutputSlots(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.OrNode{Subnodes: []qsn.Node{
		&qsn.CollScanNode{Namespace: "test"},
		&qsn.CollScanNode{Namespace: "test"},
	}}

	phys, bindings, err := translateOr(b, node, NewRequirements().Set(Result))
	require.NoError(err)

	union, ok := phys.(*sbe.UnionNode)
	require.True(ok)
	require.Len(union.Branches, 2)
	require.True(bindings.Has(Result))
}

func TestTranslateOrDedupLayersUniqueOnRecordID(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.OrNode{
		Subnodes: []qsn.Node{&qsn.CollScanNode{Namespace: "test"}, &qsn.CollScanNode{Namespace: "test"}},
		Dedup:    true,
	}

	phys, bindings, err := translateOr(b, node, NewRequirements().Set(Result))
	require.NoError(err)

	unique, ok := phys.(*sbe.UniqueNode)
	require.True(ok)
	require.Len(unique.KeySlots, 1)
	require.False(bindings.Has(RecordID), "recordId materialized only for dedup, not forwarded unless requested")
}

func TestTranslateOrAppliesResidualFilter(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	pred := sbe.FunctionCallExpr{Name: "exists", Args: []sbe.Expr{sbe.SlotExpr{Slot: 1}}}
	node := &qsn.OrNode{
		Subnodes: []qsn.Node{&qsn.CollScanNode{Namespace: "test"}, &qsn.CollScanNode{Namespace: "test"}},
		Filter:   pred,
	}

	phys, bindings, err := translateOr(b, node, NewRequirements())
	require.NoError(err)

	filter, ok := phys.(*sbe.FilterNode)
	require.True(ok)
	require.Equal(pred, filter.Predicate)
	require.False(bindings.Has(Result), "result materialized only for the filter, not forwarded unless requested")
}

func TestTranslateOrCollectsMultipleBranchFailures(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.OrNode{Subnodes: []qsn.Node{
		&qsn.IxScanNode{IndexName: "a_1", KeyPattern: []qsn.KeyPatternField{{Path: "a"}}},
		&qsn.IxScanNode{IndexName: "b_1", KeyPattern: []qsn.KeyPatternField{{Path: "b"}}},
	}}

	// oplogTs is unsupported by ixscan, so every branch fails independently.
	_, _, err := translateOr(b, node, NewRequirements().Set(OplogTS))
	require.Error(err)
	require.Contains(err.Error(), "2 errors occurred")
}
