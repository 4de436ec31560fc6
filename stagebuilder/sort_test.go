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

func TestTranslateSortSimpleCarriesRecordIDAlongsideResult(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.SortSimpleNode{
		Child:   &qsn.CollScanNode{Namespace: "test"},
		Pattern: []qsn.SortPatternPart{{Path: "a"}},
		Limit:   5,
	}

	phys, bindings, err := translateSort(b, node, NewRequirements().Set(Result).Set(RecordID))
	require.NoError(err)

	sortNode, ok := phys.(*sbe.SortNode)
	require.True(ok)
	require.Len(sortNode.KeySlots, 1)
	require.Equal(int64(5), *sortNode.Limit)
	require.Len(sortNode.CarriedSlots, 2)
	require.True(bindings.Has(Result))
	require.True(bindings.Has(RecordID))
}

func TestTranslateSortUnlimitedOmitsLimit(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.SortSimpleNode{
		Child:   &qsn.CollScanNode{Namespace: "test"},
		Pattern: []qsn.SortPatternPart{{Path: "a"}},
	}

	phys, _, err := translateSort(b, node, NewRequirements().Set(Result))
	require.NoError(err)

	sortNode := phys.(*sbe.SortNode)
	require.Nil(sortNode.Limit)
}

func TestTranslateSortKeyGeneratorIsUnsupported(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.SortKeyGeneratorNode{Child: &qsn.CollScanNode{Namespace: "test"}}

	_, _, err := translateSortKeyGenerator(b, node, NewRequirements().Set(Result))
	require.True(ErrUnsupportedNodeKind.Is(err))
}
