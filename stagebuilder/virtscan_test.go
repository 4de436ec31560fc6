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

func TestTranslateVirtualScanRejectsOplogTS(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.VirtualScanNode{Docs: []map[string]any{{"a": 1}}}

	_, _, err := translateVirtualScan(b, node, NewRequirements().Set(OplogTS))
	require.True(ErrUnsupportedRequirement.Is(err))
}

func TestTranslateVirtualScanSimulatingIxScanProjectsKeyFields(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.VirtualScanNode{
		Docs:            []map[string]any{{"a": 1, "b": 2}},
		SimulatesIxScan: true,
		KeyPattern:      []qsn.KeyPatternField{{Path: "a"}, {Path: "b"}},
	}

	reqs := NewRequirements().WithIndexKeyBitset([]bool{true, false})
	phys, bindings, err := translateVirtualScan(b, node, reqs)
	require.NoError(err)

	proj, ok := phys.(*sbe.ProjectNode)
	require.True(ok)
	require.Len(proj.Projections, 1)

	keys, ok := bindings.IndexKeySlots()
	require.True(ok)
	require.NotZero(keys[0])
	require.Zero(keys[1])
}

func TestTranslateVirtualScanRejectsKeyPatternLengthMismatch(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.VirtualScanNode{
		Docs:            []map[string]any{{"a": 1}},
		SimulatesIxScan: true,
		KeyPattern:      []qsn.KeyPatternField{{Path: "a"}},
	}

	require.Panics(func() {
		translateVirtualScan(b, node, NewRequirements().WithIndexKeyBitset([]bool{true, false}))
	})
}
