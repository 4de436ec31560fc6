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
	"github.com/dolthub/stagebuilder/qsn"
	"github.com/dolthub/stagebuilder/sbe"
)

const defaultSortMemoryLimitBytes = 100 * 1024 * 1024

// translateSort lowers both SortSimple and SortDefault nodes: it
// requires result from its child, builds the sort-key vector (regime
// chosen by buildSortKeys), then wraps the child in a sort operator
// carrying every slot the parent asked for plus the (possibly
// infinite) limit, a memory cap, and whether spilling to disk is
// permitted.
func translateSort(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	var child qsn.Node
	var pattern []qsn.SortPatternPart
	var limit int64
	switch s := n.(type) {
	case *qsn.SortSimpleNode:
		child, pattern, limit = s.Child, s.Pattern, s.Limit
	case *qsn.SortDefaultNode:
		child, pattern, limit = s.Child, s.Pattern, s.Limit
	default:
		return nil, SlotBindings{}, ErrUnsupportedNodeKind.New(n.Tag())
	}

	childReqs := reqs.Clone().Set(Result)
	childPhys, childBindings := b.build(child, childReqs)
	result := childBindings.MustGet(Result)

	keyed, keySlots, dirs := b.buildSortKeys(childPhys, result, pattern)

	carried := []sbe.SlotID{result}
	for _, name := range []SlotName{RecordID, ReturnKey, OplogTS} {
		if s, ok := childBindings.Get(name); ok {
			carried = append(carried, s)
		}
	}

	sortNode := &sbe.SortNode{
		Child:            keyed,
		KeySlots:         keySlots,
		Directions:       dirs,
		CarriedSlots:     carried,
		MemoryLimitBytes: defaultSortMemoryLimitBytes,
		AllowDiskUse:     true,
	}
	if limit > 0 {
		sortNode.Limit = &limit
	}

	return sortNode, childBindings, nil
}

// translateSortKeyGenerator rejects a sort-key-generator node: this
// builder does not lower it, per the planner-artifact contract
// violation described in the error-handling design.
func translateSortKeyGenerator(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	return nil, SlotBindings{}, ErrUnsupportedNodeKind.New(n.Tag())
}
