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

// translateAndSorted lowers an intersection of children that are
// already individually sorted on recordId ascending (the planner's
// responsibility, not this builder's): the same result/recordId
// contract as and-hash, folded with merge joins instead of hash joins.
func translateAndSorted(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	as := n.(*qsn.AndSortedNode)
	tassert(len(as.Subnodes) >= 2, ErrUnsupportedNodeKind.New(n.Tag()))

	childReqs := reqs.Clone().Set(Result).Set(RecordID)

	phys, bindings := b.build(as.Subnodes[0], childReqs)
	resultSlot := bindings.MustGet(Result)
	recordIDSlot := bindings.MustGet(RecordID)

	for _, sub := range as.Subnodes[1:] {
		innerPhys, innerBindings := b.build(sub, childReqs)
		innerRecordID := innerBindings.MustGet(RecordID)
		phys = &sbe.MergeJoinNode{
			Outer:             phys,
			Inner:             innerPhys,
			OuterKeySlot:      recordIDSlot,
			InnerKeySlot:      innerRecordID,
			Direction:         sbe.Ascending,
			OuterProjectSlots: []sbe.SlotID{resultSlot, recordIDSlot},
		}
	}

	out := NewSlotBindings().Set(Result, resultSlot).Set(RecordID, recordIDSlot)
	if !reqs.Has(Result) {
		out = removeBinding(out, Result)
	}
	if !reqs.Has(RecordID) {
		out = removeBinding(out, RecordID)
	}
	return phys, out, nil
}
