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

// translateAndHash lowers an intersection of children via hash join:
// every child must produce both result and recordId, and the fold
// stacks hash joins left to right, using recordId as the equi-join key
// and result as the carried payload, inheriting the collator from the
// runtime environment. Subsequent hash joins reuse the first child's
// result/recordId slots rather than renaming them at each step.
func translateAndHash(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	ah := n.(*qsn.AndHashNode)
	tassert(len(ah.Subnodes) >= 2, ErrUnsupportedNodeKind.New(n.Tag()))

	childReqs := reqs.Clone().Set(Result).Set(RecordID)

	phys, bindings := b.build(ah.Subnodes[0], childReqs)
	resultSlot := bindings.MustGet(Result)
	recordIDSlot := bindings.MustGet(RecordID)
	collator := b.collatorSlot()

	for _, sub := range ah.Subnodes[1:] {
		innerPhys, innerBindings := b.build(sub, childReqs)
		innerRecordID := innerBindings.MustGet(RecordID)
		phys = &sbe.HashJoinNode{
			Outer:             phys,
			Inner:             innerPhys,
			OuterCondSlot:     recordIDSlot,
			InnerCondSlot:     innerRecordID,
			OuterProjectSlots: []sbe.SlotID{resultSlot, recordIDSlot},
			Collator:          collator,
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
