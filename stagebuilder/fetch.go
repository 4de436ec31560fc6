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

// translateFetch lowers a fetch: it requires a recordId from its
// child, then constructs a nested-loop join whose outer is the child
// and whose inner seeks the full document by that recordId. Any other
// slot the parent wanted is forwarded through unchanged; a residual
// filter on the fetch is applied on top of the join's result.
func translateFetch(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	f := n.(*qsn.FetchNode)

	childReqs := reqs.Clone().Set(RecordID).Clear(Result).Clear(ReturnKey)
	if f.Filter != nil {
		childReqs = childReqs.Set(Result)
	}
	childPhys, childBindings := b.build(f.Child, childReqs)

	outerRecordID := childBindings.MustGet(RecordID)
	var forward []sbe.SlotID
	for _, name := range []SlotName{Result, ReturnKey, OplogTS} {
		if s, ok := childBindings.Get(name); ok {
			forward = append(forward, s)
		}
	}

	join, innerResult, innerRecordID := b.buildSeekByRecordIDJoin(b.query.Namespace, childPhys, outerRecordID, forward)

	bindings := NewSlotBindings().Set(RecordID, innerRecordID).Set(Result, innerResult)
	for _, name := range []SlotName{ReturnKey, OplogTS} {
		if s, ok := childBindings.Get(name); ok {
			bindings = bindings.Set(name, s)
		}
	}

	var phys sbe.Node = join
	if f.Filter != nil {
		phys = &sbe.FilterNode{Child: phys, Predicate: f.Filter}
	}

	if !reqs.Has(RecordID) {
		bindings = removeBinding(bindings, RecordID)
	}

	return phys, bindings, nil
}

// removeBinding drops a binding the translator materialized only to
// satisfy an internal need, not because the parent asked for it —
// SlotBindings has no public unset, so rebuild from scratch.
func removeBinding(b SlotBindings, drop SlotName) SlotBindings {
	out := NewSlotBindings()
	for _, name := range allSlotNames {
		if name == drop {
			continue
		}
		if s, ok := b.Get(name); ok {
			out = out.Set(name, s)
		}
	}
	if slots, ok := b.IndexKeySlots(); ok {
		out = out.SetIndexKeySlots(slots)
	}
	return out
}
