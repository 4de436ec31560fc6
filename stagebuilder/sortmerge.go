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

// findIxScanKeyPattern locates the index key pattern the builder must
// match a sort-merge pattern field against: the nearest IxScan, or a
// VirtualScan standing in for one, beneath child.
func findIxScanKeyPattern(n qsn.Node) []qsn.KeyPatternField {
	switch t := n.(type) {
	case *qsn.IxScanNode:
		return t.KeyPattern
	case *qsn.VirtualScanNode:
		if t.SimulatesIxScan {
			return t.KeyPattern
		}
	}
	for _, c := range n.Children() {
		if kp := findIxScanKeyPattern(c); kp != nil {
			return kp
		}
	}
	return nil
}

// translateSortMerge lowers a sort-merge of children that each produce
// index keys in their own index's order. For every child it derives an
// index-key bitset by matching that child's key pattern against the
// merge's sort pattern, builds a position map so the extracted slots
// are reordered into the sort pattern's order, and composes a sorted
// merge over the reordered keys — optionally layering a unique on
// recordId for dedup.
func translateSortMerge(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	sm := n.(*qsn.SortMergeNode)

	dirs := make([]sbe.Direction, len(sm.Pattern))
	for i, p := range sm.Pattern {
		if p.Descending {
			dirs[i] = sbe.Descending
		} else {
			dirs[i] = sbe.Ascending
		}
	}

	childReqs := reqs.Clone().Clear(ReturnKey).Clear(OplogTS).Set(RecordID)

	forwardNames := []SlotName{RecordID}
	if reqs.Has(Result) {
		forwardNames = append(forwardNames, Result)
	}

	branches := make([]sbe.Node, len(sm.Subnodes))
	branchKeySlots := make([][]sbe.SlotID, len(sm.Subnodes))
	branchSlots := make([][]sbe.SlotID, len(sm.Subnodes))

	for i, child := range sm.Subnodes {
		kp := findIxScanKeyPattern(child)
		tassert(kp != nil, ErrSortKeyPositionMissing.New(""))

		bits := make([]bool, len(kp))
		positions := make([]int, len(sm.Pattern))
		for j, part := range sm.Pattern {
			idx := -1
			for k, f := range kp {
				if f.Path == part.Path {
					idx = k
					break
				}
			}
			tassert(idx >= 0, ErrSortKeyPositionMissing.New(part.Path))
			bits[idx] = true
			positions[j] = idx
		}

		cr := childReqs.Clone().WithIndexKeyBitset(bits)
		phys, bindings := b.build(child, cr)

		keys, _ := bindings.IndexKeySlots()
		reordered := make([]sbe.SlotID, len(sm.Pattern))
		for j, idx := range positions {
			reordered[j] = keys[idx]
		}

		slots := make([]sbe.SlotID, len(forwardNames))
		for j, name := range forwardNames {
			slots[j] = bindings.MustGet(name)
		}

		branches[i] = phys
		branchKeySlots[i] = reordered
		branchSlots[i] = slots
	}

	out := b.slotGen.NextN(len(forwardNames))
	merge := &sbe.SortedMergeNode{
		Branches:       branches,
		BranchKeySlots: branchKeySlots,
		Directions:     dirs,
		BranchSlots:    branchSlots,
		OutputSlots:    out,
	}

	bindings := NewSlotBindings()
	for i, name := range forwardNames {
		bindings = bindings.Set(name, out[i])
	}

	var phys sbe.Node = merge
	if sm.Dedup {
		phys = &sbe.UniqueNode{Child: phys, KeySlots: []sbe.SlotID{bindings.MustGet(RecordID)}}
	}

	return phys, bindings, nil
}
