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

// translateVirtualScan lowers an inline-document scan. When the node
// simulates an index scan and the parent passed an index-key bitset,
// each requested field is projected out of the result object via
// getField, giving the rest of the tree the same index-key slot vector
// shape it would see from a real IxScan.
func translateVirtualScan(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	vs := n.(*qsn.VirtualScanNode)

	scan := &sbe.VirtualScanNode{Docs: vs.Docs, SimulatesIxScan: vs.SimulatesIxScan}
	bindings := NewSlotBindings()
	var phys sbe.Node = scan

	if reqs.Has(Result) {
		s := b.slotGen.Next()
		scan.ResultSlot = &s
		bindings = bindings.Set(Result, s)
	}
	if reqs.Has(RecordID) {
		s := b.slotGen.Next()
		scan.RecordIDSlot = &s
		bindings = bindings.Set(RecordID, s)
	}
	if reqs.Has(OplogTS) {
		return nil, SlotBindings{}, ErrUnsupportedRequirement.New("virtualscan", "oplogTs")
	}

	if vs.SimulatesIxScan && reqs.HasIndexKeyBitset() {
		bits := reqs.IndexKeyBitset()
		tassert(len(bits) == len(vs.KeyPattern), ErrIndexKeySlotMismatch.New(len(vs.KeyPattern), len(bits)))

		if scan.ResultSlot == nil {
			s := b.slotGen.Next()
			scan.ResultSlot = &s
		}

		keySlots := make([]sbe.SlotID, len(bits))
		proj := &sbe.ProjectNode{Child: phys, Projections: map[sbe.SlotID]sbe.Expr{}}
		for i, want := range bits {
			if !want {
				continue
			}
			out := b.slotGen.Next()
			proj.Projections[out] = sbe.GetFieldExpr{Input: sbe.SlotExpr{Slot: *scan.ResultSlot}, Field: vs.KeyPattern[i].Path}
			keySlots[i] = out
		}
		phys = proj
		scan.IndexKeySlots = keySlots
		bindings = bindings.SetIndexKeySlots(keySlots)
	}

	if reqs.Has(ReturnKey) {
		out := b.slotGen.Next()
		phys = &sbe.MakeObjNode{Child: phys, OutputSlot: out}
		bindings = bindings.Set(ReturnKey, out)
	}

	return phys, bindings, nil
}
