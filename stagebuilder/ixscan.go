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
	"github.com/dolthub/stagebuilder/catalog"
	"github.com/dolthub/stagebuilder/qsn"
	"github.com/dolthub/stagebuilder/sbe"
)

func keyPatternToCatalog(kp []qsn.KeyPatternField) []catalog.KeyPatternField {
	out := make([]catalog.KeyPatternField, len(kp))
	for i, f := range kp {
		out[i] = catalog.KeyPatternField{Path: f.Path, Descending: f.Descending}
	}
	return out
}

// translateIxScan lowers an index scan. The bits actually extracted
// from the index entry are the union of what the parent asked for and
// what the translator itself needs internally: result or returnKey
// both require every key component, the former to rehydrate the
// document, the latter to rebuild the key's own BSON shape.
func translateIxScan(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	ix := n.(*qsn.IxScanNode)

	if reqs.Has(OplogTS) {
		return nil, SlotBindings{}, ErrUnsupportedRequirement.New("ixscan", "oplogTs")
	}

	if b.query.Catalog != nil {
		desc, err := b.query.Catalog.IndexDescriptor(b.ctx, b.query.Namespace, ix.IndexName)
		if err != nil || desc == nil {
			return nil, SlotBindings{}, ErrMissingIndexDescriptor.New(ix.IndexName, b.query.Namespace)
		}
	}

	width := len(ix.KeyPattern)
	internalBits := make([]bool, width)
	if reqs.Has(Result) || reqs.Has(ReturnKey) {
		internalBits = allTrue(width)
	}
	wantBits := internalBits
	if reqs.HasIndexKeyBitset() {
		wantBits = bitsetUnion(reqs.IndexKeyBitset(), internalBits)
	}

	scan := &sbe.IxScanNode{
		IndexName:      ix.IndexName,
		KeyPattern:     keyPatternToCatalog(ix.KeyPattern),
		Forward:        true,
		ReadAvailCheck: b.query.ReadAvailChecker,
	}

	keySlots := make([]sbe.SlotID, width)
	for i, want := range wantBits {
		if want {
			keySlots[i] = b.slotGen.Next()
		}
	}
	scan.KeySlots = keySlots

	bindings := NewSlotBindings()
	var phys sbe.Node = scan

	if reqs.Has(RecordID) || reqs.Has(Result) {
		s := b.slotGen.Next()
		scan.RecordIDSlot = &s
		bindings = bindings.Set(RecordID, s)
	}

	if reqs.Has(ReturnKey) {
		fields := make([]sbe.ObjField, 0, width)
		for i, f := range ix.KeyPattern {
			fields = append(fields, sbe.ObjField{Name: f.Path, Value: sbe.SlotExpr{Slot: keySlots[i]}})
		}
		out := b.slotGen.Next()
		phys = &sbe.MakeObjNode{Child: phys, OutputSlot: out, Fields: fields}
		bindings = bindings.Set(ReturnKey, out)
	}

	if reqs.Has(Result) {
		expr := b.rehydrateIndexKey(scan.KeyPattern, keySlots)
		out := b.slotGen.Next()
		var fields []sbe.ObjField
		if obj, ok := expr.(sbe.NewObjExpr); ok {
			fields = obj.Fields
		} else {
			fields = []sbe.ObjField{}
		}
		phys = &sbe.MakeObjNode{Child: phys, OutputSlot: out, Fields: fields}
		bindings = bindings.Set(Result, out)
	}

	if reqs.HasIndexKeyBitset() {
		narrowed := makeIndexKeyOutputSlotsMatchingParentReqs(reqs.IndexKeyBitset(), wantBits, keySlots)
		bindings = bindings.SetIndexKeySlots(narrowed)
	}

	return phys, bindings, nil
}

// makeIndexKeyOutputSlotsMatchingParentReqs narrows a slot vector built
// against internalBits (a superset of what the parent actually asked
// for, since result/returnKey force every component) back down to the
// exact shape of parentBits: one entry per position in parentBits, the
// resolved slot where parentBits[i] is set and the zero slot elsewhere.
func makeIndexKeyOutputSlotsMatchingParentReqs(parentBits, internalBits []bool, slots []sbe.SlotID) []sbe.SlotID {
	out := make([]sbe.SlotID, len(parentBits))
	for i, want := range parentBits {
		if want {
			out[i] = slots[i]
		}
	}
	return out
}
