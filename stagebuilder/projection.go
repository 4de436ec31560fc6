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

// translateProjSimple wraps the child's result in a make-object that
// keeps only the named fields.
func translateProjSimple(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	p := n.(*qsn.ProjSimpleNode)

	childReqs := reqs.Clone().Set(Result)
	childPhys, childBindings := b.build(p.Child, childReqs)
	result := childBindings.MustGet(Result)

	fields := make([]sbe.ObjField, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = sbe.ObjField{Name: f, Value: sbe.GetFieldExpr{Input: sbe.SlotExpr{Slot: result}, Field: f}}
	}

	out := b.slotGen.Next()
	phys := &sbe.MakeObjNode{Child: childPhys, OutputSlot: out, Fields: fields}
	bindings := childBindings.Clone().Set(Result, out)
	if !reqs.Has(Result) {
		bindings = removeBinding(bindings, Result)
	}
	return phys, bindings, nil
}

// translateProjCovered requires no result from the child; instead it
// computes an index-key bitset matching the projection's required
// fields against the nearest index scan's key pattern, and builds the
// output object directly from the returned scalar slots, avoiding a
// fetch entirely.
func translateProjCovered(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	p := n.(*qsn.ProjCoveredNode)

	kp := findIxScanKeyPattern(p.Child)
	tassert(kp != nil, ErrSortKeyPositionMissing.New(""))

	bits := make([]bool, len(kp))
	fieldPos := map[string]int{}
	for _, f := range p.Fields {
		idx := -1
		for k, kf := range kp {
			if kf.Path == f {
				idx = k
				break
			}
		}
		tassert(idx >= 0, ErrSortKeyPositionMissing.New(f))
		bits[idx] = true
		fieldPos[f] = idx
	}

	childReqs := reqs.Clone().Clear(Result).WithIndexKeyBitset(bits)
	childPhys, childBindings := b.build(p.Child, childReqs)
	keys, _ := childBindings.IndexKeySlots()

	fields := make([]sbe.ObjField, len(p.Fields))
	for i, f := range p.Fields {
		fields[i] = sbe.ObjField{Name: f, Value: sbe.SlotExpr{Slot: keys[fieldPos[f]]}}
	}

	out := b.slotGen.Next()
	phys := &sbe.MakeObjNode{Child: childPhys, OutputSlot: out, Fields: fields}
	bindings := childBindings.Clone().Set(Result, out)
	return phys, bindings, nil
}

// translateProjDefault delegates to the (out-of-scope) projection
// expression sub-builder, identified here only by the node's opaque
// Spec, with result required from the child.
func translateProjDefault(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	p := n.(*qsn.ProjDefaultNode)

	childReqs := reqs.Clone().Set(Result)
	childPhys, childBindings := b.build(p.Child, childReqs)
	result := childBindings.MustGet(Result)

	out := b.slotGen.Next()
	phys := &sbe.ProjectNode{Child: childPhys, Projections: map[sbe.SlotID]sbe.Expr{
		out: sbe.FunctionCallExpr{Name: "projectDefault", Args: []sbe.Expr{
			sbe.ConstExpr{Value: p.Spec},
			sbe.SlotExpr{Slot: result},
		}},
	}}
	bindings := childBindings.Clone().Set(Result, out)
	return phys, bindings, nil
}
