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

// directChildIndexKeyPattern reports the key pattern of node itself when
// it is an index scan, or a virtual scan simulating one — the covering
// optimization only fires when the sharding filter sits directly above
// the scan, not several translators removed from it.
func directChildIndexKeyPattern(n qsn.Node) []catalog.KeyPatternField {
	switch t := n.(type) {
	case *qsn.IxScanNode:
		return keyPatternToCatalog(t.KeyPattern)
	case *qsn.VirtualScanNode:
		if t.SimulatesIxScan {
			return keyPatternToCatalog(t.KeyPattern)
		}
	}
	return nil
}

// translateShardingFilter lowers a sharding filter two different ways
// depending on what its child offers and what the parent demands. When
// the child is (or simulates) an index scan and the parent has not
// forced a full document fetch, the shard key is read straight off the
// index entry: no document is ever materialized just to compute it.
// Otherwise the filter falls back to extracting the shard key from the
// fetched document.
func translateShardingFilter(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	sf := n.(*qsn.ShardingFilterNode)

	if b.query.ShardKeyPattern == nil {
		return nil, SlotBindings{}, ErrNoShardKeyPattern.New()
	}
	if b.query.ShardFiltererFactory == nil {
		return nil, SlotBindings{}, ErrNoShardKeyPattern.New()
	}
	filterer, err := b.query.ShardFiltererFactory.New(b.ctx, b.query.Namespace)
	if err != nil {
		return nil, SlotBindings{}, err
	}

	if kp := directChildIndexKeyPattern(sf.Child); kp != nil && !reqs.Has(Result) {
		return b.buildCoveredShardFilter(sf, reqs, kp, filterer)
	}
	return b.buildFallbackShardFilter(sf, reqs, filterer)
}

// buildCoveredShardFilter requests the union of the parent's index-key
// bitset and the shard key's own positions from the child, assembles
// the shard-key object from that shared vector, and narrows the
// parent-visible slot vector back to exactly what the parent asked for
// — the extra positions fetched to build the shard key never leak
// upward.
func (b *Builder) buildCoveredShardFilter(sf *qsn.ShardingFilterNode, reqs Requirements, kp []catalog.KeyPatternField, filterer catalog.ShardFilterer) (sbe.Node, SlotBindings, error) {
	shardBits, shardFieldPos := shardKeyBitset(kp, b.query.ShardKeyPattern)
	if !bitsetAny(shardBits) {
		return nil, SlotBindings{}, ErrSortKeyPositionMissing.New("shardKeyPattern")
	}

	parentBits := reqs.IndexKeyBitset()
	parentWantsKeys := reqs.HasIndexKeyBitset()
	if !parentWantsKeys {
		parentBits = make([]bool, len(kp))
	}
	union := bitsetUnion(parentBits, shardBits)

	childReqs := reqs.Clone().WithIndexKeyBitset(union)
	childPhys, childBindings := b.build(sf.Child, childReqs)
	keys, _ := childBindings.IndexKeySlots()

	fields := make([]sbe.ObjField, len(b.query.ShardKeyPattern.Fields))
	for i, skf := range b.query.ShardKeyPattern.Fields {
		idx, ok := shardFieldPos[skf.Path]
		tassert(ok, ErrSortKeyPositionMissing.New(skf.Path))
		val := sbe.Expr(sbe.SlotExpr{Slot: keys[idx]})
		if skf.Hashed {
			val = sbe.FunctionCallExpr{Name: "shardKeyHash", Args: []sbe.Expr{val}}
		}
		fields[i] = sbe.ObjField{Name: skf.Path, Value: val}
	}

	shardKeySlot := b.slotGen.Next()
	makeObj := &sbe.MakeObjNode{Child: childPhys, OutputSlot: shardKeySlot, Fields: fields}
	var phys sbe.Node = &sbe.FilterNode{
		Child: makeObj,
		Predicate: sbe.FunctionCallExpr{Name: "shardFilter", Args: []sbe.Expr{
			sbe.ConstExpr{Value: filterer},
			sbe.SlotExpr{Slot: shardKeySlot},
		}},
	}

	bindings := childBindings.Clone()
	if parentWantsKeys {
		narrowed := makeIndexKeyOutputSlotsMatchingParentReqs(reqs.IndexKeyBitset(), union, keys)
		bindings = bindings.SetIndexKeySlots(narrowed)
	} else {
		bindings = SlotBindings{slots: bindings.slots}
	}
	return phys, bindings, nil
}

// buildFallbackShardFilter requires a fetched document from the child
// and extracts the shard key component-by-component from it.
func (b *Builder) buildFallbackShardFilter(sf *qsn.ShardingFilterNode, reqs Requirements, filterer catalog.ShardFilterer) (sbe.Node, SlotBindings, error) {
	childReqs := reqs.Clone().Set(Result)
	childPhys, childBindings := b.build(sf.Child, childReqs)
	result := childBindings.MustGet(Result)

	shardKeySlot, proj := b.buildShardKeyBindingExpr(result, b.query.ShardKeyPattern)

	projected := &sbe.ProjectNode{Child: childPhys, Projections: proj}

	var phys sbe.Node = &sbe.FilterNode{
		Child: projected,
		Predicate: sbe.FunctionCallExpr{Name: "shardFilter", Args: []sbe.Expr{
			sbe.ConstExpr{Value: filterer},
			sbe.SlotExpr{Slot: shardKeySlot},
		}},
	}

	bindings := childBindings.Clone()
	if !reqs.Has(Result) {
		bindings = removeBinding(bindings, Result)
	}
	return phys, bindings, nil
}
