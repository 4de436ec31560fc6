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
	"strings"

	"github.com/dolthub/stagebuilder/qsn"
	"github.com/dolthub/stagebuilder/sbe"
)

// sortIsFastRegime reports whether pattern is eligible for the fast,
// traversal-based sort-key regime: true iff the multiset of top-level
// field names of its parts has no duplicates (testable property 5).
func sortIsFastRegime(pattern []qsn.SortPatternPart) bool {
	seen := map[string]bool{}
	for _, p := range pattern {
		top := strings.SplitN(p.Path, ".", 2)[0]
		if seen[top] {
			return false
		}
		seen[top] = true
	}
	return true
}

// buildSortKeys projects one sort-key slot per pattern part onto child
// and returns the projected node, the key slots in pattern order, and
// their directions. It chooses between the fast traversal-based regime
// and the slow generateSortKey fallback per sortIsFastRegime, and in
// the fast case also emits the parallel-arrays runtime guard.
func (b *Builder) buildSortKeys(child sbe.Node, resultSlot sbe.SlotID, pattern []qsn.SortPatternPart) (sbe.Node, []sbe.SlotID, []sbe.Direction) {
	if !sortIsFastRegime(pattern) {
		return b.buildSlowSortKey(child, resultSlot, pattern)
	}
	return b.buildFastSortKeys(child, resultSlot, pattern)
}

func (b *Builder) collatorSlot() *sbe.SlotID {
	if s, ok := b.env.Slot(RuntimeSlotCollator); ok {
		return &s
	}
	return nil
}

func (b *Builder) buildFastSortKeys(child sbe.Node, resultSlot sbe.SlotID, pattern []qsn.SortPatternPart) (sbe.Node, []sbe.SlotID, []sbe.Direction) {
	collator := b.collatorSlot()
	proj := &sbe.ProjectNode{Child: child, Projections: map[sbe.SlotID]sbe.Expr{}}

	keySlots := make([]sbe.SlotID, len(pattern))
	dirs := make([]sbe.Direction, len(pattern))
	isArrayCheckSlots := make([]sbe.SlotID, len(pattern))

	for i, part := range pattern {
		dir := sbe.Ascending
		if part.Descending {
			dir = sbe.Descending
		}
		dirs[i] = dir

		pathParts := strings.Split(part.Path, ".")
		top := b.slotGen.Next()
		proj.Projections[top] = fillEmpty(sbe.GetFieldExpr{Input: sbe.SlotExpr{Slot: resultSlot}, Field: pathParts[0]}, sbe.Null)

		var valueExpr sbe.Expr
		if len(pathParts) == 1 {
			valueExpr = b.leafSortKeyExpr(sbe.SlotExpr{Slot: top}, dir, collator, true)
		} else {
			valueExpr = b.traverseSortKeyLevel(sbe.SlotExpr{Slot: top}, pathParts[1:], dir, collator)
		}
		key := b.slotGen.Next()
		proj.Projections[key] = valueExpr
		keySlots[i] = key

		arrCheck := b.slotGen.Next()
		proj.Projections[arrCheck] = sbe.IsArray(sbe.SlotExpr{Slot: top})
		isArrayCheckSlots[i] = arrCheck
	}

	var phys sbe.Node = proj
	if guard := buildParallelArraysGuard(isArrayCheckSlots); guard != nil {
		phys = &sbe.FilterNode{Child: phys, Predicate: guard}
	}

	return phys, keySlots, dirs
}

// traverseSortKeyLevel builds one level of the path-traversal chain:
// getField the next component, then either fold array elements with a
// three-way min/max compare or fall through to the non-array value,
// recursing for any remaining path components. Leaf policy: an empty
// array at the leaf becomes undefined; at a non-leaf level, empty or
// missing becomes null.
func (b *Builder) traverseSortKeyLevel(base sbe.Expr, remaining []string, dir sbe.Direction, collator *sbe.SlotID) sbe.Expr {
	field := sbe.GetFieldExpr{Input: base, Field: remaining[0]}
	isLeaf := len(remaining) == 1
	elem := b.frameGen.Next()

	var fold, nonArray sbe.Expr
	if isLeaf {
		fold = b.leafSortKeyExpr(sbe.FrameVarExpr{Frame: elem}, dir, collator, true)
		nonArray = b.leafSortKeyExpr(field, dir, collator, false)
	} else {
		fold = b.traverseSortKeyLevel(sbe.FrameVarExpr{Frame: elem}, remaining[1:], dir, collator)
		nonArray = b.traverseSortKeyLevel(field, remaining[1:], dir, collator)
	}

	combine := "min"
	if dir == sbe.Descending {
		combine = "max"
	}

	traverse := sbe.TraverseExpr{Input: field, ElemVar: elem, Fold: fold, Combine: combine, NonArray: nonArray}
	leafDefault := sbe.Null
	if isLeaf {
		leafDefault = sbe.Undefined
	}
	return fillEmpty(traverse, leafDefault)
}

// leafSortKeyExpr applies collation, when installed, to a leaf sort-key
// value. atArrayLeaf distinguishes the empty-array-becomes-undefined
// policy from the empty/missing-becomes-null policy applied at
// non-terminal levels; both defaults are applied by the caller via
// fillEmpty, this helper only handles collation.
func (b *Builder) leafSortKeyExpr(v sbe.Expr, _ sbe.Direction, collator *sbe.SlotID, _ bool) sbe.Expr {
	if collator == nil {
		return v
	}
	return sbe.CollComparisonKeyExpr{Collator: *collator, Value: v}
}

func fillEmpty(e sbe.Expr, def sbe.Expr) sbe.Expr {
	return sbe.FunctionCallExpr{Name: "fillEmpty", Args: []sbe.Expr{e, def}}
}

// buildParallelArraysGuard emits the runtime check that fails with
// BadValue if more than one sort-key path evaluates to an array.
// Two cases are generated for efficiency: exactly two parts uses a
// short-circuiting OR of negations; three or more parts sums the
// boolean array-ness values and fails unless the sum is at most one.
// A single-part sort pattern never needs the guard.
func buildParallelArraysGuard(isArraySlots []sbe.SlotID) sbe.Expr {
	fail := sbe.FailExpr{Code: "BadValue", Message: "cannot sort with keys that are parallel arrays"}
	switch len(isArraySlots) {
	case 0, 1:
		return nil
	case 2:
		return sbe.OrExpr{Operands: []sbe.Expr{
			sbe.NotExpr{Operand: sbe.SlotExpr{Slot: isArraySlots[0]}},
			sbe.NotExpr{Operand: sbe.SlotExpr{Slot: isArraySlots[1]}},
			fail,
		}}
	default:
		var sum sbe.Expr = sbe.FunctionCallExpr{Name: "toInt", Args: []sbe.Expr{sbe.SlotExpr{Slot: isArraySlots[0]}}}
		for _, s := range isArraySlots[1:] {
			sum = sbe.FunctionCallExpr{Name: "add", Args: []sbe.Expr{sum, sbe.FunctionCallExpr{Name: "toInt", Args: []sbe.Expr{sbe.SlotExpr{Slot: s}}}}}
		}
		return sbe.OrExpr{Operands: []sbe.Expr{
			sbe.BinaryCmpExpr{Op: "lte", Left: sum, Right: sbe.ConstExpr{Value: int64(1)}},
			fail,
		}}
	}
}

// buildSlowSortKey falls back to a single opaque generateSortKey call
// for patterns with shared top-level field prefixes, where the fast
// traversal chain cannot be built independently per part.
func (b *Builder) buildSlowSortKey(child sbe.Node, resultSlot sbe.SlotID, pattern []qsn.SortPatternPart) (sbe.Node, []sbe.SlotID, []sbe.Direction) {
	spec := make([]any, 0, len(pattern)*2)
	for _, p := range pattern {
		dir := int64(1)
		if p.Descending {
			dir = -1
		}
		spec = append(spec, p.Path, dir)
	}
	key := b.slotGen.Next()
	proj := &sbe.ProjectNode{Child: child, Projections: map[sbe.SlotID]sbe.Expr{
		key: sbe.FunctionCallExpr{Name: "generateSortKey", Args: []sbe.Expr{
			sbe.ConstExpr{Value: spec},
			sbe.SlotExpr{Slot: resultSlot},
		}},
	}}
	return proj, []sbe.SlotID{key}, []sbe.Direction{sbe.Ascending}
}
