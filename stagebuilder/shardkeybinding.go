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

	"github.com/dolthub/stagebuilder/catalog"
	"github.com/dolthub/stagebuilder/sbe"
)

// buildShardKeyBindingExpr is the shard-filter fallback path's
// component extractor: for each shard-key component path it generates
// a nested getField chain with an isArray check at every level (hashed fields run
// through the hash function), then assembles the shard-key object only
// if every component actually resolved — an array encountered at a
// non-terminal position, or a missing field, makes the shard key
// indeterminate, and the whole object collapses to Nothing so the
// filterer rejects the row.
func (b *Builder) buildShardKeyBindingExpr(result sbe.SlotID, pattern *catalog.ShardKeyPattern) (sbe.SlotID, map[sbe.SlotID]sbe.Expr) {
	proj := map[sbe.SlotID]sbe.Expr{}

	componentSlots := make([]sbe.SlotID, len(pattern.Fields))
	for i, f := range pattern.Fields {
		pathParts := strings.Split(f.Path, ".")
		val := b.shardKeyPathExpr(sbe.SlotExpr{Slot: result}, pathParts)
		if f.Hashed {
			val = sbe.FunctionCallExpr{Name: "shardKeyHash", Args: []sbe.Expr{val}}
		}
		slot := b.slotGen.Next()
		proj[slot] = val
		componentSlots[i] = slot
	}

	objFields := make([]sbe.ObjField, len(pattern.Fields))
	var allExist sbe.Expr
	for i, f := range pattern.Fields {
		objFields[i] = sbe.ObjField{Name: f.Path, Value: sbe.SlotExpr{Slot: componentSlots[i]}}
		check := sbe.Exists(sbe.SlotExpr{Slot: componentSlots[i]})
		if allExist == nil {
			allExist = check
		} else {
			allExist = sbe.AndExpr{Operands: []sbe.Expr{allExist, check}}
		}
	}

	shardKeySlot := b.slotGen.Next()
	proj[shardKeySlot] = sbe.IfExpr{Cond: allExist, Then: sbe.NewObjExpr{Fields: objFields}, Else: sbe.Nothing}
	return shardKeySlot, proj
}

// shardKeyPathExpr descends one dotted-path component at a time. An
// array encountered at any component, terminal or intermediate, makes
// that component indeterminate (Nothing); arrays are never traversed.
func (b *Builder) shardKeyPathExpr(base sbe.Expr, remaining []string) sbe.Expr {
	field := sbe.GetFieldExpr{Input: base, Field: remaining[0]}
	if len(remaining) == 1 {
		return sbe.IfExpr{Cond: sbe.IsArray(field), Then: sbe.Nothing, Else: field}
	}
	return sbe.IfExpr{Cond: sbe.IsArray(field), Then: sbe.Nothing, Else: b.shardKeyPathExpr(field, remaining[1:])}
}

// shardKeyBitset maps a shard key pattern onto the positions of an
// index key pattern that cover it, for the shard-filter covering
// optimization.
func shardKeyBitset(kp []catalog.KeyPatternField, pattern *catalog.ShardKeyPattern) ([]bool, map[string]int) {
	bits := make([]bool, len(kp))
	pos := map[string]int{}
	for _, skf := range pattern.Fields {
		for i, f := range kp {
			if f.Path == skf.Path {
				bits[i] = true
				pos[skf.Path] = i
				break
			}
		}
	}
	return bits, pos
}
