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

import "github.com/dolthub/stagebuilder/sbe"

// buildSeekByRecordIDJoin composes the nested-loop join a fetch lowers
// to: outer produces a recordId, inner is a collection scan in
// [seekKey, infinity) limited to one row, seeking on the outer's
// recordId slot. Returns the join node plus the fresh result and
// recordId slots the inner side materializes.
func (b *Builder) buildSeekByRecordIDJoin(namespace string, outer sbe.Node, outerRecordID sbe.SlotID, forward []sbe.SlotID) (*sbe.LoopJoinNode, sbe.SlotID, sbe.SlotID) {
	innerResult := b.slotGen.Next()
	innerRecordID := b.slotGen.Next()
	one := int64(1)

	inner := &sbe.CollScanNode{
		Namespace:       namespace,
		Forward:         true,
		SeekRecordIDLow: sbe.SlotExpr{Slot: outerRecordID},
		Limit:           &one,
		ResultSlot:      &innerResult,
		RecordIDSlot:    &innerRecordID,
		ReadAvailCheck:  b.query.ReadAvailChecker,
	}

	join := &sbe.LoopJoinNode{
		Outer:           outer,
		Inner:           inner,
		CorrelatedSlots: append([]sbe.SlotID{outerRecordID}, forward...),
		Predicate:       sbe.BinaryCmpExpr{Op: "eq", Left: sbe.SlotExpr{Slot: innerRecordID}, Right: sbe.SlotExpr{Slot: outerRecordID}},
	}
	return join, innerResult, innerRecordID
}
