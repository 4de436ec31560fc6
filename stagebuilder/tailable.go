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

// buildTailableUnion wraps node — the outermost of {collscan, limit,
// skip} beneath a tailable query — in an anchor-branch/resume-branch
// union governed by the named resumeRecordId runtime slot. The
// dispatcher applies this rewrite at most once per query: both
// branches are built with isBuildingTailableUnion set, so nested
// collscan/limit/skip nodes recurse through their ordinary translators
// instead of re-triggering the rewrite.
//
// Anchor branch: resumeRecordId is expected to be absent, gated by a
// constant filter; limit/skip inside it are kept. Resume branch:
// resumeRecordId is expected to be present, gated by the mirror filter
// and wrapped in limit 1 to avoid recursive re-triggering; limit/skip
// inside it are suppressed via isTailableResumeBranch.
func (b *Builder) buildTailableUnion(node qsn.Node, reqs Requirements) (sbe.Node, SlotBindings) {
	resumeSlot, ok := b.env.Slot(RuntimeSlotResumeRecordID)
	if !ok {
		resumeSlot = b.env.Register(RuntimeSlotResumeRecordID, sbe.Nothing)
	}

	names := reqs.Names()
	base := reqs.Clone().withBuildingTailableUnion(true)

	anchorPhys, anchorBindings := b.build(node, base.withTailableResumeBranch(false))
	anchorPhys = &sbe.FilterNode{
		Child:     anchorPhys,
		Predicate: sbe.NotExpr{Operand: sbe.Exists(sbe.SlotExpr{Slot: resumeSlot})},
	}

	resumePhys, resumeBindings := b.build(node, base.withTailableResumeBranch(true))
	one := int64(1)
	resumePhys = &sbe.LimitSkipNode{Child: resumePhys, Limit: &one}
	resumePhys = &sbe.FilterNode{
		Child:     resumePhys,
		Predicate: sbe.Exists(sbe.SlotExpr{Slot: resumeSlot}),
	}

	anchorSlots := make([]sbe.SlotID, len(names))
	resumeSlots := make([]sbe.SlotID, len(names))
	for i, name := range names {
		anchorSlots[i] = anchorBindings.MustGet(name)
		resumeSlots[i] = resumeBindings.MustGet(name)
	}

	out := b.slotGen.NextN(len(names))
	union := &sbe.UnionNode{
		Branches:    []sbe.Node{anchorPhys, resumePhys},
		BranchSlots: [][]sbe.SlotID{anchorSlots, resumeSlots},
		OutputSlots: out,
	}

	bindings := NewSlotBindings()
	for i, name := range names {
		bindings = bindings.Set(name, out[i])
	}
	return union, bindings
}
