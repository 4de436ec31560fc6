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

// translateEOF produces a zero-row plan that nonetheless binds every
// slot the parent asked for to a Nothing constant, so a slot-accessor
// lookup anywhere above it never faults on a missing slot.
func translateEOF(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	names := reqs.Names()
	slots := make([]sbe.SlotID, len(names))
	bindings := NewSlotBindings()
	for i, name := range names {
		slots[i] = b.slotGen.Next()
		bindings = bindings.Set(name, slots[i])
	}

	var indexKeySlots []sbe.SlotID
	if reqs.HasIndexKeyBitset() {
		bits := reqs.IndexKeyBitset()
		indexKeySlots = make([]sbe.SlotID, len(bits))
		for i, want := range bits {
			if want {
				s := b.slotGen.Next()
				indexKeySlots[i] = s
				slots = append(slots, s)
			}
		}
		bindings = bindings.SetIndexKeySlots(indexKeySlots)
	}

	return &sbe.EOFNode{OutputSlots: slots}, bindings, nil
}
