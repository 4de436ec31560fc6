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
	"fmt"

	"github.com/dolthub/stagebuilder/sbe"
)

// SlotBindings is the upward contract: the concrete slots a subtree
// actually materialized. A slot id appears here only if the returned
// physical subtree materializes it; if Requirements demanded a name,
// the bindings a translator returns must contain it (enforced by
// CheckSatisfies, which the dispatcher runs on every translator's
// returned bindings).
type SlotBindings struct {
	slots         map[SlotName]sbe.SlotID
	indexKeySlots []sbe.SlotID
	hasIndexKeys  bool
}

// NewSlotBindings returns an empty binding set.
func NewSlotBindings() SlotBindings {
	return SlotBindings{slots: map[SlotName]sbe.SlotID{}}
}

// Clone returns an independent copy.
func (b SlotBindings) Clone() SlotBindings {
	slots := make(map[SlotName]sbe.SlotID, len(b.slots))
	for k, v := range b.slots {
		slots[k] = v
	}
	var keys []sbe.SlotID
	if b.hasIndexKeys {
		keys = append([]sbe.SlotID(nil), b.indexKeySlots...)
	}
	return SlotBindings{slots: slots, indexKeySlots: keys, hasIndexKeys: b.hasIndexKeys}
}

// Set installs the binding for name and returns the receiver, for
// chaining.
func (b SlotBindings) Set(name SlotName, slot sbe.SlotID) SlotBindings {
	b.slots[name] = slot
	return b
}

// Get returns the bound slot for name and whether it is present.
func (b SlotBindings) Get(name SlotName) (sbe.SlotID, bool) {
	s, ok := b.slots[name]
	return s, ok
}

// MustGet panics with a contract-violation error if name is not bound;
// translators use it once they have already checked the child's
// bindings satisfy what they asked for.
func (b SlotBindings) MustGet(name SlotName) sbe.SlotID {
	s, ok := b.slots[name]
	if !ok {
		panic(ErrMissingOutputSlot.New(name.String()))
	}
	return s
}

// Has reports whether name is bound.
func (b SlotBindings) Has(name SlotName) bool {
	_, ok := b.slots[name]
	return ok
}

// SetIndexKeySlots installs the index-key slot vector, aligned 1:1 with
// whatever bitset the caller passed downward.
func (b SlotBindings) SetIndexKeySlots(slots []sbe.SlotID) SlotBindings {
	b.indexKeySlots = append([]sbe.SlotID(nil), slots...)
	b.hasIndexKeys = true
	return b
}

// IndexKeySlots returns the bound index-key slot vector and whether one
// was set at all.
func (b SlotBindings) IndexKeySlots() ([]sbe.SlotID, bool) {
	return b.indexKeySlots, b.hasIndexKeys
}

// CheckSatisfies verifies that every name requested in reqs is bound in
// b and, when reqs carries an index-key bitset, that b holds an
// index-key slot vector of the bitset's length. Bindings beyond those
// requested, including an index-key vector nobody asked for, are not
// rejected.
func (b SlotBindings) CheckSatisfies(reqs Requirements) error {
	for _, name := range reqs.Names() {
		if !b.Has(name) {
			return ErrRequirementNotSatisfied.New(name.String())
		}
	}
	if reqs.HasIndexKeyBitset() {
		if !b.hasIndexKeys {
			return ErrRequirementNotSatisfied.New("indexKeySlots")
		}
		if len(b.indexKeySlots) != len(reqs.IndexKeyBitset()) {
			return ErrIndexKeySlotMismatch.New(len(reqs.IndexKeyBitset()), len(b.indexKeySlots))
		}
	}
	return nil
}

func (b SlotBindings) String() string {
	return fmt.Sprintf("bindings{result=%v recordId=%v returnKey=%v oplogTs=%v indexKeys=%v}",
		b.slots[Result], b.slots[RecordID], b.slots[ReturnKey], b.slots[OplogTS], b.indexKeySlots)
}
