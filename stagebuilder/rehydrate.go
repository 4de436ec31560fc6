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

// keyTrie is the rooted tree used to rehydrate an index key into the
// document shape it was extracted from: edges are field-name path
// components, leaves carry the slot id holding that component's scalar
// value.
//
// Short-circuit rule: if inserting a new path would pass through a
// node that already has slot set — meaning a strictly shorter prefix of
// this path is already bound as a whole scalar value — the new path is
// dropped. The index key for "a" already contains whatever "a.b" would
// describe, so the shorter-prefix binding always wins. This mirrors the
// Open Question in the design notes: a genuinely ambiguous key pattern
// (both "a" and "a.b" present) is pruned, and buildRehydrationTrie
// reports what it dropped so callers can log a debug assertion instead
// of guessing.
type keyTrie struct {
	children map[string]*keyTrie
	order    []string
	slot     *sbe.SlotID
	hasSlot  bool
}

func newKeyTrie() *keyTrie { return &keyTrie{children: map[string]*keyTrie{}} }

// insert adds path -> slot to the trie, returning false if the path was
// dropped because a strictly-shorter-prefix path already owns a slot
// along its route.
func (t *keyTrie) insert(path string, slot sbe.SlotID) bool {
	parts := strings.Split(path, ".")
	cur := t
	for _, p := range parts {
		if cur.hasSlot {
			return false
		}
		child, ok := cur.children[p]
		if !ok {
			child = newKeyTrie()
			cur.children[p] = child
			cur.order = append(cur.order, p)
		}
		cur = child
	}
	if cur.hasSlot {
		return false
	}
	if len(cur.children) > 0 {
		// A strictly longer path was already inserted under this one;
		// per the short-circuit rule this new, shorter path now
		// dominates it. Truncate the longer paths beneath it.
		cur.children = map[string]*keyTrie{}
		cur.order = nil
	}
	cur.slot = &slot
	cur.hasSlot = true
	return true
}

// buildRehydrationTrie builds the trie for an index key pattern and an
// equal-length vector of slot ids holding each component's value,
// inserting components in key-pattern order (the order insertion rule
// the emission walk relies on). The second result lists every path
// dropped by the short-circuit rule, including a longer path truncated
// by a shorter prefix inserted after it, for debug logging.
func buildRehydrationTrie(pattern []catalog.KeyPatternField, slots []sbe.SlotID) (*keyTrie, []string) {
	tassert(len(pattern) == len(slots), ErrIndexKeySlotMismatch.New(len(pattern), len(slots)))
	trie := newKeyTrie()
	var dropped, kept []string
	for i, f := range pattern {
		if !trie.insert(f.Path, slots[i]) {
			dropped = append(dropped, f.Path)
			continue
		}
		live := kept[:0]
		for _, k := range kept {
			if strings.HasPrefix(k, f.Path+".") {
				dropped = append(dropped, k)
			} else {
				live = append(live, k)
			}
		}
		kept = append(live, f.Path)
	}
	return trie, dropped
}

// emit walks the trie in a stable (insertion) order, producing a
// newObj expression for every intermediate node and a slot reference
// for every leaf.
func (t *keyTrie) emit() sbe.Expr {
	if t.hasSlot {
		return sbe.SlotExpr{Slot: *t.slot}
	}
	fields := make([]sbe.ObjField, 0, len(t.order))
	for _, name := range t.order {
		fields = append(fields, sbe.ObjField{Name: name, Value: t.children[name].emit()})
	}
	return sbe.NewObjExpr{Fields: fields}
}

// rehydrateIndexKey is IxScan's result-path entry point: given a key
// pattern and aligned slots, produce the newObj expression that
// reconstructs the original document shape, logging any path the
// short-circuit rule dropped rather than pruning it silently.
func (b *Builder) rehydrateIndexKey(pattern []catalog.KeyPatternField, slots []sbe.SlotID) sbe.Expr {
	trie, dropped := buildRehydrationTrie(pattern, slots)
	for _, path := range dropped {
		b.log.Warn(ErrAmbiguousKeyPattern.New(path))
	}
	return trie.emit()
}
