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

// SlotName is one of the closed set of named slots translators request
// of their children and bind for their parents.
type SlotName int

const (
	Result SlotName = iota
	RecordID
	ReturnKey
	OplogTS
)

func (n SlotName) String() string {
	switch n {
	case Result:
		return "result"
	case RecordID:
		return "recordId"
	case ReturnKey:
		return "returnKey"
	case OplogTS:
		return "oplogTs"
	default:
		return "unknown"
	}
}

var allSlotNames = []SlotName{Result, RecordID, ReturnKey, OplogTS}

// Requirements is the downward contract: which named slots a parent
// wants, optionally which index-key pattern positions it wants as
// scalar slots, and the two tailable-rewrite steering flags.
//
// Requirements compose by copy-then-modify: translators call Clone()
// and mutate the copy rather than the parent's value.
type Requirements struct {
	names                   map[SlotName]bool
	indexKeyBitset          []bool
	hasIndexKeyBitset       bool
	isTailableResumeBranch  bool
	isBuildingTailableUnion bool
}

// NewRequirements returns an empty requirements set.
func NewRequirements() Requirements {
	return Requirements{names: map[SlotName]bool{}}
}

// Clone returns an independent copy, per the copy-then-modify
// composition rule every translator follows.
func (r Requirements) Clone() Requirements {
	names := make(map[SlotName]bool, len(r.names))
	for k, v := range r.names {
		names[k] = v
	}
	var bits []bool
	if r.hasIndexKeyBitset {
		bits = append([]bool(nil), r.indexKeyBitset...)
	}
	return Requirements{
		names:                   names,
		indexKeyBitset:          bits,
		hasIndexKeyBitset:       r.hasIndexKeyBitset,
		isTailableResumeBranch:  r.isTailableResumeBranch,
		isBuildingTailableUnion: r.isBuildingTailableUnion,
	}
}

// Has reports whether name was requested.
func (r Requirements) Has(name SlotName) bool { return r.names[name] }

// Set marks name as requested and returns the receiver, for chaining:
// reqs = reqs.Clone().Set(Result).Clear(ReturnKey)
func (r Requirements) Set(name SlotName) Requirements {
	r.names[name] = true
	return r
}

// Clear marks name as not requested.
func (r Requirements) Clear(name SlotName) Requirements {
	delete(r.names, name)
	return r
}

// Names returns the requested names in a stable order, for deterministic
// iteration (error messages, debug dumps, tests).
func (r Requirements) Names() []SlotName {
	var out []SlotName
	for _, n := range allSlotNames {
		if r.names[n] {
			out = append(out, n)
		}
	}
	return out
}

// HasIndexKeyBitset reports whether the parent asked for specific index
// key pattern positions.
func (r Requirements) HasIndexKeyBitset() bool { return r.hasIndexKeyBitset }

// IndexKeyBitset returns the requested bitset, or nil if none was set.
func (r Requirements) IndexKeyBitset() []bool { return r.indexKeyBitset }

// WithIndexKeyBitset returns a copy of r with the given bitset installed.
func (r Requirements) WithIndexKeyBitset(bits []bool) Requirements {
	r.indexKeyBitset = append([]bool(nil), bits...)
	r.hasIndexKeyBitset = true
	return r
}

// IsTailableResumeBranch reports whether this subtree is being built as
// the resume branch of a tailable union, which suppresses limit/skip
// operator emission inside it.
func (r Requirements) IsTailableResumeBranch() bool { return r.isTailableResumeBranch }

func (r Requirements) withTailableResumeBranch(v bool) Requirements {
	r.isTailableResumeBranch = v
	return r
}

// IsBuildingTailableUnion reports whether the dispatcher has already
// diverted into the tailable-union builder for this query, preventing
// re-entrant diversion for nested collscan/limit/skip nodes.
func (r Requirements) IsBuildingTailableUnion() bool { return r.isBuildingTailableUnion }

func (r Requirements) withBuildingTailableUnion(v bool) Requirements {
	r.isBuildingTailableUnion = v
	return r
}

// bitsetUnion ORs two bitsets position by position. The shorter one
// (or nil) counts as all-false past its end, so the union has the
// length of the longer input.
func bitsetUnion(a, b []bool) []bool {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]bool, n)
	for i := 0; i < n; i++ {
		var av, bv bool
		if i < len(a) {
			av = a[i]
		}
		if i < len(b) {
			bv = b[i]
		}
		out[i] = av || bv
	}
	return out
}

func bitsetAny(bits []bool) bool {
	for _, b := range bits {
		if b {
			return true
		}
	}
	return false
}

func allTrue(n int) []bool {
	out := make([]bool, n)
	for i := range out {
		out[i] = true
	}
	return out
}
