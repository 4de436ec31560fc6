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

// SlotIDGenerator, FrameIDGenerator and SpoolIDGenerator are monotonic
// id factories shared across a single build. They are not safe for
// concurrent use — the builder is single-threaded cooperative, per the
// concurrency model. Ids are handed out in the order translators ask
// for them; a translator usually builds its children before allocating
// its own slots, so assignment is not in pre-order of the tree. Builds
// are deterministic given the same logical tree and the same starting
// ids.
type SlotIDGenerator struct{ next int64 }

// NewSlotIDGenerator returns a generator whose first id is 1; 0 is
// reserved as "no slot" so a zero-valued sbe.SlotID is never mistaken
// for a real binding.
func NewSlotIDGenerator() *SlotIDGenerator { return &SlotIDGenerator{next: 1} }

func (g *SlotIDGenerator) Next() sbe.SlotID {
	id := g.next
	g.next++
	return sbe.SlotID(id)
}

// NextN allocates n consecutive slot ids, used where a translator needs
// a whole vector at once (e.g. a union's freshly allocated output
// slots).
func (g *SlotIDGenerator) NextN(n int) []sbe.SlotID {
	out := make([]sbe.SlotID, n)
	for i := range out {
		out[i] = g.Next()
	}
	return out
}

type FrameIDGenerator struct{ next int64 }

func NewFrameIDGenerator() *FrameIDGenerator { return &FrameIDGenerator{next: 1} }

func (g *FrameIDGenerator) Next() sbe.FrameID {
	id := g.next
	g.next++
	return sbe.FrameID(id)
}

type SpoolIDGenerator struct{ next int64 }

func NewSpoolIDGenerator() *SpoolIDGenerator { return &SpoolIDGenerator{next: 1} }

func (g *SpoolIDGenerator) Next() sbe.SpoolID {
	id := g.next
	g.next++
	return sbe.SpoolID(id)
}
