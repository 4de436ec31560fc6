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

import "gopkg.in/src-d/go-errors.v1"

// Contract violations. These indicate a bug in the builder or in the
// upstream planner's output, never something a well-formed query can
// trigger at runtime. Build recovers a panic carrying one of these and
// turns it into the returned error; see tassert below.
var (
	ErrUnknownNodeKind         = errors.NewKind("stage builder: no translator registered for node kind %v")
	ErrMissingOutputSlot       = errors.NewKind("stage builder: child subtree did not materialize requested slot %q")
	ErrRequirementNotSatisfied = errors.NewKind("stage builder: returned bindings do not satisfy requirement %q")
	ErrIndexKeySlotMismatch    = errors.NewKind("stage builder: index key slot vector length mismatch: want %d, got %d")
	ErrUnsupportedRequirement  = errors.NewKind("stage builder: %s cannot satisfy requirement %q")
	ErrUnsupportedNodeKind     = errors.NewKind("stage builder: node kind %v has no supported lowering")
	ErrMissingIndexDescriptor  = errors.NewKind("stage builder: no index descriptor for index %q in namespace %q")
	ErrMissingFTSDescriptor    = errors.NewKind("stage builder: no full-text index descriptor for index %q")
	ErrTextMatchNotFetched     = errors.NewKind("stage builder: text match applied to a subtree that did not fetch the full document")
	ErrMalformedFTSQuery       = errors.NewKind("stage builder: malformed full-text query payload for index %q")
	ErrSortKeyPositionMissing  = errors.NewKind("stage builder: sort pattern field %q has no matching index key position")
	ErrAmbiguousKeyPattern     = errors.NewKind("stage builder: index key pattern has an ambiguous prefix relationship at %q")
	ErrBuilderAlreadyUsed      = errors.NewKind("stage builder: Build called more than once on the same builder instance")
	ErrNoShardKeyPattern       = errors.NewKind("stage builder: sharding filter requires a shard key pattern")
)

// tassert raises a contract-violation panic when cond is false. It is
// recovered at the top of Build and converted into a returned error;
// it must never be called from code reachable without going through
// Build.
func tassert(cond bool, err error) {
	if !cond {
		panic(err)
	}
}
