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

// Package catalog declares the external collaborators the stage builder
// relies on but does not implement: index metadata lookup, the full-text
// matching engine, the shard-filterer, the yield policy and the
// lock-acquisition callback consulted by scan operators at execution
// time. None of these have execution semantics in this module; they are
// narrow interfaces the builder threads through the physical tree it
// produces.
package catalog

import (
	"context"

	"github.com/google/uuid"
)

// KeyPatternField is one component of an index key pattern, e.g. the
// "a.b" in {"a.b": 1, "x": -1}.
type KeyPatternField struct {
	Path       string
	Descending bool
}

// IndexDescriptor is the catalog's view of a single index.
type IndexDescriptor struct {
	ID         uuid.UUID
	Name       string
	KeyPattern []KeyPatternField
	Multikey   bool
}

// Lookup resolves index descriptors by name. Implementations must be
// safe to call under whatever read lock the caller already holds; the
// builder performs no locking of its own.
type Lookup interface {
	IndexDescriptor(ctx context.Context, namespace, indexName string) (*IndexDescriptor, error)
}

// FTSMatcher evaluates a single document against a compiled full-text
// query. Matchers are resolved once, at build time, and embedded as a
// constant in the produced expression tree.
type FTSMatcher interface {
	Matches(doc map[string]any) bool
}

// FTSLookup resolves the matcher for a text index by name.
type FTSLookup interface {
	Matcher(ctx context.Context, namespace, indexName string) (FTSMatcher, error)
}

// ShardFilterer decides whether a document's shard key belongs to the
// shard the query is running against.
type ShardFilterer interface {
	KeyBelongsToShard(shardKey map[string]any) bool
}

// ShardFiltererFactory builds the ShardFilterer for a namespace. The
// builder calls this once per ShardingFilter node it lowers.
type ShardFiltererFactory interface {
	New(ctx context.Context, namespace string) (ShardFilterer, error)
}

// ShardKeyField is one component of a shard key pattern.
type ShardKeyField struct {
	Path   string
	Hashed bool
}

// ShardKeyPattern is the shard key the owning collection was sharded on.
type ShardKeyPattern struct {
	Fields []ShardKeyField
}

// ReadAvailabilityChecker is injected into scan operators that require a
// read-availability check at execution time (e.g. a query run with
// "majority" read concern against a node that may not yet be caught
// up). It must be invoked on every execution path that opens the
// collection and is never called by the builder itself.
type ReadAvailabilityChecker interface {
	CheckReadAvailable(ctx context.Context, namespace string) error
}

// YieldPolicy is opaque to the builder: it is threaded through scan
// nodes unexamined, for the executor to consult.
type YieldPolicy interface {
	ShouldYield() bool
}

// Collator is opaque to the builder beyond its identity: when non-nil,
// translators install it in the runtime environment and leaf-level sort
// key expressions route through it.
type Collator interface {
	CollationSpec() string
}
