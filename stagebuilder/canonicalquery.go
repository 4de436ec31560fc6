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
	"github.com/dolthub/stagebuilder/catalog"
)

// CanonicalQuery is the minimal slice of the upstream canonical query
// the builder needs: whether it has a collator, whether it is tailable,
// and the external collaborators translators call out to. The
// expression sub-builders, catalog access and shard-filterer
// implementations it references are out of scope for this module and
// are supplied by the caller.
type CanonicalQuery struct {
	Namespace string
	Collator  catalog.Collator
	Tailable  bool

	Catalog              catalog.Lookup
	FTSLookup            catalog.FTSLookup
	ShardFiltererFactory catalog.ShardFiltererFactory
	ShardKeyPattern      *catalog.ShardKeyPattern
	ReadAvailChecker     catalog.ReadAvailabilityChecker
	YieldPolicy          catalog.YieldPolicy
}
