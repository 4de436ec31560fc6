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
	"context"
	"testing"
)

// newTestBuilder constructs a Builder for unit tests that exercise a
// single translator or helper directly, bypassing Build's single-use
// guard and prelude scan. query defaults to a minimal non-tailable,
// non-sharded query against namespace "test" when nil.
func newTestBuilder(t *testing.T, query *CanonicalQuery) *Builder {
	t.Helper()
	if query == nil {
		query = &CanonicalQuery{Namespace: "test"}
	}
	return New(context.Background(), query)
}
