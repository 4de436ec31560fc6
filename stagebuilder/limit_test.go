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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/stagebuilder/qsn"
	"github.com/dolthub/stagebuilder/sbe"
)

func TestTranslateLimitAloneWrapsInLimitSkip(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.LimitNode{Child: &qsn.CollScanNode{Namespace: "test"}, Limit: 3}

	phys, _, err := translateLimit(b, node, NewRequirements().Set(Result))
	require.NoError(err)

	ls, ok := phys.(*sbe.LimitSkipNode)
	require.True(ok)
	require.Equal(int64(3), *ls.Limit)
	require.Zero(ls.Skip)
}

func TestTranslateLimitFusesWithChildSkip(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.LimitNode{
		Child: &qsn.SkipNode{Child: &qsn.CollScanNode{Namespace: "test"}, Skip: 7},
		Limit: 3,
	}

	phys, _, err := translateLimit(b, node, NewRequirements().Set(Result))
	require.NoError(err)

	ls, ok := phys.(*sbe.LimitSkipNode)
	require.True(ok)
	require.Equal(int64(3), *ls.Limit)
	require.Equal(int64(7), ls.Skip)

	_, ok = ls.Child.(*sbe.CollScanNode)
	require.True(ok)
}

func TestTranslateLimitSuppressedInTailableResumeBranch(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.LimitNode{Child: &qsn.CollScanNode{Namespace: "test"}, Limit: 3}

	reqs := NewRequirements().Set(Result)
	phys, _, err := translateLimit(b, node, reqs.withTailableResumeBranch(true))
	require.NoError(err)

	_, ok := phys.(*sbe.LimitSkipNode)
	require.False(ok, "limit must not be emitted inside a tailable resume branch")
	_, ok = phys.(*sbe.CollScanNode)
	require.True(ok)
}
