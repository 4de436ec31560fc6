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
)

func TestTranslateReturnKeyRebindsReturnKeyAsResult(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.ReturnKeyNode{Child: &qsn.IxScanNode{IndexName: "a_1", KeyPattern: []qsn.KeyPatternField{{Path: "a"}}}}

	_, bindings, err := translateReturnKey(b, node, NewRequirements().Set(Result))
	require.NoError(err)

	require.True(bindings.Has(Result))
	require.False(bindings.Has(ReturnKey), "returnKey is consumed, not forwarded, unless the parent also asked for it")
}

func TestTranslateReturnKeyKeepsReturnKeyWhenAlsoRequested(t *testing.T) {
	require := require.New(t)

	b := newTestBuilder(t, nil)
	node := &qsn.ReturnKeyNode{Child: &qsn.IxScanNode{IndexName: "a_1", KeyPattern: []qsn.KeyPatternField{{Path: "a"}}}}

	_, bindings, err := translateReturnKey(b, node, NewRequirements().Set(Result).Set(ReturnKey))
	require.NoError(err)

	require.True(bindings.Has(Result))
	require.True(bindings.Has(ReturnKey))
}
