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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dolthub/stagebuilder/sbe"
)

func TestExplainRendersIndentedChildren(t *testing.T) {
	require := require.New(t)

	scan := &sbe.CollScanNode{Namespace: "test"}
	filter := &sbe.FilterNode{Child: scan, Predicate: sbe.NotExpr{Operand: sbe.IsArray(sbe.SlotExpr{Slot: 1})}}

	out := Explain(filter)
	lines := strings.Split(out, "\n")
	require.True(strings.HasPrefix(lines[0], "Filter "))
	require.True(strings.HasPrefix(lines[1], "  CollScan"))
}

func TestExplainNilRootIsNotAPanic(t *testing.T) {
	require.Equal(t, "<nil>", Explain(nil))
}
