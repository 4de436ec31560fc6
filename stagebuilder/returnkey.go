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
	"github.com/dolthub/stagebuilder/qsn"
	"github.com/dolthub/stagebuilder/sbe"
)

// translateReturnKey demands returnKey from the child, then rebinds
// the child's returnKey slot as the parent-visible result.
func translateReturnKey(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	rk := n.(*qsn.ReturnKeyNode)

	childReqs := reqs.Clone().Clear(Result).Set(ReturnKey)
	childPhys, childBindings := b.build(rk.Child, childReqs)
	returnKeySlot := childBindings.MustGet(ReturnKey)

	bindings := childBindings.Clone()
	if reqs.Has(Result) {
		bindings = bindings.Set(Result, returnKeySlot)
	}
	if !reqs.Has(ReturnKey) {
		bindings = removeBinding(bindings, ReturnKey)
	}
	return childPhys, bindings, nil
}
