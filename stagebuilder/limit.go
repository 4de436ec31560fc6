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

// translateLimit lowers a limit. If the child is a skip, the two fuse
// into a single LimitSkip operator rather than two passes. Inside the
// resume branch of a tailable union, limits apply only to the initial
// anchor branch, so the operator is suppressed entirely and the child
// is built directly under the parent's requirements.
func translateLimit(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	l := n.(*qsn.LimitNode)

	if skip, ok := l.Child.(*qsn.SkipNode); ok {
		childPhys, bindings := b.build(skip.Child, reqs)
		if reqs.IsTailableResumeBranch() {
			return childPhys, bindings, nil
		}
		limit := l.Limit
		return &sbe.LimitSkipNode{Child: childPhys, Limit: &limit, Skip: skip.Skip}, bindings, nil
	}

	childPhys, bindings := b.build(l.Child, reqs)
	if reqs.IsTailableResumeBranch() {
		return childPhys, bindings, nil
	}
	limit := l.Limit
	return &sbe.LimitSkipNode{Child: childPhys, Limit: &limit}, bindings, nil
}
