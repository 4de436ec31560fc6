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

// translateSkip lowers a standalone skip (one whose parent is not a
// limit, which would otherwise have fused the two together in
// translateLimit). Same tailable-resume-branch suppression as limit.
func translateSkip(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	s := n.(*qsn.SkipNode)

	childPhys, bindings := b.build(s.Child, reqs)
	if reqs.IsTailableResumeBranch() {
		return childPhys, bindings, nil
	}
	return &sbe.LimitSkipNode{Child: childPhys, Skip: s.Skip}, bindings, nil
}
