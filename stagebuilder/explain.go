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

import "github.com/dolthub/stagebuilder/sbe"

// Explain renders the produced physical tree as a multi-line indented
// dump, one stage per line, children indented two spaces under their
// parent. It is a thin wrapper over sbe.Node.String()/Children() rather
// than a second tree-walking implementation, so a stage's rendering
// never drifts from the one its own String() method produces.
func Explain(root sbe.Node) string {
	if root == nil {
		return "<nil>"
	}
	return root.String()
}
