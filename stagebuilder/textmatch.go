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

// translateTextMatch lowers a text-match node: it recurses with result
// required, resolves the FTS matcher from the catalog at build time
// (failing hard if the referenced index or descriptor is absent),
// embeds a pointer to it as a compile-time constant in an ftsMatch
// expression guarded by an isObject check, and turns the match into a
// filter stage.
func translateTextMatch(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	tm := n.(*qsn.TextMatchNode)

	childReqs := reqs.Clone().Set(Result)
	childPhys, childBindings := b.build(tm.Child, childReqs)
	result, ok := childBindings.Get(Result)
	tassert(ok, ErrTextMatchNotFetched.New())

	if tm.FTSQuery == nil {
		return nil, SlotBindings{}, ErrMalformedFTSQuery.New(tm.IndexName)
	}

	if b.query.FTSLookup == nil {
		return nil, SlotBindings{}, ErrMissingFTSDescriptor.New(tm.IndexName)
	}
	matcher, err := b.query.FTSLookup.Matcher(b.ctx, b.query.Namespace, tm.IndexName)
	if err != nil || matcher == nil {
		return nil, SlotBindings{}, ErrMissingFTSDescriptor.New(tm.IndexName)
	}

	subject := sbe.SlotExpr{Slot: result}
	predicate := sbe.IfExpr{
		Cond: sbe.IsObject(subject),
		Then: sbe.FunctionCallExpr{Name: "ftsMatch", Args: []sbe.Expr{
			sbe.ConstExpr{Value: matcher},
			subject,
		}},
		Else: sbe.FailExpr{Code: "Error", Message: "text match subject must be an object"},
	}

	phys := &sbe.FilterNode{Child: childPhys, Predicate: predicate}
	bindings := childBindings
	if !reqs.Has(Result) {
		bindings = removeBinding(bindings, Result)
	}
	return phys, bindings, nil
}
