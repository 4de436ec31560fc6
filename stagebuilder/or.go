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
	"github.com/hashicorp/go-multierror"

	"github.com/dolthub/stagebuilder/qsn"
	"github.com/dolthub/stagebuilder/sbe"
)

// translateOr lowers both Or and TextOr nodes (their contracts are
// identical): it builds a union whose output slot vector is freshly
// allocated, with each branch contributing its own slot vector in the
// same order. If dedup is set, it requires recordId from each branch
// and layers a unique operator on recordId. If there is a residual
// filter, it requires result from each branch and applies the filter
// after the union.
func translateOr(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	var subnodes []qsn.Node
	var dedup bool
	var filter sbe.Expr
	switch o := n.(type) {
	case *qsn.OrNode:
		subnodes, dedup, filter = o.Subnodes, o.Dedup, o.Filter
	case *qsn.TextOrNode:
		subnodes, dedup, filter = o.Subnodes, o.Dedup, o.Filter
	default:
		return nil, SlotBindings{}, ErrUnsupportedNodeKind.New(n.Tag())
	}

	childReqs := reqs.Clone()
	if dedup {
		childReqs = childReqs.Set(RecordID)
	}
	if filter != nil {
		childReqs = childReqs.Set(Result)
	}

	forwardNames := childReqs.Names()

	branches := make([]sbe.Node, len(subnodes))
	branchSlots := make([][]sbe.SlotID, len(subnodes))

	var errs *multierror.Error
	for i, sub := range subnodes {
		func() {
			defer func() {
				if r := recover(); r != nil {
					if e, ok := r.(error); ok {
						errs = multierror.Append(errs, e)
						return
					}
					panic(r)
				}
			}()
			phys, bindings := b.build(sub, childReqs)
			slots := make([]sbe.SlotID, len(forwardNames))
			for j, name := range forwardNames {
				slots[j] = bindings.MustGet(name)
			}
			branches[i] = phys
			branchSlots[i] = slots
		}()
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, SlotBindings{}, err
	}

	out := b.slotGen.NextN(len(forwardNames))
	union := &sbe.UnionNode{Branches: branches, BranchSlots: branchSlots, OutputSlots: out}

	bindings := NewSlotBindings()
	for i, name := range forwardNames {
		bindings = bindings.Set(name, out[i])
	}

	var phys sbe.Node = union
	if dedup {
		phys = &sbe.UniqueNode{Child: phys, KeySlots: []sbe.SlotID{bindings.MustGet(RecordID)}}
	}
	if filter != nil {
		phys = &sbe.FilterNode{Child: phys, Predicate: filter}
	}

	if !reqs.Has(RecordID) && dedup {
		bindings = removeBinding(bindings, RecordID)
	}
	if !reqs.Has(Result) && filter != nil {
		bindings = removeBinding(bindings, Result)
	}

	return phys, bindings, nil
}
