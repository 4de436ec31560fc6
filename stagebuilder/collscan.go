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

// translateCollScan lowers a forward collection scan. If returnKey was
// requested it projects the empty object into a fresh slot named
// returnKey — a collection scan has no index key to return, so the
// "key" it returns is always {}.
func translateCollScan(b *Builder, n qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error) {
	cs := n.(*qsn.CollScanNode)

	scan := &sbe.CollScanNode{
		Namespace:      cs.Namespace,
		Forward:        true,
		Filter:         cs.Filter,
		TrackOplogTS:   cs.TrackOplogTS,
		ReadAvailCheck: b.query.ReadAvailChecker,
	}

	bindings := NewSlotBindings()
	var phys sbe.Node = scan

	if reqs.Has(Result) {
		s := b.slotGen.Next()
		scan.ResultSlot = &s
		bindings = bindings.Set(Result, s)
	}
	if reqs.Has(RecordID) {
		s := b.slotGen.Next()
		scan.RecordIDSlot = &s
		bindings = bindings.Set(RecordID, s)
	}
	if reqs.Has(OplogTS) {
		tassert(cs.TrackOplogTS, ErrUnsupportedRequirement.New("collscan", "oplogTs"))
		s := b.slotGen.Next()
		scan.OplogTSSlot = &s
		bindings = bindings.Set(OplogTS, s)
	}
	if reqs.Has(ReturnKey) {
		out := b.slotGen.Next()
		phys = &sbe.MakeObjNode{Child: phys, OutputSlot: out, Fields: nil}
		bindings = bindings.Set(ReturnKey, out)
	}

	return phys, bindings, nil
}
