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

package sbe

import (
	"fmt"
	"strings"

	"github.com/dolthub/stagebuilder/catalog"
)

// Node is a physical stage in the produced execution tree. Every
// constructor in this file is a thin struct literal; composing them is
// the stage builder's whole job. None of them carry an Execute method —
// execution semantics are explicitly out of scope for this module.
type Node interface {
	fmt.Stringer
	Children() []Node
}

func indentChildren(name string, fields string, children ...Node) string {
	var b strings.Builder
	b.WriteString(name)
	if fields != "" {
		b.WriteString(" ")
		b.WriteString(fields)
	}
	for _, c := range children {
		if c == nil {
			continue
		}
		b.WriteString("\n")
		for _, line := range strings.Split(c.String(), "\n") {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// CollScanNode is a forward or reverse scan of a collection, optionally
// seeking a recordId bound (used by the fetch loop-join's inner side)
// and optionally tracking the latest oplog timestamp it observes.
type CollScanNode struct {
	Namespace       string
	Forward         bool
	SeekRecordIDLow Expr // nil unless this is a seek-to-recordId scan
	Limit           *int64
	Filter          Expr
	ResultSlot      *SlotID
	RecordIDSlot    *SlotID
	OplogTSSlot     *SlotID
	TrackOplogTS    bool
	ReadAvailCheck  catalog.ReadAvailabilityChecker
}

func (n *CollScanNode) Children() []Node { return nil }
func (n *CollScanNode) String() string {
	return indentChildren("CollScan", fmt.Sprintf("ns=%s forward=%v result=%v recordId=%v", n.Namespace, n.Forward, n.ResultSlot, n.RecordIDSlot))
}

// VirtualScanNode iterates an inline array of constant documents,
// optionally projecting index-key components out of each document when
// it is standing in for an index scan.
type VirtualScanNode struct {
	Docs            []map[string]any
	ResultSlot      *SlotID
	RecordIDSlot    *SlotID
	IndexKeySlots   []SlotID
	SimulatesIxScan bool
}

func (n *VirtualScanNode) Children() []Node { return nil }
func (n *VirtualScanNode) String() string {
	return indentChildren("VirtualScan", fmt.Sprintf("docs=%d simIx=%v keys=%v", len(n.Docs), n.SimulatesIxScan, n.IndexKeySlots))
}

// IxScanNode scans an index, producing one slot per requested key
// pattern component plus (unless the index is covered-for-record-id
// only) a recordId slot.
type IxScanNode struct {
	IndexName      string
	KeyPattern     []catalog.KeyPatternField
	KeySlots       []SlotID // aligned to the bits requested, zero entries for unrequested positions
	RecordIDSlot   *SlotID
	Forward        bool
	ReadAvailCheck catalog.ReadAvailabilityChecker
}

func (n *IxScanNode) Children() []Node { return nil }
func (n *IxScanNode) String() string {
	return indentChildren("IxScan", fmt.Sprintf("index=%s keySlots=%v recordId=%v", n.IndexName, n.KeySlots, n.RecordIDSlot))
}

// ProjectNode evaluates a set of expressions into fresh slots, carrying
// the child's output through unchanged.
type ProjectNode struct {
	Child       Node
	Projections map[SlotID]Expr
}

func (n *ProjectNode) Children() []Node { return []Node{n.Child} }
func (n *ProjectNode) String() string {
	return indentChildren("Project", fmt.Sprintf("projections=%v", n.Projections), n.Child)
}

// MakeObjNode evaluates NewObjExpr-shaped field lists into a single
// fresh output slot.
type MakeObjNode struct {
	Child      Node
	OutputSlot SlotID
	Fields     []ObjField
}

func (n *MakeObjNode) Children() []Node { return []Node{n.Child} }
func (n *MakeObjNode) String() string {
	return indentChildren("MakeObj", fmt.Sprintf("out=%s fields=%d", n.OutputSlot, len(n.Fields)), n.Child)
}

// FilterNode drops rows whose Predicate does not evaluate truthy.
type FilterNode struct {
	Child     Node
	Predicate Expr
}

func (n *FilterNode) Children() []Node { return []Node{n.Child} }
func (n *FilterNode) String() string {
	return indentChildren("Filter", fmt.Sprintf("pred=%s", n.Predicate), n.Child)
}

// SortNode sorts its child's rows by a vector of already-computed
// sort-key slots.
type SortNode struct {
	Child            Node
	KeySlots         []SlotID
	Directions       []Direction
	CarriedSlots     []SlotID
	Limit            *int64
	MemoryLimitBytes int64
	AllowDiskUse     bool
}

func (n *SortNode) Children() []Node { return []Node{n.Child} }
func (n *SortNode) String() string {
	return indentChildren("Sort", fmt.Sprintf("keys=%v dirs=%v limit=%v spill=%v", n.KeySlots, n.Directions, n.Limit, n.AllowDiskUse), n.Child)
}

// HashJoinNode folds a build-side (Inner) hash table keyed on
// InnerCondSlot, probed by Outer on OuterCondSlot.
type HashJoinNode struct {
	Outer, Inner      Node
	OuterCondSlot     SlotID
	InnerCondSlot     SlotID
	OuterProjectSlots []SlotID
	InnerProjectSlots []SlotID
	Collator          *SlotID
}

func (n *HashJoinNode) Children() []Node { return []Node{n.Outer, n.Inner} }
func (n *HashJoinNode) String() string {
	return indentChildren("HashJoin", fmt.Sprintf("outerKey=%s innerKey=%s", n.OuterCondSlot, n.InnerCondSlot), n.Outer, n.Inner)
}

// MergeJoinNode merges two inputs already sorted on their respective
// key slots.
type MergeJoinNode struct {
	Outer, Inner      Node
	OuterKeySlot      SlotID
	InnerKeySlot      SlotID
	Direction         Direction
	OuterProjectSlots []SlotID
	InnerProjectSlots []SlotID
}

func (n *MergeJoinNode) Children() []Node { return []Node{n.Outer, n.Inner} }
func (n *MergeJoinNode) String() string {
	return indentChildren("MergeJoin", fmt.Sprintf("outerKey=%s innerKey=%s dir=%s", n.OuterKeySlot, n.InnerKeySlot, n.Direction), n.Outer, n.Inner)
}

// LoopJoinNode evaluates Inner once per Outer row, with Outer's
// CorrelatedSlots visible to Inner (used to drive the fetch seek-by-
// recordId scan).
type LoopJoinNode struct {
	Outer, Inner    Node
	CorrelatedSlots []SlotID
	Predicate       Expr
}

func (n *LoopJoinNode) Children() []Node { return []Node{n.Outer, n.Inner} }
func (n *LoopJoinNode) String() string {
	return indentChildren("LoopJoin", fmt.Sprintf("correlated=%v", n.CorrelatedSlots), n.Outer, n.Inner)
}

// UnionNode merges rows from N branches, remapping each branch's own
// slot vector onto a single freshly allocated output vector.
type UnionNode struct {
	Branches    []Node
	BranchSlots [][]SlotID
	OutputSlots []SlotID
}

func (n *UnionNode) Children() []Node { return n.Branches }
func (n *UnionNode) String() string {
	return indentChildren("Union", fmt.Sprintf("out=%v", n.OutputSlots), n.Branches...)
}

// SortedMergeNode merges N branches already sorted on their own
// (possibly differently-positioned) key slots, remapped via
// BranchKeySlots into a common key order.
type SortedMergeNode struct {
	Branches       []Node
	BranchKeySlots [][]SlotID
	Directions     []Direction
	BranchSlots    [][]SlotID
	OutputSlots    []SlotID
}

func (n *SortedMergeNode) Children() []Node { return n.Branches }
func (n *SortedMergeNode) String() string {
	return indentChildren("SortedMerge", fmt.Sprintf("dirs=%v out=%v", n.Directions, n.OutputSlots), n.Branches...)
}

// UniqueNode drops rows whose KeySlots tuple repeats one already seen.
type UniqueNode struct {
	Child    Node
	KeySlots []SlotID
}

func (n *UniqueNode) Children() []Node { return []Node{n.Child} }
func (n *UniqueNode) String() string {
	return indentChildren("Unique", fmt.Sprintf("keys=%v", n.KeySlots), n.Child)
}

// LimitSkipNode applies skip-then-limit in a single pass.
type LimitSkipNode struct {
	Child Node
	Limit *int64
	Skip  int64
}

func (n *LimitSkipNode) Children() []Node { return []Node{n.Child} }
func (n *LimitSkipNode) String() string {
	return indentChildren("LimitSkip", fmt.Sprintf("limit=%v skip=%d", n.Limit, n.Skip), n.Child)
}

// EOFNode produces zero rows but still binds OutputSlots, each to
// Nothing, so a slot accessor anywhere above it never faults on a
// missing slot.
type EOFNode struct {
	OutputSlots []SlotID
}

func (n *EOFNode) Children() []Node { return nil }
func (n *EOFNode) String() string {
	return indentChildren("EOF", fmt.Sprintf("out=%v", n.OutputSlots))
}
