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

// Package qsn models the logical query-solution tree the stage builder
// consumes: the planner's output, one node per logical operation. It is
// an input data model only — qsn never decides how a node is executed,
// it just carries the shape and payload the builder reads.
package qsn

import "github.com/dolthub/stagebuilder/sbe"

// Tag is the closed set of logical node kinds the builder understands.
type Tag int

const (
	CollScan Tag = iota
	VirtualScan
	IxScan
	Fetch
	Limit
	Skip
	SortSimple
	SortDefault
	SortKeyGenerator
	ProjSimple
	ProjCovered
	ProjDefault
	Or
	TextOr
	TextMatch
	ReturnKey
	EOF
	AndHash
	AndSorted
	SortMerge
	ShardingFilter
)

func (t Tag) String() string {
	switch t {
	case CollScan:
		return "COLLSCAN"
	case VirtualScan:
		return "VIRTUAL_SCAN"
	case IxScan:
		return "IXSCAN"
	case Fetch:
		return "FETCH"
	case Limit:
		return "LIMIT"
	case Skip:
		return "SKIP"
	case SortSimple:
		return "SORT_SIMPLE"
	case SortDefault:
		return "SORT_DEFAULT"
	case SortKeyGenerator:
		return "SORT_KEY_GENERATOR"
	case ProjSimple:
		return "PROJECTION_SIMPLE"
	case ProjCovered:
		return "PROJECTION_COVERED"
	case ProjDefault:
		return "PROJECTION_DEFAULT"
	case Or:
		return "OR"
	case TextOr:
		return "TEXT_OR"
	case TextMatch:
		return "TEXT_MATCH"
	case ReturnKey:
		return "RETURN_KEY"
	case EOF:
		return "EOF"
	case AndHash:
		return "AND_HASH"
	case AndSorted:
		return "AND_SORTED"
	case SortMerge:
		return "SORT_MERGE"
	case ShardingFilter:
		return "SHARDING_FILTER"
	default:
		return "UNKNOWN"
	}
}

// KeyPatternField is one dotted-path component of an index key pattern.
type KeyPatternField struct {
	Path       string
	Descending bool
}

// SortPatternPart is one component of a sort pattern.
type SortPatternPart struct {
	Path       string
	Descending bool
}

// Node is the common shape of every logical node: a tag for dispatch, a
// stable id for provenance, and children for generic tree walks (e.g.
// the PlanStageData prelude scan).
type Node interface {
	Tag() Tag
	PlanNodeID() int64
	Children() []Node
}

type base struct {
	ID int64
}

func (b base) PlanNodeID() int64 { return b.ID }

// CollScanNode is a forward collection scan, optionally tailable and
// optionally tracking the latest oplog timestamp it observes.
type CollScanNode struct {
	base
	Namespace    string
	Tailable     bool
	TrackOplogTS bool
	Filter       sbe.Expr
}

func (*CollScanNode) Tag() Tag           { return CollScan }
func (*CollScanNode) Children() []Node   { return nil }

// VirtualScanNode iterates inline documents, optionally simulating an
// index scan over KeyPattern.
type VirtualScanNode struct {
	base
	Docs               []map[string]any
	SimulatesIxScan    bool
	KeyPattern         []KeyPatternField
}

func (*VirtualScanNode) Tag() Tag         { return VirtualScan }
func (*VirtualScanNode) Children() []Node { return nil }

// IxScanNode scans a named index over its key pattern.
type IxScanNode struct {
	base
	IndexName  string
	KeyPattern []KeyPatternField
	Multikey   bool
}

func (*IxScanNode) Tag() Tag         { return IxScan }
func (*IxScanNode) Children() []Node { return nil }

// FetchNode joins a child producing recordIds against the full document.
type FetchNode struct {
	base
	Child  Node
	Filter sbe.Expr
}

func (n *FetchNode) Tag() Tag         { return Fetch }
func (n *FetchNode) Children() []Node { return []Node{n.Child} }

// LimitNode caps the number of rows its child produces.
type LimitNode struct {
	base
	Child Node
	Limit int64
}

func (n *LimitNode) Tag() Tag         { return Limit }
func (n *LimitNode) Children() []Node { return []Node{n.Child} }

// SkipNode discards the first Skip rows from its child.
type SkipNode struct {
	base
	Child Node
	Skip  int64
}

func (n *SkipNode) Tag() Tag         { return Skip }
func (n *SkipNode) Children() []Node { return []Node{n.Child} }

// SortSimpleNode is one of the two sort kinds. The stage builder picks
// the sort-key regime from Pattern alone (fast when no two parts share
// a top-level field), not from the node kind.
type SortSimpleNode struct {
	base
	Child   Node
	Pattern []SortPatternPart
	Limit   int64 // 0 means unlimited
}

func (n *SortSimpleNode) Tag() Tag         { return SortSimple }
func (n *SortSimpleNode) Children() []Node { return []Node{n.Child} }

// SortDefaultNode is the other sort kind; it is lowered exactly like
// SortSimpleNode, with the regime chosen from Pattern.
type SortDefaultNode struct {
	base
	Child   Node
	Pattern []SortPatternPart
	Limit   int64
}

func (n *SortDefaultNode) Tag() Tag         { return SortDefault }
func (n *SortDefaultNode) Children() []Node { return []Node{n.Child} }

// SortKeyGeneratorNode is a planner artifact this builder does not
// support lowering; it exists to be rejected with a contract-violation
// error rather than silently miscompiled.
type SortKeyGeneratorNode struct {
	base
	Child   Node
	Pattern []SortPatternPart
}

func (n *SortKeyGeneratorNode) Tag() Tag         { return SortKeyGenerator }
func (n *SortKeyGeneratorNode) Children() []Node { return []Node{n.Child} }

// ProjSimpleNode keeps only Fields of the child's result.
type ProjSimpleNode struct {
	base
	Child  Node
	Fields []string
}

func (n *ProjSimpleNode) Tag() Tag         { return ProjSimple }
func (n *ProjSimpleNode) Children() []Node { return []Node{n.Child} }

// ProjCoveredNode builds its output directly from index-key slots
// without requiring the child to fetch a full document.
type ProjCoveredNode struct {
	base
	Child  Node
	Fields []string
}

func (n *ProjCoveredNode) Tag() Tag         { return ProjCovered }
func (n *ProjCoveredNode) Children() []Node { return []Node{n.Child} }

// ProjDefaultNode delegates to the (out-of-scope) projection expression
// sub-builder, identified here only by an opaque Spec value.
type ProjDefaultNode struct {
	base
	Child Node
	Spec  any
}

func (n *ProjDefaultNode) Tag() Tag         { return ProjDefault }
func (n *ProjDefaultNode) Children() []Node { return []Node{n.Child} }

// OrNode unions its children, optionally deduplicating by recordId and
// optionally applying a residual Filter.
type OrNode struct {
	base
	Subnodes []Node
	Dedup    bool
	Filter   sbe.Expr
}

func (n *OrNode) Tag() Tag         { return Or }
func (n *OrNode) Children() []Node { return n.Subnodes }

// TextOrNode is OrNode's text-index counterpart; same contract.
type TextOrNode struct {
	base
	Subnodes []Node
	Dedup    bool
	Filter   sbe.Expr
}

func (n *TextOrNode) Tag() Tag         { return TextOr }
func (n *TextOrNode) Children() []Node { return n.Subnodes }

// TextMatchNode applies a compiled FTS query against its (fetched)
// child's full document.
type TextMatchNode struct {
	base
	Child     Node
	IndexName string
	FTSQuery  map[string]any
}

func (n *TextMatchNode) Tag() Tag         { return TextMatch }
func (n *TextMatchNode) Children() []Node { return []Node{n.Child} }

// ReturnKeyNode demands returnKey from its child and rebinds it as the
// parent-visible result.
type ReturnKeyNode struct {
	base
	Child Node
}

func (n *ReturnKeyNode) Tag() Tag         { return ReturnKey }
func (n *ReturnKeyNode) Children() []Node { return []Node{n.Child} }

// EOFNode is a planner-recognized empty result set.
type EOFNode struct {
	base
}

func (*EOFNode) Tag() Tag         { return EOF }
func (*EOFNode) Children() []Node { return nil }

// AndHashNode intersects its children via hash join on recordId.
type AndHashNode struct {
	base
	Subnodes []Node
}

func (n *AndHashNode) Tag() Tag         { return AndHash }
func (n *AndHashNode) Children() []Node { return n.Subnodes }

// AndSortedNode intersects its children via merge join on recordId;
// each child must already produce recordId in ascending order.
type AndSortedNode struct {
	base
	Subnodes []Node
}

func (n *AndSortedNode) Tag() Tag         { return AndSorted }
func (n *AndSortedNode) Children() []Node { return n.Subnodes }

// SortMergeNode merges children already sorted on (possibly
// differently-ordered) index keys matching Pattern.
type SortMergeNode struct {
	base
	Subnodes []Node
	Pattern  []SortPatternPart
	Dedup    bool
}

func (n *SortMergeNode) Tag() Tag         { return SortMerge }
func (n *SortMergeNode) Children() []Node { return n.Subnodes }

// ShardingFilterNode drops rows that are not owned by the current
// shard.
type ShardingFilterNode struct {
	base
	Child Node
}

func (n *ShardingFilterNode) Tag() Tag         { return ShardingFilter }
func (n *ShardingFilterNode) Children() []Node { return []Node{n.Child} }

// NewID is a convenience for tests constructing logical trees by hand;
// production callers set PlanNodeID from the upstream planner directly.
func NewID(id int64) base { return base{ID: id} }
