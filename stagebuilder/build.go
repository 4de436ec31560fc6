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
	"context"

	goerrors "gopkg.in/src-d/go-errors.v1"

	"github.com/sirupsen/logrus"

	"github.com/dolthub/stagebuilder/qsn"
	"github.com/dolthub/stagebuilder/sbe"
)

// translatorFunc lowers one logical node, given the requirements its
// parent placed on it, into a physical subtree and the bindings that
// subtree actually satisfies.
type translatorFunc func(b *Builder, node qsn.Node, reqs Requirements) (sbe.Node, SlotBindings, error)

// Builder lowers one logical solution tree into one physical tree. It
// is single-use: calling Build twice on the same instance is a
// contract violation. All of its fields are mutated exclusively during
// Build by this one instance, consistent with the single-threaded
// cooperative concurrency model.
type Builder struct {
	ctx   context.Context
	query *CanonicalQuery

	slotGen  *SlotIDGenerator
	frameGen *FrameIDGenerator
	spoolGen *SpoolIDGenerator
	env      *RuntimeEnvironment

	translators map[qsn.Tag]translatorFunc

	log *logrus.Entry

	built bool
}

// New constructs a builder for a single logical tree. ctx is consulted
// by catalog lookups the translators perform (e.g. resolving an index
// descriptor or FTS matcher); the builder itself never blocks on it.
func New(ctx context.Context, query *CanonicalQuery) *Builder {
	slotGen := NewSlotIDGenerator()
	b := &Builder{
		ctx:      ctx,
		query:    query,
		slotGen:  slotGen,
		frameGen: NewFrameIDGenerator(),
		spoolGen: NewSpoolIDGenerator(),
		env:      NewRuntimeEnvironment(slotGen),
		log:      logrus.WithField("component", "stagebuilder"),
	}
	b.translators = map[qsn.Tag]translatorFunc{
		qsn.CollScan:         translateCollScan,
		qsn.VirtualScan:      translateVirtualScan,
		qsn.IxScan:           translateIxScan,
		qsn.Fetch:            translateFetch,
		qsn.Limit:            translateLimit,
		qsn.Skip:             translateSkip,
		qsn.SortSimple:       translateSort,
		qsn.SortDefault:      translateSort,
		qsn.SortKeyGenerator: translateSortKeyGenerator,
		qsn.ProjSimple:       translateProjSimple,
		qsn.ProjCovered:      translateProjCovered,
		qsn.ProjDefault:      translateProjDefault,
		qsn.Or:               translateOr,
		qsn.TextOr:           translateOr,
		qsn.TextMatch:        translateTextMatch,
		qsn.ReturnKey:        translateReturnKey,
		qsn.EOF:              translateEOF,
		qsn.AndHash:          translateAndHash,
		qsn.AndSorted:        translateAndSorted,
		qsn.SortMerge:        translateSortMerge,
		qsn.ShardingFilter:   translateShardingFilter,
	}
	return b
}

// Build lowers root under top-level requirements reqs. It installs the
// mandatory timeZoneDB runtime slot, dispatches recursively, enforces
// the top-level postconditions (result/oplogTs/recordId presence when
// requested), and returns the produced envelope.
//
// Build may be called exactly once per Builder instance.
func (b *Builder) Build(root qsn.Node, reqs Requirements) (phys sbe.Node, data PlanStageData, err error) {
	if b.built {
		return nil, PlanStageData{}, ErrBuilderAlreadyUsed.New()
	}
	b.built = true

	defer func() {
		if r := recover(); r != nil {
			if ge, ok := r.(*goerrors.Error); ok {
				err = ge
				return
			}
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	b.env.Register(RuntimeSlotTimeZoneDB, nil)
	if b.query.Collator != nil {
		b.env.Register(RuntimeSlotCollator, b.query.Collator)
	}

	flags := scanTailablePrelude(root)
	if flags.NeedsOplogTimestamp {
		reqs = reqs.Clone().Set(OplogTS)
	}

	phys, bindings := b.build(root, reqs)

	if reqs.Has(Result) {
		tassert(bindings.Has(Result), ErrMissingOutputSlot.New("result"))
	}
	if flags.NeedsOplogTimestamp {
		tassert(bindings.Has(OplogTS), ErrMissingOutputSlot.New("oplogTs"))
	}
	if reqs.Has(RecordID) {
		tassert(bindings.Has(RecordID), ErrMissingOutputSlot.New("recordId"))
	}

	data = PlanStageData{
		RuntimeEnv:                      b.env,
		TopLevelBindings:                bindings,
		ShouldTrackLatestOplogTimestamp: flags.NeedsOplogTimestamp,
		ShouldTrackResumeToken:          flags.Tailable,
		ShouldUseTailableScan:           flags.Tailable,
	}
	return phys, data, nil
}

// build is the recursive dispatcher. Before consulting the translator
// table it applies the tailable-union diversion: a collscan/limit/skip
// node, under a tailable query, not already inside a tailable-union
// build, is redirected to buildTailableUnion instead of its ordinary
// translator.
func (b *Builder) build(node qsn.Node, reqs Requirements) (sbe.Node, SlotBindings) {
	if b.query.Tailable && !reqs.IsBuildingTailableUnion() {
		switch node.Tag() {
		case qsn.CollScan, qsn.Limit, qsn.Skip:
			return b.buildTailableUnion(node, reqs)
		}
	}

	fn, ok := b.translators[node.Tag()]
	tassert(ok, ErrUnknownNodeKind.New(node.Tag()))

	b.log.WithFields(logrus.Fields{
		"plan_node_id": node.PlanNodeID(),
		"kind":         node.Tag().String(),
		"requirements": reqs.Names(),
	}).Debug("lowering logical node")

	phys, bindings, err := fn(b, node, reqs)
	if err != nil {
		panic(err)
	}
	if err := bindings.CheckSatisfies(reqs); err != nil {
		panic(err)
	}
	return phys, bindings
}

type prelude struct {
	Tailable            bool
	NeedsOplogTimestamp bool
}

// scanTailablePrelude walks the logical tree once looking for the
// collscan or virtual-scan node that determines the query's tailable
// and oplog-tracking flags, per the external-interfaces contract.
func scanTailablePrelude(n qsn.Node) prelude {
	switch t := n.(type) {
	case *qsn.CollScanNode:
		return prelude{Tailable: t.Tailable, NeedsOplogTimestamp: t.TrackOplogTS}
	case *qsn.VirtualScanNode:
		return prelude{}
	}
	for _, c := range n.Children() {
		if p := scanTailablePrelude(c); p.Tailable || p.NeedsOplogTimestamp {
			return p
		}
	}
	return prelude{}
}
