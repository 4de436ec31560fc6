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

// Package testutil provides map-backed fakes for the catalog interfaces
// stagebuilder depends on, in the style of the teacher's own
// sql/test_util package: plain structs, no mocking framework.
package testutil

import (
	"context"
	"fmt"

	"github.com/dolthub/stagebuilder/catalog"
)

// Lookup is a fake catalog.Lookup backed by a map of namespace/index
// name to descriptor.
type Lookup struct {
	descriptors map[string]*catalog.IndexDescriptor
}

// NewLookup builds a Lookup from a flat list of descriptors, keyed by
// namespace and descriptor name.
func NewLookup(namespace string, descriptors ...*catalog.IndexDescriptor) *Lookup {
	l := &Lookup{descriptors: map[string]*catalog.IndexDescriptor{}}
	for _, d := range descriptors {
		l.descriptors[namespace+"."+d.Name] = d
	}
	return l
}

func (l *Lookup) IndexDescriptor(_ context.Context, namespace, indexName string) (*catalog.IndexDescriptor, error) {
	d, ok := l.descriptors[namespace+"."+indexName]
	if !ok {
		return nil, fmt.Errorf("testutil: no index %q in namespace %q", indexName, namespace)
	}
	return d, nil
}

// FTSMatcher is a fake catalog.FTSMatcher that matches any document
// containing Term as a value of Field.
type FTSMatcher struct {
	Field, Term string
}

func (m FTSMatcher) Matches(doc map[string]any) bool {
	v, ok := doc[m.Field]
	if !ok {
		return false
	}
	s, ok := v.(string)
	return ok && s == m.Term
}

// FTSLookup is a fake catalog.FTSLookup backed by a map of index name to
// matcher.
type FTSLookup struct {
	matchers map[string]catalog.FTSMatcher
}

func NewFTSLookup(byIndex map[string]catalog.FTSMatcher) *FTSLookup {
	return &FTSLookup{matchers: byIndex}
}

func (l *FTSLookup) Matcher(_ context.Context, _ string, indexName string) (catalog.FTSMatcher, error) {
	m, ok := l.matchers[indexName]
	if !ok {
		return nil, fmt.Errorf("testutil: no FTS matcher for index %q", indexName)
	}
	return m, nil
}

// ShardFilterer is a fake catalog.ShardFilterer that belongs-checks a
// single shard key field against an allowed set of values.
type ShardFilterer struct {
	Field  string
	Allow  map[any]bool
}

func (f ShardFilterer) KeyBelongsToShard(shardKey map[string]any) bool {
	v, ok := shardKey[f.Field]
	if !ok {
		return false
	}
	return f.Allow[v]
}

// ShardFiltererFactory is a fake catalog.ShardFiltererFactory that hands
// back the same ShardFilterer regardless of namespace.
type ShardFiltererFactory struct {
	Filterer catalog.ShardFilterer
	Err      error
}

func (f ShardFiltererFactory) New(_ context.Context, _ string) (catalog.ShardFilterer, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Filterer, nil
}

// ReadAvailabilityChecker is a fake catalog.ReadAvailabilityChecker that
// always reports the target namespace as available.
type ReadAvailabilityChecker struct{}

func (ReadAvailabilityChecker) CheckReadAvailable(context.Context, string) error { return nil }

// Collator is a fake catalog.Collator identified by its spec string.
type Collator string

func (c Collator) CollationSpec() string { return string(c) }
