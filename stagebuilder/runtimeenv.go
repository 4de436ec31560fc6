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
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"

	"github.com/dolthub/stagebuilder/sbe"
)

// Named runtime-environment slots. Only these three names are
// contractual: timeZoneDB is always installed, collator iff the query
// has one, resumeRecordId iff a tailable union is being built.
const (
	RuntimeSlotTimeZoneDB     = "timeZoneDB"
	RuntimeSlotCollator       = "collator"
	RuntimeSlotResumeRecordID = "resumeRecordId"
)

// RuntimeEnvironment is a process-wide-per-build registry of named
// global slots, installed once before translation starts and consulted
// by translators throughout the build. Slot ids it hands out are owned
// by the same SlotIDGenerator as every local slot, so global and local
// slots never collide.
type RuntimeEnvironment struct {
	gen    *SlotIDGenerator
	named  map[string]sbe.SlotID
	values map[string]any
}

func NewRuntimeEnvironment(gen *SlotIDGenerator) *RuntimeEnvironment {
	return &RuntimeEnvironment{gen: gen, named: map[string]sbe.SlotID{}, values: map[string]any{}}
}

// Register installs a new named global slot with its initial value. It
// is a contract violation to register the same name twice.
func (e *RuntimeEnvironment) Register(name string, initial any) sbe.SlotID {
	if _, ok := e.named[name]; ok {
		panic(fmt.Errorf("stage builder: runtime environment slot %q already registered", name))
	}
	id := e.gen.Next()
	e.named[name] = id
	e.values[name] = initial
	return id
}

// Slot returns the slot id for name and whether it has been registered.
func (e *RuntimeEnvironment) Slot(name string) (sbe.SlotID, bool) {
	id, ok := e.named[name]
	return id, ok
}

// Dump renders the environment's names, slot ids and initial values in
// a stable order, for the debug-output channel described in the
// external-interfaces section.
func (e *RuntimeEnvironment) Dump() string {
	names := make([]string, 0, len(e.named))
	for n := range e.named {
		names = append(names, n)
	}
	sort.Strings(names)
	var b strings.Builder
	b.WriteString("runtimeEnvironment{")
	for i, n := range names {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s=%s(%s)", n, e.named[n], formatRuntimeValue(e.values[n]))
	}
	b.WriteString("}")
	return b.String()
}

// formatRuntimeValue renders a registered slot's initial value for the
// debug dump. Values arrive as loosely-typed any (nil, a sentinel
// sbe.Expr, a catalog.Collator) rather than a closed set of scalar
// types, so scalar coercion is attempted first and %v is the fallback
// for anything cast can't make sense of.
func formatRuntimeValue(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprintf("%v", v)
}
