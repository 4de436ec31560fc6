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

import "fmt"

// PlanStageData is the outbound envelope returned alongside the
// physical root: the runtime environment, the top-level slot bindings,
// and three flags precomputed by a single prelude scan over the
// logical tree that locates a collscan or virtual-scan node.
type PlanStageData struct {
	RuntimeEnv                      *RuntimeEnvironment
	TopLevelBindings                SlotBindings
	ShouldTrackLatestOplogTimestamp bool
	ShouldTrackResumeToken          bool
	ShouldUseTailableScan           bool
}

// Debug renders the top-level result/recordId/oplogTs slot ids followed
// by the runtime-environment dump, matching the debug-output channel
// described in the external-interfaces section.
func (d PlanStageData) Debug() string {
	result, _ := d.TopLevelBindings.Get(Result)
	recordID, _ := d.TopLevelBindings.Get(RecordID)
	oplogTS, _ := d.TopLevelBindings.Get(OplogTS)
	return fmt.Sprintf("result=%s recordId=%s oplogTs=%s %s", result, recordID, oplogTS, d.RuntimeEnv.Dump())
}
