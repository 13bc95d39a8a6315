/*
 * Copyright (c) 2026 Firefly Software Solutions Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package cluster

import (
	"time"

	"github.com/PDesa16/raftdevs/internal/database"
	"github.com/PDesa16/raftdevs/internal/des"
)

const portDBIn = "db_in"

// dbSinkModel is the atomic collaborator a RaftController's DatabaseOut
// port hands committed entries to, giving database.Sink a real consumer
// at the bottom of each node's db_out boundary chain. Every node in a
// Simulation is wired to the same Sink, so a caller gets one ordered
// view of whatever entries the base protocol ever commits.
type dbSinkModel struct {
	id   string
	sink database.Sink
	err  error
}

func newDBSinkModel(id string, sink database.Sink) *dbSinkModel {
	if sink == nil {
		sink = database.NullSink{}
	}
	return &dbSinkModel{id: id, sink: sink}
}

func (d *dbSinkModel) ID() string { return d.id }

func (d *dbSinkModel) ExternalTransition(_ time.Duration, inputs map[string][]any) {
	for _, v := range inputs[portDBIn] {
		msg, ok := v.(database.Message)
		if !ok {
			continue
		}
		if err := d.sink.Accept(msg); err != nil {
			d.err = err
		}
	}
}

func (d *dbSinkModel) Output() map[string][]any   { return nil }
func (d *dbSinkModel) InternalTransition()        {}
func (d *dbSinkModel) TimeAdvance() time.Duration { return des.Infinity }
