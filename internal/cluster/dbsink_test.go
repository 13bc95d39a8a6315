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
	"testing"
	"time"

	"github.com/PDesa16/raftdevs/internal/database"
	"github.com/PDesa16/raftdevs/internal/des"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
)

func TestDBSinkModelForwardsToRecordingSink(t *testing.T) {
	sink := &database.RecordingSink{}
	model := newDBSinkModel("db", sink)

	msg := database.Message{NodeID: raftmsg.NodeID("n0"), Index: 1, Term: 2}
	model.ExternalTransition(0, map[string][]any{portDBIn: {msg}})

	if len(sink.Messages) != 1 || sink.Messages[0] != msg {
		t.Fatalf("expected the message to reach the recording sink, got %+v", sink.Messages)
	}
	if model.TimeAdvance() != des.Infinity {
		t.Fatalf("expected the sink model to stay idle, got ta=%s", model.TimeAdvance())
	}
}

func TestDBSinkModelDefaultsToNullSinkWithoutPanicking(t *testing.T) {
	model := newDBSinkModel("db", nil)
	model.ExternalTransition(time.Millisecond, map[string][]any{
		portDBIn: {database.Message{NodeID: raftmsg.NodeID("n1")}},
	})
}
