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

// Package database defines the downstream collaborator a RaftController
// hands committed log entries to. A real deployment would persist these
// to a state machine or a disk-backed store; this simulator only needs
// the seam to exist so RaftController's output wiring matches the
// protocol's actual shape. Sink's only built-in implementation,
// NullSink, discards everything.
package database

import (
	"time"

	"github.com/PDesa16/raftdevs/internal/raftmsg"
)

// Message is what a RaftController hands to its database sink once an
// entry reaches its commit index: the entry itself plus the metadata
// needed to apply it in order.
type Message struct {
	NodeID    raftmsg.NodeID
	Index     int
	Term      int
	Entry     raftmsg.LogEntry
	Timestamp time.Duration
}

// Sink receives committed entries in commit order. Implementations must
// not block; RaftController calls Accept synchronously from within its
// own transition functions.
type Sink interface {
	Accept(Message) error
}

// NullSink discards every message it receives. It is the default Sink
// for a Simulation that was not given one explicitly.
type NullSink struct{}

// Accept always succeeds and does nothing.
func (NullSink) Accept(Message) error { return nil }

// RecordingSink accumulates every message it receives, in the order
// Accept was called. It is intended for tests and for the batch runner's
// post-run inspection, not for production use.
type RecordingSink struct {
	Messages []Message
}

// Accept appends msg to the recording and always succeeds.
func (s *RecordingSink) Accept(msg Message) error {
	s.Messages = append(s.Messages, msg)
	return nil
}
