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

/*
Package raftmsg defines the wire-level message types the simulation
passes between nodes: RequestVote, ResponseVote, and AppendEntries carried
inside a RaftMessage envelope, the LogEntry variants an AppendEntries can
carry, and the network-layer Packet/PacketEvent/MessageEvent wrappers that
give priority-queued delivery a release time to order on.

Message content is modeled as a tagged sum (an interface with an
unexported marker method) rather than a class hierarchy with runtime
downcasts, so dispatch on message kind is an exhaustive type switch.
Every type here is a plain value — copying a message is just a struct
copy — which is what makes it safe for Network to fan a broadcast packet
out to every peer without any shared mutable state.
*/
package raftmsg

import "time"

// NodeID identifies a cluster member. Broadcast is the wildcard
// destination meaning "every other active node."
type NodeID string

// Broadcast is the wildcard destination address.
const Broadcast NodeID = "*"

// Quorum returns the minimum number of granted votes a candidate with the
// given peer count (excluding itself) needs to win an election:
// ceil((len(peers)+1)/2), the "+1" counting the candidate's own vote.
// This is the literal formula from the source; for an even cluster size
// it can be satisfied without a strict majority of the full cluster (see
// DESIGN.md's note on the open question this preserves).
func Quorum(peerCount int) int {
	return (peerCount + 2) / 2
}

// HeartbeatStatus is exchanged between a RaftController and its
// HeartbeatController on the heartbeat port pair.
type HeartbeatStatus int

const (
	HeartbeatInit HeartbeatStatus = iota
	HeartbeatAlive
	HeartbeatTimeout
	HeartbeatUpdate
)

func (h HeartbeatStatus) String() string {
	switch h {
	case HeartbeatAlive:
		return "ALIVE"
	case HeartbeatTimeout:
		return "TIMEOUT"
	case HeartbeatUpdate:
		return "UPDATE"
	default:
		return "INIT"
	}
}

// Content is the sum type carried inside a RaftMessage: RequestVote,
// ResponseVote, or AppendEntries.
type Content interface {
	isRaftContent()
}

// RequestVote is a candidate's solicitation for a vote in a term.
type RequestVote struct {
	Term         int
	CandidateID  NodeID
	LastLogIndex int
	SignedDigest string
}

func (RequestVote) isRaftContent() {}

// ResponseVote is a voter's reply to a RequestVote.
type ResponseVote struct {
	Term         int
	VotedFor     NodeID
	LastLogIndex int
	VoteGranted  bool
	NodeID       NodeID
	SignedDigest string
}

func (ResponseVote) isRaftContent() {}

// AppendEntries is the leader's replication/heartbeat RPC.
type AppendEntries struct {
	Term         int
	LeaderID     NodeID
	PrevLogIndex int
	PrevLogTerm  int
	Entries      []LogEntry
	LeaderCommit int
	SignedDigest string
}

func (AppendEntries) isRaftContent() {}

// RaftMessage is the envelope exchanged between RaftControllers. Dest ==
// Broadcast means "every active node but Source."
type RaftMessage struct {
	Source  NodeID
	Dest    NodeID
	Content Content
}

// LogEntry is the sum type a committed message log holds: an election
// certificate, a heartbeat record, or a reserved external entry.
type LogEntry interface {
	isLogEntry()
}

// PingStatus distinguishes a heartbeat's direction.
type PingStatus int

const (
	Ping PingStatus = iota
	EchoResponse
)

// LogEntryRAFT is the leader's election certificate: the RequestVote it
// issued when it became a candidate, packaged with the quorum of
// ResponseVote messages that elected it. Followers independently
// validate the certificate before accepting it (the quorum check in the
// raft controller's AppendEntries handling).
type LogEntryRAFT struct {
	Request   RequestVote
	Responses []ResponseVote
}

func (LogEntryRAFT) isLogEntry() {}

// LogEntryHeartbeat records one heartbeat tick from the current leader.
type LogEntryHeartbeat struct {
	SenderID       NodeID
	SequenceNumber int
	Timestamp      time.Duration
	Status         PingStatus
}

func (LogEntryHeartbeat) isLogEntry() {}

// LogEntryExternal is reserved for client-facing application commands;
// the base protocol never constructs one.
type LogEntryExternal struct {
	Payload []byte
}

func (LogEntryExternal) isLogEntry() {}

// Packet is the network-layer envelope around a RaftMessage, carrying the
// time it was handed to the network in addition to its logical source
// and destination (which may be rewritten per-copy during broadcast
// fan-out, while Source/Dest on the inner RaftMessage stay as the
// application layer set them).
type Packet struct {
	Payload     RaftMessage
	Destination NodeID
	Source      NodeID
	Timestamp   time.Duration
}

// PacketEvent is a Packet sitting in a priority queue, carrying the delay
// drawn for it at enqueue time and the simulated time it was enqueued.
// ReleaseTime is DispatchTime+Delay; ties are broken by Seq, the
// insertion sequence number, giving every queue a stable FIFO delivery
// order for same-timestamp events.
type PacketEvent struct {
	Packet       Packet
	Delay        time.Duration
	DispatchTime time.Duration
	Seq          uint64
}

// ReleaseTime is the absolute simulated time this event is due.
func (e PacketEvent) ReleaseTime() time.Duration { return e.DispatchTime + e.Delay }

// MessageEvent is the outbound analogue of PacketEvent, queued by
// MessageProcessor before a RaftMessage is wrapped into a Packet.
type MessageEvent struct {
	Message      RaftMessage
	Delay        time.Duration
	DispatchTime time.Duration
	Seq          uint64
}

// ReleaseTime is the absolute simulated time this event is due.
func (e MessageEvent) ReleaseTime() time.Duration { return e.DispatchTime + e.Delay }
