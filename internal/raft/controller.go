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
Package raft implements RaftController, the atomic model that owns one
node's Raft state: role, term, vote bookkeeping, the committed message
log, and the election/heartbeat state transitions the protocol requires.

RaftController never touches the network or the clock directly. It reads
RaftMessage and HeartbeatStatus bags handed to it by the coordinator via
ExternalTransition, and produces RaftMessage/HeartbeatStatus/database
output via Output. Every stochastic choice (how long replication takes)
is drawn from a random.Source owned by this controller, never a global.
*/
package raft

import (
	"fmt"
	"time"

	"github.com/PDesa16/raftdevs/internal/database"
	"github.com/PDesa16/raftdevs/internal/random"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
	"github.com/PDesa16/raftdevs/internal/signing"
)

// VoteDelayLambda and AppendEntryDelayLambda are the rate parameters for
// the per-message stochastic processing delays TimeAdvance sums over a
// controller's pending outbound RaftMessage queue.
const (
	VoteDelayLambda        = 1e5
	AppendEntryDelayLambda = 1e4
)

// electionGrace is the minimum time since the last accepted heartbeat
// before a TIMEOUT report is allowed to start an election.
const electionGrace = 150 * time.Millisecond

// VotedStatus tracks whether this node has committed its vote for the
// current term.
type VotedStatus int

const (
	NotSubmitted VotedStatus = iota
	Submitted
)

// Ports names the port pair names a RaftController is wired to; the
// owning Raft coupled model supplies concrete names so several
// controllers in one simulation don't collide.
type Ports struct {
	RaftIn       string
	RaftOut      string
	HeartbeatIn  string
	HeartbeatOut string
	DatabaseOut  string
}

// Controller is the RaftController atomic model for one node.
type Controller struct {
	id    string
	ports Ports
	rng   *random.Source
	keys  signing.KeyPair

	nodeID raftmsg.NodeID
	peers  []raftmsg.NodeID

	role        Role
	currentTerm int
	votedStatus VotedStatus
	commitIndex int
	logIndex    int
	leaderID    raftmsg.NodeID

	lastHeartbeatUpdate time.Duration
	currentTime         time.Duration

	messageLog   []raftmsg.LogEntry
	pendingVotes []raftmsg.ResponseVote
	leaderProof  raftmsg.RequestVote

	outRaft     []raftmsg.RaftMessage
	outDatabase []database.Message

	heartbeatStatus raftmsg.HeartbeatStatus
}

// Role is a node's Raft role.
type Role int

const (
	Follower Role = iota
	Candidate
	Leader
)

func (r Role) String() string {
	switch r {
	case Candidate:
		return "CANDIDATE"
	case Leader:
		return "LEADER"
	default:
		return "FOLLOWER"
	}
}

// New builds a Controller for nodeID. peers is this node's view of the
// rest of the cluster (itself excluded), ordered and stable for the
// lifetime of the controller. The DatabaseOut port named in ports is
// wired, but the base protocol never constructs a database.Message to
// put on it, so this controller never populates it; a downstream
// database.Sink has nothing to consume unless a future extension of the
// protocol starts emitting committed entries.
func New(id string, nodeID raftmsg.NodeID, peers []raftmsg.NodeID, ports Ports, rng *random.Source) *Controller {
	return &Controller{
		id:              id,
		ports:           ports,
		rng:             rng,
		keys:            signing.NewKeyPair(string(nodeID)),
		nodeID:          nodeID,
		peers:           append([]raftmsg.NodeID(nil), peers...),
		role:            Follower,
		votedStatus:     NotSubmitted,
		leaderID:        "",
		heartbeatStatus: raftmsg.HeartbeatAlive,
	}
}

// ID implements des.Atomic.
func (c *Controller) ID() string { return c.id }

// NodeID returns this controller's identity, exposed for coupled-model
// wiring and test inspection.
func (c *Controller) NodeID() raftmsg.NodeID { return c.nodeID }

// Role, CurrentTerm, CommitIndex, LeaderID, and MessageLog expose
// read-only snapshots of this node's state for tests and the CLI.
func (c *Controller) Role() Role                       { return c.role }
func (c *Controller) CurrentTerm() int                 { return c.currentTerm }
func (c *Controller) CommitIndex() int                  { return c.commitIndex }
func (c *Controller) LeaderID() raftmsg.NodeID          { return c.leaderID }
func (c *Controller) MessageLog() []raftmsg.LogEntry    { return c.messageLog }
func (c *Controller) LogIndex() int                     { return c.logIndex }

// ExternalTransition advances the local clock, dispatches every
// incoming RaftMessage, reads the heartbeat status report (ALIVE if
// absent), and runs both "check and transition" steps in a fixed order.
func (c *Controller) ExternalTransition(elapsed time.Duration, inputs map[string][]any) {
	c.currentTime += elapsed

	for _, msg := range inputs[c.ports.RaftIn] {
		rm, ok := msg.(raftmsg.RaftMessage)
		if !ok {
			continue
		}
		switch content := rm.Content.(type) {
		case raftmsg.RequestVote:
			c.handleRequest(content, rm.Source)
		case raftmsg.ResponseVote:
			c.handleResponse(content)
		case raftmsg.AppendEntries:
			c.handleAppendEntries(content)
		}
	}

	status := raftmsg.HeartbeatAlive
	if bag := inputs[c.ports.HeartbeatIn]; len(bag) > 0 {
		if s, ok := bag[len(bag)-1].(raftmsg.HeartbeatStatus); ok {
			status = s
		}
	}
	c.checkAndTransitionHeartbeat(status)
	c.checkAndTransitionToLeader()
}

// handleRequest answers an incoming RequestVote: grant when the
// candidate's term is strictly newer, or equal with no outstanding vote
// this term. Note: a granted vote does not set votedStatus to Submitted
// here; only becoming a candidate does (see DESIGN.md for why that gap
// is preserved rather than closed).
func (c *Controller) handleRequest(req raftmsg.RequestVote, source raftmsg.NodeID) {
	grant := req.Term > c.currentTerm || (req.Term == c.currentTerm && c.votedStatus == NotSubmitted)
	resp := raftmsg.ResponseVote{
		Term:         req.Term,
		VotedFor:     req.CandidateID,
		LastLogIndex: req.LastLogIndex,
		VoteGranted:  grant,
		NodeID:       c.nodeID,
		SignedDigest: c.sign(),
	}
	c.outRaft = append(c.outRaft, raftmsg.RaftMessage{Source: c.nodeID, Dest: source, Content: resp})
}

// handleResponse accumulates a granted vote without a term check: a
// response from an earlier term is counted like any other, and the
// tally is only cleared when this node starts a new election.
func (c *Controller) handleResponse(resp raftmsg.ResponseVote) {
	if resp.VoteGranted {
		c.pendingVotes = append(c.pendingVotes, resp)
	}
}

// handleAppendEntries applies a leader's log entries: a RAFT entry only
// once its carried vote responses already satisfy quorum, a heartbeat
// only when it comes from the already-recognized leader, and advances
// commitIndex to the leader's committed watermark clamped to the local
// log length.
func (c *Controller) handleAppendEntries(ae raftmsg.AppendEntries) {
	if ae.Term < c.currentTerm {
		return
	}
	for _, entry := range ae.Entries {
		switch e := entry.(type) {
		case raftmsg.LogEntryRAFT:
			if countGranted(e.Responses) >= raftmsg.Quorum(len(c.peers)) {
				c.appendEntry(e, ae)
				c.leaderID = ae.LeaderID
				c.lastHeartbeatUpdate = c.currentTime
			}
		case raftmsg.LogEntryHeartbeat:
			if ae.LeaderID == c.leaderID {
				c.lastHeartbeatUpdate = c.currentTime
				c.appendEntry(e, ae)
			}
		case raftmsg.LogEntryExternal:
			// Reserved; the base protocol never constructs one.
		}
	}
	if len(c.messageLog) > 0 {
		c.commitIndex = min(ae.LeaderCommit, len(c.messageLog)-1)
	}
}

// appendEntry appends entry to the committed log. outDatabase is never
// populated from this path: the base protocol keeps the database sink
// out of the core consensus loop, so the DatabaseOut port stays wired
// but silent until some future collaborator needs it.
func (c *Controller) appendEntry(entry raftmsg.LogEntry, ae raftmsg.AppendEntries) {
	c.messageLog = append(c.messageLog, entry)
	c.logIndex = len(c.messageLog) - 1
	_ = ae
}

// checkAndTransitionHeartbeat reacts to the heartbeat controller's
// status report: ALIVE is a no-op, an UPDATE tick from a leader emits a
// fresh heartbeat entry, and a TIMEOUT past the election grace period
// not already covering a leader starts an election.
func (c *Controller) checkAndTransitionHeartbeat(status raftmsg.HeartbeatStatus) {
	switch status {
	case raftmsg.HeartbeatAlive:
		return
	case raftmsg.HeartbeatUpdate:
		if c.role != Leader {
			return
		}
		hb := raftmsg.LogEntryHeartbeat{
			SenderID:       c.nodeID,
			SequenceNumber: c.logIndex,
			Timestamp:      c.currentTime,
			Status:         raftmsg.Ping,
		}
		c.broadcastAppendEntries([]raftmsg.LogEntry{hb})
		c.lastHeartbeatUpdate = c.currentTime
	case raftmsg.HeartbeatTimeout:
		if c.role == Leader {
			return
		}
		if c.currentTime-c.lastHeartbeatUpdate <= electionGrace {
			return
		}
		c.startElection()
	}
}

// startElection promotes this node to CANDIDATE, bumps the term, and
// broadcasts a RequestVote to every peer.
func (c *Controller) startElection() {
	c.role = Candidate
	c.currentTerm++
	c.votedStatus = Submitted
	c.pendingVotes = nil

	req := raftmsg.RequestVote{
		Term:         c.currentTerm,
		CandidateID:  c.nodeID,
		LastLogIndex: c.commitIndex,
		SignedDigest: c.sign(),
	}
	c.leaderProof = req
	c.outRaft = append(c.outRaft, raftmsg.RaftMessage{Source: c.nodeID, Dest: raftmsg.Broadcast, Content: req})
	c.heartbeatStatus = raftmsg.HeartbeatTimeout
}

// checkAndTransitionToLeader promotes a CANDIDATE to LEADER once its
// accumulated votes satisfy quorum, and immediately broadcasts a
// heartbeat plus the election certificate backing the promotion.
func (c *Controller) checkAndTransitionToLeader() {
	if c.role != Candidate {
		return
	}
	if countGranted(c.pendingVotes) < raftmsg.Quorum(len(c.peers)) {
		return
	}

	c.role = Leader
	c.leaderID = c.nodeID
	c.heartbeatStatus = raftmsg.HeartbeatUpdate

	hb := raftmsg.LogEntryHeartbeat{
		SenderID:       c.nodeID,
		SequenceNumber: c.logIndex,
		Timestamp:      c.currentTime,
		Status:         raftmsg.Ping,
	}
	cert := raftmsg.LogEntryRAFT{
		Request:   c.leaderProof,
		Responses: append([]raftmsg.ResponseVote(nil), c.pendingVotes...),
	}
	c.broadcastAppendEntries([]raftmsg.LogEntry{hb, cert})
}

// broadcastAppendEntries queues one AppendEntries, addressed to every
// peer, carrying entries in the given order.
func (c *Controller) broadcastAppendEntries(entries []raftmsg.LogEntry) {
	ae := raftmsg.AppendEntries{
		Term:         c.currentTerm,
		LeaderID:     c.nodeID,
		PrevLogIndex: c.logIndex,
		PrevLogTerm:  c.currentTerm,
		Entries:      entries,
		LeaderCommit: c.commitIndex,
		SignedDigest: c.sign(),
	}
	c.outRaft = append(c.outRaft, raftmsg.RaftMessage{Source: c.nodeID, Dest: raftmsg.Broadcast, Content: ae})
}

func (c *Controller) sign() string {
	return signing.Sign(c.keys, []byte(c.nodeID))
}

func countGranted(votes []raftmsg.ResponseVote) int {
	n := 0
	for _, v := range votes {
		if v.VoteGranted {
			n++
		}
	}
	return n
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Output emits every queued database and RaftMessage output, and
// reflects heartbeatStatus onto the heartbeat port so the paired
// HeartbeatController resets or starts ticking.
func (c *Controller) Output() map[string][]any {
	out := make(map[string][]any)
	for _, m := range c.outDatabase {
		out[c.ports.DatabaseOut] = append(out[c.ports.DatabaseOut], m)
	}
	for _, m := range c.outRaft {
		out[c.ports.RaftOut] = append(out[c.ports.RaftOut], m)
	}
	switch c.heartbeatStatus {
	case raftmsg.HeartbeatUpdate:
		out[c.ports.HeartbeatOut] = append(out[c.ports.HeartbeatOut], raftmsg.HeartbeatUpdate)
	case raftmsg.HeartbeatTimeout:
		out[c.ports.HeartbeatOut] = append(out[c.ports.HeartbeatOut], raftmsg.HeartbeatAlive)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// InternalTransition resets the heartbeat status to ALIVE and clears
// both outbound queues now that Output has emitted them.
func (c *Controller) InternalTransition() {
	c.heartbeatStatus = raftmsg.HeartbeatAlive
	c.outRaft = nil
	c.outDatabase = nil
}

// TimeAdvance is the sum of per-message stochastic processing delays
// over the pending outbound RaftMessage queue, or infinity if nothing
// is queued.
func (c *Controller) TimeAdvance() time.Duration {
	if len(c.outRaft) == 0 {
		return 1<<63 - 1
	}
	var total time.Duration
	for _, m := range c.outRaft {
		switch content := m.Content.(type) {
		case raftmsg.AppendEntries:
			n := len(content.Entries)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				total += c.rng.Exponential(AppendEntryDelayLambda)
			}
		default:
			total += c.rng.Exponential(VoteDelayLambda)
		}
	}
	return total
}

// StateString renders this node's role/term/commit state for tracing.
func (c *Controller) StateString() string {
	return fmt.Sprintf("role=%s term=%d votedStatus=%d commitIndex=%d logIndex=%d leader=%s",
		c.role, c.currentTerm, c.votedStatus, c.commitIndex, c.logIndex, c.leaderID)
}
