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

	"github.com/PDesa16/raftdevs/internal/config"
	"github.com/PDesa16/raftdevs/internal/des"
	"github.com/PDesa16/raftdevs/internal/raft"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
	"github.com/PDesa16/raftdevs/internal/random"
)

func newTestCoordinator(t *testing.T, cfg *config.SimConfig, seed int64) (*des.RootCoordinator, *Simulation) {
	t.Helper()
	sim := NewSimulation(cfg, random.New(seed))
	tracer := &recordingTracer{}
	rc := des.NewRootCoordinator(sim.Coupled, tracer)
	return rc, sim
}

// recordingTracer is a minimal des.Tracer used only to confirm trace
// calls reach the coordinator without asserting on their content.
type recordingTracer struct {
	outputs int
	states  int
}

func (r *recordingTracer) TraceOutput(time.Duration, string, string, any) { r.outputs++ }
func (r *recordingTracer) TraceState(time.Duration, string, string)      { r.states++ }

func countLeadersAtEnd(sim *Simulation) map[int]int {
	counts := make(map[int]int)
	for term, nodes := range sim.LeadersByTerm() {
		counts[term] = len(nodes)
	}
	return counts
}

// TestElectionProducesExactlyOneLeader: a 3-node cluster run to
// completion settles on exactly one LEADER.
func TestElectionProducesExactlyOneLeader(t *testing.T) {
	cfg := config.DefaultConfig()
	rc, sim := newTestCoordinator(t, cfg, 7)
	rc.Run(cfg.EndTime)

	leaders := 0
	for _, id := range sim.NodeIDs {
		if sim.Nodes[id].Raft.Controller.Role() == raft.Leader {
			leaders++
		}
	}
	if leaders != 1 {
		t.Fatalf("expected exactly one LEADER after the run, got %d", leaders)
	}

	for term, count := range countLeadersAtEnd(sim) {
		if count > 1 {
			t.Fatalf("expected at most one leader per term, term %d has %d", term, count)
		}
	}
}

// TestHeartbeatKeepsLeadership: once a leader is elected and the run
// continues well past one heartbeat cadence, exactly one node is still
// LEADER at the end.
func TestHeartbeatKeepsLeadership(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.EndTime = 450 * time.Millisecond
	rc, sim := newTestCoordinator(t, cfg, 11)
	rc.Run(cfg.EndTime)

	leaders := 0
	for _, id := range sim.NodeIDs {
		role := sim.Nodes[id].Raft.Controller.Role()
		if role == raft.Leader {
			leaders++
		}
	}
	if leaders != 1 {
		t.Fatalf("expected exactly one LEADER sustained by heartbeats, got %d", leaders)
	}
}

// TestLeaderLossTriggersReElection: disabling the elected leader's
// outbound network link forces a re-election once the election grace
// period elapses.
func TestLeaderLossTriggersReElection(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.EndTime = 500 * time.Millisecond
	rc, sim := newTestCoordinator(t, cfg, 3)
	rc.Run(cfg.EndTime)

	var leaderID = sim.NodeIDs[0]
	found := false
	for _, id := range sim.NodeIDs {
		if sim.Nodes[id].Raft.Controller.Role() == raft.Leader {
			leaderID = id
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("expected a leader to emerge in the first phase of the run")
	}
	firstTerm := sim.Nodes[leaderID].Raft.Controller.CurrentTerm()

	sim.Network.DisableOutboundFrom(leaderID)
	for {
		_, advanced := rc.Step()
		if !advanced || rc.Clock() >= cfg.EndTime+400*time.Millisecond {
			break
		}
	}

	newLeader := false
	for _, id := range sim.NodeIDs {
		if id == leaderID {
			continue
		}
		c := sim.Nodes[id].Raft.Controller
		if c.Role() == raft.Leader && c.CurrentTerm() > firstTerm {
			newLeader = true
		}
	}
	if !newLeader {
		t.Fatalf("expected a surviving follower to win a later term after the leader's link was disabled")
	}
}

// TestSplitVoteQuorumFormulaAtFourNodes: the literal quorum formula
// (ceil((|peers|+1)/2)) applied to a 4-node cluster allows a 2-2 split
// to satisfy quorum for both halves, an intentionally preserved open
// question (see DESIGN.md).
func TestSplitVoteQuorumFormulaAtFourNodes(t *testing.T) {
	if got := raftmsg.Quorum(3); got != 2 {
		t.Fatalf("expected quorum(3 peers)=2 per the literal source formula, got %d", got)
	}

	cfg := config.DefaultConfig()
	cfg.ClusterSize = 4
	rc, sim := newTestCoordinator(t, cfg, 19)
	rc.Run(cfg.EndTime)

	leaders := 0
	for _, id := range sim.NodeIDs {
		if sim.Nodes[id].Raft.Controller.Role() == raft.Leader {
			leaders++
		}
	}
	// Per the literal quorum formula, a 2-2 split in a 4-node cluster can
	// satisfy quorum (=2) on both halves; this run records whichever
	// outcome the seeded timeline actually produces rather than asserting
	// a single leader, since this case is an intentionally preserved open
	// question (see DESIGN.md).
	t.Logf("4-node cluster settled with %d node(s) in role LEADER", leaders)
}

// TestDatabaseSinkWiringStaysIdle confirms every node's DatabaseOut
// boundary chain reaches the cluster's shared sink without panicking,
// and that the base protocol (which never populates outDatabase) leaves
// it empty.
func TestDatabaseSinkWiringStaysIdle(t *testing.T) {
	cfg := config.DefaultConfig()
	rc, sim := newTestCoordinator(t, cfg, 7)
	rc.Run(cfg.EndTime)

	if sim.DBSink == nil {
		t.Fatal("expected a non-nil database sink on the simulation")
	}
	if len(sim.DBSink.Messages) != 0 {
		t.Fatalf("expected no committed database messages under the base protocol, got %d", len(sim.DBSink.Messages))
	}
}

// TestBroadcastReachesEveryOtherNode is the cluster-level counterpart of
// a broadcast fan-out check, exercised indirectly via vote accumulation
// rather than packet counting: a leader can only emerge in a 5-node
// cluster if the election broadcast reached at least a quorum of peers
// (internal/netsim's own tests cover packet-level fan-out directly).
func TestBroadcastReachesEveryOtherNode(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ClusterSize = 5
	rc, sim := newTestCoordinator(t, cfg, 42)
	rc.Run(cfg.EndTime)

	leaders := 0
	for _, id := range sim.NodeIDs {
		if sim.Nodes[id].Raft.Controller.Role() == raft.Leader {
			leaders++
		}
	}
	if leaders == 0 {
		t.Fatalf("expected at least one leader to emerge in a 5-node cluster")
	}
}
