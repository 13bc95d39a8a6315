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
	"fmt"
	"sort"

	"github.com/PDesa16/raftdevs/internal/config"
	"github.com/PDesa16/raftdevs/internal/database"
	"github.com/PDesa16/raftdevs/internal/des"
	"github.com/PDesa16/raftdevs/internal/netsim"
	"github.com/PDesa16/raftdevs/internal/raft"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
	"github.com/PDesa16/raftdevs/internal/random"
)

// Simulation is the top-level coupled model: a Network plus one Node
// per cluster member, with each node's peer set derived as allNodes \
// {self} at construction time.
type Simulation struct {
	*des.Coupled

	Network *netsim.Network
	Nodes   map[raftmsg.NodeID]*Node
	NodeIDs []raftmsg.NodeID

	// DBSink records every database.Message any node's RaftController
	// ever commits. The base protocol never populates its DatabaseOut
	// port (internal/raft/controller.go), so this stays empty under
	// normal operation; it exists so a future collaborator writing to
	// that port has somewhere real to land.
	DBSink *database.RecordingSink
}

// NewSimulation builds a cluster of cfg.ClusterSize nodes named
// n0..n(k-1) over a single Network. rng seeds every stochastic draw
// transitively: the Network, and each node's PacketProcessor,
// MessageProcessor, RaftController, and HeartbeatController all receive
// an independently derived child Source.
func NewSimulation(cfg *config.SimConfig, rng *random.Source) *Simulation {
	ids := make([]raftmsg.NodeID, cfg.ClusterSize)
	for i := range ids {
		ids[i] = raftmsg.NodeID(fmt.Sprintf("n%d", i))
	}

	net := netsim.New("network", ids, rng.Child())

	c := des.NewCoupled("simulation")
	c.AddChild(net)

	sink := &database.RecordingSink{}
	db := newDBSinkModel("database_sink", sink)
	c.AddChild(db)

	nodes := make(map[raftmsg.NodeID]*Node, len(ids))
	for _, id := range ids {
		peers := peersExcluding(ids, id)
		n := NewNode(id, peers, rng.Child())
		nodes[id] = n
		c.AddChild(des.AsChild(n.Coupled))
		c.Connect(net.ID(), netsim.OutputPort(id), n.Coupled.Name, portPacketIn)
		c.Connect(n.Coupled.Name, portPacketOut, net.ID(), netsim.InputPort(id))
		c.Connect(n.Coupled.Name, portDatabase, db.ID(), portDBIn)
	}

	return &Simulation{Coupled: c, Network: net, Nodes: nodes, NodeIDs: ids, DBSink: sink}
}

// peersExcluding returns all of ids other than self, preserving order.
func peersExcluding(ids []raftmsg.NodeID, self raftmsg.NodeID) []raftmsg.NodeID {
	peers := make([]raftmsg.NodeID, 0, len(ids)-1)
	for _, id := range ids {
		if id != self {
			peers = append(peers, id)
		}
	}
	return peers
}

// LeadersByTerm groups every node currently reporting role LEADER by the
// term it holds leadership in, the grouping a "single leader per term"
// safety check reduces to a max-count-of-1 assertion over.
func (s *Simulation) LeadersByTerm() map[int][]raftmsg.NodeID {
	out := make(map[int][]raftmsg.NodeID)
	for _, id := range s.NodeIDs {
		n := s.Nodes[id]
		if n.Raft.Controller.Role() != raft.Leader {
			continue
		}
		term := n.Raft.Controller.CurrentTerm()
		out[term] = append(out[term], id)
	}
	for term := range out {
		sort.Slice(out[term], func(i, j int) bool { return out[term][i] < out[term][j] })
	}
	return out
}
