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
Package cluster wires the atomic models in internal/buffer, internal/raft,
internal/heartbeat, and internal/netsim into three coupled models: Raft
(one node's controller plus its election clock), Node (a Raft wrapped
in packet/message processors), and Simulation (a Network plus one Node
per cluster member).
*/
package cluster

import (
	"github.com/PDesa16/raftdevs/internal/buffer"
	"github.com/PDesa16/raftdevs/internal/des"
	"github.com/PDesa16/raftdevs/internal/heartbeat"
	"github.com/PDesa16/raftdevs/internal/raft"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
	"github.com/PDesa16/raftdevs/internal/random"
)

// Raft-internal port names. These never leave the Raft coupled model
// except via the two boundary ports below, so collisions across nodes
// are impossible once Flatten qualifies every child ID by node.
const (
	portBufIn      = "in"
	portBufOut     = "out"
	portRaftIn     = "raft_in"
	portRaftOut    = "raft_out"
	portHBStatusIn = "hb_status_in"
	portHBReflect  = "hb_reflect_out"
	portHBIn       = "hb_in"
	portHBOut      = "hb_out"
	portDatabase   = "db_out"
)

// Raft is the coupled model of one node's consensus logic: a Buffer
// serializes simultaneous arrivals into a strict one-at-a-time sequence
// before RaftController sees them, and RaftController's heartbeat port
// pair is wired back and forth to its own HeartbeatController.
type Raft struct {
	*des.Coupled

	Controller *raft.Controller
	Heartbeat  *heartbeat.Controller
}

// NewRaft builds the Raft coupled model for one node. rng is consumed
// directly by this node's RaftController and HeartbeatController (each
// gets its own derived child so neither shares a *rand.Rand with the
// other nodes in the cluster).
func NewRaft(nodeID raftmsg.NodeID, peers []raftmsg.NodeID, rng *random.Source) *Raft {
	name := "raft_" + string(nodeID)

	ports := raft.Ports{
		RaftIn:       portRaftIn,
		RaftOut:      portRaftOut,
		HeartbeatIn:  portHBStatusIn,
		HeartbeatOut: portHBReflect,
		DatabaseOut:  portDatabase,
	}

	ctrl := raft.New(name+"_controller", nodeID, peers, ports, rng.Child())
	hb := heartbeat.New(name+"_heartbeat", portHBIn, portHBOut, rng.Child())
	buf := buffer.New[raftmsg.RaftMessage](name+"_inbuf", portBufIn, portBufOut)

	c := des.NewCoupled(name)
	c.AddChild(buf)
	c.AddChild(ctrl)
	c.AddChild(hb)

	c.ExternalInput(portRaftIn, buf.ID(), portBufIn)
	c.Connect(buf.ID(), portBufOut, ctrl.ID(), ports.RaftIn)
	c.Connect(ctrl.ID(), ports.HeartbeatOut, hb.ID(), portHBIn)
	c.Connect(hb.ID(), portHBOut, ctrl.ID(), ports.HeartbeatIn)
	c.ExternalOutput(ctrl.ID(), ports.RaftOut, portRaftOut)
	c.ExternalOutput(ctrl.ID(), ports.DatabaseOut, portDatabase)

	return &Raft{Coupled: c, Controller: ctrl, Heartbeat: hb}
}
