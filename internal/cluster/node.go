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
	"github.com/PDesa16/raftdevs/internal/des"
	"github.com/PDesa16/raftdevs/internal/netsim"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
	"github.com/PDesa16/raftdevs/internal/random"
)

// Node boundary port names.
const (
	portPacketIn  = "packet_in"
	portPacketOut = "packet_out"
	portPPIn      = "pp_in"
	portPPOut     = "pp_out"
	portMPIn      = "mp_in"
	portMPOut     = "mp_out"
)

// Node is the coupled model wrapping one member's Raft coupled model in
// the packet/message processors that translate between the network's
// Packet envelopes and the Raft layer's RaftMessage values.
type Node struct {
	*des.Coupled

	Raft *Raft
}

// NewNode builds the Node coupled model for nodeID, given its peer set
// (every other cluster member).
func NewNode(nodeID raftmsg.NodeID, peers []raftmsg.NodeID, rng *random.Source) *Node {
	name := "node_" + string(nodeID)

	r := NewRaft(nodeID, peers, rng.Child())
	pp := netsim.NewPacketProcessor(name+"_packetproc", portPPIn, portPPOut, rng.Child())
	mp := netsim.NewMessageProcessor(name+"_messageproc", portMPIn, portMPOut, nodeID, rng.Child())

	c := des.NewCoupled(name)
	c.AddChild(pp)
	c.AddChild(des.AsChild(r.Coupled))
	c.AddChild(mp)

	c.ExternalInput(portPacketIn, pp.ID(), portPPIn)
	c.Connect(pp.ID(), portPPOut, r.Coupled.Name, portRaftIn)
	c.Connect(r.Coupled.Name, portRaftOut, mp.ID(), portMPIn)
	c.ExternalOutput(mp.ID(), portMPOut, portPacketOut)
	c.ExternalOutput(r.Coupled.Name, portDatabase, portDatabase)

	return &Node{Coupled: c, Raft: r}
}
