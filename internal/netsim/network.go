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
Package netsim implements the stochastic-latency packet network: the
Network atomic model, which owns a priority queue of in-flight packets
and fans broadcast packets out to every active node, plus the per-node
PacketProcessor and MessageProcessor atomics that sit between a Node's
boundary ports and its Raft coupled model.
*/
package netsim

import (
	"container/heap"
	"fmt"
	"sort"
	"time"

	"github.com/PDesa16/raftdevs/internal/random"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
)

// PacketDelayLambda is the rate parameter for the per-packet exponential
// delay Network draws on every enqueue.
const PacketDelayLambda = 1e6

// InputPort and OutputPort name the per-node port pair a Network
// instance exposes, qualified by node ID so a coupled model can wire
// each node's boundary ports individually.
func InputPort(node raftmsg.NodeID) string  { return "input_packet_" + string(node) }
func OutputPort(node raftmsg.NodeID) string { return "output_packet_" + string(node) }

// packetQueue is a min-heap of PacketEvent ordered by ReleaseTime, with
// ties broken by insertion sequence for stable FIFO delivery order.
type packetQueue []raftmsg.PacketEvent

func (q packetQueue) Len() int { return len(q) }
func (q packetQueue) Less(i, j int) bool {
	ti, tj := q[i].ReleaseTime(), q[j].ReleaseTime()
	if ti == tj {
		return q[i].Seq < q[j].Seq
	}
	return ti < tj
}
func (q packetQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *packetQueue) Push(x any)        { *q = append(*q, x.(raftmsg.PacketEvent)) }
func (q *packetQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// Network is a single switched network with a pair of ports per known
// node, a priority queue of packets in flight, and broadcast fan-out.
type Network struct {
	id          string
	activeNodes map[raftmsg.NodeID]bool
	rng         *random.Source
	currentTime time.Duration
	queue       packetQueue
	seq         uint64
	popped      *raftmsg.PacketEvent

	// disabled holds nodes whose outbound packets are dropped before
	// ever reaching the queue, the mechanism a leader-crash fault
	// injection uses to force-disable a node's MessageProcessor output
	// without removing it from the cluster's addressable node set.
	disabled map[raftmsg.NodeID]bool
}

// New builds a Network with the given active node set.
func New(id string, nodes []raftmsg.NodeID, rng *random.Source) *Network {
	active := make(map[raftmsg.NodeID]bool, len(nodes))
	for _, n := range nodes {
		active[n] = true
	}
	return &Network{id: id, activeNodes: active, rng: rng, disabled: make(map[raftmsg.NodeID]bool)}
}

// ID implements des.Atomic.
func (n *Network) ID() string { return n.id }

// DisableOutboundFrom stops the network from ever enqueueing packets
// originating at node, simulating a severed outbound link — the
// fault-injection hook a leader-crash scenario uses to force-disable
// the elected leader's MessageProcessor output.
func (n *Network) DisableOutboundFrom(node raftmsg.NodeID) { n.disabled[node] = true }

// EnableOutboundFrom reverses DisableOutboundFrom.
func (n *Network) EnableOutboundFrom(node raftmsg.NodeID) { delete(n.disabled, node) }

// ExternalTransition advances currentTime, then for every arriving
// packet either fans it out to every other active node (broadcast) or
// enqueues it directly. Input ports and broadcast destinations are
// visited in sorted node-ID order so delay draws happen in a fixed order.
func (n *Network) ExternalTransition(elapsed time.Duration, inputs map[string][]any) {
	n.currentTime += elapsed
	nodes := make([]raftmsg.NodeID, 0, len(n.activeNodes))
	for node := range n.activeNodes {
		nodes = append(nodes, node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	for _, node := range nodes {
		bag := inputs[InputPort(node)]
		for _, raw := range bag {
			p, ok := raw.(raftmsg.Packet)
			if !ok {
				continue
			}
			if n.disabled[p.Source] {
				continue
			}
			if p.Destination == raftmsg.Broadcast {
				for _, dest := range nodes {
					if dest == p.Source {
						continue
					}
					n.enqueue(n.cloneTo(p, dest))
				}
				continue
			}
			n.enqueue(p)
		}
	}
}

// cloneTo returns a copy of p addressed to dest; the inner RaftMessage
// (logical source/dest) is left untouched, only the envelope's
// Destination is rewritten per-copy, since broadcast fan-out holds the
// same payload across several envelopes.
func (n *Network) cloneTo(p raftmsg.Packet, dest raftmsg.NodeID) raftmsg.Packet {
	p.Destination = dest
	return p
}

func (n *Network) enqueue(p raftmsg.Packet) {
	n.seq++
	heap.Push(&n.queue, raftmsg.PacketEvent{
		Packet:       p,
		Delay:        n.rng.Exponential(PacketDelayLambda),
		DispatchTime: n.currentTime,
		Seq:          n.seq,
	})
}

// Output emits the head packet on its destination's output port.
func (n *Network) Output() map[string][]any {
	if n.queue.Len() == 0 {
		return nil
	}
	head := n.queue[0]
	return map[string][]any{OutputPort(head.Packet.Destination): {head.Packet}}
}

// InternalTransition pops the head event that Output just emitted.
func (n *Network) InternalTransition() {
	if n.queue.Len() == 0 {
		return
	}
	item := heap.Pop(&n.queue).(raftmsg.PacketEvent)
	n.popped = &item
}

// TimeAdvance returns the raw per-event delay of the head event, kept
// literal rather than recomputed as the remaining time to its absolute
// release time (the two coincide in this single-pop-at-a-time regime).
func (n *Network) TimeAdvance() time.Duration {
	if n.queue.Len() == 0 {
		return 1<<63 - 1
	}
	return n.queue[0].Delay
}

// StateString renders the queue depth for tracing.
func (n *Network) StateString() string {
	return fmt.Sprintf("queued=%d", n.queue.Len())
}
