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

package netsim

import (
	"testing"
	"time"

	"github.com/PDesa16/raftdevs/internal/random"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
)

func TestNetworkBroadcastFanOut(t *testing.T) {
	nodes := []raftmsg.NodeID{"node0", "node1", "node2"}
	n := New("network", nodes, random.New(1))

	pkt := raftmsg.Packet{
		Payload:     raftmsg.RaftMessage{Source: "node0", Dest: raftmsg.Broadcast},
		Destination: raftmsg.Broadcast,
		Source:      "node0",
	}
	n.ExternalTransition(0, map[string][]any{InputPort("node0"): {pkt}})

	if n.queue.Len() != 2 {
		t.Fatalf("expected 2 fanned-out packets, got %d", n.queue.Len())
	}
	seen := map[raftmsg.NodeID]bool{}
	for _, ev := range n.queue {
		seen[ev.Packet.Destination] = true
		if ev.Packet.Destination == "node0" {
			t.Fatalf("broadcast must not loop back to source")
		}
	}
	if !seen["node1"] || !seen["node2"] {
		t.Fatalf("expected deliveries to node1 and node2, got %v", seen)
	}
}

func TestNetworkDisabledSourceDropsPackets(t *testing.T) {
	nodes := []raftmsg.NodeID{"node0", "node1"}
	n := New("network", nodes, random.New(1))
	n.DisableOutboundFrom("node0")

	pkt := raftmsg.Packet{
		Payload:     raftmsg.RaftMessage{Source: "node0", Dest: "node1"},
		Destination: "node1",
		Source:      "node0",
	}
	n.ExternalTransition(0, map[string][]any{InputPort("node0"): {pkt}})

	if n.queue.Len() != 0 {
		t.Fatalf("expected disabled source's packet to be dropped, got %d queued", n.queue.Len())
	}
}

func TestNetworkPriorityQueueOrder(t *testing.T) {
	nodes := []raftmsg.NodeID{"a", "b"}
	n := New("network", nodes, random.New(42))

	for i := 0; i < 5; i++ {
		pkt := raftmsg.Packet{
			Payload:     raftmsg.RaftMessage{Source: "a", Dest: "b"},
			Destination: "b",
			Source:      "a",
		}
		n.ExternalTransition(time.Millisecond, map[string][]any{InputPort("a"): {pkt}})
	}

	var last time.Duration
	for n.queue.Len() > 0 {
		head := n.queue[0]
		if head.ReleaseTime() < last {
			t.Fatalf("priority queue popped out of order: %v before %v", head.ReleaseTime(), last)
		}
		last = head.ReleaseTime()
		n.InternalTransition()
	}
}

func TestPacketProcessorForwardsPayload(t *testing.T) {
	rng := random.New(7)
	p := NewPacketProcessor("pp", "in", "out", rng)

	rm := raftmsg.RaftMessage{Source: "x", Dest: "y"}
	pkt := raftmsg.Packet{Payload: rm, Source: "x", Destination: "y"}
	p.ExternalTransition(0, map[string][]any{"in": {pkt}})

	out := p.Output()
	got, ok := out["out"][0].(raftmsg.RaftMessage)
	if !ok {
		t.Fatalf("expected RaftMessage payload on output port, got %T", out["out"][0])
	}
	if got.Source != "x" || got.Dest != "y" {
		t.Fatalf("payload not forwarded correctly: %+v", got)
	}
}

func TestMessageProcessorWrapsPacket(t *testing.T) {
	rng := random.New(7)
	m := NewMessageProcessor("mp", "in", "out", "node0", rng)

	rm := raftmsg.RaftMessage{Source: "node0", Dest: "node1"}
	m.ExternalTransition(0, map[string][]any{"in": {rm}})

	out := m.Output()
	pkt, ok := out["out"][0].(raftmsg.Packet)
	if !ok {
		t.Fatalf("expected Packet on output port, got %T", out["out"][0])
	}
	if pkt.Destination != "node1" || pkt.Source != "node0" {
		t.Fatalf("packet envelope addressed incorrectly: %+v", pkt)
	}
}
