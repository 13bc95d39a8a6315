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

	"github.com/PDesa16/raftdevs/internal/des"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
	"github.com/PDesa16/raftdevs/internal/random"
)

// stimulus is a one-shot atomic model that emits a single fixed value on
// its output port at simulated time zero, then goes permanently idle.
// It stands in for an external driver in tests that want to exercise a
// coupled model's boundary without a full Network/Simulation around it.
type stimulus struct {
	id      string
	port    string
	value   any
	emitted bool
}

func (s *stimulus) ID() string                                      { return s.id }
func (s *stimulus) ExternalTransition(time.Duration, map[string][]any) {}
func (s *stimulus) Output() map[string][]any {
	if s.emitted {
		return nil
	}
	return map[string][]any{s.port: {s.value}}
}
func (s *stimulus) InternalTransition()        { s.emitted = true }
func (s *stimulus) TimeAdvance() time.Duration {
	if s.emitted {
		return 1<<63 - 1
	}
	return 0
}

// collector is an atomic model that only ever records what arrives on
// its input port, used to observe a coupled model's boundary output.
type collector struct {
	id       string
	port     string
	received []any
}

func (c *collector) ID() string { return c.id }
func (c *collector) ExternalTransition(_ time.Duration, inputs map[string][]any) {
	c.received = append(c.received, inputs[c.port]...)
}
func (c *collector) Output() map[string][]any  { return nil }
func (c *collector) InternalTransition()       {}
func (c *collector) TimeAdvance() time.Duration { return 1<<63 - 1 }

// TestNodeRoundTripsARequestVote feeds a Packet carrying a RequestVote
// into a Node's boundary and confirms a ResponseVote Packet eventually
// comes back out the other boundary, exercising the full
// PacketProcessor -> Raft -> MessageProcessor chain independent of the
// Network and the rest of the cluster.
func TestNodeRoundTripsARequestVote(t *testing.T) {
	n := NewNode("n1", []raftmsg.NodeID{"n0", "n2"}, random.New(5))

	req := raftmsg.RaftMessage{
		Source:  "n0",
		Dest:    "n1",
		Content: raftmsg.RequestVote{Term: 1, CandidateID: "n0", LastLogIndex: 0},
	}
	pkt := raftmsg.Packet{Payload: req, Destination: "n1", Source: "n0"}

	stim := &stimulus{id: "stimulus", port: "stim_out", value: pkt}
	coll := &collector{id: "collector", port: "coll_in"}

	harness := des.NewCoupled("harness")
	harness.AddChild(stim)
	harness.AddChild(des.AsChild(n.Coupled))
	harness.AddChild(coll)
	harness.Connect(stim.ID(), "stim_out", n.Coupled.Name, portPacketIn)
	harness.Connect(n.Coupled.Name, portPacketOut, coll.ID(), "coll_in")

	rc := des.NewRootCoordinator(harness, nil)
	rc.Run(50 * time.Millisecond)

	if len(coll.received) != 1 {
		t.Fatalf("expected exactly one Packet back out of the node, got %d", len(coll.received))
	}
	out, ok := coll.received[0].(raftmsg.Packet)
	if !ok {
		t.Fatalf("expected a Packet, got %T", coll.received[0])
	}
	resp, ok := out.Payload.Content.(raftmsg.ResponseVote)
	if !ok {
		t.Fatalf("expected ResponseVote content, got %T", out.Payload.Content)
	}
	if !resp.VoteGranted || out.Destination != "n0" {
		t.Fatalf("expected vote granted back to n0, got %+v dest=%s", resp, out.Destination)
	}
}
