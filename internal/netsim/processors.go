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
	"container/heap"
	"fmt"
	"time"

	"github.com/PDesa16/raftdevs/internal/random"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
)

// ProcessorDelayLambda is the rate parameter for the per-item
// exponential delay both PacketProcessor and MessageProcessor draw.
const ProcessorDelayLambda = 1e6

// PacketProcessor is the inbound half of a Node's boundary: it accepts
// Packet values from the network, queues them behind an independent
// per-packet delay, and forwards each head packet's payload (the
// RaftMessage) to the owning Raft coupled model.
type PacketProcessor struct {
	id          string
	inPort      string
	outPort     string
	rng         *random.Source
	currentTime time.Duration
	queue       packetQueue
	seq         uint64
}

// NewPacketProcessor builds a PacketProcessor bound to the given port
// pair.
func NewPacketProcessor(id, inPort, outPort string, rng *random.Source) *PacketProcessor {
	return &PacketProcessor{id: id, inPort: inPort, outPort: outPort, rng: rng}
}

// ID implements des.Atomic.
func (p *PacketProcessor) ID() string { return p.id }

// ExternalTransition enqueues every arriving packet behind a freshly
// drawn delay.
func (p *PacketProcessor) ExternalTransition(elapsed time.Duration, inputs map[string][]any) {
	p.currentTime += elapsed
	for _, raw := range inputs[p.inPort] {
		pkt, ok := raw.(raftmsg.Packet)
		if !ok {
			continue
		}
		p.seq++
		heap.Push(&p.queue, raftmsg.PacketEvent{
			Packet:       pkt,
			Delay:        p.rng.Exponential(ProcessorDelayLambda),
			DispatchTime: p.currentTime,
			Seq:          p.seq,
		})
	}
}

// Output forwards the head packet's payload (the RaftMessage), not the
// envelope itself, onto the typed output port.
func (p *PacketProcessor) Output() map[string][]any {
	if p.queue.Len() == 0 {
		return nil
	}
	return map[string][]any{p.outPort: {p.queue[0].Packet.Payload}}
}

// InternalTransition pops the head packet Output just emitted.
func (p *PacketProcessor) InternalTransition() {
	if p.queue.Len() == 0 {
		return
	}
	heap.Pop(&p.queue)
}

// TimeAdvance returns the head event's drawn delay, or infinity when
// idle.
func (p *PacketProcessor) TimeAdvance() time.Duration {
	if p.queue.Len() == 0 {
		return 1<<63 - 1
	}
	return p.queue[0].Delay
}

// StateString renders the queue depth for tracing.
func (p *PacketProcessor) StateString() string {
	return fmt.Sprintf("queued=%d", p.queue.Len())
}

// messageQueue is the MessageEvent analogue of packetQueue.
type messageQueue []raftmsg.MessageEvent

func (q messageQueue) Len() int { return len(q) }
func (q messageQueue) Less(i, j int) bool {
	ti, tj := q[i].ReleaseTime(), q[j].ReleaseTime()
	if ti == tj {
		return q[i].Seq < q[j].Seq
	}
	return ti < tj
}
func (q messageQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *messageQueue) Push(x any)   { *q = append(*q, x.(raftmsg.MessageEvent)) }
func (q *messageQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// MessageProcessor is the outbound half of a Node's boundary: it
// accepts RaftMessage values from the Raft coupled model, queues them
// behind an independent per-message delay, and wraps each head message
// in a Packet addressed per the message's logical Dest before handing
// it to the network.
type MessageProcessor struct {
	id          string
	inPort      string
	outPort     string
	nodeID      raftmsg.NodeID
	rng         *random.Source
	currentTime time.Duration
	queue       messageQueue
	seq         uint64
}

// NewMessageProcessor builds a MessageProcessor bound to the given port
// pair, owned by nodeID. The Packet envelope's Source is copied from
// each RaftMessage's own Source, not from nodeID.
func NewMessageProcessor(id, inPort, outPort string, nodeID raftmsg.NodeID, rng *random.Source) *MessageProcessor {
	return &MessageProcessor{id: id, inPort: inPort, outPort: outPort, nodeID: nodeID, rng: rng}
}

// ID implements des.Atomic.
func (m *MessageProcessor) ID() string { return m.id }

// ExternalTransition enqueues every arriving RaftMessage behind a
// freshly drawn delay.
func (m *MessageProcessor) ExternalTransition(elapsed time.Duration, inputs map[string][]any) {
	m.currentTime += elapsed
	for _, raw := range inputs[m.inPort] {
		rm, ok := raw.(raftmsg.RaftMessage)
		if !ok {
			continue
		}
		m.seq++
		heap.Push(&m.queue, raftmsg.MessageEvent{
			Message:      rm,
			Delay:        m.rng.Exponential(ProcessorDelayLambda),
			DispatchTime: m.currentTime,
			Seq:          m.seq,
		})
	}
}

// Output wraps the head message in a Packet envelope and emits it.
func (m *MessageProcessor) Output() map[string][]any {
	if m.queue.Len() == 0 {
		return nil
	}
	rm := m.queue[0].Message
	pkt := raftmsg.Packet{
		Payload:     rm,
		Destination: rm.Dest,
		Source:      rm.Source,
		Timestamp:   m.currentTime,
	}
	return map[string][]any{m.outPort: {pkt}}
}

// InternalTransition pops the head message Output just emitted.
func (m *MessageProcessor) InternalTransition() {
	if m.queue.Len() == 0 {
		return
	}
	heap.Pop(&m.queue)
}

// TimeAdvance returns the head event's drawn delay, or infinity when
// idle.
func (m *MessageProcessor) TimeAdvance() time.Duration {
	if m.queue.Len() == 0 {
		return 1<<63 - 1
	}
	return m.queue[0].Delay
}

// StateString renders the queue depth for tracing.
func (m *MessageProcessor) StateString() string {
	return fmt.Sprintf("queued=%d", m.queue.Len())
}
