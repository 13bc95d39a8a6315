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

// Package heartbeat implements the election-timeout clock paired with
// each node's RaftController. It knows nothing about Raft terms or
// roles; it only tracks one timeout and reports TIMEOUT (the election
// timeout elapsed) or UPDATE (a leader heartbeat tick is due) to its
// owner, which decides what those mean.
package heartbeat

import (
	"fmt"
	"time"

	"github.com/PDesa16/raftdevs/internal/random"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
)

// MinTimeout and MaxTimeout bound the uniform election-timeout draw.
const (
	MinTimeout         = 150 * time.Millisecond
	MaxTimeout         = 300 * time.Millisecond
	UpdateReinforceGap = 50 * time.Millisecond
)

// Controller is the heartbeat-timeout atomic model. InPort/OutPort name
// the port pair it shares with its owning RaftController.
type Controller struct {
	id      string
	inPort  string
	outPort string
	rng     *random.Source

	status  raftmsg.HeartbeatStatus
	timeout time.Duration
}

// New builds a Controller with a freshly-drawn election timeout.
func New(id, inPort, outPort string, rng *random.Source) *Controller {
	c := &Controller{id: id, inPort: inPort, outPort: outPort, rng: rng}
	c.timeout = rng.Uniform(MinTimeout, MaxTimeout)
	c.status = raftmsg.HeartbeatAlive
	return c
}

// ID implements des.Atomic.
func (c *Controller) ID() string { return c.id }

// ExternalTransition consumes the most recent status report on the input
// port (ALIVE redraws a fresh election timeout; UPDATE schedules the
// next leader heartbeat tick) and ignores everything but the last value
// in the bag, matching the source's "last write wins" handling of a
// same-instant status bag.
func (c *Controller) ExternalTransition(_ time.Duration, inputs map[string][]any) {
	bag := inputs[c.inPort]
	if len(bag) == 0 {
		return
	}
	status, ok := bag[len(bag)-1].(raftmsg.HeartbeatStatus)
	if !ok {
		return
	}
	c.status = status
	switch status {
	case raftmsg.HeartbeatAlive:
		c.timeout = c.rng.Uniform(MinTimeout, MaxTimeout)
	case raftmsg.HeartbeatUpdate:
		c.timeout = UpdateReinforceGap
	}
}

// Output emits TIMEOUT when the election timeout has elapsed with no
// reinforcing ALIVE/UPDATE, or UPDATE when it was reinforced as a leader
// heartbeat tick.
func (c *Controller) Output() map[string][]any {
	switch c.status {
	case raftmsg.HeartbeatAlive:
		return map[string][]any{c.outPort: {raftmsg.HeartbeatTimeout}}
	case raftmsg.HeartbeatUpdate:
		return map[string][]any{c.outPort: {raftmsg.HeartbeatUpdate}}
	default:
		return nil
	}
}

// InternalTransition clears the timeout to infinity unless the last
// status was UPDATE, in which case the controller keeps ticking at the
// reinforcement cadence.
func (c *Controller) InternalTransition() {
	if c.status == raftmsg.HeartbeatUpdate {
		c.timeout = UpdateReinforceGap
		return
	}
	c.timeout = 1<<63 - 1
}

// TimeAdvance returns the current election timeout.
func (c *Controller) TimeAdvance() time.Duration { return c.timeout }

// StateString renders the controller's status for tracing.
func (c *Controller) StateString() string {
	return fmt.Sprintf("status=%s timeout=%s", c.status, c.timeout)
}
