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

// Package config holds the simulation's tunable parameters: cluster
// size, simulated end time, PRNG seed, trace settings, and the timing
// and stochastic-delay rate parameters. NewSimulation reads only
// ClusterSize; the timing and rate fields mirror the constants the
// heartbeat, buffer, network, and raft packages use, and changing them
// does not change a run.
package config

import (
	"fmt"
	"time"
)

// SimConfig configures one simulation run.
type SimConfig struct {
	ClusterSize int
	EndTime     time.Duration
	Seed        int64

	LogDir      string
	EnableTrace bool

	HeartbeatTimeoutMin      time.Duration
	HeartbeatTimeoutMax      time.Duration
	HeartbeatUpdateInterval  time.Duration
	BufferProcessingDelay    time.Duration
	PacketDelayLambda        float64
	VoteDelayLambda          float64
	AppendEntryDelayLambda   float64
}

// DefaultConfig returns a SimConfig with sensible defaults: a 3-node
// cluster, a 300ms run, a 150-300ms election timeout, a 50ms leader
// heartbeat cadence, and the rate parameters of the stochastic delays.
func DefaultConfig() *SimConfig {
	return &SimConfig{
		ClusterSize:             3,
		EndTime:                 300 * time.Millisecond,
		Seed:                    1,
		LogDir:                  "logs",
		EnableTrace:             true,
		HeartbeatTimeoutMin:     150 * time.Millisecond,
		HeartbeatTimeoutMax:     300 * time.Millisecond,
		HeartbeatUpdateInterval: 50 * time.Millisecond,
		BufferProcessingDelay:   10 * time.Nanosecond,
		PacketDelayLambda:       1e6,
		VoteDelayLambda:         1e5,
		AppendEntryDelayLambda:  1e4,
	}
}

// Validate rejects configurations the simulator cannot run.
func (c *SimConfig) Validate() error {
	if c.ClusterSize < 1 {
		return fmt.Errorf("config: cluster size must be at least 1, got %d", c.ClusterSize)
	}
	if c.EndTime <= 0 {
		return fmt.Errorf("config: end time must be positive, got %s", c.EndTime)
	}
	if c.HeartbeatTimeoutMin >= c.HeartbeatTimeoutMax {
		return fmt.Errorf("config: heartbeat timeout min (%s) must be less than max (%s)",
			c.HeartbeatTimeoutMin, c.HeartbeatTimeoutMax)
	}
	if c.PacketDelayLambda <= 0 || c.VoteDelayLambda <= 0 || c.AppendEntryDelayLambda <= 0 {
		return fmt.Errorf("config: delay rate parameters must be positive")
	}
	return nil
}
