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

package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.ClusterSize != 3 {
		t.Errorf("expected default cluster size 3, got %d", cfg.ClusterSize)
	}
	if cfg.EndTime != 300*time.Millisecond {
		t.Errorf("expected default end time 300ms, got %s", cfg.EndTime)
	}
	if cfg.HeartbeatTimeoutMin != 150*time.Millisecond || cfg.HeartbeatTimeoutMax != 300*time.Millisecond {
		t.Errorf("expected default heartbeat timeout 150-300ms, got %s-%s", cfg.HeartbeatTimeoutMin, cfg.HeartbeatTimeoutMax)
	}
	if cfg.HeartbeatUpdateInterval != 50*time.Millisecond {
		t.Errorf("expected default heartbeat update interval 50ms, got %s", cfg.HeartbeatUpdateInterval)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig() must validate cleanly, got: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SimConfig)
		wantErr bool
	}{
		{"valid default", func(c *SimConfig) {}, false},
		{"zero cluster size", func(c *SimConfig) { c.ClusterSize = 0 }, true},
		{"negative cluster size", func(c *SimConfig) { c.ClusterSize = -1 }, true},
		{"zero end time", func(c *SimConfig) { c.EndTime = 0 }, true},
		{"negative end time", func(c *SimConfig) { c.EndTime = -time.Second }, true},
		{"inverted heartbeat bounds", func(c *SimConfig) {
			c.HeartbeatTimeoutMin = 300 * time.Millisecond
			c.HeartbeatTimeoutMax = 150 * time.Millisecond
		}, true},
		{"equal heartbeat bounds", func(c *SimConfig) {
			c.HeartbeatTimeoutMin = 200 * time.Millisecond
			c.HeartbeatTimeoutMax = 200 * time.Millisecond
		}, true},
		{"zero packet delay lambda", func(c *SimConfig) { c.PacketDelayLambda = 0 }, true},
		{"single node cluster is valid", func(c *SimConfig) { c.ClusterSize = 1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
