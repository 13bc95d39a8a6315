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
	"os"
	"testing"

	"github.com/PDesa16/raftdevs/internal/config"
	"github.com/PDesa16/raftdevs/internal/des"
	"github.com/PDesa16/raftdevs/internal/raft"
	"github.com/PDesa16/raftdevs/internal/random"
)

func TestScenarioFixturesProduceExpectedLeaderCounts(t *testing.T) {
	data, err := os.ReadFile("testdata/scenarios.txtar")
	if err != nil {
		t.Fatalf("failed to read scenario fixtures: %v", err)
	}
	scenarios, err := ParseScenarios(data)
	if err != nil {
		t.Fatalf("failed to parse scenario fixtures: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatal("expected at least one scenario in the fixture archive")
	}

	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.Name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.ClusterSize = sc.ClusterSize
			cfg.EndTime = sc.EndTime
			cfg.Seed = sc.Seed

			sim := NewSimulation(cfg, random.New(cfg.Seed))
			rc := des.NewRootCoordinator(sim.Coupled, nil)
			rc.Run(cfg.EndTime)

			leaders := 0
			for _, id := range sim.NodeIDs {
				if sim.Nodes[id].Raft.Controller.Role() == raft.Leader {
					leaders++
				}
			}

			if sc.WantLeaders == 0 {
				t.Logf("%s: cluster settled with %d leader(s) (no single expected count)", sc.Name, leaders)
				return
			}
			if leaders != sc.WantLeaders {
				t.Fatalf("%s: expected %d leader(s), got %d", sc.Name, sc.WantLeaders, leaders)
			}
		})
	}
}
