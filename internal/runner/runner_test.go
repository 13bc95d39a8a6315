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

package runner

import (
	"context"
	"testing"
	"time"

	"github.com/PDesa16/raftdevs/internal/config"
)

func TestRunBatchProducesOneResultPerSeed(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.EndTime = 400 * time.Millisecond

	results, err := RunBatch(context.Background(), cfg, 6)
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("expected 6 results, got %d", len(results))
	}

	seen := make(map[int64]bool)
	for _, r := range results {
		if seen[r.Seed] {
			t.Fatalf("duplicate seed %d across batch results", r.Seed)
		}
		seen[r.Seed] = true
		if len(r.Nodes) != cfg.ClusterSize {
			t.Fatalf("expected %d node states, got %d", cfg.ClusterSize, len(r.Nodes))
		}
		if r.Violation != "" {
			t.Fatalf("unexpected safety violation for seed %d: %s", r.Seed, r.Violation)
		}
	}
}

func TestRunBatchIsReproducible(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.EndTime = 400 * time.Millisecond

	first, err := RunBatch(context.Background(), cfg, 4)
	if err != nil {
		t.Fatalf("first RunBatch returned error: %v", err)
	}
	second, err := RunBatch(context.Background(), cfg, 4)
	if err != nil {
		t.Fatalf("second RunBatch returned error: %v", err)
	}

	for i := range first {
		if first[i].Seed != second[i].Seed {
			t.Fatalf("seed mismatch at index %d: %d vs %d", i, first[i].Seed, second[i].Seed)
		}
		if len(first[i].Nodes) != len(second[i].Nodes) {
			t.Fatalf("node count mismatch at index %d", i)
		}
		for j := range first[i].Nodes {
			a, b := first[i].Nodes[j], second[i].Nodes[j]
			if a.NodeID != b.NodeID || a.Role != b.Role || a.Term != b.Term {
				t.Fatalf("non-reproducible result at run %d node %d: %+v vs %+v", i, j, a, b)
			}
		}
	}
}

func TestRunBatchRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.ClusterSize = 0

	if _, err := RunBatch(context.Background(), cfg, 2); err == nil {
		t.Fatal("expected an error for an invalid cluster size")
	}
}

func TestElectionSuccessRate(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.EndTime = 400 * time.Millisecond

	results, err := RunBatch(context.Background(), cfg, 10)
	if err != nil {
		t.Fatalf("RunBatch returned error: %v", err)
	}
	rate := ElectionSuccessRate(results)
	if rate <= 0 {
		t.Fatalf("expected a positive election success rate, got %f", rate)
	}
}
