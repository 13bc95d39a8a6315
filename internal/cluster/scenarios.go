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
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/tools/txtar"
)

// Scenario is one named fixture describing a cluster configuration and
// its expected outcome, loaded from a txtar archive so named election
// and replication scenarios live as data files rather than as
// hand-built structs scattered across test functions.
type Scenario struct {
	Name        string
	ClusterSize int
	EndTime     time.Duration
	Seed        int64

	// WantLeaders is the expected count of nodes in role LEADER at the
	// end of the run, or 0 to mean "no single expected count" (used for
	// the even-cluster split-vote case where the literal quorum formula
	// intentionally leaves the outcome unresolved).
	WantLeaders int
}

// ParseScenarios parses a txtar archive into its named Scenarios. Each
// file's body is a flat key=value list; an unrecognized key or an
// unparsable value is an error rather than being silently skipped.
func ParseScenarios(data []byte) ([]Scenario, error) {
	archive := txtar.Parse(data)
	scenarios := make([]Scenario, 0, len(archive.Files))
	for _, f := range archive.Files {
		s := Scenario{Name: strings.TrimSuffix(f.Name, ".scenario")}
		for _, line := range strings.Split(string(f.Data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				return nil, fmt.Errorf("cluster: malformed scenario line %q in %s", line, f.Name)
			}
			if err := s.set(key, value); err != nil {
				return nil, fmt.Errorf("cluster: %s: %w", f.Name, err)
			}
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func (s *Scenario) set(key, value string) error {
	switch key {
	case "cluster_size":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("cluster_size: %w", err)
		}
		s.ClusterSize = n
	case "end_time":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("end_time: %w", err)
		}
		s.EndTime = d
	case "seed":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		s.Seed = n
	case "want_leaders":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("want_leaders: %w", err)
		}
		s.WantLeaders = n
	default:
		return fmt.Errorf("unknown scenario key %q", key)
	}
	return nil
}
