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

// Command raftdevs-sim runs one discrete-event simulation of the Raft
// leader-election and log-replication protocol to completion and
// reports the resulting cluster state as a table or as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/PDesa16/raftdevs/internal/cluster"
	"github.com/PDesa16/raftdevs/internal/config"
	"github.com/PDesa16/raftdevs/internal/des"
	"github.com/PDesa16/raftdevs/internal/raft"
	"github.com/PDesa16/raftdevs/internal/random"
	"github.com/PDesa16/raftdevs/internal/tracelog"
	"github.com/PDesa16/raftdevs/pkg/cli"
)

const appVersion = "0.1.0"

func main() {
	cfg := config.DefaultConfig()

	clusterSize := flag.Int("cluster-size", cfg.ClusterSize, "number of nodes in the simulated cluster")
	endTime := flag.Duration("end-time", cfg.EndTime, "simulated duration to run before stopping")
	seed := flag.Int64("seed", cfg.Seed, "PRNG seed for reproducible stochastic delays")
	logDir := flag.String("log-dir", cfg.LogDir, "directory for the simulation trace log")
	noTrace := flag.Bool("no-trace", false, "disable writing a trace log file")
	jsonOut := flag.Bool("json", false, "print the result as JSON instead of a table")
	noColor := flag.Bool("no-color", false, "disable ANSI color output")
	flag.Parse()

	if *noColor {
		cli.SetColorsEnabled(false)
	}

	cfg.ClusterSize = *clusterSize
	cfg.EndTime = *endTime
	cfg.Seed = *seed
	cfg.LogDir = *logDir
	cfg.EnableTrace = !*noTrace

	if err := cfg.Validate(); err != nil {
		cli.ErrInvalidValue("config", "", err.Error()).Print()
		os.Exit(1)
	}

	var tracer des.Tracer
	var sink tracelog.Sink
	if cfg.EnableTrace {
		path := tracelog.FileNameForRun(cfg.LogDir, time.Unix(0, cfg.Seed))
		fileSink := tracelog.NewFileSink(path, tracelog.INFO)
		sink = fileSink
		tracer = fileSink
	}

	rng := random.New(cfg.Seed)
	sim := cluster.NewSimulation(cfg, rng)
	rc := des.NewRootCoordinator(sim.Coupled, tracer)

	var spinner *cli.Spinner
	if !*jsonOut {
		spinner = cli.NewSpinner(fmt.Sprintf("running %d-node simulation to %s", cfg.ClusterSize, cfg.EndTime))
		spinner.Start()
	}

	start := time.Now()
	rc.Run(cfg.EndTime)
	wall := time.Since(start)

	if spinner != nil {
		spinner.StopWithSuccess(fmt.Sprintf("simulation settled at %s (%s wall time)", rc.Clock(), wall))
	}

	if sink != nil {
		if err := sink.Close(); err != nil {
			cli.PrintWarning("failed to close trace log: %v", err)
		}
	}

	if *jsonOut {
		printJSON(sim, rc, wall)
		return
	}
	printTable(sim, rc, wall)
}

type nodeRow struct {
	NodeID      string `json:"node_id"`
	Role        string `json:"role"`
	Term        int    `json:"term"`
	CommitIndex int    `json:"commit_index"`
}

type runResult struct {
	Steps       int           `json:"steps"`
	SimulatedMS int64         `json:"simulated_ms"`
	WallTime    string        `json:"wall_time"`
	Nodes       []nodeRow     `json:"nodes"`
}

func collect(sim *cluster.Simulation, rc *des.RootCoordinator, wall time.Duration) runResult {
	res := runResult{
		Steps:       rc.Steps(),
		SimulatedMS: rc.Clock().Milliseconds(),
		WallTime:    wall.String(),
	}
	for _, id := range sim.NodeIDs {
		c := sim.Nodes[id].Raft.Controller
		res.Nodes = append(res.Nodes, nodeRow{
			NodeID:      string(id),
			Role:        c.Role().String(),
			Term:        c.CurrentTerm(),
			CommitIndex: c.CommitIndex(),
		})
	}
	return res
}

func printJSON(sim *cluster.Simulation, rc *des.RootCoordinator, wall time.Duration) {
	data, err := json.MarshalIndent(collect(sim, rc, wall), "", "  ")
	if err != nil {
		cli.PrintError("failed to marshal result: %v", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

func printTable(sim *cluster.Simulation, rc *des.RootCoordinator, wall time.Duration) {
	res := collect(sim, rc, wall)
	fmt.Printf("%s simulated=%dms wall=%s steps=%s\n",
		cli.Highlight("raftdevs-sim"), res.SimulatedMS, res.WallTime, cli.FormatCount(res.Steps))

	table := cli.NewTable("NODE", "ROLE", "TERM", "COMMIT INDEX")
	for _, n := range res.Nodes {
		role := n.Role
		if n.Role == raft.Leader.String() {
			role = cli.Success(role)
		}
		table.AddRow(n.NodeID, role, fmt.Sprintf("%d", n.Term), fmt.Sprintf("%d", n.CommitIndex))
	}
	table.Print()
}
