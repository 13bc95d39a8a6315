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

// Command raftdevs-step is an interactive console for driving one
// simulation one imminent-set iteration at a time, inspecting cluster
// state between steps and injecting link failures by hand.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/PDesa16/raftdevs/internal/cluster"
	"github.com/PDesa16/raftdevs/internal/config"
	"github.com/PDesa16/raftdevs/internal/des"
	"github.com/PDesa16/raftdevs/internal/raftmsg"
	"github.com/PDesa16/raftdevs/internal/random"
	"github.com/PDesa16/raftdevs/pkg/cli"
)

func main() {
	cfg := config.DefaultConfig()

	clusterSize := flag.Int("cluster-size", cfg.ClusterSize, "number of nodes in the simulated cluster")
	endTime := flag.Duration("end-time", cfg.EndTime, "simulated duration the 'run' command stops at by default")
	seed := flag.Int64("seed", cfg.Seed, "PRNG seed for reproducible stochastic delays")
	noColor := flag.Bool("no-color", false, "disable ANSI color output")
	flag.Parse()

	if *noColor {
		cli.SetColorsEnabled(false)
	}

	cfg.ClusterSize = *clusterSize
	cfg.EndTime = *endTime
	cfg.Seed = *seed
	cfg.EnableTrace = false

	if err := cfg.Validate(); err != nil {
		cli.ErrInvalidValue("config", "", err.Error()).Print()
		os.Exit(1)
	}

	sim := cluster.NewSimulation(cfg, random.New(cfg.Seed))
	rc := des.NewRootCoordinator(sim.Coupled, nil)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          cli.Highlight("raftdevs> "),
		HistoryFile:     "/tmp/raftdevs-step.history",
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		cli.PrintError("failed to start console: %v", err)
		os.Exit(1)
	}
	defer rl.Close()

	cli.PrintInfo("raftdevs-step: cluster size=%d seed=%d end-time=%s. Type 'help' for commands.",
		cfg.ClusterSize, cfg.Seed, cfg.EndTime)

	console := &console{rc: rc, sim: sim, cfg: cfg}
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			return
		}
		console.dispatch(strings.TrimSpace(line))
		if console.quit {
			return
		}
	}
}

type console struct {
	rc   *des.RootCoordinator
	sim  *cluster.Simulation
	cfg  *config.SimConfig
	quit bool
}

func (c *console) dispatch(line string) {
	if line == "" {
		return
	}
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "step", "s":
		c.step()
	case "run", "r":
		c.run(args)
	case "state", "st":
		c.printState()
	case "leaders":
		c.printLeaders()
	case "disable":
		c.toggleLink(args, true)
	case "enable":
		c.toggleLink(args, false)
	case "reset":
		c.reset(args)
	case "clock":
		cli.PrintInfo("simulated clock: %s (steps=%d)", c.rc.Clock(), c.rc.Steps())
	case "quit", "exit", "q":
		c.quit = true
	case "help", "h", "?":
		c.printHelp()
	default:
		cli.ErrInvalidCommand(cmd).Print()
	}
}

func (c *console) step() {
	t, advanced := c.rc.Step()
	if !advanced {
		cli.PrintWarning("simulation is quiescent; nothing left to schedule")
		return
	}
	cli.PrintSuccess("advanced to %s", t)
}

func (c *console) run(args []string) {
	from := c.rc.Clock()
	until := c.cfg.EndTime
	if len(args) > 0 {
		d, err := time.ParseDuration(args[0])
		if err != nil {
			cli.ErrInvalidValue("duration", args[0], err.Error()).Print()
			return
		}
		until = from + d
	}

	total := int((until - from).Milliseconds())
	var bar *cli.ProgressBar
	if total > 0 {
		bar = cli.NewProgressBar(total, "advancing")
	}

	for {
		t, advanced := c.rc.Step()
		if bar != nil {
			bar.Update(int((t - from).Milliseconds()))
		}
		if !advanced || t >= until {
			break
		}
	}
	if bar != nil {
		bar.Complete()
	}
	cli.PrintSuccess("ran to %s", c.rc.Clock())
}

func (c *console) printState() {
	table := cli.NewTable("NODE", "ROLE", "TERM", "COMMIT INDEX", "LEADER")
	for _, id := range c.sim.NodeIDs {
		ctrl := c.sim.Nodes[id].Raft.Controller
		table.AddRow(
			string(id),
			ctrl.Role().String(),
			strconv.Itoa(ctrl.CurrentTerm()),
			strconv.Itoa(ctrl.CommitIndex()),
			string(ctrl.LeaderID()),
		)
	}
	table.Print()
}

func (c *console) printLeaders() {
	byTerm := c.sim.LeadersByTerm()
	if len(byTerm) == 0 {
		cli.PrintInfo("no leader has been elected yet")
		return
	}
	table := cli.NewTable("TERM", "LEADERS")
	for term, ids := range byTerm {
		names := make([]string, len(ids))
		for i, id := range ids {
			names[i] = string(id)
		}
		table.AddRow(strconv.Itoa(term), strings.Join(names, ", "))
	}
	table.Print()
}

func (c *console) toggleLink(args []string, disable bool) {
	if len(args) != 1 {
		usage := "enable <node-id>"
		if disable {
			usage = "disable <node-id>"
		}
		cli.ErrMissingArgument("node", usage).Print()
		return
	}
	id := raftmsg.NodeID(args[0])
	if disable {
		if !cli.Confirm(fmt.Sprintf("disable outbound traffic from %s?", id)) {
			cli.PrintInfo("disable cancelled")
			return
		}
		c.sim.Network.DisableOutboundFrom(id)
		cli.PrintSuccess("outbound traffic from %s disabled", id)
		return
	}
	c.sim.Network.EnableOutboundFrom(id)
	cli.PrintSuccess("outbound traffic from %s re-enabled", id)
}

// reset discards the current simulation and builds a fresh one, keeping
// the existing seed unless a new one is given or entered at the prompt.
func (c *console) reset(args []string) {
	newSeed := c.cfg.Seed
	switch {
	case len(args) > 0:
		s, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			cli.ErrInvalidValue("seed", args[0], err.Error()).Print()
			return
		}
		newSeed = s
	default:
		if in := cli.Prompt(fmt.Sprintf("New seed [blank keeps %d]: ", c.cfg.Seed)); in != "" {
			s, err := strconv.ParseInt(in, 10, 64)
			if err != nil {
				cli.ErrInvalidValue("seed", in, err.Error()).Print()
				return
			}
			newSeed = s
		}
	}

	if !cli.ConfirmDestructive("All progress in the current run will be discarded.", "RESET") {
		cli.PrintInfo("reset cancelled")
		return
	}

	c.cfg.Seed = newSeed
	c.sim = cluster.NewSimulation(c.cfg, random.New(newSeed))
	c.rc = des.NewRootCoordinator(c.sim.Coupled, nil)
	cli.PrintSuccess("simulation reset with seed=%d", newSeed)
}

func (c *console) printHelp() {
	fmt.Println(cli.Highlight("Commands:"))
	fmt.Println("  step, s            advance one imminent-set iteration")
	fmt.Println("  run [duration], r  run to end-time, or by an additional duration (e.g. run 100ms)")
	fmt.Println("  state, st          print every node's role, term, commit index, and known leader")
	fmt.Println("  leaders            print the leaders observed so far, grouped by term")
	fmt.Println("  disable <node>     cut outbound traffic from a node (simulates a crashed leader)")
	fmt.Println("  enable <node>      restore outbound traffic from a node")
	fmt.Println("  reset [seed]       discard the current run and start a fresh one")
	fmt.Println("  clock              print the current simulated clock and step count")
	fmt.Println("  quit, exit, q      leave the console")
}
