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

package des

import "time"

// Tracer receives every output emission and state transition the
// RootCoordinator processes. Implementations must not block the
// simulation loop for long; internal/tracelog provides the concrete
// file-backed sink.
type Tracer interface {
	TraceOutput(simTime time.Duration, modelID string, port string, value any)
	TraceState(simTime time.Duration, modelID string, state string)
}

// noopTracer discards everything; used when no Tracer is configured.
type noopTracer struct{}

func (noopTracer) TraceOutput(time.Duration, string, string, any) {}
func (noopTracer) TraceState(time.Duration, string, string)       {}

// Stringer is implemented by atomic models that can render their current
// state for tracing; it is optional.
type Stringer interface {
	StateString() string
}

// RootCoordinator advances simulated time across a flat set of atomic
// models connected by a coupling relation, following the classic
// Parallel-DEVS simulation protocol:
//
//  1. Initialize; record each child's next scheduled time.
//  2. Advance the clock to the minimum next time; that is the imminent set.
//  3. Call Output() on every imminent child and route its bag through the
//     coupling relation into receivers' pending input bags.
//  4. Call InternalTransition() on every imminent child.
//  5. Call ExternalTransition(elapsed, bag) on every non-imminent child
//     with a non-empty pending bag.
//  6. A child that is both imminent and has pending input is confluent:
//     InternalTransition() runs, then ExternalTransition(0, bag) — unless
//     the model implements Confluent, in which case ConfluentTransition
//     is called instead.
//  7. Recompute next-scheduled time for every touched child; clear bags.
//
// Repeat until the clock reaches EndTime or every child's TimeAdvance is
// Infinity.
type RootCoordinator struct {
	models     []Atomic
	couplings  []Coupling
	routes     map[EndpointRef][]EndpointRef
	next       map[string]time.Duration
	lastEvent  map[string]time.Duration
	clock      time.Duration
	tracer     Tracer
	stepCount  int
}

// NewRootCoordinator builds a coordinator over the flattened atomic set
// and coupling relation of a top-level Coupled model.
func NewRootCoordinator(top *Coupled, tracer Tracer) *RootCoordinator {
	atomics, couplings := top.Flatten()
	couplings = CloseOverBoundaries(couplings)
	if tracer == nil {
		tracer = noopTracer{}
	}
	rc := &RootCoordinator{
		models:    atomics,
		couplings: couplings,
		routes:    make(map[EndpointRef][]EndpointRef),
		next:      make(map[string]time.Duration, len(atomics)),
		lastEvent: make(map[string]time.Duration, len(atomics)),
		tracer:    tracer,
	}
	for _, cp := range couplings {
		rc.routes[cp.From] = append(rc.routes[cp.From], cp.To)
	}
	for _, m := range atomics {
		rc.next[m.ID()] = m.TimeAdvance()
	}
	return rc
}

// Clock returns the current simulated time.
func (rc *RootCoordinator) Clock() time.Duration { return rc.clock }

// Steps returns the number of imminent-set iterations processed so far.
func (rc *RootCoordinator) Steps() int { return rc.stepCount }

// nextGlobalTime returns the minimum scheduled time across all models.
func (rc *RootCoordinator) nextGlobalTime() time.Duration {
	min := Infinity
	for _, m := range rc.models {
		if t := rc.next[m.ID()]; t < min {
			min = t
		}
	}
	return min
}

// Step advances the simulation by exactly one imminent-set iteration and
// reports the new clock value. It returns false without advancing if
// every model's TimeAdvance is Infinity (the simulation is quiescent).
func (rc *RootCoordinator) Step() (time.Duration, bool) {
	t := rc.nextGlobalTime()
	if t == Infinity {
		return rc.clock, false
	}
	rc.clock = t
	rc.stepCount++

	imminent := make(map[string]bool)
	byID := make(map[string]Atomic, len(rc.models))
	for _, m := range rc.models {
		byID[m.ID()] = m
		if rc.next[m.ID()] == t {
			imminent[m.ID()] = true
		}
	}

	// Step 3: outputs of the imminent set, routed into pending input bags.
	pending := make(map[string]PortBag)
	deliver := func(to EndpointRef, msg any) {
		bag := pending[to.ChildID]
		if bag == nil {
			bag = make(PortBag)
			pending[to.ChildID] = bag
		}
		bag[to.Port] = append(bag[to.Port], msg)
	}
	for _, m := range rc.models {
		if !imminent[m.ID()] {
			continue
		}
		outBag := m.Output()
		for port, msgs := range outBag {
			from := EndpointRef{ChildID: m.ID(), Port: port}
			for _, msg := range msgs {
				rc.tracer.TraceOutput(t, m.ID(), port, msg)
				for _, to := range rc.routes[from] {
					deliver(to, msg)
				}
			}
		}
	}

	// Steps 4-6: internal, external, and confluent transitions.
	for _, m := range rc.models {
		id := m.ID()
		inputs, hasInput := pending[id]
		switch {
		case imminent[id] && hasInput:
			if cm, ok := m.(Confluent); ok {
				cm.ConfluentTransition(inputs)
			} else {
				m.InternalTransition()
				m.ExternalTransition(0, inputs)
			}
		case imminent[id]:
			m.InternalTransition()
		case hasInput:
			elapsed := t - rc.lastEvent[id]
			m.ExternalTransition(elapsed, inputs)
		default:
			continue
		}
		rc.lastEvent[id] = t
		if ta := m.TimeAdvance(); ta == Infinity {
			rc.next[id] = Infinity
		} else {
			rc.next[id] = t + ta
		}
		if sm, ok := m.(Stringer); ok {
			rc.tracer.TraceState(t, id, sm.StateString())
		}
	}

	return rc.clock, true
}

// Run advances the simulation until the clock reaches or exceeds end, or
// the simulation goes quiescent, whichever comes first.
func (rc *RootCoordinator) Run(end time.Duration) {
	for {
		t, advanced := rc.Step()
		if !advanced || t >= end {
			return
		}
	}
}
