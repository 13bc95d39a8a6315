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

/*
Package des implements a small Parallel-DEVS-style discrete-event kernel.

Kernel Overview:
================

An Atomic model is an event-driven state machine with four operations:

  - InternalTransition: fires when the model's own scheduled time elapses.
  - ExternalTransition: fires when input messages arrive on its ports.
  - Output: produces a message bag immediately before InternalTransition.
  - TimeAdvance: returns the delay until the model's next internal event,
    or Infinity if none is scheduled.

A Coupled model has no transitions of its own; it is a named set of child
models plus a coupling relation (child-to-child, parent-to-child, and
child-to-parent routes), flattened by the RootCoordinator (see
coordinator.go) into one flat simulation.

Ports are identified by name only; a Bag is the multiset of messages
present on a port at one event instant, represented here as a slice of
opaque payloads to keep the kernel itself message-type-agnostic. Concrete
atomic models (Buffer, HeartbeatController, RaftController, Network, ...)
are responsible for type-asserting their own ports' contents.
*/
package des

import "time"

// Infinity denotes a TimeAdvance with no scheduled internal event.
const Infinity = time.Duration(1<<63 - 1)

// Bag is the multiset of messages present on one port at an event instant.
type Bag = []any

// PortBag maps a port name to the bag of messages on it.
type PortBag = map[string]Bag

// Atomic is the minimal interface the kernel schedules.
type Atomic interface {
	// ID returns the model's unique identifier within its parent coupled model.
	ID() string

	// InternalTransition advances the model's own state after its scheduled
	// time elapses. It must not read ports.
	InternalTransition()

	// ExternalTransition applies elapsed simulated time and the bags that
	// arrived on each input port since the model's last event.
	ExternalTransition(elapsed time.Duration, inputs PortBag)

	// Output returns the bag this model emits on each of its output ports,
	// called immediately before InternalTransition in the same event.
	Output() PortBag

	// TimeAdvance returns the delay until this model's next internal event.
	TimeAdvance() time.Duration
}

// Confluent is implemented by atomic models that need control over the
// ambiguous case where a model is both imminent (its own TimeAdvance has
// elapsed) and has pending external input at the same instant. Models that
// don't implement it get the kernel's default policy: InternalTransition
// followed by ExternalTransition with elapsed=0 (see coordinator.go).
type Confluent interface {
	Atomic
	ConfluentTransition(inputs PortBag)
}
