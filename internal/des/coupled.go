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

// EndpointRef names one port of one child, or the coupled model's own
// boundary when ChildID is empty.
type EndpointRef struct {
	ChildID string
	Port    string
}

// Coupling routes every message on From to To. Multiple couplings may
// share a From (fan-out, e.g. a broadcast-style wiring) or a To (fan-in).
type Coupling struct {
	From EndpointRef
	To   EndpointRef
}

// Coupled is a named container of children plus a coupling relation. It
// has no transitions of its own; the RootCoordinator flattens a Coupled's
// children directly into the set it schedules, and uses the coupling
// relation to route bags between them and across the Coupled's own
// boundary ports.
type Coupled struct {
	Name      string
	Children  []Atomic
	Couplings []Coupling
}

// NewCoupled creates an empty coupled model with the given name.
func NewCoupled(name string) *Coupled {
	return &Coupled{Name: name}
}

// AddChild registers an atomic or flattened-coupled child.
func (c *Coupled) AddChild(child Atomic) *Coupled {
	c.Children = append(c.Children, child)
	return c
}

// Connect adds an internal coupling from one child's output port to
// another child's input port.
func (c *Coupled) Connect(fromChild, fromPort, toChild, toPort string) *Coupled {
	c.Couplings = append(c.Couplings, Coupling{
		From: EndpointRef{ChildID: fromChild, Port: fromPort},
		To:   EndpointRef{ChildID: toChild, Port: toPort},
	})
	return c
}

// ExternalInput adds an external-input coupling from the coupled model's
// own boundary port to a child's input port.
func (c *Coupled) ExternalInput(boundaryPort, toChild, toPort string) *Coupled {
	c.Couplings = append(c.Couplings, Coupling{
		From: EndpointRef{Port: boundaryPort},
		To:   EndpointRef{ChildID: toChild, Port: toPort},
	})
	return c
}

// ExternalOutput adds an external-output coupling from a child's output
// port to the coupled model's own boundary port.
func (c *Coupled) ExternalOutput(fromChild, fromPort, boundaryPort string) *Coupled {
	c.Couplings = append(c.Couplings, Coupling{
		From: EndpointRef{ChildID: fromChild, Port: fromPort},
		To:   EndpointRef{Port: boundaryPort},
	})
	return c
}

// Flatten returns every atomic leaf reachable from this coupled model,
// together with a coupling relation rewritten in terms of those leaves'
// IDs plus this model's own boundary ports (qualified by Name so that
// sibling coupled models sharing a boundary port name don't collide).
func (c *Coupled) Flatten() ([]Atomic, []Coupling) {
	var atomics []Atomic
	var couplings []Coupling

	childCoupled := make(map[string]*Coupled)
	for _, ch := range c.Children {
		if cc, ok := ch.(*coupledAdapter); ok {
			childCoupled[cc.inner.Name] = cc.inner
		}
	}

	resolve := func(ref EndpointRef) []EndpointRef {
		if ref.ChildID == "" {
			// Own boundary port.
			return []EndpointRef{{Port: c.Name + "." + ref.Port}}
		}
		if cc, ok := childCoupled[ref.ChildID]; ok {
			// Port on a nested coupled model's boundary.
			return []EndpointRef{{Port: cc.Name + "." + ref.Port}}
		}
		return []EndpointRef{ref}
	}

	for _, ch := range c.Children {
		if cc, ok := ch.(*coupledAdapter); ok {
			subAtomics, subCouplings := cc.inner.Flatten()
			atomics = append(atomics, subAtomics...)
			couplings = append(couplings, subCouplings...)
			continue
		}
		atomics = append(atomics, ch)
	}

	for _, cp := range c.Couplings {
		froms := resolve(cp.From)
		tos := resolve(cp.To)
		for _, f := range froms {
			for _, t := range tos {
				couplings = append(couplings, Coupling{From: f, To: t})
			}
		}
	}

	return atomics, couplings
}

// CloseOverBoundaries collapses chains that pass through a nested
// coupled model's boundary (an EndpointRef with ChildID == "", naming a
// qualified boundary port rather than a leaf) into direct leaf-to-leaf
// edges, so every returned coupling connects two real atomic ports.
// Flatten's own recursion leaves these boundary-crossing stubs in place
// at each level it merges; a top-level caller (NewRootCoordinator) calls
// this exactly once over the fully-merged relation a root Flatten()
// returns, once every level's edges are present together and a chain of
// any depth can be walked to its real endpoints. A coupling whose From
// side is itself a bare boundary port is never the source of a real
// emission (nothing but another coupling ever targets it), so it only
// serves as a pass-through and is dropped once its continuations are
// inlined into every edge that fed it.
func CloseOverBoundaries(couplings []Coupling) []Coupling {
	continuations := make(map[EndpointRef][]EndpointRef)
	for _, cp := range couplings {
		if cp.From.ChildID == "" {
			continuations[cp.From] = append(continuations[cp.From], cp.To)
		}
	}

	var expand func(ref EndpointRef, seen map[EndpointRef]bool) []EndpointRef
	expand = func(ref EndpointRef, seen map[EndpointRef]bool) []EndpointRef {
		if ref.ChildID != "" {
			return []EndpointRef{ref}
		}
		if seen[ref] {
			return nil
		}
		seen[ref] = true
		var out []EndpointRef
		for _, next := range continuations[ref] {
			out = append(out, expand(next, seen)...)
		}
		return out
	}

	var resolved []Coupling
	for _, cp := range couplings {
		if cp.From.ChildID == "" {
			continue
		}
		for _, to := range expand(cp.To, map[EndpointRef]bool{}) {
			resolved = append(resolved, Coupling{From: cp.From, To: to})
		}
	}
	return resolved
}

// coupledAdapter lets a Coupled model be registered as a child of another
// Coupled model without making Coupled itself satisfy Atomic (it has no
// transitions, by design).
type coupledAdapter struct {
	inner *Coupled
}

// AsChild wraps a Coupled model so it can be passed to AddChild; the
// RootCoordinator never schedules the adapter itself, only the atomics
// Flatten() extracts from it.
func AsChild(c *Coupled) Atomic { return &coupledAdapter{inner: c} }

func (a *coupledAdapter) ID() string                                        { return a.inner.Name }
func (a *coupledAdapter) InternalTransition()                               {}
func (a *coupledAdapter) ExternalTransition(_ time.Duration, _ PortBag)     {}
func (a *coupledAdapter) Output() PortBag                                   { return nil }
func (a *coupledAdapter) TimeAdvance() time.Duration                        { return Infinity }
