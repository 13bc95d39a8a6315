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
Package random provides the seedable draws the simulator uses for every
stochastic delay: exponential inter-packet/inter-message delays and the
uniform follower election-timeout jitter.

Per the "global PRNG" design note, a Source is carried explicitly through
each atomic model's state (builder-style) rather than read from a
process-wide generator, so a run is fully reproducible from its seed
regardless of how many models draw from it or in what order the
coordinator visits them.
*/
package random

import (
	"math"
	"math/rand"
	"time"
)

// Source draws the two stochastic distributions the simulator needs.
// It is not safe for concurrent use; each atomic model (or, in
// internal/runner, each independent simulation run) owns its own Source.
type Source struct {
	rng *rand.Rand
}

// New builds a Source seeded deterministically from seed.
func New(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Exponential draws from an exponential distribution with rate lambda
// (events per second) and returns the result as a Duration. lambda must
// be positive.
func (s *Source) Exponential(lambda float64) time.Duration {
	// rand.ExpFloat64 draws from Exp(1); scaling by 1/lambda rescales the
	// rate.
	seconds := s.rng.ExpFloat64() / lambda
	return time.Duration(seconds * float64(time.Second))
}

// Uniform draws a Duration uniformly from [min, max).
func (s *Source) Uniform(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	span := float64(max - min)
	return min + time.Duration(s.rng.Float64()*span)
}

// Float64 returns a uniform draw in [0, 1), exposed for callers (e.g. a
// pre-vote style random backoff) that need a raw fraction rather than a
// Duration.
func (s *Source) Float64() float64 { return s.rng.Float64() }

// Int63n draws a uniform integer in [0, n).
func (s *Source) Int63n(n int64) int64 {
	if n <= 0 {
		return 0
	}
	return s.rng.Int63n(n)
}

// Child derives an independent Source deterministically from this one,
// used by internal/runner to hand each concurrently-run simulation its
// own reproducible stream without sharing a *rand.Rand across goroutines.
func (s *Source) Child() *Source {
	return New(int64(s.rng.Uint64() & math.MaxInt64))
}
