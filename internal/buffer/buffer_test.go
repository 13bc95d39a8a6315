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

package buffer

import "testing"

func TestBufferEmitsInArrivalOrder(t *testing.T) {
	b := New[string]("buf", "in", "out")

	b.ExternalTransition(0, map[string][]any{"in": {"a", "b", "c"}})

	var emitted []string
	for i := 0; i < 3; i++ {
		out := b.Output()
		msgs := out["out"]
		if len(msgs) != 1 {
			t.Fatalf("expected exactly one emission per internal transition, got %d", len(msgs))
		}
		emitted = append(emitted, msgs[0].(string))
		b.InternalTransition()
	}

	want := []string{"a", "b", "c"}
	for i, w := range want {
		if emitted[i] != w {
			t.Fatalf("expected emission order %v, got %v", want, emitted)
		}
	}
	if b.TimeAdvance() != 1<<63-1 {
		t.Fatalf("expected buffer to go idle after draining, got ta=%s", b.TimeAdvance())
	}
}

func TestBufferIdleUntilFirstArrival(t *testing.T) {
	b := New[int]("buf", "in", "out")
	if b.TimeAdvance() != 1<<63-1 {
		t.Fatalf("expected infinite time-advance with nothing queued")
	}
	if out := b.Output(); out != nil {
		t.Fatalf("expected no output with nothing queued, got %v", out)
	}
}
