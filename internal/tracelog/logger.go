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
Package tracelog implements the simulation's trace sink: a timestamped
text file recording, per event, one line for every output emission and
one line for every state transition the root coordinator processes.
It sits outside the core consensus model but is still part of the
ambient stack every run needs, backing every simulation process
regardless of which scenario is in play.

FileSink additionally exposes in-process event tracing via
golang.org/x/net/trace (for live inspection through the trace HTTP
endpoint while a long batch run is in flight) and takes an advisory
golang.org/x/sys/unix flock on its underlying file so two concurrent
runs never interleave writes into the same path.
*/
package tracelog

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/net/trace"
	"golang.org/x/sys/unix"

	"github.com/PDesa16/raftdevs/internal/des"
	"github.com/PDesa16/raftdevs/internal/errors"
)

// Level is a diagnostic log severity. FileSink records the level it was
// built with but writes every trace line regardless of it.
type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// String renders the level name.
func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "INFO"
	}
}

// ParseLevel parses a level name case-insensitively, accepting "WARNING"
// as an alias for WARN and defaulting to INFO for unrecognized input.
func ParseLevel(s string) Level {
	switch upper(s) {
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

// Sink is the interface des.RootCoordinator traces through. FileSink is
// the production implementation; MemorySink is for tests.
type Sink interface {
	des.Tracer
	Close() error
}

// FileNameForRun returns the canonical trace log path for a run started
// at t, following the
// logs/simulation_log_<YYYY-MM-DD_HH-MM-SS>.txt naming convention.
func FileNameForRun(dir string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("simulation_log_%s.txt", t.Format("2006-01-02_15-04-05")))
}

// FileSink writes one line per output emission and one line per state
// transition to a text file, lazily opened on first write so a run that
// produces no output never creates an empty file.
type FileSink struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	locked  bool
	level   Level
	tracer  trace.Trace
	openErr error
}

// NewFileSink builds a FileSink targeting path. The file is not opened
// until the first write.
func NewFileSink(path string, level Level) *FileSink {
	return &FileSink{path: path, level: level}
}

func (s *FileSink) ensureOpen() error {
	if s.file != nil || s.openErr != nil {
		return s.openErr
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.openErr = errors.LogOpenFailed(s.path, err)
		return s.openErr
	}
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		s.openErr = errors.LogOpenFailed(s.path, err)
		return s.openErr
	}
	// Advisory exclusive lock: a logger open failure is non-fatal, so a
	// lock we can't acquire just disables the on-disk sink rather than
	// aborting the run.
	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		_ = f.Close()
		s.openErr = errors.LogOpenFailed(s.path, err)
		return s.openErr
	}
	s.locked = true
	s.file = f
	s.tracer = trace.New("raftdevs.simulation", filepath.Base(s.path))
	return nil
}

// TraceOutput implements des.Tracer.
func (s *FileSink) TraceOutput(simTime time.Duration, modelID, port string, value any) {
	s.writeLine(fmt.Sprintf("%s %s %s %v\n", simTime, modelID, port, value))
	if s.tracer != nil {
		s.tracer.LazyPrintf("%s %s.%s = %v", simTime, modelID, port, value)
	}
}

// TraceState implements des.Tracer.
func (s *FileSink) TraceState(simTime time.Duration, modelID, state string) {
	s.writeLine(fmt.Sprintf("%s %s %s\n", simTime, modelID, state))
	if s.tracer != nil {
		s.tracer.LazyPrintf("%s %s <- %s", simTime, modelID, state)
	}
}

func (s *FileSink) writeLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOpen(); err != nil {
		return
	}
	if _, err := s.file.WriteString(line); err != nil {
		_ = errors.LogWriteFailed(err)
	}
}

// Close flushes and releases the underlying file and its advisory lock.
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tracer != nil {
		s.tracer.Finish()
	}
	if s.file == nil {
		return nil
	}
	if s.locked {
		_ = unix.Flock(int(s.file.Fd()), unix.LOCK_UN)
	}
	return s.file.Close()
}

// MemorySink accumulates every trace line in memory; it is intended for
// tests that want to assert on trace content without touching disk.
type MemorySink struct {
	mu     sync.Mutex
	Lines  []string
}

// TraceOutput implements des.Tracer.
func (s *MemorySink) TraceOutput(simTime time.Duration, modelID, port string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lines = append(s.Lines, fmt.Sprintf("%s %s %s %v", simTime, modelID, port, value))
}

// TraceState implements des.Tracer.
func (s *MemorySink) TraceState(simTime time.Duration, modelID, state string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lines = append(s.Lines, fmt.Sprintf("%s %s %s", simTime, modelID, state))
}

// Close is a no-op for MemorySink.
func (s *MemorySink) Close() error { return nil }
