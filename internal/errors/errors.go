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
Package errors provides a structured error taxonomy for the simulator.

Error Categories:
  - CategoryProtocol: stale-term AppendEntries, an under-quorum RAFT
    certificate, a heartbeat from a non-leader. Non-fatal; the receiving
    RaftController drops the message and continues.
  - CategoryAddressing: a packet destined to a node id the Network or a
    coupled model's wiring doesn't know about. Fatal; indicates a wiring
    bug and should abort the run.
  - CategoryLogger: the trace sink failed to open or write. Non-fatal;
    the run continues with tracing discarded.
*/
package errors

import (
	"fmt"
)

// ErrorCode identifies a specific error condition.
type ErrorCode int

const (
	// Protocol errors (1000-1999): non-fatal, droppable.
	ErrCodeProtocol           ErrorCode = 1000
	ErrCodeStaleTerm          ErrorCode = 1001
	ErrCodeInvalidCertificate ErrorCode = 1002
	ErrCodeHeartbeatNotLeader ErrorCode = 1003
	ErrCodeUnknownMessageKind ErrorCode = 1004

	// Addressing errors (2000-2999): fatal, abort the run.
	ErrCodeAddressing  ErrorCode = 2000
	ErrCodeUnknownNode ErrorCode = 2001

	// Logger errors (3000-3999): non-fatal, trace discarded.
	ErrCodeLogger     ErrorCode = 3000
	ErrCodeLogOpen    ErrorCode = 3001
	ErrCodeLogWrite   ErrorCode = 3002
)

// Category groups error codes by handling policy: whether an error of
// this kind should abort the run or just get logged and ignored.
type Category string

const (
	CategoryProtocol   Category = "PROTOCOL"
	CategoryAddressing Category = "ADDRESSING"
	CategoryLogger     Category = "LOGGER"
)

// Fatal reports whether errors in this category should abort the
// simulation.
func (c Category) Fatal() bool {
	return c == CategoryAddressing
}

// SimError is the simulator's structured error type.
type SimError struct {
	Code     ErrorCode
	Category Category
	Message  string
	Detail   string
	Hint     string
	Cause    error
}

// Error implements the error interface.
func (e *SimError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ERROR %d (%s): %s - %s", e.Code, e.Category, e.Message, e.Detail)
	}
	return fmt.Sprintf("ERROR %d (%s): %s", e.Code, e.Category, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *SimError) Unwrap() error { return e.Cause }

// UserMessage renders a human-facing rendition including any hint.
func (e *SimError) UserMessage() string {
	msg := fmt.Sprintf("ERROR: %s", e.Message)
	if e.Detail != "" {
		msg += fmt.Sprintf(" (%s)", e.Detail)
	}
	if e.Hint != "" {
		msg += fmt.Sprintf("\nHINT: %s", e.Hint)
	}
	return msg
}

// WithDetail attaches additional context.
func (e *SimError) WithDetail(detail string) *SimError {
	e.Detail = detail
	return e
}

// WithHint attaches a remediation hint.
func (e *SimError) WithHint(hint string) *SimError {
	e.Hint = hint
	return e
}

// WithCause attaches an underlying error.
func (e *SimError) WithCause(cause error) *SimError {
	e.Cause = cause
	return e
}

// ============================================================================
// Protocol error constructors
// ============================================================================

// NewProtocolError creates a generic protocol-category error.
func NewProtocolError(message string) *SimError {
	return &SimError{Code: ErrCodeProtocol, Category: CategoryProtocol, Message: message}
}

// StaleTerm reports an AppendEntries carrying a term below the
// receiver's current term.
func StaleTerm(receivedTerm, currentTerm int) *SimError {
	return &SimError{
		Code:     ErrCodeStaleTerm,
		Category: CategoryProtocol,
		Message:  "stale-term AppendEntries dropped",
		Detail:   fmt.Sprintf("received term %d, current term %d", receivedTerm, currentTerm),
	}
}

// InvalidCertificate reports a RAFT log entry whose response set falls
// short of quorum.
func InvalidCertificate(granted, quorum int) *SimError {
	return &SimError{
		Code:     ErrCodeInvalidCertificate,
		Category: CategoryProtocol,
		Message:  "RAFT certificate rejected: quorum not met",
		Detail:   fmt.Sprintf("granted=%d quorum=%d", granted, quorum),
	}
}

// HeartbeatNotLeader reports a heartbeat whose carrying AppendEntries'
// LeaderID does not match the receiver's known leader.
func HeartbeatNotLeader(claimed, known string) *SimError {
	return &SimError{
		Code:     ErrCodeHeartbeatNotLeader,
		Category: CategoryProtocol,
		Message:  "heartbeat rejected: not from known leader",
		Detail:   fmt.Sprintf("claimed=%s known=%s", claimed, known),
	}
}

// UnknownMessageKind reports a message whose content type has no
// registered handler.
func UnknownMessageKind(kind string) *SimError {
	return &SimError{
		Code:     ErrCodeUnknownMessageKind,
		Category: CategoryProtocol,
		Message:  "unknown message kind dropped",
		Detail:   kind,
	}
}

// ============================================================================
// Addressing error constructors
// ============================================================================

// NewAddressingError creates a generic addressing-category error.
func NewAddressingError(message string) *SimError {
	return &SimError{Code: ErrCodeAddressing, Category: CategoryAddressing, Message: message}
}

// UnknownNode reports a packet destined to a node id absent from the
// network's active node set; this is a wiring bug and is fatal.
func UnknownNode(node string) *SimError {
	return &SimError{
		Code:     ErrCodeUnknownNode,
		Category: CategoryAddressing,
		Message:  "packet addressed to unknown node",
		Detail:   node,
		Hint:     "check the coupled model's node wiring",
	}
}

// ============================================================================
// Logger error constructors
// ============================================================================

// NewLoggerError creates a generic logger-category error.
func NewLoggerError(message string) *SimError {
	return &SimError{Code: ErrCodeLogger, Category: CategoryLogger, Message: message}
}

// LogOpenFailed reports a trace sink that could not be opened.
func LogOpenFailed(path string, cause error) *SimError {
	return &SimError{
		Code:     ErrCodeLogOpen,
		Category: CategoryLogger,
		Message:  "failed to open trace log",
		Detail:   path,
		Cause:    cause,
	}
}

// LogWriteFailed reports a trace sink write failure.
func LogWriteFailed(cause error) *SimError {
	return &SimError{
		Code:     ErrCodeLogWrite,
		Category: CategoryLogger,
		Message:  "failed to write trace log",
		Cause:    cause,
	}
}

// ============================================================================
// Helpers
// ============================================================================

// IsProtocolError reports whether err is a protocol-category SimError.
func IsProtocolError(err error) bool { return categoryOf(err) == CategoryProtocol }

// IsAddressingError reports whether err is an addressing-category SimError.
func IsAddressingError(err error) bool { return categoryOf(err) == CategoryAddressing }

// IsLoggerError reports whether err is a logger-category SimError.
func IsLoggerError(err error) bool { return categoryOf(err) == CategoryLogger }

func categoryOf(err error) Category {
	if e, ok := err.(*SimError); ok {
		return e.Category
	}
	return ""
}

// GetCode returns the error code if err is a SimError, or 0 otherwise.
func GetCode(err error) ErrorCode {
	if e, ok := err.(*SimError); ok {
		return e.Code
	}
	return 0
}

// FormatError renders err for display, using UserMessage for a SimError
// and a plain "ERROR: <msg>" rendition otherwise.
func FormatError(err error) string {
	if e, ok := err.(*SimError); ok {
		return e.UserMessage()
	}
	return fmt.Sprintf("ERROR: %v", err)
}
