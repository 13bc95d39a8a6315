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

package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestSimErrorBasic(t *testing.T) {
	err := NewProtocolError("unexpected message")

	if err.Code != ErrCodeProtocol {
		t.Errorf("expected code %d, got %d", ErrCodeProtocol, err.Code)
	}
	if err.Category != CategoryProtocol {
		t.Errorf("expected category %s, got %s", CategoryProtocol, err.Category)
	}
	if !strings.Contains(err.Error(), "unexpected message") {
		t.Errorf("expected error message to contain text, got: %s", err.Error())
	}
}

func TestSimErrorWithDetail(t *testing.T) {
	err := StaleTerm(3, 5).WithDetail("dropped by n1")
	if err.Detail != "dropped by n1" {
		t.Errorf("expected detail to be overwritten, got: %s", err.Detail)
	}
}

func TestSimErrorWithHint(t *testing.T) {
	err := UnknownNode("n9").WithHint("check node wiring")
	msg := err.UserMessage()
	if !strings.Contains(msg, "HINT:") || !strings.Contains(msg, "check node wiring") {
		t.Errorf("expected user message to contain hint, got: %s", msg)
	}
}

func TestSimErrorWithCause(t *testing.T) {
	cause := errors.New("disk full")
	err := LogOpenFailed("logs/x.txt", cause)
	if err.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestCategoryFatal(t *testing.T) {
	if CategoryProtocol.Fatal() {
		t.Error("protocol errors must not be fatal")
	}
	if CategoryLogger.Fatal() {
		t.Error("logger errors must not be fatal")
	}
	if !CategoryAddressing.Fatal() {
		t.Error("addressing errors must be fatal")
	}
}

func TestCategoryChecks(t *testing.T) {
	protoErr := StaleTerm(1, 2)
	addrErr := UnknownNode("n9")
	logErr := LogWriteFailed(errors.New("boom"))

	if !IsProtocolError(protoErr) {
		t.Error("expected IsProtocolError true")
	}
	if IsProtocolError(addrErr) {
		t.Error("expected IsProtocolError false for addressing error")
	}
	if !IsAddressingError(addrErr) {
		t.Error("expected IsAddressingError true")
	}
	if !IsLoggerError(logErr) {
		t.Error("expected IsLoggerError true")
	}
}

func TestGetCode(t *testing.T) {
	err := InvalidCertificate(1, 2)
	if GetCode(err) != ErrCodeInvalidCertificate {
		t.Errorf("expected code %d, got %d", ErrCodeInvalidCertificate, GetCode(err))
	}

	regularErr := errors.New("regular error")
	if GetCode(regularErr) != 0 {
		t.Errorf("expected code 0 for regular error, got %d", GetCode(regularErr))
	}
}

func TestFormatError(t *testing.T) {
	simErr := NewProtocolError("test error")
	formatted := FormatError(simErr)
	if !strings.HasPrefix(formatted, "ERROR:") {
		t.Errorf("expected formatted error to start with 'ERROR:', got: %s", formatted)
	}

	regularErr := errors.New("regular error")
	formatted = FormatError(regularErr)
	if !strings.Contains(formatted, "regular error") {
		t.Errorf("expected formatted error to contain message, got: %s", formatted)
	}
}
