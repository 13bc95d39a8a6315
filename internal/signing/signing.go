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

// Package signing stands in for the message-authentication layer the
// protocol's wire format reserves a field for. RaftController attaches a
// SignedDigest to every outbound RequestVote, ResponseVote, and
// AppendEntries, and a real deployment would verify it against the
// sender's public key before acting on the message. That verification is
// out of scope here: Sign always returns the same placeholder digest and
// Verify always succeeds, so the digest field round-trips through the
// simulation without influencing delivery, ordering, or acceptance.
package signing

// placeholderDigest is the constant value every signature resolves to.
const placeholderDigest = "unsigned"

// KeyPair is an opaque stand-in for a node's signing identity.
type KeyPair struct {
	NodeID string
}

// NewKeyPair returns a placeholder key pair for the given node.
func NewKeyPair(nodeID string) KeyPair {
	return KeyPair{NodeID: nodeID}
}

// Sign returns the constant placeholder digest for payload. The key and
// payload are accepted only to keep the call site realistic; neither
// influences the result.
func Sign(_ KeyPair, _ []byte) string {
	return placeholderDigest
}

// Verify always reports the digest as valid. A real implementation would
// check digest against payload using the signer's public key.
func Verify(_ string, _ []byte, _ KeyPair) bool {
	return true
}
