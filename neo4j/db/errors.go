/*
 * Copyright (c) "Neo4j"
 * Neo4j Sweden AB [https://neo4j.com]
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *      https://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 */

package db

import (
	"fmt"
	"strings"
)

// Neo4jError represents an error coming from the server as reported by a
// FAILURE message (spec §4.6). Code follows the dotted
// "Neo.<Classification>.<Category>.<Title>" convention.
type Neo4jError struct {
	Code string
	Msg  string
	Kind string // Authentication, Security, Syntax, Constraint, Transaction,
	// Protocol, Database, Transient, Unknown
}

func (e *Neo4jError) Error() string {
	return fmt.Sprintf("%s error: %s (%s)", e.Kind, e.Msg, e.Code)
}

// Classification returns the top-level classification portion of the code,
// i.e. its second dotted segment ("ClientError", "TransientError",
// "DatabaseError", or whatever other word the server put there), or ""
// when the code has fewer than two segments.
func (e *Neo4jError) Classification() string {
	parts := strings.SplitN(e.Code, ".", 3)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// IsRetriable reports whether the server signalled this failure as
// transient and thus safe to retry on a fresh attempt.
func (e *Neo4jError) IsRetriable() bool {
	return e.Kind == "Transient"
}

// IsAuthenticationFailed reports whether this error represents an
// authentication rejection (wrong credentials, expired token, ...).
func (e *Neo4jError) IsAuthenticationFailed() bool {
	return e.Kind == "Authentication"
}

// NewNeo4jError classifies a raw server code/message pair into a
// Neo4jError per spec §4.6.
func NewNeo4jError(code, message string) *Neo4jError {
	return &Neo4jError{Code: code, Msg: message, Kind: classify(code)}
}

func classify(code string) string {
	parts := strings.Split(code, ".")
	// Expect: Neo.<Classification>.<Category>.<Title>
	if len(parts) < 3 {
		return "Unknown"
	}
	classification := parts[1]
	category := parts[2]

	switch classification {
	case "ClientError":
		switch {
		case category == "Security":
			title := ""
			if len(parts) > 3 {
				title = parts[3]
			}
			if strings.Contains(title, "Unauthorized") || strings.Contains(title, "Authentication") {
				return "Authentication"
			}
			return "Security"
		case category == "Statement":
			if len(parts) > 3 && parts[3] == "SyntaxError" {
				return "Syntax"
			}
			return "Database"
		case category == "Schema":
			if len(parts) > 3 && strings.Contains(parts[3], "Constraint") {
				return "Constraint"
			}
			return "Database"
		case category == "Transaction":
			return "Transaction"
		case category == "Request":
			return "Protocol"
		default:
			return "Database"
		}
	case "TransientError":
		return "Transient"
	case "DatabaseError":
		return "Database"
	default:
		return "Unknown"
	}
}

// ProtocolError represents a local failure to interpret the wire protocol:
// malformed framing, an unknown message signature, a missing required
// field. It is never server-originated.
type ProtocolError struct {
	MessageType string
	Err         string
}

func (e *ProtocolError) Error() string {
	if e.MessageType != "" {
		return fmt.Sprintf("protocol error decoding %s: %s", e.MessageType, e.Err)
	}
	return fmt.Sprintf("protocol error: %s", e.Err)
}

// ConnectionError represents a transport-level failure: socket open,
// close, send or receive, or a handshake that could not agree on a
// version.
type ConnectionError struct {
	Msg string
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection error: %s", e.Msg)
}

// UsageError represents local misuse of the API (wrong state, invalid
// handle, calling an operation the negotiated capability set doesn't
// support).
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("usage error: %s", e.Msg)
}

// FeatureNotSupportedError is returned when a caller asks for behavior
// that the negotiated protocol version's capability set does not include.
type FeatureNotSupportedError struct {
	Server  string
	Feature string
	Reason  string
}

func (e *FeatureNotSupportedError) Error() string {
	return fmt.Sprintf("server %s does not support feature %q: %s", e.Server, e.Feature, e.Reason)
}
