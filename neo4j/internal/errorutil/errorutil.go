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

// Package errorutil centralizes the local usage-error message strings
// shared between internal/bolt's state checks, so wording stays
// consistent across every call site that rejects an operation for being
// issued in the wrong connection state.
package errorutil

import (
	"fmt"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/db"
)

// InvalidTransactionError reports a TxHandle that does not match the
// connection's current open transaction.
func InvalidTransactionError(got, want any) error {
	return &db.UsageError{Msg: fmt.Sprintf("invalid transaction handle: got %v, expected %v", got, want)}
}

// InvalidStreamError reports a StreamHandle that the connection does not
// recognize as currently open.
func InvalidStreamError(got any) error {
	return &db.UsageError{Msg: fmt.Sprintf("invalid stream handle: %v", got)}
}

// ConnectionDeadError reports an operation attempted on a connection that
// has already been torn down after a fatal error.
func ConnectionDeadError(cause error) error {
	return &db.ConnectionError{Msg: fmt.Sprintf("connection is dead: %s", cause)}
}

// WrongStateError reports an operation attempted from a state that does
// not permit it (e.g. TxBegin while already inside a transaction).
func WrongStateError(op string, state fmt.Stringer) error {
	return &db.UsageError{Msg: fmt.Sprintf("cannot %s: connection is in state %s", op, state)}
}

// FeatureRequiresVersionError reports a caller-requested feature rejected
// by capability negotiation.
func FeatureRequiresVersionError(feature, server string, minMajor, minMinor int) error {
	return &db.FeatureNotSupportedError{
		Server:  server,
		Feature: feature,
		Reason:  fmt.Sprintf("requires at least server version %d.%d", minMajor, minMinor),
	}
}
