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

// Package telemetry defines the API-shape tag sent in a TELEMETRY message
// (capability gated at >= 5.4), so the server can track which client
// entry point produced a given unit of work.
package telemetry

// API identifies the shape of API used to run a query, reported to the
// server as the "api" field of a TELEMETRY message's single integer
// argument.
type API int

const (
	// AutoCommit identifies a single auto-commit RUN outside any
	// explicit transaction.
	AutoCommit API = 0
	// UnmanagedTransaction identifies a RUN issued within a
	// caller-managed BEGIN/COMMIT transaction.
	UnmanagedTransaction API = 1
	// ManagedTransactionFunction identifies a RUN issued from within a
	// retrying transaction-function callback.
	ManagedTransactionFunction API = 2
)
