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

// Package log defines the two logging seams the core threads through a
// connection: a leveled application Logger and a raw wire-traffic
// BoltLogger, kept separate so a caller can turn on message tracing
// without raising the whole driver's log level.
package log

// Bolt is the component name passed as the first argument to Logger
// methods by the protocol core.
const Bolt = "bolt"

// Logger is the leveled application logger threaded through a connection.
// name identifies the emitting component (see Bolt); id is the
// connection's log identifier, its server name followed by the quoted
// connection id (the quoted id is "" until HELLO completes).
type Logger interface {
	Error(name string, id string, err error)
	Warnf(name string, id string, msg string, args ...any)
	Infof(name string, id string, msg string, args ...any)
	Debugf(name string, id string, msg string, args ...any)
}

// BoltLogger receives raw client/server message traces, independent of the
// application Logger's level. Nil is a valid, legal way to disable it.
type BoltLogger interface {
	LogClientMessage(context string, msg string, args ...any)
	LogServerMessage(context string, msg string, args ...any)
}

type noOpLogger struct{}

func (noOpLogger) Error(string, string, error)           {}
func (noOpLogger) Warnf(string, string, string, ...any)  {}
func (noOpLogger) Infof(string, string, string, ...any)  {}
func (noOpLogger) Debugf(string, string, string, ...any) {}

// NoOpLogger returns a Logger that discards everything. It's the default
// when a caller doesn't configure one.
func NoOpLogger() Logger {
	return noOpLogger{}
}
