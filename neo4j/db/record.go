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

// Record represents one row of a result stream: an ordered list of values
// paired with the field names from the originating RUN's SUCCESS response.
type Record struct {
	Values []any
	Keys   []string
}

// Get returns the value for the named field and whether it was found.
func (r *Record) Get(key string) (any, bool) {
	for i, k := range r.Keys {
		if k == key {
			return r.Values[i], true
		}
	}
	return nil, false
}

// ProtocolVersion is the negotiated Bolt version of a connection.
type ProtocolVersion struct {
	Major int
	Minor int
}

// StatementType classifies the kind of work a query performed, as reported
// in a SUCCESS response's "type" field.
type StatementType int

const (
	StatementTypeUnknown StatementType = iota
	StatementTypeRead
	StatementTypeWrite
	StatementTypeReadWrite
	StatementTypeSchemaWrite
)

// InputPosition locates a notification within the original query text.
type InputPosition struct {
	Offset int
	Line   int
	Column int
}

// Notification is a server-reported hint, warning or deprecation notice
// about the executed query (spec §3 "Notification").
type Notification struct {
	Code        string
	Title       string
	Description string
	Severity    string
	Category    string
	Position    *InputPosition
}

// Plan describes the operator tree chosen for a query (EXPLAIN).
type Plan struct {
	Operator    string
	Arguments   map[string]any
	Identifiers []string
	Children    []Plan
}

// ProfiledPlan extends Plan with per-operator runtime statistics (PROFILE).
type ProfiledPlan struct {
	Operator    string
	Arguments   map[string]any
	Identifiers []string
	Children    []ProfiledPlan
	DbHits      int64
	Records     int64
}

// Summary carries the end-of-stream metadata for a completed query: the
// bookmark, timing, statement classification, and optional plan/profile/
// notifications.
type Summary struct {
	Bookmark      string
	Database      string
	StatementType StatementType
	Counters      map[string]int64
	Plan          *Plan
	Profile       *ProfiledPlan
	Notifications []Notification
	TFirst        int64
	TLast         int64
	Agent         string
	Major         int
	Minor         int
	ServerName    string
}
