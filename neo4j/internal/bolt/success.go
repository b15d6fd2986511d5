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

package bolt

import (
	"github.com/neo4j-go-bolt/bolt-core/neo4j/db"
	idb "github.com/neo4j-go-bolt/bolt-core/neo4j/internal/db"
)

// success is the decoded metadata map of a SUCCESS response. Every field
// is optional on the wire; num and the -1 sentinels on tfirst/tlast/qid
// record which ones actually showed up so callers can tell "absent"
// from "zero".
type success struct {
	num           int
	fields        []string
	tfirst        int64
	tlast         int64
	qid           int64
	hasMore       bool
	bookmark      string
	db            string
	qtype         db.StatementType
	connectionId  string
	server        string
	counters      map[string]int64
	plan          *db.Plan
	profile       *db.ProfiledPlan
	notifications []db.Notification
	routingTable  *idb.RoutingTable
	patches       []string
	hints         map[string]any
}

// ignored is the decoded (fieldless) body of an IGNORED response.
type ignored struct{}

func newSuccess() *success {
	return &success{tfirst: -1, tlast: -1, qid: -1}
}
