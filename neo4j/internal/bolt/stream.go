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

// stream tracks one RUN's result: the field names from its SUCCESS, the
// qid the server assigned it (so PULL/DISCARD can target it once other
// streams have been opened on top of it), and whatever buffered records
// and terminal summary Buffer/Next have already consumed off the wire.
type stream struct {
	qid        int64
	keys       []string
	tx         idb.TxHandle // 0 (no handle) when this is an auto-commit stream
	buffered   []*db.Record
	summary    *db.Summary
	exhausted  bool
	detached   bool
	runSuccess *success
}

// openstreams is the set of streams a connection currently has results
// pending for. Bolt allows more than one RUN to be outstanding before
// its results are pulled, provided each carries a server-assigned qid;
// num tracks how many are still open so the connection can fall back to
// Ready/Tx state the moment the last one is consumed.
type openstreams struct {
	byHandle map[idb.StreamHandle]*stream
	next     idb.StreamHandle
	num      int
}

func newOpenStreams() openstreams {
	return openstreams{byHandle: map[idb.StreamHandle]*stream{}}
}

func (o *openstreams) open(s *stream) idb.StreamHandle {
	o.next++
	h := o.next
	o.byHandle[h] = s
	o.num++
	return h
}

func (o *openstreams) get(h idb.StreamHandle) *stream {
	return o.byHandle[h]
}

// close detaches the stream from the wire (no more PULL/DISCARD will
// target it) but keeps it addressable so buffered records and the
// summary remain consumable through the handle.
func (o *openstreams) close(h idb.StreamHandle) {
	if s, ok := o.byHandle[h]; ok && !s.detached {
		s.detached = true
		o.num--
	}
}

func (o *openstreams) closeAll() {
	o.byHandle = map[idb.StreamHandle]*stream{}
	o.num = 0
}
