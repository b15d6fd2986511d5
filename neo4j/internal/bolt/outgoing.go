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
	"fmt"
	"io"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/db"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/internal/packstream"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/log"
)

// outgoing assembles one or more request messages into the chunker's
// buffer and flushes them with a single Write.
type outgoing struct {
	packer     packstream.Packer
	chunker    *chunker
	boltLogger log.BoltLogger
}

func newOutgoing() *outgoing {
	return &outgoing{chunker: newChunker()}
}

func (o *outgoing) appendStruct(tag byte, fields ...any) {
	o.packer.Begin(nil)
	o.packer.StructHeader(tag, len(fields))
	for _, f := range fields {
		o.packer.Value(f)
	}
	buf, err := o.packer.End()
	if err != nil {
		// Value() only fails on a type this core never constructs
		// itself; surfacing it as a panic here would hide a real bug
		// at send time instead of at the call site that built it.
		panic(fmt.Sprintf("bolt: failed to encode outgoing message: %s", err))
	}
	o.chunker.chunk(buf)
}

func (o *outgoing) appendHello(extra map[string]any) {
	o.appendStruct(msgHello, extra)
	o.trace("HELLO", extra)
}

func (o *outgoing) appendLogon(extra map[string]any) {
	o.appendStruct(msgLogon, extra)
	o.trace("LOGON", "...")
}

func (o *outgoing) appendLogoff() {
	o.appendStruct(msgLogoff)
	o.trace("LOGOFF", nil)
}

func (o *outgoing) appendGoodbye() {
	o.appendStruct(msgGoodbye)
	o.trace("GOODBYE", nil)
}

func (o *outgoing) appendReset() {
	o.appendStruct(msgReset)
	o.trace("RESET", nil)
}

func (o *outgoing) appendRun(cypher string, params map[string]any, extra map[string]any) {
	o.appendStruct(msgRun, cypher, params, extra)
	o.trace("RUN", cypher, params, extra)
}

func (o *outgoing) appendBegin(extra map[string]any) {
	o.appendStruct(msgBegin, extra)
	o.trace("BEGIN", extra)
}

func (o *outgoing) appendCommit() {
	o.appendStruct(msgCommit)
	o.trace("COMMIT", nil)
}

func (o *outgoing) appendRollback() {
	o.appendStruct(msgRollback)
	o.trace("ROLLBACK", nil)
}

// appendPullAll is the Bolt 3 shape: no extra map, whole result.
func (o *outgoing) appendPullAll() {
	o.appendStruct(msgPull)
	o.trace("PULL_ALL", nil)
}

// appendDiscardAll is the Bolt 3 shape: no extra map, whole result.
func (o *outgoing) appendDiscardAll() {
	o.appendStruct(msgDiscard)
	o.trace("DISCARD_ALL", nil)
}

func (o *outgoing) appendPullN(n int) {
	o.appendStruct(msgPull, map[string]any{"n": int64(n)})
	o.trace("PULL", n)
}

func (o *outgoing) appendPullNQid(n int, qid int64) {
	o.appendStruct(msgPull, map[string]any{"n": int64(n), "qid": qid})
	o.trace("PULL", n, qid)
}

func (o *outgoing) appendDiscardN(n int) {
	o.appendStruct(msgDiscard, map[string]any{"n": int64(n)})
	o.trace("DISCARD", n)
}

func (o *outgoing) appendDiscardNQid(n int, qid int64) {
	o.appendStruct(msgDiscard, map[string]any{"n": int64(n), "qid": qid})
	o.trace("DISCARD", n, qid)
}

// appendRoute encodes ROUTE as [routing context, bookmarks, db,
// impersonated user]: db is null when targeting the server's default
// database, and the impersonation item is present only when one was
// requested (the capability precondition is the caller's to check).
func (o *outgoing) appendRoute(routingContext map[string]string, bookmarks []string, database, impersonatedUser string) {
	ctx := make(map[string]any, len(routingContext))
	for k, v := range routingContext {
		ctx[k] = v
	}
	var db any
	if database != "" {
		db = database
	}
	bm := make([]any, len(bookmarks))
	for i, b := range bookmarks {
		bm[i] = b
	}
	if impersonatedUser != "" {
		o.appendStruct(msgRoute, ctx, bm, db, impersonatedUser)
	} else {
		o.appendStruct(msgRoute, ctx, bm, db)
	}
	o.trace("ROUTE", routingContext, bookmarks, database, impersonatedUser)
}

// appendTelemetry encodes TELEMETRY's single field: the bare integer
// API tag, not a map.
func (o *outgoing) appendTelemetry(api int) {
	o.appendStruct(msgTelemetry, int64(api))
	o.trace("TELEMETRY", api)
}

func (o *outgoing) trace(name string, args ...any) {
	if o.boltLogger == nil {
		return
	}
	o.boltLogger.LogClientMessage(name, "%v", args)
}

// send flushes every message appended since the last send to w in a
// single Write.
func (o *outgoing) send(w io.Writer) error {
	buf := o.chunker.drain()
	if len(buf) == 0 {
		return nil
	}
	if _, err := w.Write(buf); err != nil {
		return &db.ConnectionError{Msg: fmt.Sprintf("writing message: %s", err)}
	}
	return nil
}
