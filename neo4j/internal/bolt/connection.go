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

// Package bolt implements the Bolt wire protocol core: handshake,
// chunk framing, PackStream-based message encoding/decoding, and the
// single connection state machine every negotiated protocol version
// shares. There used to be one type per major version (bolt3, bolt4,
// bolt5); since every behavioral difference between them is just a
// capability gated on the negotiated version (see Capabilities), they
// have been folded into one connection type that branches on the
// capability set instead of being copy-pasted per version.
package bolt

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/auth"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/db"
	idb "github.com/neo4j-go-bolt/bolt-core/neo4j/internal/db"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/internal/errorutil"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/internal/telemetry"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/log"
)

// defaultFetchSize is the PULL "n" Buffer sends for each batch. Next
// pulls one record at a time, and Command.FetchSize is not consulted.
const defaultFetchSize = 1000

type state int

const (
	stateUnauthenticated state = iota
	stateReady
	stateStreaming
	stateTx
	stateStreamingTx
	stateFailed
	stateDead
)

func (s state) String() string {
	switch s {
	case stateUnauthenticated:
		return "unauthenticated"
	case stateReady:
		return "ready"
	case stateStreaming:
		return "streaming"
	case stateTx:
		return "tx"
	case stateStreamingTx:
		return "streamingTx"
	case stateFailed:
		return "failed"
	case stateDead:
		return "dead"
	default:
		return "unknown"
	}
}

// connection is the single implementation of idb.Connection for every
// Bolt version this core speaks. Capability differences (streaming,
// notifications, reauth, telemetry, ...) are resolved once at Connect
// time into caps and consulted from there; there is no per-version
// struct or file.
type connection struct {
	sem *semaphore.Weighted

	conn    net.Conn
	out     *outgoing
	hyd     hydrator
	readBuf []byte

	version Version
	caps    CapabilitySet

	state         state
	serverName    string
	connId        string
	serverVersion string
	databaseName  string
	bookmark      string
	lastQid       int64

	txHandle idb.TxHandle
	nextTx   idb.TxHandle
	streams  openstreams

	// hints is the free-form advice map the server attached to the
	// HELLO SUCCESS, recorded verbatim.
	hints map[string]any
	// pendingTelemetry holds one callback per TELEMETRY message that
	// has been appended but whose response has not been consumed yet;
	// responses arrive in send order, before the next operation's own
	// response.
	pendingTelemetry []func()

	birthDate time.Time
	idleDate  time.Time
	log       log.Logger
	fatalErr  error
	closed    bool

	pinHomeDatabase func(database string)

	currentAuth    auth.Token
	hasCurrentAuth bool
}

// New wraps an already-handshaken net.Conn in a connection, ready for
// Connect to authenticate it.
func New(conn net.Conn, serverName string, version Version, logger log.Logger) idb.Connection {
	now := time.Now()
	c := &connection{
		sem:        semaphore.NewWeighted(1),
		conn:       conn,
		serverName: serverName,
		version:    version,
		caps:       Capabilities(version),
		state:      stateUnauthenticated,
		streams:    newOpenStreams(),
		lastQid:    -1,
		birthDate:  now,
		idleDate:   now,
		log:        logger,
		readBuf:    make([]byte, 4096),
	}
	if c.log == nil {
		c.log = log.NoOpLogger()
	}
	c.out = newOutgoing()
	c.hyd.boltMajor = version.Major
	c.hyd.useUtc = c.caps.UTCDateTime
	return c
}

func (c *connection) lock(ctx context.Context) (func(), error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, &db.ConnectionError{Msg: fmt.Sprintf("connection busy: %s", err)}
	}
	return func() { c.sem.Release(1) }, nil
}

// withDeadline arranges for any blocking conn.Read/Write started inside
// fn to unblock the moment ctx is cancelled, by racing a goroutine that
// forces the socket deadline into the past. This is the only way to
// give a plain net.Conn the ctx-based cooperative cancellation the rest
// of the core promises, short of switching to a raw fd poller.
func (c *connection) withDeadline(ctx context.Context, fn func() error) error {
	if ctx.Done() == nil {
		return fn()
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.conn.SetDeadline(time.Unix(0, 0))
		case <-done:
		}
	}()
	err := fn()
	_ = c.conn.SetDeadline(time.Time{})
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

func (c *connection) setFatal(err error) {
	if c.fatalErr == nil {
		c.fatalErr = err
	}
	c.log.Error(log.Bolt, c.logIdentity(), err)
	c.state = stateDead
}

func (c *connection) setFailed(err error) {
	c.fatalErr = err
	c.log.Debugf(log.Bolt, c.logIdentity(), "server reported failure: %s", err)
	c.state = stateFailed
}

func (c *connection) checkStreams() {
	if c.streams.num > 0 {
		return
	}
	switch c.state {
	case stateStreamingTx:
		c.state = stateTx
	case stateStreaming:
		c.state = stateReady
	}
}

// --- wire send/receive ---

func (c *connection) flush(ctx context.Context) error {
	c.idleDate = time.Now()
	return c.withDeadline(ctx, func() error {
		return c.out.send(c.conn)
	})
}

// receive reads and hydrates exactly one message.
func (c *connection) receive(ctx context.Context) (any, error) {
	var msg []byte
	err := c.withDeadline(ctx, func() error {
		var readErr error
		msg, readErr = dechunkMessage(c.conn, c.readBuf)
		return readErr
	})
	if err != nil {
		c.setFatal(err)
		return nil, err
	}
	val, err := c.hyd.hydrate(msg)
	c.readBuf = msg[:0]
	if err != nil {
		c.setFatal(err)
		return nil, err
	}
	return val, nil
}

// responseHandler collects the outcome of receiveUntilSuccess's loop.
type responseHandler struct {
	onSuccess func(*success)
	onRecord  func(*db.Record)
}

// drainPendingTelemetry consumes the response of every TELEMETRY
// message flushed ahead of the current operation, firing its callback
// on SUCCESS. Telemetry responses always precede the operation's own
// response on the wire.
func (c *connection) drainPendingTelemetry(ctx context.Context) error {
	for len(c.pendingTelemetry) > 0 {
		onSuccess := c.pendingTelemetry[0]
		c.pendingTelemetry = c.pendingTelemetry[1:]
		val, err := c.receive(ctx)
		if err != nil {
			return err
		}
		switch v := val.(type) {
		case *success:
			if onSuccess != nil {
				onSuccess()
			}
		case *ignored:
		case *db.Neo4jError:
			c.setFailed(v)
			return v
		default:
			err := &db.ProtocolError{Err: "received unexpected message"}
			c.setFatal(err)
			return err
		}
	}
	return nil
}

// receiveUntilSuccess reads messages until a SUCCESS or FAILURE arrives,
// dispatching RECORD messages (if any) to h.onRecord. IGNORED means the
// server skipped this request because the connection was already
// failed; it's treated like any other terminal response with no
// success payload. A SUCCESS carrying a bookmark advances the tracked
// transaction bookmark before the response is surfaced; a FAILURE never
// touches it.
func (c *connection) receiveUntilSuccess(ctx context.Context, h responseHandler) (*success, error) {
	if err := c.drainPendingTelemetry(ctx); err != nil {
		return nil, err
	}
	for {
		val, err := c.receive(ctx)
		if err != nil {
			return nil, err
		}
		switch v := val.(type) {
		case *success:
			if v.bookmark != "" {
				c.bookmark = v.bookmark
			}
			if h.onSuccess != nil {
				h.onSuccess(v)
			}
			return v, nil
		case *ignored:
			return nil, nil
		case *db.Record:
			if h.onRecord == nil {
				err := &db.ProtocolError{Err: "received unexpected record"}
				c.setFatal(err)
				return nil, err
			}
			h.onRecord(v)
		case *db.Neo4jError:
			c.setFailed(v)
			return nil, v
		default:
			err := &db.ProtocolError{Err: "received unexpected message"}
			c.setFatal(err)
			return nil, err
		}
	}
}

func (c *connection) assertState(want state, op string) error {
	if c.state != want {
		return errorutil.WrongStateError(op, c.state)
	}
	return nil
}

func (c *connection) assertAlive(op string) error {
	if c.state == stateDead {
		return errorutil.ConnectionDeadError(c.fatalErr)
	}
	return nil
}

// --- idb.Connection ---

func (c *connection) Connect(ctx context.Context, token auth.Token, userAgent string, routingContext map[string]string, notificationConfig idb.NotificationConfig) error {
	unlock, err := c.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	hello := map[string]any{
		"user_agent": userAgent,
	}
	if len(routingContext) > 0 {
		rc := make(map[string]any, len(routingContext))
		for k, v := range routingContext {
			rc[k] = v
		}
		hello["routing"] = rc
	}
	if c.version.Major == 5 && c.version.Minor == 0 {
		hello["patch_bolt"] = []string{"utc"}
	}
	if notificationConfig != (idb.NotificationConfig{}) {
		if !c.version.AtLeast(5, 1) {
			return &db.FeatureNotSupportedError{Server: c.serverName, Feature: "connection notification filtering", Reason: "requires at least server v5.1"}
		}
		notificationConfig.ToMeta(hello, int(c.version.Major), int(c.version.Minor))
	}

	usesLogon := c.version.AtLeast(5, 1)
	if !usesLogon {
		for k, v := range token.Tokens {
			hello[k] = v
		}
	}

	c.out.appendHello(hello)
	if err := c.flush(ctx); err != nil {
		return err
	}
	helloSuccess, err := c.receiveUntilSuccess(ctx, responseHandler{})
	if err != nil {
		return err
	}
	c.connId = helloSuccess.connectionId
	c.serverVersion = helloSuccess.server
	c.hints = helloSuccess.hints
	if c.serverName == "" {
		c.serverName = helloSuccess.server
	}
	for _, patch := range helloSuccess.patches {
		if patch == "utc" {
			c.caps.UTCDateTime = true
			c.hyd.useUtc = true
		}
	}

	if usesLogon {
		c.out.appendLogon(token.Tokens)
		if err := c.flush(ctx); err != nil {
			return err
		}
		if _, err := c.receiveUntilSuccess(ctx, responseHandler{}); err != nil {
			return err
		}
	}
	c.currentAuth = token
	c.hasCurrentAuth = true
	c.state = stateReady
	c.log.Infof(log.Bolt, c.logIdentity(), "connected, negotiated version %s", c.version)
	return nil
}

func (c *connection) ReAuth(ctx context.Context, reauth idb.ReAuthToken) error {
	unlock, err := c.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := checkReAuthSupport(reauth, c.caps, c.serverName); err != nil {
		return err
	}
	token, err := reauth.Manager.GetAuthToken(ctx)
	if err != nil {
		return err
	}
	if !c.caps.Reauth {
		// Pool-driven rotation without LOGOFF support: an unchanged
		// token is a no-op, a changed one retires the connection so
		// the pool dials a fresh one carrying it.
		if c.hasCurrentAuth && sameCredentials(c.currentAuth, token) {
			return nil
		}
		c.log.Infof(log.Bolt, c.logIdentity(), "closing connection: auth token changed and reauthentication is not supported")
		return c.close(ctx)
	}
	c.out.appendLogoff()
	c.out.appendLogon(token.Tokens)
	if err := c.flush(ctx); err != nil {
		return err
	}
	if _, err := c.receiveUntilSuccess(ctx, responseHandler{}); err != nil {
		return err
	}
	if _, err := c.receiveUntilSuccess(ctx, responseHandler{}); err != nil {
		return err
	}
	c.currentAuth = token
	c.hasCurrentAuth = true
	return nil
}

func (c *connection) GetCurrentAuth() (auth.Token, bool) {
	return c.currentAuth, c.hasCurrentAuth
}

// Telemetry pipelines a TELEMETRY message in front of the next
// operation; its response is consumed (and onSuccess fired) before that
// operation's own response is read. Silently a no-op below 5.4.
func (c *connection) Telemetry(api telemetry.API, onSuccess func()) {
	if !c.caps.Telemetry {
		return
	}
	c.out.appendTelemetry(int(api))
	c.pendingTelemetry = append(c.pendingTelemetry, onSuccess)
}

func (c *connection) TxBegin(ctx context.Context, config idb.TxConfig) (idb.TxHandle, error) {
	unlock, err := c.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	if err := c.assertAlive("begin transaction"); err != nil {
		return 0, err
	}
	if err := c.assertState(stateReady, "begin transaction"); err != nil {
		return 0, err
	}
	meta, err := c.txMeta(config)
	if err != nil {
		return 0, err
	}
	c.out.appendBegin(meta)
	if err := c.flush(ctx); err != nil {
		return 0, err
	}
	s, err := c.receiveUntilSuccess(ctx, responseHandler{})
	if err != nil {
		return 0, err
	}
	c.pinHome(s)
	c.nextTx++
	c.txHandle = c.nextTx
	c.state = stateTx
	return c.txHandle, nil
}

// txMeta renders config into the extras map of a BEGIN or auto-commit
// RUN, enforcing the capability preconditions of its optional fields
// and falling back to the tracked bookmark when the caller supplied
// none (causal chaining across sequential transactions on the same
// connection).
func (c *connection) txMeta(config idb.TxConfig) (map[string]any, error) {
	if config.ImpersonatedUser != "" && !c.version.AtLeast(4, 4) {
		return nil, &db.FeatureNotSupportedError{Server: c.serverName, Feature: "user impersonation", Reason: "requires at least server v4.4"}
	}
	if config.NotificationConfig != (idb.NotificationConfig{}) && !c.caps.NotificationFiltering {
		return nil, &db.FeatureNotSupportedError{Server: c.serverName, Feature: "transaction notification filtering", Reason: "requires at least server v5.2"}
	}
	if config.DatabaseName() != idb.DefaultDatabase {
		c.databaseName = config.DatabaseName()
	}
	meta := config.ToMeta(idb.ProtocolVersion{Major: int(c.version.Major), Minor: int(c.version.Minor)})
	if _, ok := meta["db"]; !ok && c.databaseName != idb.DefaultDatabase {
		meta["db"] = c.databaseName
	}
	if _, ok := meta["bookmarks"]; !ok && c.bookmark != "" {
		meta["bookmarks"] = []string{c.bookmark}
	}
	return meta, nil
}

func (c *connection) assertTxHandle(h idb.TxHandle) error {
	if h != c.txHandle {
		return errorutil.InvalidTransactionError(h, c.txHandle)
	}
	return nil
}

func (c *connection) TxCommit(ctx context.Context, tx idb.TxHandle) (string, error) {
	unlock, err := c.lock(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	if err := c.assertTxHandle(tx); err != nil {
		return "", err
	}
	if err := c.assertState(stateTx, "commit transaction"); err != nil {
		return "", err
	}
	c.out.appendCommit()
	if err := c.flush(ctx); err != nil {
		return "", err
	}
	if _, err := c.receiveUntilSuccess(ctx, responseHandler{}); err != nil {
		return "", err
	}
	c.txHandle = 0
	c.state = stateReady
	return c.bookmark, nil
}

func (c *connection) TxRollback(ctx context.Context, tx idb.TxHandle) error {
	unlock, err := c.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := c.assertTxHandle(tx); err != nil {
		return err
	}
	if c.state != stateTx && c.state != stateFailed {
		return errorutil.WrongStateError("rollback transaction", c.state)
	}
	c.out.appendRollback()
	if err := c.flush(ctx); err != nil {
		return err
	}
	// A rollback is accepted from the Failed state too (it's how a
	// caller recovers from a mid-transaction server error); either way
	// it always ends the transaction.
	_, _ = c.receiveUntilSuccess(ctx, responseHandler{})
	c.txHandle = 0
	c.state = stateReady
	return nil
}

func (c *connection) Run(ctx context.Context, cmd idb.Command, config idb.TxConfig) (idb.StreamHandle, error) {
	unlock, err := c.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	if err := c.assertAlive("run"); err != nil {
		return 0, err
	}
	if err := c.assertState(stateReady, "run"); err != nil {
		return 0, err
	}
	meta, err := c.txMeta(config)
	if err != nil {
		return 0, err
	}
	c.out.appendRun(cmd.Cypher, cmd.Params, meta)
	if err := c.flush(ctx); err != nil {
		return 0, err
	}
	s, err := c.receiveUntilSuccess(ctx, responseHandler{})
	if err != nil {
		return 0, err
	}
	if s == nil {
		// IGNORED: no stream was opened; the caller finds out when it
		// touches the handle, and recovers the connection with Reset.
		return 0, nil
	}
	c.pinHome(s)
	c.state = stateStreaming
	return c.openStream(s, 0), nil
}

func (c *connection) RunTx(ctx context.Context, tx idb.TxHandle, cmd idb.Command) (idb.StreamHandle, error) {
	unlock, err := c.lock(ctx)
	if err != nil {
		return 0, err
	}
	defer unlock()

	if err := c.assertTxHandle(tx); err != nil {
		return 0, err
	}
	if err := c.assertState(stateTx, "run"); err != nil {
		return 0, err
	}
	c.out.appendRun(cmd.Cypher, cmd.Params, map[string]any{})
	if err := c.flush(ctx); err != nil {
		return 0, err
	}
	s, err := c.receiveUntilSuccess(ctx, responseHandler{})
	if err != nil {
		return 0, err
	}
	if s == nil {
		return 0, nil
	}
	c.state = stateStreamingTx
	return c.openStream(s, tx), nil
}

func (c *connection) openStream(s *success, tx idb.TxHandle) idb.StreamHandle {
	qid := s.qid
	if qid == -1 {
		qid = c.lastQid
	}
	c.lastQid = qid
	return c.streams.open(&stream{qid: qid, keys: s.fields, tx: tx, runSuccess: s})
}

func (c *connection) pullOrDiscard(ctx context.Context, h idb.StreamHandle, n int, discard bool) error {
	unlock, err := c.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	st := c.streams.get(h)
	if st == nil {
		return errorutil.InvalidStreamError(h)
	}
	switch {
	case !c.caps.Streaming:
		// Bolt 3 has no batched streaming: PULL/DISCARD take no extra
		// and always consume the whole result.
		if discard {
			c.out.appendDiscardAll()
		} else {
			c.out.appendPullAll()
		}
	case c.streams.num > 1 || c.lastQid != st.qid:
		if discard {
			c.out.appendDiscardNQid(n, st.qid)
		} else {
			c.out.appendPullNQid(n, st.qid)
		}
	default:
		if discard {
			c.out.appendDiscardN(n)
		} else {
			c.out.appendPullN(n)
		}
	}
	if err := c.flush(ctx); err != nil {
		return err
	}
	s, err := c.receiveUntilSuccess(ctx, responseHandler{
		onRecord: func(r *db.Record) {
			r.Keys = st.keys
			st.buffered = append(st.buffered, r)
		},
	})
	if err != nil {
		return err
	}
	if s == nil || !s.hasMore {
		st.exhausted = true
		if s != nil {
			st.summary = c.buildSummary(st, s)
		}
		c.streams.close(h)
		c.checkStreams()
	}
	return nil
}

func (c *connection) buildSummary(st *stream, final *success) *db.Summary {
	summary := &db.Summary{
		Bookmark:      c.bookmark,
		Database:      final.db,
		StatementType: final.qtype,
		Counters:      final.counters,
		Plan:          final.plan,
		Profile:       final.profile,
		Notifications: final.notifications,
		TFirst:        st.runSuccess.tfirst,
		TLast:         final.tlast,
		Agent:         c.serverVersion,
		Major:         int(c.version.Major),
		Minor:         int(c.version.Minor),
		ServerName:    c.serverName,
	}
	if st.runSuccess.db != "" {
		summary.Database = st.runSuccess.db
	}
	return summary
}

func (c *connection) Keys(h idb.StreamHandle) ([]string, error) {
	st := c.streams.get(h)
	if st == nil {
		return nil, errorutil.InvalidStreamError(h)
	}
	return st.keys, nil
}

func (c *connection) Next(ctx context.Context, h idb.StreamHandle) (*db.Record, *db.Summary, error) {
	st := c.streams.get(h)
	if st == nil {
		return nil, nil, errorutil.InvalidStreamError(h)
	}
	if len(st.buffered) > 0 {
		r := st.buffered[0]
		st.buffered = st.buffered[1:]
		return r, nil, nil
	}
	if st.exhausted {
		return nil, st.summary, nil
	}
	if err := c.pullOrDiscard(ctx, h, 1, false); err != nil {
		return nil, nil, err
	}
	return c.Next(ctx, h)
}

func (c *connection) Consume(ctx context.Context, h idb.StreamHandle) (*db.Summary, error) {
	st := c.streams.get(h)
	if st == nil {
		return nil, errorutil.InvalidStreamError(h)
	}
	for !st.exhausted {
		if err := c.pullOrDiscard(ctx, h, -1, true); err != nil {
			return nil, err
		}
	}
	st.buffered = nil
	return st.summary, nil
}

func (c *connection) Buffer(ctx context.Context, h idb.StreamHandle) error {
	st := c.streams.get(h)
	if st == nil {
		return errorutil.InvalidStreamError(h)
	}
	for !st.exhausted {
		if err := c.pullOrDiscard(ctx, h, defaultFetchSize, false); err != nil {
			return err
		}
	}
	return nil
}

func (c *connection) Bookmark() string {
	return c.bookmark
}

func (c *connection) ServerName() string {
	return c.serverName
}

func (c *connection) ConnId() string {
	return c.connId
}

// ServerVersion extracts the version token from the server agent
// string ("Neo4j/5.13.0" reports "5.13.0"); agents with no slash are
// reported as-is.
func (c *connection) ServerVersion() string {
	if i := strings.IndexByte(c.serverVersion, '/'); i >= 0 {
		return c.serverVersion[i+1:]
	}
	return c.serverVersion
}

func (c *connection) Version() idb.ProtocolVersion {
	return idb.ProtocolVersion{Major: int(c.version.Major), Minor: int(c.version.Minor)}
}

func (c *connection) IsAlive() bool {
	return c.state != stateDead
}

func (c *connection) HasFailed() bool {
	return c.state == stateFailed
}

func (c *connection) Reset(ctx context.Context) error {
	unlock, err := c.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()
	return c.reset(ctx)
}

func (c *connection) reset(ctx context.Context) error {
	if c.state == stateDead {
		return errorutil.ConnectionDeadError(c.fatalErr)
	}
	c.out.appendReset()
	if err := c.flush(ctx); err != nil {
		return err
	}
	if _, err := c.receiveUntilSuccess(ctx, responseHandler{
		onRecord: func(*db.Record) {},
	}); err != nil {
		return err
	}
	c.streams.closeAll()
	c.txHandle = 0
	c.lastQid = -1
	c.state = stateReady
	return nil
}

func (c *connection) ForceReset(ctx context.Context) error {
	return c.Reset(ctx)
}

func (c *connection) Close(ctx context.Context) error {
	unlock, err := c.lock(ctx)
	if err != nil {
		c.conn.Close()
		return err
	}
	defer unlock()
	return c.close(ctx)
}

// close is Close's body, for callers already holding the lock.
func (c *connection) close(ctx context.Context) error {
	if c.closed {
		return nil
	}
	if c.state != stateDead {
		// Best effort; the socket is going away either way.
		c.out.appendGoodbye()
		_ = c.flush(ctx)
	}
	c.state = stateDead
	c.closed = true
	return c.conn.Close()
}

func (c *connection) GetRoutingTable(ctx context.Context, routingContext map[string]string, bookmarks []string, database, impersonatedUser string) (*idb.RoutingTable, error) {
	unlock, err := c.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	if !c.caps.Routing {
		return nil, &db.ProtocolError{Err: "routing requires at least protocol version 4.3"}
	}
	if impersonatedUser != "" && !c.version.AtLeast(4, 4) {
		return nil, &db.FeatureNotSupportedError{Server: c.serverName, Feature: "user impersonation", Reason: "requires at least server v4.4"}
	}
	if len(bookmarks) == 0 && c.bookmark != "" {
		bookmarks = []string{c.bookmark}
	}
	c.out.appendRoute(routingContext, bookmarks, database, impersonatedUser)
	if err := c.flush(ctx); err != nil {
		return nil, err
	}
	s, err := c.receiveUntilSuccess(ctx, responseHandler{})
	if err != nil {
		return nil, err
	}
	if s == nil || s.routingTable == nil {
		return nil, &db.ProtocolError{MessageType: "success", Err: "missing routing table"}
	}
	return s.routingTable, nil
}

func (c *connection) SelectDatabase(database string) {
	c.databaseName = database
}

func (c *connection) SetPinHomeDatabaseCallback(callback func(database string)) {
	c.pinHomeDatabase = callback
}

// pinHome reports the server-resolved database to the registered
// callback, if any.
func (c *connection) pinHome(s *success) {
	if s != nil && s.db != "" && c.pinHomeDatabase != nil {
		c.pinHomeDatabase(s.db)
	}
}

func (c *connection) SetBoltLogger(logger log.BoltLogger) {
	c.out.boltLogger = logger
	c.hyd.boltLogger = logger
}

func (c *connection) IdleDate() time.Time {
	return c.idleDate
}

func (c *connection) Birthdate() time.Time {
	return c.birthDate
}

// logIdentity renders the connection+server identity tuple used in log
// lines, matching what a caller would see in Neo4j's own server logs.
func (c *connection) logIdentity() string {
	return c.serverName + "(" + strconv.Quote(c.connId) + ")"
}
