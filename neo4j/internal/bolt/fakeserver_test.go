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
	"net"
	"testing"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/internal/packstream"
)

// Fake of a Bolt server, usable at any protocol level the connection
// negotiates. Panics upon errors, which simplifies output when the
// server is running within a goroutine in the test.
type fakeServer struct {
	conn     net.Conn
	unpacker *packstream.Unpacker
	out      *outgoing
	readBuf  []byte
}

type testStruct struct {
	tag    byte
	fields []any
}

func newFakeServer(conn net.Conn) *fakeServer {
	return &fakeServer{
		conn:     conn,
		unpacker: &packstream.Unpacker{},
		out:      newOutgoing(),
	}
}

func (s *fakeServer) waitForHandshake() []byte {
	handshake := make([]byte, 4*5)
	if _, err := io.ReadFull(s.conn, handshake); err != nil {
		panic(err)
	}
	return handshake
}

func (s *fakeServer) acceptVersion(major, minor byte) {
	accepted := Version{Major: major, Minor: minor}.encode()
	if _, err := s.conn.Write(accepted[:]); err != nil {
		panic(err)
	}
}

func (s *fakeServer) rejectVersions() {
	if _, err := s.conn.Write([]byte{0x00, 0x00, 0x00, 0x00}); err != nil {
		panic(err)
	}
}

func (s *fakeServer) receiveMsg() *testStruct {
	buf, err := dechunkMessage(s.conn, s.readBuf)
	if err != nil {
		panic(err)
	}
	s.readBuf = buf[:0]
	s.unpacker.Reset(buf)
	s.unpacker.Next()
	n := s.unpacker.Len()
	tag := s.unpacker.StructTag()

	fields := make([]any, n)
	for i := 0; i < n; i++ {
		s.unpacker.Next()
		fields[i] = serverHydrator(s.unpacker)
	}
	return &testStruct{tag: tag, fields: fields}
}

// serverHydrator decodes whatever value the unpacker is positioned on;
// clients never send structs, so those are out of scope.
func serverHydrator(u *packstream.Unpacker) any {
	switch u.Type() {
	case packstream.TypeNull:
		return nil
	case packstream.TypeBool:
		return u.Bool()
	case packstream.TypeInt:
		return u.Int()
	case packstream.TypeFloat:
		return u.Float()
	case packstream.TypeString:
		return u.String()
	case packstream.TypeByteArray:
		return u.ByteArray()
	case packstream.TypeList:
		n := u.Len()
		out := make([]any, n)
		for i := 0; i < n; i++ {
			u.Next()
			out[i] = serverHydrator(u)
		}
		return out
	case packstream.TypeMap:
		n := u.Len()
		out := make(map[string]any, n)
		for i := 0; i < n; i++ {
			u.Next()
			key := u.String()
			u.Next()
			out[key] = serverHydrator(u)
		}
		return out
	default:
		panic("received struct from client")
	}
}

func (s *fakeServer) assertStructType(msg *testStruct, t byte) {
	if msg.tag != t {
		panic(fmt.Sprintf("Got wrong type of message expected %d but got %d (%+v)", t, msg.tag, msg))
	}
}

func (s *fakeServer) send(tag byte, fields ...any) {
	s.out.appendStruct(tag, fields...)
	if err := s.out.send(s.conn); err != nil {
		panic(err)
	}
}

func (s *fakeServer) sendSuccess(m map[string]any) {
	s.send(msgSuccess, m)
}

func (s *fakeServer) sendFailureMsg(code, msg string) {
	s.send(msgFailure, map[string]any{
		"code":    code,
		"message": msg,
	})
}

func (s *fakeServer) sendIgnoredMsg() {
	s.send(msgIgnored)
}

// Returns the first hello field.
func (s *fakeServer) waitForHello() map[string]any {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgHello)
	m := msg.fields[0].(map[string]any)
	if _, exists := m["user_agent"]; !exists {
		s.sendFailureMsg("?", "Missing user_agent in hello")
	}
	return m
}

func (s *fakeServer) waitForLogon() map[string]any {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgLogon)
	m := msg.fields[0].(map[string]any)
	if _, exists := m["scheme"]; !exists {
		s.sendFailureMsg("?", "Missing scheme in logon")
	}
	return m
}

func (s *fakeServer) waitForLogoff() {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgLogoff)
}

func (s *fakeServer) waitForRun(assertFields func(fields []any)) {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgRun)
	if assertFields != nil {
		assertFields(msg.fields)
	}
}

func (s *fakeServer) waitForReset() {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgReset)
}

func (s *fakeServer) waitForGoodbye() {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgGoodbye)
}

func (s *fakeServer) waitForTxBegin(assertExtra func(extra map[string]any)) {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgBegin)
	if assertExtra != nil {
		assertExtra(msg.fields[0].(map[string]any))
	}
}

func (s *fakeServer) waitForTxCommit() {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgCommit)
}

func (s *fakeServer) waitForTxRollback() {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgRollback)
}

func (s *fakeServer) waitForTelemetry(api int) {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgTelemetry)
	if sent := msg.fields[0].(int64); sent != int64(api) {
		panic(fmt.Sprintf("Expected TELEMETRY api:%d but got %d", api, sent))
	}
}

func (s *fakeServer) waitForPullN(n int) {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgPull)
	extra := msg.fields[0].(map[string]any)
	sentN := extra["n"].(int64)
	if sentN != int64(n) {
		panic(fmt.Sprintf("Expected PULL n:%d but got PULL %d", n, sentN))
	}
	if _, hasQid := extra["qid"]; hasQid {
		panic("Expected PULL without qid")
	}
}

func (s *fakeServer) waitForPullAll() {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgPull)
	if len(msg.fields) != 0 {
		panic(fmt.Sprintf("Expected bare PULL but got %d fields", len(msg.fields)))
	}
}

func (s *fakeServer) waitForDiscardN(n int) {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgDiscard)
	extra := msg.fields[0].(map[string]any)
	sentN := extra["n"].(int64)
	if sentN != int64(n) {
		panic(fmt.Sprintf("Expected DISCARD n:%d but got DISCARD %d", n, sentN))
	}
}

func (s *fakeServer) waitForRoute(assertRoute func(fields []any)) {
	msg := s.receiveMsg()
	s.assertStructType(msg, msgRoute)
	if assertRoute != nil {
		assertRoute(msg.fields)
	}
}

func (s *fakeServer) acceptHello() {
	s.sendSuccess(map[string]any{
		"connection_id": "cid",
		"server":        "fake/4.5",
	})
}

func (s *fakeServer) rejectHelloUnauthorized() {
	s.sendFailureMsg("Neo.ClientError.Security.Unauthorized", "")
}

// accept drives a full connect exchange up to the ready state for the
// given version, LOGON included where the version requires it.
func (s *fakeServer) accept(major, minor byte) {
	s.waitForHandshake()
	s.acceptVersion(major, minor)
	s.waitForHello()
	s.acceptHello()
	usesLogon := major > 5 || (major == 5 && minor >= 1)
	if usesLogon {
		s.waitForLogon()
		s.sendSuccess(map[string]any{})
	}
}

func (s *fakeServer) closeConnection() {
	s.conn.Close()
}

func setupFakePipe(t *testing.T) (net.Conn, *fakeServer, func()) {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Unable to listen: %s", err)
	}

	addr := l.Addr()
	clientConn, _ := net.Dial(addr.Network(), addr.String())

	srvConn, err := l.Accept()
	if err != nil {
		t.Fatalf("Accept error: %s", err)
	}
	srv := newFakeServer(srvConn)

	return clientConn, srv, func() {
		l.Close()
	}
}
