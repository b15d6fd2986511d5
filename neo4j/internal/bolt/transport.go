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
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/db"
)

// TransportConfig carries the socket-level knobs a connection is opened
// with. The zero value dials plaintext with no timeouts.
type TransportConfig struct {
	// ConnectTimeout bounds the TCP dial plus the TLS handshake.
	ConnectTimeout time.Duration
	// SocketTimeout bounds every individual read and write once
	// connected; zero disables it.
	SocketTimeout time.Duration
	KeepAlive     bool
	// TLS enables encryption when non-nil.
	TLS *tls.Config
	// CertValidator, when set together with TLS, replaces the standard
	// chain verification with a caller-chosen trust policy applied to
	// the server's leaf certificate after the TLS handshake.
	CertValidator CertValidator
}

// Dial opens the byte transport a connection runs on: TCP, optionally
// wrapped in TLS, optionally wrapped again to enforce a per-operation
// socket timeout. The returned conn is ready for Handshake.
func Dial(ctx context.Context, address string, config TransportConfig) (net.Conn, error) {
	dialer := net.Dialer{Timeout: config.ConnectTimeout}
	if config.KeepAlive {
		dialer.KeepAlive = 15 * time.Second
	} else {
		dialer.KeepAlive = -1
	}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, &db.ConnectionError{Msg: fmt.Sprintf("dialing %s: %s", address, err)}
	}

	if config.TLS != nil {
		conn, err = secureConn(ctx, conn, address, config)
		if err != nil {
			return nil, err
		}
	}

	if config.SocketTimeout > 0 {
		conn = &timeoutConn{Conn: conn, timeout: config.SocketTimeout}
	}
	return conn, nil
}

func secureConn(ctx context.Context, raw net.Conn, address string, config TransportConfig) (net.Conn, error) {
	host, portStr, err := net.SplitHostPort(address)
	if err != nil {
		host = address
		portStr = "0"
	}
	port, _ := strconv.Atoi(portStr)

	tlsConfig := config.TLS.Clone()
	if tlsConfig.ServerName == "" {
		tlsConfig.ServerName = host
	}
	// A custom validator owns the trust decision entirely; the standard
	// chain check is disabled and the policy applied to the leaf after
	// the handshake instead.
	if config.CertValidator != nil {
		tlsConfig.InsecureSkipVerify = true
	}

	tlsConn := tls.Client(raw, tlsConfig)
	if config.ConnectTimeout > 0 {
		deadline := time.Now().Add(config.ConnectTimeout)
		_ = tlsConn.SetDeadline(deadline)
		defer func() { _ = tlsConn.SetDeadline(time.Time{}) }()
	}
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		raw.Close()
		return nil, &db.ConnectionError{Msg: fmt.Sprintf("TLS handshake with %s: %s", address, err)}
	}
	if config.CertValidator != nil {
		certs := tlsConn.ConnectionState().PeerCertificates
		if len(certs) == 0 {
			tlsConn.Close()
			return nil, &db.ConnectionError{Msg: fmt.Sprintf("server %s presented no certificate", address)}
		}
		if err := config.CertValidator.Validate(host, port, certs[0]); err != nil {
			tlsConn.Close()
			return nil, &db.ConnectionError{Msg: fmt.Sprintf("certificate validation for %s: %s", address, err)}
		}
	}
	return tlsConn, nil
}

// timeoutConn enforces an inactivity budget on every read and write by
// refreshing the socket deadline before each call.
type timeoutConn struct {
	net.Conn
	timeout time.Duration
}

func (c *timeoutConn) Read(p []byte) (int, error) {
	if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Read(p)
}

func (c *timeoutConn) Write(p []byte) (int, error) {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return 0, err
	}
	return c.Conn.Write(p)
}
