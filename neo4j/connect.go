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

// Package neo4j is the public surface of the Bolt protocol core: it
// dials, handshakes and authenticates a single server connection and
// hands back the protocol-level Connection to drive queries on. There
// is deliberately no pool, no routing table cache and no retry logic
// here; a connection is one socket, owned by one caller at a time.
package neo4j

import (
	"context"
	"crypto/tls"
	"net"

	idb "github.com/neo4j-go-bolt/bolt-core/neo4j/internal/db"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/internal/bolt"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/notifications"
)

// Connection is the protocol-level contract of an open, authenticated
// Bolt connection.
type Connection = idb.Connection

// CertValidator decides whether to trust a server certificate when a
// custom trust policy replaces system-root verification.
type CertValidator = bolt.CertValidator

// Connect dials address ("host:port"), negotiates a protocol version
// and authenticates using the given settings. On success the returned
// connection is in the ready state; the caller owns it and must Close
// it. On any failure the socket is released before returning.
func Connect(ctx context.Context, address string, settings *ConnectionSettings, validator CertValidator) (Connection, error) {
	if settings == nil {
		settings = defaultSettings()
	}
	transportConfig := bolt.TransportConfig{
		ConnectTimeout: settings.connectionTimeout,
		SocketTimeout:  settings.socketTimeout,
		KeepAlive:      settings.keepAlive,
	}
	if settings.encrypted {
		transportConfig.TLS = &tls.Config{}
		transportConfig.CertValidator = validator
	}

	conn, err := bolt.Dial(ctx, address, transportConfig)
	if err != nil {
		return nil, err
	}
	version, err := bolt.Handshake(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	serverName, _, splitErr := net.SplitHostPort(address)
	if splitErr != nil {
		serverName = address
	}
	connection := bolt.New(conn, serverName, version, settings.logger)
	connection.SetBoltLogger(settings.boltLogger)

	notificationConfig := idb.NotificationConfig{
		MinSeverity:        settings.notificationsMinimumSeverity,
		DisabledCategories: settings.notificationsDisabledCategories,
	}
	if err := connection.Connect(ctx, settings.authToken, settings.userAgent, nil, notificationConfig); err != nil {
		_ = connection.Close(ctx)
		return nil, err
	}
	if settings.database != "" {
		connection.SelectDatabase(settings.database)
	}
	return connection, nil
}

// reexported so callers configuring notification filtering don't need a
// second import for the option values.
type NotificationMinimumSeverityLevel = notifications.NotificationMinimumSeverityLevel
