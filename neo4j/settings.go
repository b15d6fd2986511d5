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

package neo4j

import (
	"time"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/auth"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/log"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/notifications"
)

const defaultUserAgent = "bolt-core/1.0"

// ConnectionSettings is the immutable configuration a connection is
// opened with. Build one with NewConnectionSettingsBuilder; credentials
// are never mutated after Build.
type ConnectionSettings struct {
	authToken                       auth.Token
	userAgent                       string
	database                        string
	notificationsMinimumSeverity    notifications.NotificationMinimumSeverityLevel
	notificationsDisabledCategories *notifications.NotificationDisabledCategories
	connectionTimeout               time.Duration
	socketTimeout                   time.Duration
	keepAlive                       bool
	encrypted                       bool
	logger                          log.Logger
	boltLogger                      log.BoltLogger
}

// ConnectionSettingsBuilder provides builder-style methods producing a
// valid ConnectionSettings with meaningful defaults.
type ConnectionSettingsBuilder struct {
	settings *ConnectionSettings
}

func defaultSettings() *ConnectionSettings {
	return &ConnectionSettings{
		authToken:         auth.NoAuth(),
		userAgent:         defaultUserAgent,
		connectionTimeout: 30 * time.Second,
		keepAlive:         true,
		encrypted:         true,
		logger:            log.NoOpLogger(),
	}
}

// NewConnectionSettingsBuilder returns a builder on which configuration
// options can be set.
func NewConnectionSettingsBuilder() *ConnectionSettingsBuilder {
	return &ConnectionSettingsBuilder{settings: defaultSettings()}
}

// WithBasicAuth sets basic-scheme credentials.
func (b *ConnectionSettingsBuilder) WithBasicAuth(username, password string) *ConnectionSettingsBuilder {
	b.settings.authToken = auth.BasicAuth(username, password, "")
	return b
}

// WithAuthToken sets an arbitrary pre-built auth token.
func (b *ConnectionSettingsBuilder) WithAuthToken(token auth.Token) *ConnectionSettingsBuilder {
	b.settings.authToken = token
	return b
}

// WithUserAgent sets the string identifying this client to the server.
func (b *ConnectionSettingsBuilder) WithUserAgent(userAgent string) *ConnectionSettingsBuilder {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	b.settings.userAgent = userAgent
	return b
}

// WithDatabase sets the default database for RUN/BEGIN.
func (b *ConnectionSettingsBuilder) WithDatabase(database string) *ConnectionSettingsBuilder {
	b.settings.database = database
	return b
}

// WithNotificationsMinimumSeverity filters out notifications below the
// given severity server-side.
func (b *ConnectionSettingsBuilder) WithNotificationsMinimumSeverity(level notifications.NotificationMinimumSeverityLevel) *ConnectionSettingsBuilder {
	b.settings.notificationsMinimumSeverity = level
	return b
}

// WithNotificationsDisabledCategories drops notifications in the given
// categories server-side.
func (b *ConnectionSettingsBuilder) WithNotificationsDisabledCategories(categories notifications.NotificationDisabledCategories) *ConnectionSettingsBuilder {
	b.settings.notificationsDisabledCategories = &categories
	return b
}

// WithConnectionTimeout bounds the TCP/TLS connect.
func (b *ConnectionSettingsBuilder) WithConnectionTimeout(timeout time.Duration) *ConnectionSettingsBuilder {
	b.settings.connectionTimeout = timeout
	return b
}

// WithSocketTimeout bounds each individual socket read/write once
// connected; zero disables the budget.
func (b *ConnectionSettingsBuilder) WithSocketTimeout(timeout time.Duration) *ConnectionSettingsBuilder {
	b.settings.socketTimeout = timeout
	return b
}

// WithKeepAlive enables TCP keep-alive probing.
func (b *ConnectionSettingsBuilder) WithKeepAlive(keepAlive bool) *ConnectionSettingsBuilder {
	b.settings.keepAlive = keepAlive
	return b
}

// WithEncryption tells the connection to establish an encrypted channel
// with the server.
func (b *ConnectionSettingsBuilder) WithEncryption() *ConnectionSettingsBuilder {
	b.settings.encrypted = true
	return b
}

// WithoutEncryption tells the connection to establish a plain-text
// channel with the server.
func (b *ConnectionSettingsBuilder) WithoutEncryption() *ConnectionSettingsBuilder {
	b.settings.encrypted = false
	return b
}

// WithLogging sets the application logger the connection reports to.
func (b *ConnectionSettingsBuilder) WithLogging(logger log.Logger) *ConnectionSettingsBuilder {
	if logger == nil {
		logger = log.NoOpLogger()
	}
	b.settings.logger = logger
	return b
}

// WithBoltLogging sets the raw wire-traffic logger, independent of the
// application logger.
func (b *ConnectionSettingsBuilder) WithBoltLogging(boltLogger log.BoltLogger) *ConnectionSettingsBuilder {
	b.settings.boltLogger = boltLogger
	return b
}

// Build returns the final ConnectionSettings instance.
func (b *ConnectionSettingsBuilder) Build() *ConnectionSettings {
	return b.settings
}
