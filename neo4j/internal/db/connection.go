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

// Package db holds the abstract connection contract internal/bolt
// implements: the shape callers program against, independent of the
// wire encoding underneath. Kept separate from neo4j/db so the public
// value types (Record, Neo4jError, Summary) don't have to depend on
// anything connection-shaped.
package db

import (
	"context"
	"math"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/auth"
	idb "github.com/neo4j-go-bolt/bolt-core/neo4j/db"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/internal/telemetry"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/log"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/notifications"
)

// AccessMode is the intended read/write mode of a transaction, used for
// routing decisions and sent as the BEGIN extra "mode" field.
type AccessMode int

const (
	Write AccessMode = 0
	Read  AccessMode = 1
)

// TxHandle identifies an open explicit transaction to later
// TxCommit/TxRollback/Run calls.
type TxHandle int64

// StreamHandle identifies an open result stream to later
// Next/Consume/Buffer calls.
type StreamHandle int64

// DefaultDatabase is the zero value meaning "use the server's configured
// default database".
const DefaultDatabase = ""

// DefaultTxConfigTimeout means "no explicit timeout was requested";
// distinct from zero, which the server would treat as "timeout
// immediately".
const DefaultTxConfigTimeout = math.MinInt

// NotificationConfig carries the notification-filtering options attached
// to HELLO or BEGIN/RUN extras. The wire key for the disabled set
// changes at protocol 5.5: "notifications_disabled_categories" below
// that, "notifications_disabled_classifications" at or above it.
type NotificationConfig struct {
	MinSeverity             notifications.NotificationMinimumSeverityLevel
	DisabledCategories      *notifications.NotificationDisabledCategories
	DisabledClassifications *notifications.NotificationDisabledClassifications
}

// ToMeta writes this config's fields into an extras map under the key
// names appropriate for the given protocol version, doing nothing for
// fields left at their zero value.
func (n NotificationConfig) ToMeta(meta map[string]any, major, minor int) {
	if n.MinSeverity != notifications.DefaultLevel {
		meta["notifications_minimum_severity"] = string(n.MinSeverity)
	}
	useClassifications := major > 5 || (major == 5 && minor >= 5)
	if useClassifications {
		if n.DisabledClassifications != nil {
			if n.DisabledClassifications.DisablesNone() {
				meta["notifications_disabled_classifications"] = []string{}
			} else {
				meta["notifications_disabled_classifications"] = n.DisabledClassifications.DisabledClassifications()
			}
		} else if n.DisabledCategories != nil {
			// caller built this pre-5.5 style filter but negotiated a
			// >=5.5 connection: forward it under the new key.
			if n.DisabledCategories.DisablesNone() {
				meta["notifications_disabled_classifications"] = []string{}
			} else {
				meta["notifications_disabled_classifications"] = n.DisabledCategories.DisabledCategories()
			}
		}
		return
	}
	if n.DisabledCategories != nil {
		if n.DisabledCategories.DisablesNone() {
			meta["notifications_disabled_categories"] = []string{}
		} else {
			meta["notifications_disabled_categories"] = n.DisabledCategories.DisabledCategories()
		}
	} else if n.DisabledClassifications != nil {
		if n.DisabledClassifications.DisablesNone() {
			meta["notifications_disabled_categories"] = []string{}
		} else {
			meta["notifications_disabled_categories"] = n.DisabledClassifications.DisabledClassifications()
		}
	}
}

// TxConfig carries the options attached to an explicit BEGIN or an
// auto-commit RUN.
type TxConfig struct {
	Mode               AccessMode
	Bookmarks          []string
	Timeout            int // milliseconds; DefaultTxConfigTimeout means unset
	ImpersonatedUser   string
	Database           string
	Meta               map[string]any
	NotificationConfig NotificationConfig
}

// DatabaseName returns the target database, or DefaultDatabase if unset.
func (t TxConfig) DatabaseName() string {
	if t.Database == "" {
		return DefaultDatabase
	}
	return t.Database
}

// ToMeta renders this config into the extras map sent on the wire, for
// the given negotiated protocol version.
func (t TxConfig) ToMeta(version ProtocolVersion) map[string]any {
	meta := map[string]any{}
	if t.Mode == Read {
		meta["mode"] = "r"
	}
	if len(t.Bookmarks) > 0 {
		meta["bookmarks"] = t.Bookmarks
	}
	if t.Timeout != DefaultTxConfigTimeout {
		meta["tx_timeout"] = t.Timeout
	}
	if t.ImpersonatedUser != "" {
		meta["imp_user"] = t.ImpersonatedUser
	}
	if t.Database != "" && t.Database != DefaultDatabase {
		meta["db"] = t.Database
	}
	if len(t.Meta) > 0 {
		meta["tx_metadata"] = t.Meta
	}
	t.NotificationConfig.ToMeta(meta, version.Major, version.Minor)
	return meta
}

// Command is a single Cypher text + parameters unit of work, the
// argument to Run/RunTx.
type Command struct {
	Cypher    string
	Params    map[string]any
	FetchSize int
}

// ProtocolVersion is the negotiated (major, minor) pair of a connection.
type ProtocolVersion struct {
	Major int
	Minor int
}

// RoutingTable is the decoded result of a ROUTE call.
type RoutingTable struct {
	TimeToLive   int
	DatabaseName string
	Routers      []string
	Readers      []string
	Writers      []string
}

// ReAuthToken pairs the TokenManager that supplies the new auth.Token
// with whether the request originated from session-scoped
// reauthentication (as opposed to a pool-wide TokenManager refresh),
// since the former requires a minimum server version to service.
type ReAuthToken struct {
	Manager     auth.TokenManager
	FromSession bool
}

// Connection is the abstract contract internal/bolt's connection type
// implements: the full surface a caller programs against, independent of
// the negotiated wire version. Every method accepts ctx so an
// in-progress request can be abandoned cooperatively.
type Connection interface {
	Connect(ctx context.Context, authToken auth.Token, userAgent string, routingContext map[string]string, notificationConfig NotificationConfig) error

	TxBegin(ctx context.Context, config TxConfig) (TxHandle, error)
	TxCommit(ctx context.Context, tx TxHandle) (string, error)
	TxRollback(ctx context.Context, tx TxHandle) error

	Run(ctx context.Context, cmd Command, config TxConfig) (StreamHandle, error)
	RunTx(ctx context.Context, tx TxHandle, cmd Command) (StreamHandle, error)

	Keys(stream StreamHandle) ([]string, error)
	Next(ctx context.Context, stream StreamHandle) (*idb.Record, *idb.Summary, error)
	Consume(ctx context.Context, stream StreamHandle) (*idb.Summary, error)
	Buffer(ctx context.Context, stream StreamHandle) error

	Bookmark() string
	ServerName() string
	ConnId() string
	ServerVersion() string
	Version() ProtocolVersion
	IsAlive() bool
	HasFailed() bool

	Reset(ctx context.Context) error
	ForceReset(ctx context.Context) error
	Close(ctx context.Context) error

	GetRoutingTable(ctx context.Context, routingContext map[string]string, bookmarks []string, database, impersonatedUser string) (*RoutingTable, error)
	SelectDatabase(database string)
	// SetPinHomeDatabaseCallback registers a hook invoked with the
	// server-resolved database whenever a BEGIN or RUN SUCCESS reports
	// one, letting a session pin its home database without the core
	// caching any routing state itself.
	SetPinHomeDatabaseCallback(callback func(database string))

	SetBoltLogger(logger log.BoltLogger)

	ReAuth(ctx context.Context, token ReAuthToken) error
	GetCurrentAuth() (auth.Token, bool)

	Telemetry(api telemetry.API, onSuccess func())
}
