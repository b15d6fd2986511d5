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

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/notifications"
)

func TestTxConfigToMetaOmitsAbsentOptions(t *testing.T) {
	meta := TxConfig{Timeout: DefaultTxConfigTimeout}.ToMeta(ProtocolVersion{Major: 5, Minor: 4})
	assert.Empty(t, meta)
}

func TestTxConfigToMetaPresentOptions(t *testing.T) {
	config := TxConfig{
		Mode:             Read,
		Bookmarks:        []string{"bm1", "bm2"},
		Timeout:          2500,
		ImpersonatedUser: "someone",
		Database:         "movies",
		Meta:             map[string]any{"request_id": "r1"},
	}
	meta := config.ToMeta(ProtocolVersion{Major: 5, Minor: 4})
	assert.Equal(t, "r", meta["mode"])
	assert.Equal(t, []string{"bm1", "bm2"}, meta["bookmarks"])
	assert.Equal(t, 2500, meta["tx_timeout"])
	assert.Equal(t, "someone", meta["imp_user"])
	assert.Equal(t, "movies", meta["db"])
	assert.Equal(t, map[string]any{"request_id": "r1"}, meta["tx_metadata"])
}

func TestTxConfigToMetaWriteModeIsImplicit(t *testing.T) {
	meta := TxConfig{Mode: Write, Timeout: DefaultTxConfigTimeout}.ToMeta(ProtocolVersion{Major: 5, Minor: 4})
	assert.NotContains(t, meta, "mode")
}

func TestTxConfigToMetaZeroTimeoutIsExplicit(t *testing.T) {
	// A zero timeout is a real value (the server treats it as
	// "immediate"), only the sentinel means unset.
	meta := TxConfig{Timeout: 0}.ToMeta(ProtocolVersion{Major: 5, Minor: 4})
	assert.Equal(t, 0, meta["tx_timeout"])
}

func TestNotificationConfigKeyChangesAt55(t *testing.T) {
	categories := notifications.DisableCategories("HINT", "UNRECOGNIZED")
	config := NotificationConfig{
		MinSeverity:        notifications.WarningLevel,
		DisabledCategories: &categories,
	}

	meta := map[string]any{}
	config.ToMeta(meta, 5, 4)
	assert.Equal(t, "WARNING", meta["notifications_minimum_severity"])
	assert.Equal(t, []string{"HINT", "UNRECOGNIZED"}, meta["notifications_disabled_categories"])
	assert.NotContains(t, meta, "notifications_disabled_classifications")

	meta = map[string]any{}
	config.ToMeta(meta, 5, 5)
	assert.Equal(t, []string{"HINT", "UNRECOGNIZED"}, meta["notifications_disabled_classifications"])
	assert.NotContains(t, meta, "notifications_disabled_categories")
}

func TestNotificationConfigDisablesNone(t *testing.T) {
	none := notifications.DisableNoNotificationCategories()
	config := NotificationConfig{DisabledCategories: &none}

	meta := map[string]any{}
	config.ToMeta(meta, 5, 2)
	// Explicitly disabling nothing still emits the (empty) list; only
	// an unconfigured filter stays silent.
	assert.Equal(t, []string{}, meta["notifications_disabled_categories"])

	meta = map[string]any{}
	NotificationConfig{}.ToMeta(meta, 5, 2)
	assert.Empty(t, meta)
}
