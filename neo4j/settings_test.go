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
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/log"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/notifications"
)

func TestSettingsDefaults(t *testing.T) {
	settings := NewConnectionSettingsBuilder().Build()

	assert.Equal(t, defaultUserAgent, settings.userAgent)
	assert.Equal(t, 30*time.Second, settings.connectionTimeout)
	assert.Equal(t, time.Duration(0), settings.socketTimeout)
	assert.True(t, settings.keepAlive)
	assert.True(t, settings.encrypted)
	assert.Equal(t, "none", settings.authToken.Tokens["scheme"])
	assert.NotNil(t, settings.logger)
}

func TestSettingsBuilderOptions(t *testing.T) {
	categories := notifications.DisableCategories("HINT")
	settings := NewConnectionSettingsBuilder().
		WithBasicAuth("user", "pass").
		WithUserAgent("myapp/2.0").
		WithDatabase("movies").
		WithNotificationsMinimumSeverity(notifications.WarningLevel).
		WithNotificationsDisabledCategories(categories).
		WithConnectionTimeout(5 * time.Second).
		WithSocketTimeout(10 * time.Second).
		WithKeepAlive(false).
		WithoutEncryption().
		WithLogging(log.ToLogger(zerolog.Nop())).
		Build()

	assert.Equal(t, "basic", settings.authToken.Tokens["scheme"])
	assert.Equal(t, "user", settings.authToken.Tokens["principal"])
	assert.Equal(t, "myapp/2.0", settings.userAgent)
	assert.Equal(t, "movies", settings.database)
	assert.Equal(t, notifications.WarningLevel, settings.notificationsMinimumSeverity)
	assert.Equal(t, []string{"HINT"}, settings.notificationsDisabledCategories.DisabledCategories())
	assert.Equal(t, 5*time.Second, settings.connectionTimeout)
	assert.Equal(t, 10*time.Second, settings.socketTimeout)
	assert.False(t, settings.keepAlive)
	assert.False(t, settings.encrypted)
}

func TestSettingsBuilderGuardsNils(t *testing.T) {
	settings := NewConnectionSettingsBuilder().
		WithUserAgent("").
		WithLogging(nil).
		Build()
	assert.Equal(t, defaultUserAgent, settings.userAgent)
	assert.NotNil(t, settings.logger)
}
