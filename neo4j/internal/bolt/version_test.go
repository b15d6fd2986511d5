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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionEncodeParseRoundtrip(t *testing.T) {
	versions := []Version{
		{3, 0}, {4, 0}, {4, 1}, {4, 3}, {4, 4},
		{5, 0}, {5, 1}, {5, 2}, {5, 4}, {5, 6},
	}
	for _, v := range versions {
		parsed, ok := parseVersion(v.encode())
		require.True(t, ok)
		assert.Equal(t, v, parsed)
	}
}

func TestVersionParseRejectsZero(t *testing.T) {
	_, ok := parseVersion([4]byte{0, 0, 0, 0})
	assert.False(t, ok)
}

func TestVersionOrdering(t *testing.T) {
	assert.True(t, Version{4, 4}.Before(Version{5, 0}))
	assert.True(t, Version{5, 0}.Before(Version{5, 1}))
	assert.False(t, Version{5, 1}.Before(Version{5, 1}))
	assert.True(t, Version{5, 4}.AtLeast(5, 4))
	assert.True(t, Version{5, 4}.AtLeast(4, 7))
	assert.False(t, Version{4, 7}.AtLeast(5, 0))
}

// capabilityFlags flattens the set into an ordered list so the
// monotonicity law can compare any two versions' sets.
func capabilityFlags(c CapabilitySet) []bool {
	return []bool{
		c.Bookmarks, c.Transactions, c.Streaming, c.QueryID,
		c.Notifications, c.Routing, c.Reauth, c.NotificationFiltering,
		c.Telemetry, c.ElementID, c.UTCDateTime,
	}
}

func TestCapabilitiesGrowMonotonically(t *testing.T) {
	ordered := []Version{
		{3, 0}, {4, 0}, {4, 1}, {4, 2}, {4, 3}, {4, 4},
		{5, 0}, {5, 1}, {5, 2}, {5, 3}, {5, 4}, {5, 5}, {5, 6},
	}
	for i := 1; i < len(ordered); i++ {
		older := capabilityFlags(Capabilities(ordered[i-1]))
		newer := capabilityFlags(Capabilities(ordered[i]))
		for f := range older {
			if older[f] {
				assert.True(t, newer[f],
					"capability %d available at %s but lost at %s", f, ordered[i-1], ordered[i])
			}
		}
	}
}

func TestCapabilitiesAtKnownVersions(t *testing.T) {
	caps := Capabilities(Version{5, 4})
	assert.True(t, caps.Telemetry)
	assert.True(t, caps.Routing)
	assert.True(t, caps.Reauth)

	caps = Capabilities(Version{4, 2})
	assert.True(t, caps.Streaming)
	assert.True(t, caps.Notifications)
	assert.False(t, caps.Routing)

	caps = Capabilities(Version{3, 0})
	assert.True(t, caps.Transactions)
	assert.True(t, caps.Bookmarks)
	assert.False(t, caps.Streaming)
	assert.False(t, caps.QueryID)
}
