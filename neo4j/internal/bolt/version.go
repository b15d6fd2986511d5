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

import "fmt"

// Version is a negotiated Bolt protocol (major, minor) pair. The zero
// value means "not negotiated yet".
type Version struct {
	Major byte
	Minor byte
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Before reports whether v sorts strictly before o (major first, then
// minor).
func (v Version) Before(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

// AtLeast reports whether v is equal to or newer than major.minor.
func (v Version) AtLeast(major, minor byte) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// encode packs the version into its 4-byte handshake slot:
// minor, 0, 0, major.
func (v Version) encode() [4]byte {
	return [4]byte{v.Minor, 0, 0, v.Major}
}

// encodeWithRange packs a version slot that additionally offers the
// rangeSize older minors below v.Minor, using the slot's second byte:
// minor, range, 0, major.
func (v Version) encodeWithRange(rangeSize byte) [4]byte {
	return [4]byte{v.Minor, rangeSize, 0, v.Major}
}

// parseVersion decodes a 4-byte handshake slot into the version it
// names. A slot with major zero is "no version" (the server rejected
// every offer, or an empty proposal slot).
func parseVersion(slot [4]byte) (Version, bool) {
	if slot[3] == 0 {
		return Version{}, false
	}
	return Version{Major: slot[3], Minor: slot[0]}, true
}

// CapabilitySet is the set of optional protocol features available at a
// given negotiated version. It is a pure function of Version: no
// handshake extra, probe, or server string changes it, with the single
// exception of UTCDateTime which a 5.0 server can additionally enable
// by echoing the "utc" HELLO patch.
type CapabilitySet struct {
	Bookmarks             bool
	Transactions          bool
	Streaming             bool
	QueryID               bool
	Notifications         bool
	Routing               bool
	Reauth                bool
	NotificationFiltering bool
	Telemetry             bool
	ElementID             bool
	UTCDateTime           bool
}

// Capabilities derives the CapabilitySet available at the given
// negotiated version.
func Capabilities(v Version) CapabilitySet {
	return CapabilitySet{
		Bookmarks:             true,
		Transactions:          true,
		Streaming:             v.AtLeast(4, 0),
		QueryID:               v.AtLeast(4, 0),
		Notifications:         v.AtLeast(4, 1),
		Routing:               v.AtLeast(4, 3),
		Reauth:                v.AtLeast(5, 1),
		NotificationFiltering: v.AtLeast(5, 2),
		Telemetry:             v.AtLeast(5, 4),
		ElementID:             v.Major >= 5,
		UTCDateTime:           v.AtLeast(5, 1),
	}
}
