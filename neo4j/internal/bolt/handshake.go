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

	"github.com/neo4j-go-bolt/bolt-core/neo4j/db"
)

// preamble is the 4-byte magic a client sends before any version
// proposal, identifying the stream as Bolt traffic.
var preamble = [4]byte{0x60, 0x60, 0xB0, 0x17}

// manifestMarker is the sentinel slot a server echoes instead of a
// chosen version when it wants manifest-style negotiation: instead of
// picking from the four proposal slots it sends back a counted list of
// every version band it offers and lets the client choose. Major 255 is
// reserved, so the marker can never collide with a real version reply.
var manifestMarker = [4]byte{0x01, 0x00, 0x00, 0xFF}

// proposalSlot is one 4-byte entry of the client's version proposal:
// the newest minor of a band plus how many older minors below it the
// server may also pick.
type proposalSlot struct {
	v   Version
	rng byte
}

// defaultProposal is this core's standing offer, newest band first:
// Bolt 5.0-5.6, 4.2-4.4, 4.0-4.1 and 3.0. The handshake always sends
// exactly four slots; a shorter offer would pad with zero slots.
func defaultProposal() []proposalSlot {
	return []proposalSlot{
		{Version{5, 6}, 6},
		{Version{4, 4}, 2},
		{Version{4, 1}, 1},
		{Version{3, 0}, 0},
	}
}

// handshakeRequest renders the full 20-byte client opening: preamble
// plus four proposal slots, zero-padded when the proposal is shorter.
func handshakeRequest(proposal []proposalSlot) []byte {
	out := make([]byte, 0, 20)
	out = append(out, preamble[:]...)
	for i := 0; i < 4; i++ {
		var slot [4]byte
		if i < len(proposal) {
			slot = proposal[i].v.encodeWithRange(proposal[i].rng)
		}
		out = append(out, slot[:]...)
	}
	return out
}

// covers reports whether the band (newest minor + range) of slot
// contains the candidate version.
func (p proposalSlot) covers(v Version) bool {
	if p.v.Major != v.Major {
		return false
	}
	low := int(p.v.Minor) - int(p.rng)
	return int(v.Minor) >= low && v.Minor <= p.v.Minor
}

// Handshake negotiates a protocol version over conn: it writes the
// magic preamble followed by the four-slot proposal, then interprets
// the server's reply, which is either a single chosen version slot
// (legacy) or the manifest marker followed by the server's full
// offering list for the client to choose from.
func Handshake(conn io.ReadWriter) (Version, error) {
	proposal := defaultProposal()
	if _, err := conn.Write(handshakeRequest(proposal)); err != nil {
		return Version{}, &db.ConnectionError{Msg: fmt.Sprintf("handshake write failed: %s", err)}
	}

	var resp [4]byte
	if _, err := io.ReadFull(conn, resp[:]); err != nil {
		return Version{}, &db.ConnectionError{Msg: fmt.Sprintf("handshake read failed: %s", err)}
	}
	if resp == manifestMarker {
		return manifestNegotiate(conn, proposal)
	}
	version, ok := parseVersion(resp)
	if !ok {
		return Version{}, &db.ConnectionError{Msg: "Server rejected all protocol versions"}
	}
	return version, nil
}

// manifestNegotiate drives the newer manifest exchange: the server
// sends a varint count of 4-byte offering slots plus a capability mask
// (consumed, currently unused); the client picks the newest version
// present in both its own proposal and some offering band and writes
// the chosen slot back. A zero slot is written back when there is no
// overlap, telling the server the negotiation failed.
func manifestNegotiate(conn io.ReadWriter, proposal []proposalSlot) (Version, error) {
	count, err := readUvarint(conn)
	if err != nil {
		return Version{}, &db.ConnectionError{Msg: fmt.Sprintf("handshake manifest read failed: %s", err)}
	}
	offerings := make([]proposalSlot, 0, count)
	for i := uint64(0); i < count; i++ {
		var slot [4]byte
		if _, err := io.ReadFull(conn, slot[:]); err != nil {
			return Version{}, &db.ConnectionError{Msg: fmt.Sprintf("handshake manifest read failed: %s", err)}
		}
		if v, ok := parseVersion(slot); ok {
			offerings = append(offerings, proposalSlot{v: v, rng: slot[1]})
		}
	}
	// Capability mask; no capability bits are defined that this core
	// acts on yet.
	if _, err := readUvarint(conn); err != nil {
		return Version{}, &db.ConnectionError{Msg: fmt.Sprintf("handshake manifest read failed: %s", err)}
	}

	chosen, ok := selectVersion(proposal, offerings)
	var reply [4]byte
	if ok {
		reply = chosen.encode()
	}
	if _, err := conn.Write(reply[:]); err != nil {
		return Version{}, &db.ConnectionError{Msg: fmt.Sprintf("handshake write failed: %s", err)}
	}
	if !ok {
		return Version{}, &db.ConnectionError{Msg: "No mutually supported Bolt version found"}
	}
	return chosen, nil
}

// selectVersion returns the newest version covered by both a client
// proposal band and a server offering band, walking client bands newest
// first and each band's minors from the top down.
func selectVersion(proposal, offerings []proposalSlot) (Version, bool) {
	for _, p := range proposal {
		for minor := int(p.v.Minor); minor >= int(p.v.Minor)-int(p.rng); minor-- {
			candidate := Version{Major: p.v.Major, Minor: byte(minor)}
			for _, o := range offerings {
				if o.covers(candidate) {
					return candidate, true
				}
			}
		}
	}
	return Version{}, false
}

// readUvarint decodes a LEB128 varint (7 bits per byte, high bit set on
// every byte but the last) from r, one byte at a time.
func readUvarint(r io.Reader) (uint64, error) {
	var result uint64
	var shift uint
	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		result |= uint64(b[0]&0x7F) << shift
		if b[0]&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, fmt.Errorf("varint overflow")
		}
	}
}
