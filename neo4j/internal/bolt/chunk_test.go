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
	"bytes"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(n int) []byte {
	msg := make([]byte, n)
	for i := range msg {
		msg[i] = byte(i % 251)
	}
	return msg
}

func TestChunkRoundtrip(t *testing.T) {
	sizes := []int{1, 100, maxChunkSize - 1, maxChunkSize, maxChunkSize + 1, 70000, 3 * maxChunkSize}
	for _, size := range sizes {
		msg := testMessage(size)
		c := newChunker()
		c.chunk(msg)
		wire := c.drain()

		// Every framed message opens with a non-zero length prefix and
		// closes with the zero-length terminator.
		require.GreaterOrEqual(t, len(wire), size+4)
		assert.NotEqual(t, []byte{0x00, 0x00}, wire[:2], "size %d", size)
		assert.Equal(t, []byte{0x00, 0x00}, wire[len(wire)-2:], "size %d", size)

		got, err := dechunkMessage(bytes.NewReader(wire), nil)
		require.NoError(t, err, "size %d", size)
		assert.Equal(t, msg, got, "size %d", size)
	}
}

func TestChunkBoundaries(t *testing.T) {
	// Exactly one max-size chunk.
	c := newChunker()
	c.chunk(testMessage(maxChunkSize))
	wire := c.drain()
	assert.Equal(t, 2+maxChunkSize+2, len(wire))
	assert.Equal(t, byte(0xFF), wire[0])
	assert.Equal(t, byte(0xFF), wire[1])

	// One byte over forces a second chunk of length 1.
	c.chunk(testMessage(maxChunkSize + 1))
	wire = c.drain()
	assert.Equal(t, 2+maxChunkSize+2+1+2, len(wire))
	second := wire[2+maxChunkSize:]
	assert.Equal(t, byte(0x00), second[0])
	assert.Equal(t, byte(0x01), second[1])
}

func TestDechunkSplitsConcatenatedMessages(t *testing.T) {
	first := testMessage(10)
	second := testMessage(20)
	c := newChunker()
	c.chunk(first)
	c.chunk(second)
	r := bytes.NewReader(c.drain())

	got1, err := dechunkMessage(r, nil)
	require.NoError(t, err)
	assert.Equal(t, first, got1)
	got2, err := dechunkMessage(r, nil)
	require.NoError(t, err)
	assert.Equal(t, second, got2)
}

func TestDechunkToleratesPartialReads(t *testing.T) {
	msg := testMessage(70000)
	c := newChunker()
	c.chunk(msg)
	// One byte per Read call: the receiver must keep accumulating
	// until the frame is complete instead of treating a short read as
	// a boundary.
	r := iotest.OneByteReader(bytes.NewReader(c.drain()))

	got, err := dechunkMessage(r, nil)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestDechunkSkipsLeadingNoopChunk(t *testing.T) {
	msg := testMessage(5)
	c := newChunker()
	c.chunk(msg)
	wire := append([]byte{0x00, 0x00}, c.drain()...)

	got, err := dechunkMessage(bytes.NewReader(wire), nil)
	require.NoError(t, err)
	assert.Equal(t, msg, got)
}

func TestDechunkTruncatedStream(t *testing.T) {
	c := newChunker()
	c.chunk(testMessage(100))
	wire := c.drain()

	// Header declares 100 bytes but the stream ends early.
	_, err := dechunkMessage(bytes.NewReader(wire[:50]), nil)
	assert.Error(t, err)

	// Stream ends inside a chunk header.
	_, err = dechunkMessage(bytes.NewReader(wire[:1]), nil)
	assert.Error(t, err)
}
