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

const (
	// maxChunkSize is the largest payload a single chunk header (u16
	// length) can carry.
	maxChunkSize = 0xFFFF
	// chunkHeaderSize is the width of the length prefix in front of
	// every chunk.
	chunkHeaderSize = 2
	// messageTerminator is the zero-length chunk that ends a message.
	messageTerminator = 0x00
)

// chunker splits one message's bytes into the length-prefixed chunk
// sequence the wire protocol actually transports, terminated by a
// zero-length chunk.
type chunker struct {
	buf []byte
}

func newChunker() *chunker {
	return &chunker{buf: make([]byte, 0, 4096)}
}

// chunk appends msg to the chunker's internal buffer as one or more
// length-prefixed chunks plus the terminating zero chunk, ready to be
// flushed with a single Write.
func (c *chunker) chunk(msg []byte) {
	for len(msg) > 0 {
		n := len(msg)
		if n > maxChunkSize {
			n = maxChunkSize
		}
		c.buf = append(c.buf, byte(n>>8), byte(n))
		c.buf = append(c.buf, msg[:n]...)
		msg = msg[n:]
	}
	c.buf = append(c.buf, 0x00, 0x00)
}

// drain returns the accumulated chunk bytes and resets the buffer for
// reuse.
func (c *chunker) drain() []byte {
	out := c.buf
	c.buf = c.buf[:0]
	return out
}
