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

// dechunkMessage reads one full message from r: a sequence of
// length-prefixed chunks terminated by a zero-length chunk, accumulated
// into a single contiguous buffer regardless of how many chunks the
// server split it across. buf is reused as scratch space when it has
// spare capacity.
func dechunkMessage(r io.Reader, buf []byte) ([]byte, error) {
	buf = buf[:0]
	var header [chunkHeaderSize]byte
	for {
		if _, err := io.ReadFull(r, header[:]); err != nil {
			return nil, &db.ConnectionError{Msg: fmt.Sprintf("reading chunk header: %s", err)}
		}
		size := int(header[0])<<8 | int(header[1])
		if size == messageTerminator {
			if len(buf) == 0 {
				// A lone zero chunk with nothing preceding it is a
				// no-op separator, not a message; keep reading.
				continue
			}
			return buf, nil
		}
		start := len(buf)
		buf = append(buf, make([]byte, size)...)
		if _, err := io.ReadFull(r, buf[start:]); err != nil {
			return nil, &db.ConnectionError{Msg: fmt.Sprintf("reading chunk body: %s", err)}
		}
	}
}
