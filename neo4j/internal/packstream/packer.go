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

package packstream

import (
	"fmt"
	"math"
)

// Packer encodes PackStream values into a caller-supplied buffer.
// Begin/End bracket one encoding pass; the methods in between append
// values in order, matching the declared size of whatever container
// (MapHeader/ArrayHeader/StructHeader) they're nested under.
type Packer struct {
	out []byte
	err error
}

// Begin starts a new encoding pass, appending to buf.
func (p *Packer) Begin(buf []byte) {
	p.out = buf
	p.err = nil
}

// End finishes the encoding pass, returning the accumulated bytes and
// the first error encountered, if any.
func (p *Packer) End() ([]byte, error) {
	return p.out, p.err
}

func (p *Packer) fail(err error) {
	if p.err == nil {
		p.err = err
	}
}

func (p *Packer) byte1(b byte) {
	p.out = append(p.out, b)
}

func (p *Packer) uint16be(n uint16) {
	p.out = append(p.out, byte(n>>8), byte(n))
}

func (p *Packer) uint32be(n uint32) {
	p.out = append(p.out, byte(n>>24), byte(n>>16), byte(n>>8), byte(n))
}

// Nil encodes the null value.
func (p *Packer) Nil() {
	p.byte1(markerNull)
}

// Bool encodes a boolean.
func (p *Packer) Bool(b bool) {
	if b {
		p.byte1(markerTrue)
	} else {
		p.byte1(markerFalse)
	}
}

// Int encodes n using the smallest marker that represents it exactly.
func (p *Packer) Int(n int64) {
	switch {
	case n >= tinyIntMin && n <= tinyIntMax:
		p.byte1(byte(n))
	case n >= math.MinInt8 && n <= math.MaxInt8:
		p.Int8(int8(n))
	case n >= math.MinInt16 && n <= math.MaxInt16:
		p.Int16(int16(n))
	case n >= math.MinInt32 && n <= math.MaxInt32:
		p.Int32(int32(n))
	default:
		p.Int64(n)
	}
}

// Int8 forces the 1-byte-marker + 1-byte-payload encoding regardless of
// whether n would fit in a tiny int.
func (p *Packer) Int8(n int8) {
	p.byte1(markerInt8)
	p.byte1(byte(n))
}

// Int16 forces the 2-byte-payload encoding.
func (p *Packer) Int16(n int16) {
	p.byte1(markerInt16)
	p.uint16be(uint16(n))
}

// Int32 forces the 4-byte-payload encoding.
func (p *Packer) Int32(n int32) {
	p.byte1(markerInt32)
	p.uint32be(uint32(n))
}

// Int64 forces the 8-byte-payload encoding.
func (p *Packer) Int64(n int64) {
	p.byte1(markerInt64)
	u := uint64(n)
	p.out = append(p.out,
		byte(u>>56), byte(u>>48), byte(u>>40), byte(u>>32),
		byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
}

// Float64 encodes an IEEE 754 double.
func (p *Packer) Float64(f float64) {
	p.byte1(markerFloat)
	u := math.Float64bits(f)
	p.out = append(p.out,
		byte(u>>56), byte(u>>48), byte(u>>40), byte(u>>32),
		byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
}

// String encodes a UTF-8 string.
func (p *Packer) String(s string) {
	n := len(s)
	switch {
	case n <= 15:
		p.byte1(byte(markerTinyString | n))
	case n <= math.MaxUint8:
		p.byte1(markerString8)
		p.byte1(byte(n))
	case n <= math.MaxUint16:
		p.byte1(markerString16)
		p.uint16be(uint16(n))
	case uint64(n) <= math.MaxUint32:
		p.byte1(markerString32)
		p.uint32be(uint32(n))
	default:
		p.fail(fmt.Errorf("packstream: string too long: %d bytes", n))
		return
	}
	p.out = append(p.out, s...)
}

// Bytes encodes a byte array (PackStream BYTES type, not a list).
func (p *Packer) Bytes(b []byte) {
	n := len(b)
	switch {
	case n <= math.MaxUint8:
		p.byte1(markerBytes8)
		p.byte1(byte(n))
	case n <= math.MaxUint16:
		p.byte1(markerBytes16)
		p.uint16be(uint16(n))
	case uint64(n) <= math.MaxUint32:
		p.byte1(markerBytes32)
		p.uint32be(uint32(n))
	default:
		p.fail(fmt.Errorf("packstream: byte array too long: %d bytes", n))
		return
	}
	p.out = append(p.out, b...)
}

// ArrayHeader starts a list of n subsequent values.
func (p *Packer) ArrayHeader(n int) {
	switch {
	case n <= 15:
		p.byte1(byte(markerTinyList | n))
	case n <= math.MaxUint8:
		p.byte1(markerList8)
		p.byte1(byte(n))
	case n <= math.MaxUint16:
		p.byte1(markerList16)
		p.uint16be(uint16(n))
	default:
		p.byte1(markerList32)
		p.uint32be(uint32(n))
	}
}

// MapHeader starts a map of n subsequent key/value pairs.
func (p *Packer) MapHeader(n int) {
	switch {
	case n <= 15:
		p.byte1(byte(markerTinyMap | n))
	case n <= math.MaxUint8:
		p.byte1(markerMap8)
		p.byte1(byte(n))
	case n <= math.MaxUint16:
		p.byte1(markerMap16)
		p.uint16be(uint16(n))
	default:
		p.byte1(markerMap32)
		p.uint32be(uint32(n))
	}
}

// StructHeader starts a tagged struct of n subsequent fields.
func (p *Packer) StructHeader(tag byte, n int) {
	switch {
	case n <= 15:
		p.byte1(byte(markerTinyStruct | n))
	case n <= math.MaxUint8:
		p.byte1(markerStruct8)
		p.byte1(byte(n))
	default:
		p.byte1(markerStruct16)
		p.uint16be(uint16(n))
	}
	p.byte1(tag)
}

// StringArray encodes a []string as a list of strings, a convenience
// used by BEGIN/RUN's bookmark and label arguments.
func (p *Packer) StringArray(a []string) {
	p.ArrayHeader(len(a))
	for _, s := range a {
		p.String(s)
	}
}

// Map encodes a map[string]any, recursing through Value for every entry.
func (p *Packer) Map(m map[string]any) {
	p.MapHeader(len(m))
	for k, v := range m {
		p.String(k)
		p.Value(v)
	}
}

// Array encodes a []any, recursing through Value for every element.
func (p *Packer) Array(a []any) {
	p.ArrayHeader(len(a))
	for _, v := range a {
		p.Value(v)
	}
}

// Value encodes an arbitrary Go value of one of the types produced by
// decoding a Cypher parameter map: nil, bool, the integer/float kinds,
// string, []byte, []any, map[string]any, or []string.
func (p *Packer) Value(v any) {
	switch x := v.(type) {
	case nil:
		p.Nil()
	case bool:
		p.Bool(x)
	case int:
		p.Int(int64(x))
	case int8:
		p.Int(int64(x))
	case int16:
		p.Int(int64(x))
	case int32:
		p.Int(int64(x))
	case int64:
		p.Int(x)
	case float32:
		p.Float64(float64(x))
	case float64:
		p.Float64(x)
	case string:
		p.String(x)
	case []byte:
		p.Bytes(x)
	case []string:
		p.StringArray(x)
	case []any:
		p.Array(x)
	case map[string]any:
		p.Map(x)
	default:
		p.fail(fmt.Errorf("packstream: unsupported value type %T", v))
	}
}
