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

// ItemType tags the value Next() just positioned the Unpacker on.
type ItemType int

const (
	TypeNull ItemType = iota
	TypeBool
	TypeInt
	TypeFloat
	TypeString
	TypeByteArray
	TypeList
	TypeMap
	TypeStruct
)

// Unpacker decodes a PackStream byte stream one value at a time. Next
// positions the unpacker on the next value; the typed getters
// (Int/Float/String/Bool/ByteArray) and the container introspectors
// (Len/StructTag) read the value Next() just produced.
type Unpacker struct {
	buf  []byte
	pos  int
	typ  ItemType
	len  int
	tag  byte
	bVal bool
	iVal int64
	fVal float64
	sVal string
	err  error
}

// Reset starts a new decoding pass over buf.
func (u *Unpacker) Reset(buf []byte) {
	u.buf = buf
	u.pos = 0
	u.err = nil
}

// Err returns the first error encountered during decoding, if any.
func (u *Unpacker) Err() error {
	return u.err
}

func (u *Unpacker) fail(err error) {
	if u.err == nil {
		u.err = err
	}
}

func (u *Unpacker) need(n int) bool {
	if u.pos+n > len(u.buf) {
		u.fail(fmt.Errorf("packstream: unexpected end of stream"))
		return false
	}
	return true
}

func (u *Unpacker) readByte() byte {
	if !u.need(1) {
		return 0
	}
	b := u.buf[u.pos]
	u.pos++
	return b
}

func (u *Unpacker) readUint16() uint16 {
	if !u.need(2) {
		return 0
	}
	v := uint16(u.buf[u.pos])<<8 | uint16(u.buf[u.pos+1])
	u.pos += 2
	return v
}

func (u *Unpacker) readUint32() uint32 {
	if !u.need(4) {
		return 0
	}
	v := uint32(u.buf[u.pos])<<24 | uint32(u.buf[u.pos+1])<<16 | uint32(u.buf[u.pos+2])<<8 | uint32(u.buf[u.pos+3])
	u.pos += 4
	return v
}

func (u *Unpacker) readInt64() int64 {
	if !u.need(8) {
		return 0
	}
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(u.buf[u.pos+i])
	}
	u.pos += 8
	return int64(v)
}

func (u *Unpacker) readBytes(n int) []byte {
	if !u.need(n) {
		return nil
	}
	b := u.buf[u.pos : u.pos+n]
	u.pos += n
	return b
}

// Next reads the marker at the current position and positions the
// Unpacker on the resulting value.
func (u *Unpacker) Next() {
	if u.err != nil {
		return
	}
	if !u.need(1) {
		return
	}
	marker := u.buf[u.pos]
	u.pos++

	switch {
	case marker == markerNull:
		u.typ = TypeNull
	case marker == markerTrue:
		u.typ, u.bVal = TypeBool, true
	case marker == markerFalse:
		u.typ, u.bVal = TypeBool, false
	case marker == markerFloat:
		u.typ = TypeFloat
		u.fVal = math.Float64frombits(uint64(u.readInt64()))
	case marker >= 0xF0 || marker <= 0x7F:
		u.typ, u.iVal = TypeInt, int64(int8(marker))
	case marker == markerInt8:
		u.typ, u.iVal = TypeInt, int64(int8(u.readByte()))
	case marker == markerInt16:
		u.typ, u.iVal = TypeInt, int64(int16(u.readUint16()))
	case marker == markerInt32:
		u.typ, u.iVal = TypeInt, int64(int32(u.readUint32()))
	case marker == markerInt64:
		u.typ, u.iVal = TypeInt, u.readInt64()
	case marker&0xF0 == markerTinyString:
		u.typ, u.len = TypeString, int(marker&0x0F)
		u.sVal = string(u.readBytes(u.len))
	case marker == markerString8:
		u.typ = TypeString
		u.len = int(u.readByte())
		u.sVal = string(u.readBytes(u.len))
	case marker == markerString16:
		u.typ = TypeString
		u.len = int(u.readUint16())
		u.sVal = string(u.readBytes(u.len))
	case marker == markerString32:
		u.typ = TypeString
		u.len = int(u.readUint32())
		u.sVal = string(u.readBytes(u.len))
	case marker == markerBytes8:
		u.typ = TypeByteArray
		u.len = int(u.readByte())
		u.sVal = string(u.readBytes(u.len))
	case marker == markerBytes16:
		u.typ = TypeByteArray
		u.len = int(u.readUint16())
		u.sVal = string(u.readBytes(u.len))
	case marker == markerBytes32:
		u.typ = TypeByteArray
		u.len = int(u.readUint32())
		u.sVal = string(u.readBytes(u.len))
	case marker&0xF0 == markerTinyList:
		u.typ, u.len = TypeList, int(marker&0x0F)
	case marker == markerList8:
		u.typ, u.len = TypeList, int(u.readByte())
	case marker == markerList16:
		u.typ, u.len = TypeList, int(u.readUint16())
	case marker == markerList32:
		u.typ, u.len = TypeList, int(u.readUint32())
	case marker&0xF0 == markerTinyMap:
		u.typ, u.len = TypeMap, int(marker&0x0F)
	case marker == markerMap8:
		u.typ, u.len = TypeMap, int(u.readByte())
	case marker == markerMap16:
		u.typ, u.len = TypeMap, int(u.readUint16())
	case marker == markerMap32:
		u.typ, u.len = TypeMap, int(u.readUint32())
	case marker&0xF0 == markerTinyStruct:
		u.typ, u.len = TypeStruct, int(marker&0x0F)
		u.tag = u.readByte()
	case marker == markerStruct8:
		u.typ = TypeStruct
		u.len = int(u.readByte())
		u.tag = u.readByte()
	case marker == markerStruct16:
		u.typ = TypeStruct
		u.len = int(u.readUint16())
		u.tag = u.readByte()
	default:
		u.fail(fmt.Errorf("packstream: unknown marker 0x%x", marker))
	}
}

// Type reports the kind of value Next() just positioned the unpacker on.
func (u *Unpacker) Type() ItemType {
	return u.typ
}

// Len reports the byte length of a string/byte-array value, the element
// count of a list, the pair count of a map, or the field count of a
// struct.
func (u *Unpacker) Len() int {
	return u.len
}

// StructTag reports the signature byte of the struct Next() positioned
// the unpacker on.
func (u *Unpacker) StructTag() byte {
	return u.tag
}

// Int returns the current integer value.
func (u *Unpacker) Int() int64 {
	return u.iVal
}

// Float returns the current float value.
func (u *Unpacker) Float() float64 {
	return u.fVal
}

// Bool returns the current boolean value.
func (u *Unpacker) Bool() bool {
	return u.bVal
}

// String returns the current string value.
func (u *Unpacker) String() string {
	return u.sVal
}

// ByteArray returns the current byte-array value.
func (u *Unpacker) ByteArray() []byte {
	return []byte(u.sVal)
}

// Skip advances past the value Next() just positioned on, recursing
// into lists, maps and struct fields, without building a representation
// of it. Used to discard fields a hydrator doesn't recognize.
func (u *Unpacker) Skip() {
	switch u.typ {
	case TypeList:
		n := u.len
		for i := 0; i < n; i++ {
			u.Next()
			u.Skip()
		}
	case TypeMap:
		n := u.len
		for i := 0; i < n; i++ {
			u.Next() // key
			u.Skip()
			u.Next() // value
			u.Skip()
		}
	case TypeStruct:
		n := u.len
		for i := 0; i < n; i++ {
			u.Next()
			u.Skip()
		}
	}
}
