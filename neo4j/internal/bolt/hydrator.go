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
	"strconv"
	"time"

	"github.com/neo4j-go-bolt/bolt-core/neo4j/db"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/dbtype"
	idb "github.com/neo4j-go-bolt/bolt-core/neo4j/internal/db"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/internal/packstream"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/log"
)

const (
	structPoint2D                = 'X'
	structPoint3D                = 'Y'
	structNode                   = 'N'
	structRel                    = 'R'
	structUnboundRel             = 'r'
	structPath                   = 'P'
	structDate                   = 'D'
	structTime                   = 'T'
	structLocalTime              = 't'
	structLocalDateTime          = 'd'
	structLegacyDateTimeOffset   = 'F'
	structLegacyDateTimeZoneName = 'f'
	structUtcDateTimeOffset      = 'I'
	structUtcDateTimeZoneName    = 'i'
	structDuration               = 'E'
)

// hydrator turns the raw bytes of one dechunked message into the Go
// value the rest of the connection operates on: a *success, *ignored, a
// *db.Neo4jError, or a *db.Record. It is reused across every message on
// a connection, so boltMajor/useUtc (fixed once the version and HELLO
// patches are known) persist across calls while err resets per call and
// cachedSuccess holds the most recently decoded SUCCESS.
type hydrator struct {
	boltMajor     byte
	useUtc        bool
	boltLogger    log.BoltLogger
	unpacker      packstream.Unpacker
	err           error
	cachedSuccess *success
}

func (h *hydrator) fail(err error) {
	if h.err == nil {
		h.err = err
	}
}

func (h *hydrator) trace(name string, args ...any) {
	if h.boltLogger == nil {
		return
	}
	h.boltLogger.LogServerMessage(name, "%v", args)
}

// hydrate decodes one message from buf.
func (h *hydrator) hydrate(buf []byte) (any, error) {
	h.err = nil
	h.unpacker.Reset(buf)
	h.unpacker.Next()
	if h.unpacker.Type() != packstream.TypeStruct {
		return nil, &db.ProtocolError{Err: "expected a message struct"}
	}
	tag := h.unpacker.StructTag()
	n := h.unpacker.Len()

	switch tag {
	case msgIgnored:
		if n != 0 {
			return nil, &db.ProtocolError{MessageType: "ignored", Err: fmt.Sprintf("Invalid length of struct, expected 0 but was %d", n)}
		}
		h.trace("IGNORED")
		return &ignored{}, nil
	case msgFailure:
		if n != 1 {
			return nil, &db.ProtocolError{MessageType: "failure", Err: fmt.Sprintf("Invalid length of struct, expected 1 but was %d", n)}
		}
		h.unpacker.Next()
		meta := h.hydrateMap()
		if h.err != nil {
			return nil, h.err
		}
		code, _ := meta["code"].(string)
		message, _ := meta["message"].(string)
		h.trace("FAILURE", code, message)
		return db.NewNeo4jError(code, message), nil
	case msgSuccess:
		if n != 1 {
			return nil, &db.ProtocolError{MessageType: "success", Err: fmt.Sprintf("Invalid length of struct, expected 1 but was %d", n)}
		}
		h.unpacker.Next()
		s := h.hydrateSuccess()
		if h.err != nil {
			return nil, h.err
		}
		h.cachedSuccess = s
		h.trace("SUCCESS", s)
		return s, nil
	case msgRecord:
		if n != 1 {
			return nil, &db.ProtocolError{MessageType: "record", Err: fmt.Sprintf("Invalid length of struct, expected 1 but was %d", n)}
		}
		h.unpacker.Next()
		values := h.hydrateArray()
		if h.err != nil {
			return nil, h.err
		}
		h.trace("RECORD", values)
		return &db.Record{Values: values}, nil
	default:
		return nil, &db.ProtocolError{Err: fmt.Sprintf("Received unknown message tag: %d", tag)}
	}
}

// hydrateSuccess decodes the metadata map of a SUCCESS response, current
// item being the map (Next() already called).
func (h *hydrator) hydrateSuccess() *success {
	s := newSuccess()
	if h.unpacker.Type() != packstream.TypeMap {
		h.fail(&db.ProtocolError{MessageType: "success", Err: "expected a map"})
		return s
	}
	n := h.unpacker.Len()
	s.num = n
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		key := h.unpacker.String()
		h.unpacker.Next()
		switch key {
		case "fields":
			arr := h.hydrateArray()
			s.fields = make([]string, len(arr))
			for i, f := range arr {
				s.fields[i], _ = f.(string)
			}
		case "t_first":
			s.tfirst = h.unpacker.Int()
		case "t_last":
			s.tlast = h.unpacker.Int()
		case "qid":
			s.qid = h.unpacker.Int()
		case "has_more":
			s.hasMore = h.unpacker.Bool()
		case "bookmark":
			s.bookmark = h.unpacker.String()
		case "db":
			s.db = h.unpacker.String()
		case "connection_id":
			s.connectionId = h.unpacker.String()
		case "server":
			s.server = h.unpacker.String()
		case "type":
			switch h.unpacker.String() {
			case "r":
				s.qtype = db.StatementTypeRead
			case "w":
				s.qtype = db.StatementTypeWrite
			case "rw":
				s.qtype = db.StatementTypeReadWrite
			case "s":
				s.qtype = db.StatementTypeSchemaWrite
			}
		case "plan":
			plan := h.hydratePlan()
			s.plan = &plan
		case "profile":
			profile := h.hydrateProfile()
			s.profile = &profile
		case "stats":
			s.counters = h.hydrateCounters()
		case "notifications":
			s.notifications = h.hydrateNotifications()
		case "rt":
			s.routingTable = h.hydrateRoutingTable()
		case "hints":
			s.hints = h.hydrateMap()
		case "patch_bolt":
			arr := h.hydrateArray()
			s.patches = make([]string, len(arr))
			for i, p := range arr {
				s.patches[i], _ = p.(string)
			}
		default:
			h.skipValue()
		}
	}
	return s
}

func (h *hydrator) hydratePlan() db.Plan {
	p := db.Plan{Children: []db.Plan{}}
	if h.unpacker.Type() != packstream.TypeMap {
		h.fail(&db.ProtocolError{MessageType: "plan", Err: "expected a map"})
		return p
	}
	n := h.unpacker.Len()
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		key := h.unpacker.String()
		h.unpacker.Next()
		switch key {
		case "operatorType":
			p.Operator = h.unpacker.String()
		case "identifiers":
			arr := h.hydrateArray()
			p.Identifiers = make([]string, len(arr))
			for i, v := range arr {
				p.Identifiers[i], _ = v.(string)
			}
		case "args":
			p.Arguments = h.hydrateMap()
		case "children":
			childCount := h.unpacker.Len()
			p.Children = make([]db.Plan, 0, childCount)
			for c := 0; c < childCount; c++ {
				h.unpacker.Next()
				p.Children = append(p.Children, h.hydratePlan())
			}
		default:
			h.skipValue()
		}
	}
	return p
}

func (h *hydrator) hydrateProfile() db.ProfiledPlan {
	p := db.ProfiledPlan{Children: []db.ProfiledPlan{}}
	if h.unpacker.Type() != packstream.TypeMap {
		h.fail(&db.ProtocolError{MessageType: "profile", Err: "expected a map"})
		return p
	}
	n := h.unpacker.Len()
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		key := h.unpacker.String()
		h.unpacker.Next()
		switch key {
		case "operatorType":
			p.Operator = h.unpacker.String()
		case "identifiers":
			arr := h.hydrateArray()
			p.Identifiers = make([]string, len(arr))
			for i, v := range arr {
				p.Identifiers[i], _ = v.(string)
			}
		case "args":
			p.Arguments = h.hydrateMap()
		case "dbHits":
			p.DbHits = h.unpacker.Int()
		case "rows":
			p.Records = h.unpacker.Int()
		case "children":
			childCount := h.unpacker.Len()
			p.Children = make([]db.ProfiledPlan, 0, childCount)
			for c := 0; c < childCount; c++ {
				h.unpacker.Next()
				p.Children = append(p.Children, h.hydrateProfile())
			}
		default:
			h.skipValue()
		}
	}
	return p
}

// hydrateCounters reads the "stats" map of update counts off a final
// SUCCESS, keeping only integer-valued entries.
func (h *hydrator) hydrateCounters() map[string]int64 {
	n := h.unpacker.Len()
	out := make(map[string]int64, n)
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		key := h.unpacker.String()
		h.unpacker.Next()
		if h.unpacker.Type() == packstream.TypeInt {
			out[key] = h.unpacker.Int()
		} else {
			h.skipValue()
		}
	}
	return out
}

func (h *hydrator) hydrateNotifications() []db.Notification {
	n := h.unpacker.Len()
	out := make([]db.Notification, 0, n)
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		out = append(out, h.hydrateNotification())
	}
	return out
}

func (h *hydrator) hydrateNotification() db.Notification {
	var note db.Notification
	n := h.unpacker.Len()
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		key := h.unpacker.String()
		h.unpacker.Next()
		switch key {
		case "code":
			note.Code = h.unpacker.String()
		case "title":
			note.Title = h.unpacker.String()
		case "description":
			note.Description = h.unpacker.String()
		case "severity":
			note.Severity = h.unpacker.String()
		case "category":
			note.Category = h.unpacker.String()
		case "position":
			pos := h.hydratePosition()
			note.Position = &pos
		default:
			h.skipValue()
		}
	}
	return note
}

func (h *hydrator) hydratePosition() db.InputPosition {
	var pos db.InputPosition
	n := h.unpacker.Len()
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		key := h.unpacker.String()
		h.unpacker.Next()
		switch key {
		case "offset":
			pos.Offset = int(h.unpacker.Int())
		case "line":
			pos.Line = int(h.unpacker.Int())
		case "column":
			pos.Column = int(h.unpacker.Int())
		default:
			h.skipValue()
		}
	}
	return pos
}

func (h *hydrator) hydrateRoutingTable() *idb.RoutingTable {
	rt := &idb.RoutingTable{}
	n := h.unpacker.Len()
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		key := h.unpacker.String()
		h.unpacker.Next()
		switch key {
		case "ttl":
			rt.TimeToLive = int(h.unpacker.Int())
		case "db":
			rt.DatabaseName = h.unpacker.String()
		case "servers":
			count := h.unpacker.Len()
			for s := 0; s < count; s++ {
				h.unpacker.Next()
				h.hydrateServerEntry(rt)
			}
		default:
			h.skipValue()
		}
	}
	return rt
}

func (h *hydrator) hydrateServerEntry(rt *idb.RoutingTable) {
	n := h.unpacker.Len()
	var role string
	var addresses []string
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		key := h.unpacker.String()
		h.unpacker.Next()
		switch key {
		case "role":
			role = h.unpacker.String()
		case "addresses":
			arr := h.hydrateArray()
			addresses = make([]string, len(arr))
			for i, v := range arr {
				addresses[i], _ = v.(string)
			}
		default:
			h.skipValue()
		}
	}
	switch role {
	case "ROUTE":
		rt.Routers = addresses
	case "READ":
		rt.Readers = addresses
	case "WRITE":
		rt.Writers = addresses
	}
}

// skipValue discards the value Next() just positioned on, used for
// metadata/property fields this hydrator doesn't recognize.
func (h *hydrator) skipValue() {
	h.unpacker.Skip()
}

// hydrateValue decodes the value Next() just positioned the unpacker on
// into the Go representation used throughout this core.
func (h *hydrator) hydrateValue() any {
	switch h.unpacker.Type() {
	case packstream.TypeNull:
		return nil
	case packstream.TypeBool:
		return h.unpacker.Bool()
	case packstream.TypeInt:
		return h.unpacker.Int()
	case packstream.TypeFloat:
		return h.unpacker.Float()
	case packstream.TypeString:
		return h.unpacker.String()
	case packstream.TypeByteArray:
		return h.unpacker.ByteArray()
	case packstream.TypeList:
		return h.hydrateArray()
	case packstream.TypeMap:
		return h.hydrateMap()
	case packstream.TypeStruct:
		return h.hydrateStruct()
	default:
		h.fail(&db.ProtocolError{Err: "unable to decode value"})
		return nil
	}
}

func (h *hydrator) hydrateArray() []any {
	n := h.unpacker.Len()
	out := make([]any, n)
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		out[i] = h.hydrateValue()
	}
	return out
}

func (h *hydrator) hydrateMap() map[string]any {
	n := h.unpacker.Len()
	out := make(map[string]any, n)
	for i := 0; i < n; i++ {
		h.unpacker.Next()
		key := h.unpacker.String()
		h.unpacker.Next()
		out[key] = h.hydrateValue()
	}
	return out
}

func (h *hydrator) hydrateStruct() any {
	tag := h.unpacker.StructTag()
	switch tag {
	case structPoint2D:
		return h.hydratePoint2D()
	case structPoint3D:
		return h.hydratePoint3D()
	case structNode:
		return h.hydrateNode()
	case structRel:
		return h.hydrateRelationship()
	case structUnboundRel:
		return h.hydrateUnboundRel()
	case structPath:
		return h.hydratePath()
	case structDate:
		return h.hydrateDate()
	case structTime:
		return h.hydrateTime()
	case structLocalTime:
		return h.hydrateLocalTime()
	case structLocalDateTime:
		return h.hydrateLocalDateTime()
	case structDuration:
		return h.hydrateDuration()
	case structLegacyDateTimeOffset:
		if h.useUtc {
			h.fail(&db.ProtocolError{Err: fmt.Sprintf("Received unknown struct tag: %d", tag)})
			return nil
		}
		return h.hydrateDateTimeOffset(false)
	case structLegacyDateTimeZoneName:
		if h.useUtc {
			h.fail(&db.ProtocolError{Err: fmt.Sprintf("Received unknown struct tag: %d", tag)})
			return nil
		}
		return h.hydrateDateTimeZoneName(false)
	case structUtcDateTimeOffset:
		if !h.useUtc {
			h.fail(&db.ProtocolError{Err: fmt.Sprintf("Received unknown struct tag: %d", tag)})
			return nil
		}
		return h.hydrateDateTimeOffset(true)
	case structUtcDateTimeZoneName:
		if !h.useUtc {
			h.fail(&db.ProtocolError{Err: fmt.Sprintf("Received unknown struct tag: %d", tag)})
			return nil
		}
		return h.hydrateDateTimeZoneName(true)
	default:
		h.fail(&db.ProtocolError{Err: fmt.Sprintf("Received unknown struct tag: %d", tag)})
		return nil
	}
}

func (h *hydrator) hydratePoint2D() dbtype.Point2D {
	h.unpacker.Next()
	srid := h.unpacker.Int()
	h.unpacker.Next()
	x := h.unpacker.Float()
	h.unpacker.Next()
	y := h.unpacker.Float()
	return dbtype.Point2D{SpatialRefId: uint32(srid), X: x, Y: y}
}

func (h *hydrator) hydratePoint3D() dbtype.Point3D {
	h.unpacker.Next()
	srid := h.unpacker.Int()
	h.unpacker.Next()
	x := h.unpacker.Float()
	h.unpacker.Next()
	y := h.unpacker.Float()
	h.unpacker.Next()
	z := h.unpacker.Float()
	return dbtype.Point3D{SpatialRefId: uint32(srid), X: x, Y: y, Z: z}
}

func (h *hydrator) hydrateNode() dbtype.Node {
	n := h.unpacker.Len()
	h.unpacker.Next()
	id := h.unpacker.Int()
	h.unpacker.Next()
	labelValues := h.hydrateArray()
	labels := make([]string, len(labelValues))
	for i, v := range labelValues {
		labels[i], _ = v.(string)
	}
	h.unpacker.Next()
	props := h.hydrateMap()
	elementId := strconv.FormatInt(id, 10)
	if n >= 4 {
		h.unpacker.Next()
		elementId = h.unpacker.String()
	}
	return dbtype.Node{Id: id, ElementId: elementId, Labels: labels, Props: props}
}

func (h *hydrator) hydrateRelationship() dbtype.Relationship {
	n := h.unpacker.Len()
	h.unpacker.Next()
	id := h.unpacker.Int()
	h.unpacker.Next()
	startId := h.unpacker.Int()
	h.unpacker.Next()
	endId := h.unpacker.Int()
	h.unpacker.Next()
	relType := h.unpacker.String()
	h.unpacker.Next()
	props := h.hydrateMap()
	elementId := strconv.FormatInt(id, 10)
	startElementId := strconv.FormatInt(startId, 10)
	endElementId := strconv.FormatInt(endId, 10)
	if n >= 8 {
		h.unpacker.Next()
		elementId = h.unpacker.String()
		h.unpacker.Next()
		startElementId = h.unpacker.String()
		h.unpacker.Next()
		endElementId = h.unpacker.String()
	}
	return dbtype.Relationship{
		Id: id, ElementId: elementId,
		StartId: startId, StartElementId: startElementId,
		EndId: endId, EndElementId: endElementId,
		Type: relType, Props: props,
	}
}

func (h *hydrator) hydrateUnboundRel() *relNode {
	n := h.unpacker.Len()
	h.unpacker.Next()
	id := h.unpacker.Int()
	h.unpacker.Next()
	name := h.unpacker.String()
	h.unpacker.Next()
	props := h.hydrateMap()
	elementId := strconv.FormatInt(id, 10)
	if n >= 4 {
		h.unpacker.Next()
		elementId = h.unpacker.String()
	}
	return &relNode{id: id, elementId: elementId, name: name, props: props}
}

func (h *hydrator) hydratePath() dbtype.Path {
	h.unpacker.Next()
	nodeCount := h.unpacker.Len()
	nodes := make([]dbtype.Node, nodeCount)
	for i := 0; i < nodeCount; i++ {
		h.unpacker.Next()
		nodes[i] = h.hydrateNode()
	}
	h.unpacker.Next()
	relCount := h.unpacker.Len()
	relNodes := make([]*relNode, relCount)
	for i := 0; i < relCount; i++ {
		h.unpacker.Next()
		relNodes[i] = h.hydrateUnboundRel()
	}
	h.unpacker.Next()
	idxValues := h.hydrateArray()
	indexes := make([]int, len(idxValues))
	for i, v := range idxValues {
		n, _ := v.(int64)
		indexes[i] = int(n)
	}
	return buildPath(nodes, relNodes, indexes)
}

func (h *hydrator) hydrateDate() dbtype.Date {
	h.unpacker.Next()
	days := h.unpacker.Int()
	return dbtype.Date(time.Unix(days*86400, 0).UTC())
}

func nanosOfDayToClock(nanos int64) (hour, min, sec, nsec int) {
	d := time.Duration(nanos)
	hour = int(d / time.Hour)
	d -= time.Duration(hour) * time.Hour
	min = int(d / time.Minute)
	d -= time.Duration(min) * time.Minute
	sec = int(d / time.Second)
	d -= time.Duration(sec) * time.Second
	nsec = int(d)
	return
}

func (h *hydrator) hydrateTime() dbtype.Time {
	h.unpacker.Next()
	nanos := h.unpacker.Int()
	h.unpacker.Next()
	offset := h.unpacker.Int()
	hr, mi, se, ns := nanosOfDayToClock(nanos)
	return dbtype.Time(time.Date(0, 0, 0, hr, mi, se, ns, time.FixedZone("Offset", int(offset))))
}

func (h *hydrator) hydrateLocalTime() dbtype.LocalTime {
	h.unpacker.Next()
	nanos := h.unpacker.Int()
	hr, mi, se, ns := nanosOfDayToClock(nanos)
	return dbtype.LocalTime(time.Date(0, 0, 0, hr, mi, se, ns, time.Local))
}

// epochComponents reconstructs calendar fields by treating (sec, nsec)
// as a UTC instant, independent of the zone the caller will ultimately
// stamp onto those fields — the wire format always reports local wall
// time plus a separate zone, not a true UTC instant to convert.
func epochComponents(sec, nsec int64) (y int, mo time.Month, d, hr, mi, se, ns int) {
	t := time.Unix(sec, nsec).UTC()
	return t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond()
}

func (h *hydrator) hydrateLocalDateTime() dbtype.LocalDateTime {
	h.unpacker.Next()
	sec := h.unpacker.Int()
	h.unpacker.Next()
	nsec := h.unpacker.Int()
	y, mo, d, hr, mi, se, ns := epochComponents(sec, nsec)
	return dbtype.LocalDateTime(time.Date(y, mo, d, hr, mi, se, ns, time.Local))
}

// hydrateDateTimeOffset decodes a zoned datetime with a fixed offset.
// The UTC shape carries a true epoch instant; the legacy shape instead
// carries the local wall-clock fields packed as if they were UTC, so
// the components are re-stamped onto the offset zone without shifting.
func (h *hydrator) hydrateDateTimeOffset(utc bool) time.Time {
	h.unpacker.Next()
	sec := h.unpacker.Int()
	h.unpacker.Next()
	nsec := h.unpacker.Int()
	h.unpacker.Next()
	offset := h.unpacker.Int()
	zone := time.FixedZone("Offset", int(offset))
	if utc {
		return time.Unix(sec, nsec).In(zone)
	}
	y, mo, d, hr, mi, se, ns := epochComponents(sec, nsec)
	return time.Date(y, mo, d, hr, mi, se, ns, zone)
}

func (h *hydrator) hydrateDateTimeZoneName(utc bool) any {
	h.unpacker.Next()
	sec := h.unpacker.Int()
	h.unpacker.Next()
	nsec := h.unpacker.Int()
	h.unpacker.Next()
	zoneName := h.unpacker.String()
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		msg := "dateTimeNamedZone"
		if utc {
			msg = "utcDateTimeNamedZone"
		}
		return &dbtype.InvalidValue{Message: msg, Err: fmt.Errorf("unknown time zone %s", zoneName)}
	}
	if utc {
		return time.Unix(sec, nsec).In(loc)
	}
	y, mo, d, hr, mi, se, ns := epochComponents(sec, nsec)
	return time.Date(y, mo, d, hr, mi, se, ns, loc)
}

func (h *hydrator) hydrateDuration() dbtype.Duration {
	h.unpacker.Next()
	months := h.unpacker.Int()
	h.unpacker.Next()
	days := h.unpacker.Int()
	h.unpacker.Next()
	seconds := h.unpacker.Int()
	h.unpacker.Next()
	nanos := h.unpacker.Int()
	return dbtype.Duration{Months: months, Days: days, Seconds: seconds, Nanos: nanos}
}
