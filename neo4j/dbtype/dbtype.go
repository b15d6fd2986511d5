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

// Package dbtype contains the Go representation of the Cypher/Bolt value
// types that do not map onto a builtin Go type: graph entities, spatial
// types and the temporal family that needs to carry more than time.Time can.
package dbtype

import (
	"fmt"
	"time"
)

// Node represents a node in the graph.
type Node struct {
	// Id is kept for backwards compatibility, use ElementId instead.
	Id        int64
	ElementId string
	Labels    []string
	Props     map[string]any
}

// Relationship represents a relationship in the graph.
type Relationship struct {
	Id             int64
	ElementId      string
	StartId        int64
	StartElementId string
	EndId          int64
	EndElementId   string
	Type           string
	Props          map[string]any
}

// Path represents a path in the graph: an alternating sequence of nodes and
// relationships, always starting and ending with a node.
type Path struct {
	Nodes         []Node
	Relationships []Relationship
}

// Point2D represents a two-dimensional point in a given spatial reference
// system.
type Point2D struct {
	SpatialRefId uint32
	X, Y         float64
}

func (p Point2D) String() string {
	return fmt.Sprintf("Point{srId=%d, x=%f, y=%f}", p.SpatialRefId, p.X, p.Y)
}

// Point3D represents a three-dimensional point in a given spatial reference
// system.
type Point3D struct {
	SpatialRefId uint32
	X, Y, Z      float64
}

func (p Point3D) String() string {
	return fmt.Sprintf("Point{srId=%d, x=%f, y=%f, z=%f}", p.SpatialRefId, p.X, p.Y, p.Z)
}

// Date represents a date without a time zone or time-of-day component.
type Date time.Time

func (d Date) String() string {
	return time.Time(d).Format("2006-01-02")
}

// Time represents a time of day with a time zone offset, without a date.
type Time time.Time

func (t Time) String() string {
	return time.Time(t).Format("15:04:05.999999999Z07:00")
}

// LocalTime represents a time of day without a time zone, without a date.
type LocalTime time.Time

func (t LocalTime) String() string {
	return time.Time(t).Format("15:04:05.999999999")
}

// LocalDateTime represents a date and time without a time zone.
type LocalDateTime time.Time

func (t LocalDateTime) String() string {
	return time.Time(t).Format("2006-01-02T15:04:05.999999999")
}

// Duration represents a temporal amount containing months, days, seconds
// and nanoseconds. Unlike time.Duration it is not reducible to a single
// number of nanoseconds because months and days vary in length.
type Duration struct {
	Months  int64
	Days    int64
	Seconds int64
	Nanos   int64
}

func (d Duration) String() string {
	return fmt.Sprintf("Duration{months=%d, days=%d, seconds=%d, nanos=%d}",
		d.Months, d.Days, d.Seconds, d.Nanos)
}

// InvalidValue is returned in place of a record value that could not be
// hydrated, typically due to a malformed or unsupported temporal encoding.
// Keeping the record flowing with a typed placeholder instead of aborting
// the whole stream lets a caller inspect the rest of the row.
type InvalidValue struct {
	Message string
	Err     error
}

func (i *InvalidValue) Error() string {
	return fmt.Sprintf("invalid value (%s): %s", i.Message, i.Err)
}

func (i *InvalidValue) Unwrap() error {
	return i.Err
}
