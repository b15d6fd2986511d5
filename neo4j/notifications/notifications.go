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

// Package notifications models the HELLO/BEGIN/RUN "extra" options that
// filter which server notifications a connection wants to receive
// (spec §4.4; accepted in HELLO from 5.1 and in BEGIN/RUN from 5.2, with
// the categories vs classifications split at >= 5.5).
package notifications

// NotificationMinimumSeverityLevel is the lowest severity of notification
// the server should report.
type NotificationMinimumSeverityLevel string

const (
	DefaultLevel     NotificationMinimumSeverityLevel = ""
	OffLevel         NotificationMinimumSeverityLevel = "OFF"
	WarningLevel     NotificationMinimumSeverityLevel = "WARNING"
	InformationLevel NotificationMinimumSeverityLevel = "INFORMATION"
)

// NotificationDisabledCategories is the pre-5.5 wire shape: a set of
// category names to suppress, or "disables none" to request no filtering.
type NotificationDisabledCategories struct {
	disableNone bool
	categories  []string
}

// NotificationDisabledClassifications is the >=5.5 wire shape. The server
// renamed "categories" to "classifications"; the set of values is the
// same, only the extra-map key and the Go accessor name differ.
type NotificationDisabledClassifications struct {
	disableNone     bool
	classifications []string
}

// DisableCategories returns a filter that suppresses the given categories.
func DisableCategories(categories ...string) NotificationDisabledCategories {
	return NotificationDisabledCategories{categories: categories}
}

// DisableNoNotificationCategories returns a filter that explicitly
// requests no categories be disabled (distinct from "no filter
// configured": it always emits an empty disabled-categories list).
func DisableNoNotificationCategories() NotificationDisabledCategories {
	return NotificationDisabledCategories{disableNone: true}
}

func (c NotificationDisabledCategories) DisablesNone() bool {
	return c.disableNone
}

func (c NotificationDisabledCategories) DisabledCategories() []string {
	return c.categories
}

// DisableClassifications returns a filter that suppresses the given
// classifications.
func DisableClassifications(classifications ...string) NotificationDisabledClassifications {
	return NotificationDisabledClassifications{classifications: classifications}
}

// DisableNoNotificationClassifications mirrors
// DisableNoNotificationCategories for the >=5.5 wire shape.
func DisableNoNotificationClassifications() NotificationDisabledClassifications {
	return NotificationDisabledClassifications{disableNone: true}
}

func (c NotificationDisabledClassifications) DisablesNone() bool {
	return c.disableNone
}

func (c NotificationDisabledClassifications) DisabledClassifications() []string {
	return c.classifications
}
