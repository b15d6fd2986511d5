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

package log

import (
	"fmt"

	"github.com/rs/zerolog"
)

// zerologAdapter backs Logger with a github.com/rs/zerolog sink, the
// logging library used by real-world callers of this driver stack.
type zerologAdapter struct {
	z zerolog.Logger
}

// ToLogger adapts a zerolog.Logger to the Logger interface the core uses.
func ToLogger(z zerolog.Logger) Logger {
	return &zerologAdapter{z: z}
}

func (a *zerologAdapter) Error(name string, id string, err error) {
	a.z.Error().Str("component", name).Str("connection", id).Err(err).Send()
}

func (a *zerologAdapter) Warnf(name string, id string, msg string, args ...any) {
	a.z.Warn().Str("component", name).Str("connection", id).Msg(fmt.Sprintf(msg, args...))
}

func (a *zerologAdapter) Infof(name string, id string, msg string, args ...any) {
	a.z.Info().Str("component", name).Str("connection", id).Msg(fmt.Sprintf(msg, args...))
}

func (a *zerologAdapter) Debugf(name string, id string, msg string, args ...any) {
	a.z.Debug().Str("component", name).Str("connection", id).Msg(fmt.Sprintf(msg, args...))
}
