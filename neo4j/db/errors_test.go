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

package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeo4jErrorClassification(t *testing.T) {
	cases := []struct {
		code string
		kind string
	}{
		{"Neo.ClientError.Security.Unauthorized", "Authentication"},
		{"Neo.ClientError.Security.AuthenticationRateLimit", "Authentication"},
		{"Neo.ClientError.Security.Forbidden", "Security"},
		{"Neo.ClientError.Statement.SyntaxError", "Syntax"},
		{"Neo.ClientError.Statement.TypeError", "Database"},
		{"Neo.ClientError.Schema.ConstraintValidationFailed", "Constraint"},
		{"Neo.ClientError.Schema.IndexNotFound", "Database"},
		{"Neo.ClientError.Transaction.TransactionNotFound", "Transaction"},
		{"Neo.ClientError.Request.Invalid", "Protocol"},
		{"Neo.ClientError.Database.DatabaseNotFound", "Database"},
		{"Neo.TransientError.General.DatabaseUnavailable", "Transient"},
		{"Neo.DatabaseError.General.UnknownError", "Database"},
		{"Neo.SomethingNew.General.Whatever", "Unknown"},
		{"garbage", "Unknown"},
		{"", "Unknown"},
	}
	for _, c := range cases {
		err := NewNeo4jError(c.code, "msg")
		assert.Equal(t, c.kind, err.Kind, "code %q", c.code)
	}
}

func TestNeo4jErrorMessageLeadsWithKind(t *testing.T) {
	err := NewNeo4jError("Neo.ClientError.Statement.SyntaxError", "Invalid syntax near RETUR")
	assert.True(t, strings.HasPrefix(err.Error(), "Syntax error: Invalid syntax near RETUR"))

	err = NewNeo4jError("Neo.ClientError.Security.Unauthorized", "bad credentials")
	assert.True(t, strings.HasPrefix(err.Error(), "Authentication error:"))
	assert.True(t, err.IsAuthenticationFailed())
}

func TestNeo4jErrorRetriable(t *testing.T) {
	assert.True(t, NewNeo4jError("Neo.TransientError.General.DatabaseUnavailable", "down").IsRetriable())
	assert.False(t, NewNeo4jError("Neo.ClientError.Statement.SyntaxError", "oops").IsRetriable())
}

func TestNeo4jErrorClassificationAccessor(t *testing.T) {
	assert.Equal(t, "ClientError", NewNeo4jError("Neo.ClientError.Statement.SyntaxError", "").Classification())
	assert.Equal(t, "TransientError", NewNeo4jError("Neo.TransientError.General.DatabaseUnavailable", "").Classification())
	assert.Equal(t, "", NewNeo4jError("garbage", "").Classification())
}

func TestLocalErrorMessages(t *testing.T) {
	assert.Equal(t, "connection error: refused", (&ConnectionError{Msg: "refused"}).Error())
	assert.Equal(t, "protocol error: bad frame", (&ProtocolError{Err: "bad frame"}).Error())
	assert.Equal(t, "protocol error decoding success: expected a map", (&ProtocolError{MessageType: "success", Err: "expected a map"}).Error())
	assert.Equal(t, "usage error: wrong state", (&UsageError{Msg: "wrong state"}).Error())
}
