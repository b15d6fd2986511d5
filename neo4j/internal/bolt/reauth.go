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
	"github.com/neo4j-go-bolt/bolt-core/neo4j/auth"
	"github.com/neo4j-go-bolt/bolt-core/neo4j/db"
	idb "github.com/neo4j-go-bolt/bolt-core/neo4j/internal/db"
)

// checkReAuthSupport rejects a session-scoped credential change on a
// connection whose negotiated capability set predates LOGOFF/LOGON.
// Pool-driven token refreshes (FromSession false) pass through: they
// are serviced by tearing the connection down instead.
func checkReAuthSupport(reauth idb.ReAuthToken, caps CapabilitySet, serverName string) error {
	if !reauth.FromSession {
		return nil
	}
	if !caps.Reauth {
		return &db.FeatureNotSupportedError{
			Server:  serverName,
			Feature: "session auth",
			Reason:  "requires at least server v5.1",
		}
	}
	return nil
}

// sameCredentials reports whether two tokens carry the same identity:
// scheme, principal and credentials. Extra fields (realm, parameters)
// don't participate; a server that accepted one will accept the other.
func sameCredentials(a, b auth.Token) bool {
	return a.Tokens["scheme"] == b.Tokens["scheme"] &&
		a.Tokens["principal"] == b.Tokens["principal"] &&
		a.Tokens["credentials"] == b.Tokens["credentials"]
}
