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

// Package auth builds the credential tokens sent in HELLO/LOGON and
// models the token-refresh contract used for reauthentication.
package auth

import "context"

const (
	keyScheme      = "scheme"
	keyPrincipal   = "principal"
	keyCredentials = "credentials"
	keyRealm       = "realm"
	keyParameters  = "parameters"

	schemeNone     = "none"
	schemeBasic    = "basic"
	schemeKerberos = "kerberos"
)

// Token is the credential map merged into HELLO (protocol < 5.1) or sent
// standalone in LOGON (protocol >= 5.1).
type Token struct {
	Tokens map[string]any
}

// NoAuth returns a token for servers with authentication disabled.
func NoAuth() Token {
	return Token{Tokens: map[string]any{keyScheme: schemeNone}}
}

// BasicAuth returns a username/password token, optionally scoped to a
// realm.
func BasicAuth(username, password, realm string) Token {
	tokens := map[string]any{
		keyScheme:      schemeBasic,
		keyPrincipal:   username,
		keyCredentials: password,
	}
	if realm != "" {
		tokens[keyRealm] = realm
	}
	return Token{Tokens: tokens}
}

// KerberosAuth returns a token carrying a Kerberos service ticket as the
// opaque credentials field.
func KerberosAuth(ticket string) Token {
	return Token{Tokens: map[string]any{
		keyScheme:      schemeKerberos,
		keyPrincipal:   "",
		keyCredentials: ticket,
	}}
}

// CustomAuth returns a token for an arbitrary server-side auth scheme,
// with free-form extra parameters.
func CustomAuth(scheme, username, password, realm string, parameters map[string]any) Token {
	tokens := map[string]any{
		keyScheme:      scheme,
		keyPrincipal:   username,
		keyCredentials: password,
	}
	if realm != "" {
		tokens[keyRealm] = realm
	}
	if parameters != nil {
		tokens[keyParameters] = parameters
	}
	return Token{Tokens: tokens}
}

// TokenManager supplies (and refreshes) auth tokens independently of
// connection lifecycle, so a long-lived pool can rotate credentials
// without tearing connections down.
type TokenManager interface {
	GetAuthToken(ctx context.Context) (Token, error)
	OnTokenExpired(ctx context.Context, token Token)
}

// ExpirationBasedTokenManager wraps a provider function that produces a
// fresh token together with its expected lifetime. GetAuthToken calls the
// provider on every call and returns its token; the reported expiry is
// not consulted, nothing is cached, and OnTokenExpired does nothing.
type ExpirationBasedTokenManager struct {
	provide func(ctx context.Context) (Token, *int64, error)
}

// NewExpirationBasedTokenManager builds an ExpirationBasedTokenManager
// from a provider returning a token and an optional expiry in Unix
// milliseconds.
func NewExpirationBasedTokenManager(provide func(ctx context.Context) (Token, *int64, error)) *ExpirationBasedTokenManager {
	return &ExpirationBasedTokenManager{provide: provide}
}

func (m *ExpirationBasedTokenManager) GetAuthToken(ctx context.Context) (Token, error) {
	token, _, err := m.provide(ctx)
	return token, err
}

func (m *ExpirationBasedTokenManager) OnTokenExpired(context.Context, Token) {}
