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
	"crypto/sha1"
	"crypto/x509"
	"encoding/hex"
	"fmt"
	"strings"
)

// CertValidator decides whether to trust the leaf certificate a server
// presented during the TLS handshake. It is only consulted when
// standard chain verification has been replaced by a custom policy;
// leaving TransportConfig.CertValidator nil keeps the system-root
// verification built into crypto/tls.
type CertValidator interface {
	Validate(hostname string, port int, leaf *x509.Certificate) error
}

// certFingerprint renders the SHA-1 fingerprint of cert as lowercase
// hex, the format trust stores and pinning configs use.
func certFingerprint(cert *x509.Certificate) string {
	sum := sha1.Sum(cert.Raw)
	return hex.EncodeToString(sum[:])
}

type trustAllValidator struct{}

func (trustAllValidator) Validate(string, int, *x509.Certificate) error {
	return nil
}

// TrustAny returns a validator that accepts every certificate. For
// test rigs only.
func TrustAny() CertValidator {
	return trustAllValidator{}
}

// pinnedValidator accepts only certificates whose SHA-1 fingerprint is
// on its allow list.
type pinnedValidator struct {
	fingerprints map[string]bool
}

// TrustPinned returns a validator that accepts exactly the given SHA-1
// hex fingerprints, regardless of chain or hostname.
func TrustPinned(fingerprints ...string) CertValidator {
	set := make(map[string]bool, len(fingerprints))
	for _, f := range fingerprints {
		set[strings.ToLower(f)] = true
	}
	return &pinnedValidator{fingerprints: set}
}

func (v *pinnedValidator) Validate(hostname string, port int, leaf *x509.Certificate) error {
	fp := certFingerprint(leaf)
	if !v.fingerprints[fp] {
		return fmt.Errorf("certificate %s for %s:%d is not pinned", fp, hostname, port)
	}
	return nil
}

// tofuValidator trusts the first certificate each host:port presents
// and persists its fingerprint; later connections must present the
// same one.
type tofuValidator struct {
	store *TrustStore
}

// TrustOnFirstUse returns a validator backed by the given persistent
// store: unknown servers are trusted and recorded, known servers must
// match their recorded fingerprint.
func TrustOnFirstUse(store *TrustStore) CertValidator {
	return &tofuValidator{store: store}
}

func (v *tofuValidator) Validate(hostname string, port int, leaf *x509.Certificate) error {
	key := fmt.Sprintf("%s:%d", hostname, port)
	fp := certFingerprint(leaf)
	known, ok, err := v.store.Fingerprint(key)
	if err != nil {
		return err
	}
	if !ok {
		return v.store.Trust(key, fp)
	}
	if known != fp {
		return fmt.Errorf("certificate for %s changed: recorded %s, presented %s", key, known, fp)
	}
	return nil
}
