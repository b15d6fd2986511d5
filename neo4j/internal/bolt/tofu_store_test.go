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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *TrustStore {
	t.Helper()
	return NewTrustStore(filepath.Join(t.TempDir(), "known_hosts"))
}

func TestTrustStoreRecordsAndRecalls(t *testing.T) {
	store := tempStore(t)

	_, ok, err := store.Fingerprint("h1:7687")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Trust("h1:7687", "aaaa"))
	fp, ok, err := store.Fingerprint("h1:7687")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "aaaa", fp)

	require.NoError(t, store.Trust("h2:7687", "bbbb"))
	fp, ok, err = store.Fingerprint("h2:7687")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "bbbb", fp)
}

func TestTrustStoreNeverOverwrites(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Trust("h1:7687", "aaaa"))

	// Re-trusting the same pair is a no-op; a different fingerprint
	// for a known server is refused.
	require.NoError(t, store.Trust("h1:7687", "aaaa"))
	assert.Error(t, store.Trust("h1:7687", "cccc"))

	fp, _, err := store.Fingerprint("h1:7687")
	require.NoError(t, err)
	assert.Equal(t, "aaaa", fp)
}

func TestTrustStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "known_hosts")
	require.NoError(t, NewTrustStore(path).Trust("h1:7687", "aaaa"))

	fp, ok, err := NewTrustStore(path).Fingerprint("h1:7687")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "aaaa", fp)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "h1:7687 aaaa\n", string(data))
}

func fakeCert(raw string) *x509.Certificate {
	return &x509.Certificate{Raw: []byte(raw)}
}

func sha1Hex(raw string) string {
	sum := sha1.Sum([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func TestTrustOnFirstUseValidator(t *testing.T) {
	store := tempStore(t)
	validator := TrustOnFirstUse(store)

	// First sighting is trusted and recorded.
	require.NoError(t, validator.Validate("h1", 7687, fakeCert("cert-one")))
	fp, ok, err := store.Fingerprint("h1:7687")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, sha1Hex("cert-one"), fp)

	// Same certificate keeps validating; a different one is refused.
	require.NoError(t, validator.Validate("h1", 7687, fakeCert("cert-one")))
	assert.Error(t, validator.Validate("h1", 7687, fakeCert("cert-two")))
}

func TestPinnedValidator(t *testing.T) {
	validator := TrustPinned(sha1Hex("pinned-cert"))
	require.NoError(t, validator.Validate("h1", 7687, fakeCert("pinned-cert")))
	assert.Error(t, validator.Validate("h1", 7687, fakeCert("other-cert")))
}

func TestTrustAnyValidator(t *testing.T) {
	assert.NoError(t, TrustAny().Validate("anything", 0, fakeCert("whatever")))
}
