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
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
)

// TrustStore is the persistent host:port -> certificate-fingerprint map
// behind trust-on-first-use validation. The file holds one
// space-separated "host:port fingerprint" pair per line. Concurrent
// writers (other processes included) are serialized with a file lock,
// and an existing entry is never overwritten: once a server has been
// trusted, only deleting the line by hand revokes it.
type TrustStore struct {
	path string
	mu   sync.Mutex
}

// NewTrustStore returns a store persisting to the file at path. The
// file is created on first Trust.
func NewTrustStore(path string) *TrustStore {
	return &TrustStore{path: path}
}

// Fingerprint looks up the recorded fingerprint for key ("host:port"),
// reporting whether one exists.
func (s *TrustStore) Fingerprint(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.read()
	if err != nil {
		return "", false, err
	}
	fp, ok := entries[key]
	return fp, ok, nil
}

// Trust records fingerprint for key. The read-modify-write runs under
// an exclusive file lock so two processes trusting different servers at
// once cannot lose each other's entries; if another writer got to key
// first, its fingerprint wins and a mismatch is an error.
func (s *TrustStore) Trust(key, fingerprint string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating trust store directory: %w", err)
		}
	}
	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("locking trust store: %w", err)
	}
	defer lock.Unlock()

	entries, err := s.read()
	if err != nil {
		return err
	}
	if existing, ok := entries[key]; ok {
		if existing != fingerprint {
			return fmt.Errorf("certificate for %s changed: recorded %s, presented %s", key, existing, fingerprint)
		}
		return nil
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("opening trust store: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "%s %s\n", key, fingerprint); err != nil {
		return fmt.Errorf("writing trust store: %w", err)
	}
	return f.Sync()
}

func (s *TrustStore) read() (map[string]string, error) {
	entries := map[string]string{}
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return entries, nil
		}
		return nil, fmt.Errorf("reading trust store: %w", err)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		if _, ok := entries[fields[0]]; !ok {
			entries[fields[0]] = fields[1]
		}
	}
	return entries, scanner.Err()
}
