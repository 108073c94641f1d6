// Package session holds per-session encryption keys in memory for the
// lifetime of an authenticated session.
//
// The store is the only shared mutable state in the encryption core. A key
// is written once at login (or registration), read by every blob operation
// of that session, and erased synchronously at logout. Keys are never
// persisted anywhere: a server restart simply ends all sessions, and login
// re-derives the key from the live credential.
package session

import "sync"

// KeyStore maps session identifiers to derived encryption keys.
// Safe for concurrent use.
type KeyStore struct {
	mu   sync.RWMutex
	keys map[string][]byte
}

// NewKeyStore constructs an empty KeyStore.
func NewKeyStore() *KeyStore {
	return &KeyStore{
		keys: make(map[string][]byte),
	}
}

// Install stores the derived key for a session, replacing any previous
// entry. The store keeps its own copy so later mutation of the caller's
// slice cannot corrupt the session key.
func (s *KeyStore) Install(sessionID string, key []byte) {
	cp := make([]byte, len(key))
	copy(cp, key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.keys[sessionID]; ok {
		zero(old)
	}
	s.keys[sessionID] = cp
}

// Get returns a copy of the session's key, or false if the session has no
// key installed (never logged in, logged out, or expired). Returning a copy
// keeps concurrent readers safe from a later Erase zeroing the backing
// array.
func (s *KeyStore) Get(sessionID string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	key, ok := s.keys[sessionID]
	if !ok {
		return nil, false
	}

	cp := make([]byte, len(key))
	copy(cp, key)
	return cp, true
}

// Erase removes the session's key, zeroing the stored bytes before dropping
// the reference. It returns only after the key is gone, so a logout response
// is never written while the key is still reachable. Erasing an unknown
// session is a no-op.
func (s *KeyStore) Erase(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if key, ok := s.keys[sessionID]; ok {
		zero(key)
		delete(s.keys, sessionID)
	}
}

// Len reports the number of live session keys. Intended for diagnostics.
func (s *KeyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
