package keyrunes

import "sync"

// TokenStore holds the single current credential for a client instance. It is
// safe for concurrent use: reads take a shared lock, writes an exclusive one,
// and no I/O happens while either is held.
//
// The store is a convenience for single-caller usage (a CLI, a worker that
// logs in once). Gates never route per-request credentials through it; they
// thread the extracted token explicitly into each call instead, so concurrent
// requests cannot overwrite each other's credential mid-verification.
type TokenStore struct {
	mu   sync.RWMutex
	cred *Credential
}

// Set replaces the stored credential unconditionally. Last writer wins.
func (s *TokenStore) Set(cred Credential) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &cred
}

// Get returns a copy of the current credential. The second return value is
// false when the store is empty; an empty store is not an error.
func (s *TokenStore) Get() (Credential, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return Credential{}, false
	}
	return *s.cred, true
}

// Clear removes the stored credential.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
}
