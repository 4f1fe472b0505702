package auth

import (
	"sync"
	"time"
)

// JwtBlacklistStore tracks revoked access tokens until they expire
type JwtBlacklistStore interface {
	// IsBlacklisted checks if the given token is blacklisted.
	IsBlacklisted(token string) (bool, error)
	// AddToBlacklist adds the given token to the blacklist with an expiration time.
	AddToBlacklist(token string, exp time.Time) error
}

// InMemoryBlacklistStore keeps revoked tokens in a map, cleaned up
// periodically once their expiry passes.
type InMemoryBlacklistStore struct {
	blacklist map[string]time.Time
	mu        sync.RWMutex
}

// NewInMemoryBlacklistStore constructs the store and starts its cleanup loop
func NewInMemoryBlacklistStore() *InMemoryBlacklistStore {
	store := &InMemoryBlacklistStore{
		blacklist: make(map[string]time.Time),
	}
	go periodicallyCleanUp(store, time.Minute*5)
	return store
}

func periodicallyCleanUp(store *InMemoryBlacklistStore, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		store.CleanUpExpired()
	}
}

// CleanUpExpired drops entries whose expiry has passed
func (s *InMemoryBlacklistStore) CleanUpExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for token, exp := range s.blacklist {
		if exp.Before(now) {
			delete(s.blacklist, token)
		}
	}
}

// IsBlacklisted reports whether a token has been revoked
func (s *InMemoryBlacklistStore) IsBlacklisted(token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.blacklist[token]
	return exists, nil
}

// AddToBlacklist revokes a token until its expiry
func (s *InMemoryBlacklistStore) AddToBlacklist(token string, exp time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.blacklist[token] = exp
	return nil
}
