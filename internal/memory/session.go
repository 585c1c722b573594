// Package memory provides the pipeline's two stores: a short-term session
// store held in memory and a persistent creation store backed by a JSON
// file under the datastore directory.
package memory

import (
	"sort"
	"sync"
	"time"
)

// SessionEntry is one timestamped record in the session store.
type SessionEntry struct {
	Key       string    `json:"key"`
	Data      any       `json:"data"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionStore keeps per-run working data for the current process lifetime.
// Safe for concurrent use.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]SessionEntry
}

func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]SessionEntry)}
}

// Save records data under key, overwriting any previous entry.
func (s *SessionStore) Save(key string, data any) {
	s.mu.Lock()
	s.entries[key] = SessionEntry{Key: key, Data: data, Timestamp: time.Now()}
	s.mu.Unlock()
}

// Get returns the data stored under key.
func (s *SessionStore) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.Data, true
}

// Recent returns the n most recently saved entries, newest first.
func (s *SessionStore) Recent(n int) []SessionEntry {
	s.mu.RLock()
	out := make([]SessionEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Clear drops all session entries.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.entries = make(map[string]SessionEntry)
	s.mu.Unlock()
}

// Len returns the number of stored entries.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
