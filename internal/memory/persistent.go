package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"atelierd/pkg/types"
)

// CreationStore persists completed creations as a JSON file. Records are
// loaded once at open and written through on every Put.
type CreationStore struct {
	mu   sync.RWMutex
	path string
	byID map[string]types.Creation
}

// OpenCreationStore loads (or initializes) the store at path.
func OpenCreationStore(path string) (*CreationStore, error) {
	s := &CreationStore{path: path, byID: make(map[string]types.Creation)}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return s, nil
		}
		return nil, err
	}
	if len(b) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(b, &s.byID); err != nil {
		return nil, fmt.Errorf("corrupt creation store %s: %w", path, err)
	}
	return s, nil
}

// Put stores c and flushes to disk.
func (s *CreationStore) Put(c types.Creation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[c.ID] = c
	return s.flushLocked()
}

// Get returns the creation with the given id.
func (s *CreationStore) Get(id string) (types.Creation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[id]
	return c, ok
}

// List returns all creations, newest first.
func (s *CreationStore) List() []types.Creation {
	s.mu.RLock()
	out := make([]types.Creation, 0, len(s.byID))
	for _, c := range s.byID {
		out = append(out, c)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedUnix != out[j].CreatedUnix {
			return out[i].CreatedUnix > out[j].CreatedUnix
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Count returns the number of persisted creations.
func (s *CreationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func (s *CreationStore) flushLocked() error {
	b, err := json.MarshalIndent(s.byID, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}
