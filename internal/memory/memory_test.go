package memory

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atelierd/pkg/types"
)

func TestSessionStoreSaveGet(t *testing.T) {
	s := NewSessionStore()
	s.Save("prompt_1", map[string]string{"original": "a cube"})
	got, ok := s.Get("prompt_1")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"original": "a cube"}, got)
	_, ok = s.Get("missing")
	assert.False(t, ok)
}

func TestSessionStoreRecentOrder(t *testing.T) {
	s := NewSessionStore()
	s.Save("a", 1)
	time.Sleep(2 * time.Millisecond)
	s.Save("b", 2)
	time.Sleep(2 * time.Millisecond)
	s.Save("c", 3)

	recent := s.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "c", recent[0].Key)
	assert.Equal(t, "b", recent[1].Key)
}

func TestSessionStoreClear(t *testing.T) {
	s := NewSessionStore()
	s.Save("a", 1)
	s.Clear()
	assert.Zero(t, s.Len())
}

func TestCreationStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creations.json")
	s, err := OpenCreationStore(path)
	require.NoError(t, err)

	c := types.Creation{
		ID:          "sess-1",
		Prompt:      types.Expansion{Original: "a cube", Expanded: "a shiny cube"},
		ImagePath:   "/assets/sess-1.png",
		ObjectPath:  "/assets/sess-1.glb",
		CreatedUnix: 100,
	}
	require.NoError(t, s.Put(c))

	// Reopen and confirm persistence.
	s2, err := OpenCreationStore(path)
	require.NoError(t, err)
	got, ok := s2.Get("sess-1")
	require.True(t, ok)
	assert.Equal(t, c, got)
	assert.Equal(t, 1, s2.Count())
}

func TestCreationStoreListNewestFirst(t *testing.T) {
	s, err := OpenCreationStore(filepath.Join(t.TempDir(), "c.json"))
	require.NoError(t, err)
	require.NoError(t, s.Put(types.Creation{ID: "old", CreatedUnix: 10}))
	require.NoError(t, s.Put(types.Creation{ID: "new", CreatedUnix: 20}))

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestCreationStoreMissingFileStartsEmpty(t *testing.T) {
	s, err := OpenCreationStore(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Zero(t, s.Count())
}

func TestCreationStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := OpenCreationStore(path)
	require.Error(t, err)
}
