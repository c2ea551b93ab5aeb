package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/excelvision/excelvision/internal/models"
)

func tempStore(t *testing.T) *StateStore {
	t.Helper()
	return NewStateStore(filepath.Join(t.TempDir(), "nested", "state.json"))
}

func TestLoadMissingFileYieldsEmptyState(t *testing.T) {
	st, err := tempStore(t).Load()
	require.NoError(t, err)
	require.Equal(t, &State{}, st)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := tempStore(t)

	in := &State{
		ServerURL:     "http://localhost:8080",
		Name:          "Alice",
		Token:         "tok",
		LastParsed:    []models.Row{{"A": float64(1)}},
		UploadedFiles: []string{"sales.csv"},
	}
	require.NoError(t, store.Save(in))

	out, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestSaveOverwritesLastParsed(t *testing.T) {
	store := tempStore(t)

	require.NoError(t, store.Save(&State{LastParsed: []models.Row{{"A": "old"}}}))
	require.NoError(t, store.Save(&State{LastParsed: []models.Row{{"B": "new"}}}))

	out, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, []models.Row{{"B": "new"}}, out.LastParsed)
}

func TestLoadCorruptFile(t *testing.T) {
	store := tempStore(t)
	require.NoError(t, store.Save(&State{}))

	// Clobber the file with junk.
	require.NoError(t, os.WriteFile(store.path, []byte("{not json"), 0o600))
	_, err := store.Load()
	require.Error(t, err)
}
