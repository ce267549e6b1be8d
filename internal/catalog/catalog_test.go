package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"duetsync/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSongsJSON = `{
  "songs": [
    {
      "id": "one",
      "title": "Song One",
      "artist": "A",
      "youtubeId": "abc123",
      "lyrics": [{"time": 1.5, "text": "la la"}]
    },
    {"id": "two", "title": "Song Two", "artist": "B", "youtubeId": "def456", "lyrics": []}
  ]
}`

func writeSongs(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "songs.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cat, err := Load(writeSongs(t, testSongsJSON))
	require.NoError(t, err)
	assert.Equal(t, 2, cat.Len())
	assert.Equal(t, "Song One", cat.Songs()[0].Title)
	assert.Equal(t, 1.5, cat.Songs()[0].Lyrics[0].Time)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeSongs(t, "{not json"))
	assert.Error(t, err)
}

func TestLoadEmpty(t *testing.T) {
	_, err := Load(writeSongs(t, `{"songs": []}`))
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}

func TestRandomStaysInCatalog(t *testing.T) {
	cat, err := New([]domain.Song{{ID: "only"}})
	require.NoError(t, err)
	for range 10 {
		assert.Equal(t, "only", cat.Random().ID)
	}
}

func TestNewEmpty(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyCatalog)
}
