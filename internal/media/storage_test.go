package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "chat123", SanitizeKey("chat123"))
	assert.Equal(t, "chat123", SanitizeKey(" chat123 "))
	assert.Equal(t, "passwd", SanitizeKey("../../etc/passwd"))
	assert.Equal(t, "unknown", SanitizeKey(""))
	assert.Equal(t, "unknown", SanitizeKey(".."))
	assert.Equal(t, "unknown", SanitizeKey("."))
}

func TestGenerateFilenameUnique(t *testing.T) {
	a := GenerateFilename("photo.JPG")
	b := GenerateFilename("photo.JPG")

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".jpg"))
	assert.True(t, strings.HasSuffix(b, ".jpg"))
}

func TestStoreSave(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	src := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(src, []byte("fake jpeg bytes"), 0o644))
	file, err := os.Open(src)
	require.NoError(t, err)
	defer file.Close()

	filename, size, err := store.Save(file, "photo.jpg", store.UploadsDir(), "chat42")
	require.NoError(t, err)
	assert.Equal(t, int64(15), size)
	assert.True(t, strings.HasSuffix(filename, ".jpg"))

	stored, err := os.ReadFile(filepath.Join(store.UploadsDir(), "chat42", filename))
	require.NoError(t, err)
	assert.Equal(t, "fake jpeg bytes", string(stored))

	// Nothing left behind in temp.
	entries, err := os.ReadDir(store.TempDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestListFiles(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	dir := filepath.Join(store.UploadsDir(), "chatA")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.mp4"), []byte("y"), 0o644))

	files, err := ListFiles(store.UploadsDir())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"chatA/a.jpg", "chatA/b.mp4"}, files)
}
