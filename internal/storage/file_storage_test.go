// internal/storage/file_storage_test.go
package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *FileStorage {
	t.Helper()

	fs, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestSaveAndLoadTextFile(t *testing.T) {
	fs := newTestStorage(t)

	content := []byte("hello")
	require.NoError(t, fs.SaveTextFile("dir", "file.txt", content))

	loaded, err := fs.LoadTextFile("dir", "file.txt")
	require.NoError(t, err)
	assert.Equal(t, content, loaded)
}

func TestSaveAndLoadJSONFile(t *testing.T) {
	fs := newTestStorage(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	require.NoError(t, fs.SaveJSONFile("dir", "data.json", payload{Name: "x", Count: 3}))

	var loaded payload
	require.NoError(t, fs.LoadJSONFile("dir", "data.json", &loaded))
	assert.Equal(t, payload{Name: "x", Count: 3}, loaded)
}

func TestOverwriteInvalidatesCache(t *testing.T) {
	fs := newTestStorage(t)

	require.NoError(t, fs.SaveTextFile("dir", "file.txt", []byte("v1")))
	first, err := fs.LoadTextFile("dir", "file.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), first)

	// The rewrite must not serve the stale cached body.
	require.NoError(t, fs.SaveTextFile("dir", "file.txt", []byte("v2")))
	second, err := fs.LoadTextFile("dir", "file.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), second)
}

func TestFileExists(t *testing.T) {
	fs := newTestStorage(t)

	assert.False(t, fs.FileExists("dir", "file.txt"))
	require.NoError(t, fs.SaveTextFile("dir", "file.txt", []byte("x")))
	assert.True(t, fs.FileExists("dir", "file.txt"))
}

func TestDeleteFile(t *testing.T) {
	fs := newTestStorage(t)

	require.NoError(t, fs.SaveTextFile("dir", "file.txt", []byte("x")))
	require.NoError(t, fs.DeleteFile("dir", "file.txt"))
	assert.False(t, fs.FileExists("dir", "file.txt"))

	assert.Error(t, fs.DeleteFile("dir", "file.txt"))
}

func TestDeleteDir(t *testing.T) {
	fs := newTestStorage(t)

	require.NoError(t, fs.SaveTextFile("dir/sub", "file.txt", []byte("x")))
	require.True(t, fs.DirExists("dir/sub"))

	require.NoError(t, fs.DeleteDir("dir"))
	assert.False(t, fs.DirExists("dir"))
}

func TestListDirs(t *testing.T) {
	fs := newTestStorage(t)

	require.NoError(t, fs.SaveTextFile("root/a", "f", []byte("x")))
	require.NoError(t, fs.SaveTextFile("root/b", "f", []byte("x")))

	dirs, err := fs.ListDirs("root")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, dirs)
}
