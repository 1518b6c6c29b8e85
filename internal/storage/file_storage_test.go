package storage

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePath_PathTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ls := store.(*localStorage)

	tests := []struct {
		name string
		path string
	}{
		{"simple traversal", "../etc/passwd"},
		{"double traversal", "../../etc/passwd"},
		{"nested traversal", "subdir/../../../etc/passwd"},
		{"absolute path", "/etc/passwd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ls.validatePath(tt.path)
			assert.ErrorIs(t, err, ErrPathTraversal)
		})
	}
}

func TestValidatePath_ValidPath(t *testing.T) {
	tempDir := t.TempDir()
	store, err := NewLocalStorage(tempDir)
	require.NoError(t, err)
	ls := store.(*localStorage)

	result, err := ls.validatePath("ab/ab123456.jpg")
	assert.NoError(t, err)

	absBase, _ := filepath.Abs(tempDir)
	assert.True(t, strings.HasPrefix(result, absBase))
}

func TestSaveAndGet_RoundTrip(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	payload := []byte("media bytes")
	relPath, err := store.Save("mms-1.jpg", bytes.NewReader(payload))
	require.NoError(t, err)

	// Sharded by the first two characters of the generated name
	assert.Equal(t, filepath.Base(relPath)[:2], filepath.Dir(relPath))
	assert.True(t, strings.HasSuffix(relPath, ".jpg"))

	reader, err := store.Get(relPath)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, payload, content)
}

func TestSave_UniqueNames(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	first, err := store.Save("same.png", bytes.NewReader([]byte("one")))
	require.NoError(t, err)
	second, err := store.Save("same.png", bytes.NewReader([]byte("two")))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGet_NotFound(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get("ab/missing.jpg")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestGet_PathTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get("../../../etc/passwd")
	assert.ErrorIs(t, err, ErrPathTraversal)
}

func TestDelete(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	relPath, err := store.Save("gone.gif", bytes.NewReader([]byte("x")))
	require.NoError(t, err)

	require.NoError(t, store.Delete(relPath))
	_, err = store.Get(relPath)
	assert.ErrorIs(t, err, ErrFileNotFound)

	// Deleting a missing file is not an error
	assert.NoError(t, store.Delete(relPath))
}
