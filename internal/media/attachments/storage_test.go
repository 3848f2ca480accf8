package attachments

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)
	return storage
}

func TestNewStorage(t *testing.T) {
	t.Run("creates directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "uploads")

		storage, err := NewStorage(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, storage.Dir())

		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	})

	t.Run("returns error for empty path", func(t *testing.T) {
		storage, err := NewStorage("")
		assert.Error(t, err)
		assert.Nil(t, storage)
	})
}

func TestStorage_Save(t *testing.T) {
	t.Run("stores content under a generated name", func(t *testing.T) {
		storage := setupTestStorage(t)

		name, err := storage.Save(".PNG", strings.NewReader("png bytes"), 1024)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(name, ".png"))
		assert.Len(t, name, 36+len(".png"))

		data, err := os.ReadFile(storage.Path(name))
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(data))
		assert.True(t, storage.Exists(name))
	})

	t.Run("names are unique", func(t *testing.T) {
		storage := setupTestStorage(t)

		a, err := storage.Save(".pdf", strings.NewReader("a"), 10)
		require.NoError(t, err)
		b, err := storage.Save(".pdf", strings.NewReader("b"), 10)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("accepts content exactly at the limit", func(t *testing.T) {
		storage := setupTestStorage(t)

		_, err := storage.Save(".gif", bytes.NewReader(make([]byte, 16)), 16)
		assert.NoError(t, err)
	})

	t.Run("rejects oversize content and leaves nothing behind", func(t *testing.T) {
		storage := setupTestStorage(t)

		_, err := storage.Save(".jpg", bytes.NewReader(make([]byte, 17)), 16)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTooLarge))

		entries, err := os.ReadDir(storage.Dir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestStorage_Delete(t *testing.T) {
	storage := setupTestStorage(t)

	name, err := storage.Save(".svg", strings.NewReader("<svg/>"), 100)
	require.NoError(t, err)

	require.NoError(t, storage.Delete(name))
	assert.False(t, storage.Exists(name))

	// Missing files are not an error.
	assert.NoError(t, storage.Delete(name))

	// Path components are refused.
	assert.Error(t, storage.Delete("../outside.png"))
	assert.Error(t, storage.Delete(""))
	assert.False(t, storage.Exists("../outside.png"))
}
