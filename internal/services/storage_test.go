package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithTempFile_RemovesFileAfterSuccess(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	storage := NewStorageService(dir)

	var seen string
	err := storage.WithTempFile("Resume.PDF", []byte("content"), func(path string) error {
		seen = path
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(seen))
	assert.Equal(t, ".pdf", filepath.Ext(seen))
	assert.NoFileExists(t, seen)
}

func TestWithTempFile_RemovesFileAfterFailure(t *testing.T) {
	dir := t.TempDir()
	storage := NewStorageService(dir)
	boom := errors.New("boom")

	var seen string
	err := storage.WithTempFile("cv.docx", []byte("x"), func(path string) error {
		seen = path
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.NoFileExists(t, seen)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithTempFile_UniqueNames(t *testing.T) {
	storage := NewStorageService(t.TempDir())

	var first, second string
	require.NoError(t, storage.WithTempFile("a.txt", []byte("1"), func(path string) error {
		first = path
		return storage.WithTempFile("a.txt", []byte("2"), func(path string) error {
			second = path
			return nil
		})
	}))
	assert.NotEqual(t, first, second)
}
