package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvReturnsFallbackWhenUnset(t *testing.T) {
	os.Unsetenv("SOUNDMARK_TEST_VAR")
	assert.Equal(t, "fallback", GetEnv("SOUNDMARK_TEST_VAR", "fallback"))
}

func TestGetEnvReturnsSetValue(t *testing.T) {
	t.Setenv("SOUNDMARK_TEST_VAR", "value")
	assert.Equal(t, "value", GetEnv("SOUNDMARK_TEST_VAR", "fallback"))
}

func TestGenerateSongKeyCombinesTitleAndArtist(t *testing.T) {
	assert.Equal(t, "Song___Artist", GenerateSongKey("Song", "Artist"))
}

func TestRenameFileMovesContentAndRemovesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))

	require.NoError(t, RenameFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}

func TestRenameFileMissingSourceErrors(t *testing.T) {
	dir := t.TempDir()
	err := RenameFile(filepath.Join(dir, "nope.txt"), filepath.Join(dir, "dst.txt"))
	assert.Error(t, err)
}
