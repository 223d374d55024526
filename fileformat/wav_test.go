package fileformat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWavFileWritesCanonicalHeader(t *testing.T) {
	raw := []byte{0, 0, 255, 127, 0, 128} // three 16-bit LE samples: 0, 32767, -32768
	path := filepath.Join(t.TempDir(), "out.wav")

	require.NoError(t, WriteWavFile(path, raw, 8000, 1, 16))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, written, 44+len(raw))
	assert.Equal(t, "RIFF", string(written[0:4]))
	assert.Equal(t, "WAVE", string(written[8:12]))
	assert.Equal(t, "data", string(written[36:40]))
	assert.Equal(t, raw, written[44:])
}

func TestWriteWavFileRejectsZeroParameters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	assert.Error(t, WriteWavFile(path, []byte{0, 0}, 0, 1, 16))
	assert.Error(t, WriteWavFile(path, []byte{0, 0}, 8000, 0, 16))
}

func TestWriteWavFileAcceptsEmptyPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "short.wav")
	require.NoError(t, WriteWavFile(path, []byte{}, 8000, 1, 16))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, written, 44)
}

func TestWriteWavFileRejectsDataNotDivisibleByChannels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	assert.Error(t, WriteWavFile(path, []byte{0, 0, 0}, 8000, 2, 16))
}
