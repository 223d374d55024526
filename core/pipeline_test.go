package core

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundmark/fileformat"
)

func synthWAV(t *testing.T, gen func(i int) float64, n, sampleRate int) []byte {
	t.Helper()
	raw := make([]byte, n*2)
	for i := 0; i < n; i++ {
		s := int16(gen(i) * 32767)
		raw[2*i] = byte(s)
		raw[2*i+1] = byte(s >> 8)
	}
	path := filepath.Join(t.TempDir(), "synth.wav")
	require.NoError(t, fileformat.WriteWavFile(path, raw, sampleRate, 1, 16))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func TestFingerprintPipelineSilenceYieldsNoFingerprints(t *testing.T) {
	data := synthWAV(t, func(i int) float64 { return 0 }, 44100, 44100)
	fps, err := FingerprintPipeline(context.Background(), data)
	require.NoError(t, err)
	assert.Empty(t, fps)
}

func TestFingerprintPipelinePureToneProducesFingerprints(t *testing.T) {
	data := synthWAV(t, func(i int) float64 {
		return math.Sin(2 * math.Pi * 440 * float64(i) / 44100)
	}, 44100, 44100)

	fps, err := FingerprintPipeline(context.Background(), data)
	require.NoError(t, err)
	assert.NotEmpty(t, fps)
}

func TestFingerprintPipelineIsDeterministic(t *testing.T) {
	data := synthWAV(t, func(i int) float64 {
		return 0.6*math.Sin(2*math.Pi*440*float64(i)/44100) + 0.4*math.Sin(2*math.Pi*1200*float64(i)/44100)
	}, 44100, 44100)

	a, err := FingerprintPipeline(context.Background(), data)
	require.NoError(t, err)
	b, err := FingerprintPipeline(context.Background(), data)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestFingerprintPipelineEmptyInputIsUnsupportedFormat(t *testing.T) {
	fps, err := FingerprintPipeline(context.Background(), []byte{})
	// empty input matches no registered probe, so this is UnsupportedFormat,
	// not the EmptyAudio path (that only triggers once a codec decodes zero
	// samples from recognized-but-silent content).
	require.Error(t, err)
	pe, ok := err.(*PipelineError)
	require.True(t, ok)
	assert.Equal(t, ErrUnsupportedFormat, pe.Kind)
	assert.Nil(t, fps)
}

func TestFingerprintPipelineTwoSongsDisambiguateViaElect(t *testing.T) {
	songA := synthWAV(t, func(i int) float64 {
		return math.Sin(2 * math.Pi * 440 * float64(i) / 44100)
	}, 44100, 44100)
	songB := synthWAV(t, func(i int) float64 {
		return math.Sin(2 * math.Pi * 220 * float64(i) / 44100)
	}, 44100, 44100)

	fpsA, err := FingerprintPipeline(context.Background(), songA)
	require.NoError(t, err)
	fpsB, err := FingerprintPipeline(context.Background(), songB)
	require.NoError(t, err)

	require.NotEmpty(t, fpsA)
	require.NotEmpty(t, fpsB)

	// Two distinct tones should not fingerprint identically; the elector
	// relies on this separation to disambiguate which song a query hashes
	// against.
	assert.NotEqual(t, fpsA, fpsB)
}
