package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResampleIdentityReturnsInputUnchanged(t *testing.T) {
	in := []float32{0.1, 0.2, 0.3, -0.4}
	out, err := Resample(in, TargetSampleRate, TargetSampleRate)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestResampleEmptyInputYieldsEmptyOutput(t *testing.T) {
	out, err := Resample(nil, 44100, TargetSampleRate)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestResampleRejectsZeroRates(t *testing.T) {
	_, err := Resample([]float32{1, 2, 3}, 0, TargetSampleRate)
	require.Error(t, err)

	pe, ok := err.(*PipelineError)
	require.True(t, ok)
	assert.Equal(t, ErrResamplerInit, pe.Kind)
}

func TestResampleOutputLengthMatchesRatio(t *testing.T) {
	n := 4410 // 0.1s at 44100
	in := make([]float32, n)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 44100))
	}
	out, err := Resample(in, 44100, TargetSampleRate)
	require.NoError(t, err)

	wantLen := int(math.Round(float64(n) * float64(TargetSampleRate) / 44100))
	// batching rounds per-batch, so allow a couple of samples of slack
	assert.InDelta(t, wantLen, len(out), 4)
}

func TestResamplePreservesTonePeakFrequency(t *testing.T) {
	const inRate = 44100
	const freq = 440.0
	n := inRate // 1 second
	in := make([]float32, n)
	for i := range in {
		in[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / inRate))
	}

	out, err := Resample(in, inRate, TargetSampleRate)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	// crude zero-crossing based frequency estimate on the resampled tone
	crossings := 0
	for i := 1; i < len(out); i++ {
		if (out[i-1] < 0) != (out[i] < 0) {
			crossings++
		}
	}
	estimated := float64(crossings) / 2 * float64(TargetSampleRate) / float64(len(out))
	assert.InDelta(t, freq, estimated, 15)
}
