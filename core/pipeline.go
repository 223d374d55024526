// Package core implements the fingerprint extraction pipeline (decode,
// downmix, resample, frame, spectral analysis, peak picking, hashing) and
// the histogram-voting identifier, components A-H of the design.
package core

import (
	"context"

	"soundmark/models"
)

// FingerprintPipeline runs the full A-G pipeline over a compressed audio
// byte buffer and returns its fingerprint list. Decode/resampler errors
// are fatal and returned with their original kind; an empty PCM buffer or
// an empty spectrogram after decode yields an empty fingerprint list
// rather than an error, per spec.
//
// ctx is checked between stages only: the core never suspends mid-stage,
// and Resample and FFTMagnitude do not check ctx between batches or
// frames, so a cancellation takes effect at the next stage boundary.
func FingerprintPipeline(ctx context.Context, data []byte) ([]models.Fingerprint, error) {
	magnitudes, err := Spectrogram(ctx, data)
	if err != nil {
		return nil, err
	}
	if len(magnitudes) == 0 {
		return nil, nil // EmptyAudio/EmptySpectrogram: nothing to fingerprint
	}

	peaks := FindPeaks(magnitudes)
	if len(peaks) == 0 {
		return nil, nil
	}

	return GenerateHashes(peaks), nil
}

// Spectrogram runs the decode-through-spectral-analysis stages (A-E) and
// returns the magnitude grid, for callers that need the intermediate
// representation rather than the final hash list — namely the CLI's
// spectrogram debug dump (core.SpectrogramToImage).
func Spectrogram(ctx context.Context, data []byte) ([][]float32, error) {
	pcm, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if len(pcm.Samples) == 0 {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mono := ToMono(pcm.Samples, pcm.Channels)

	resampled, err := Resample(mono, pcm.SampleRate, TargetSampleRate)
	if err != nil {
		return nil, err
	}
	if len(resampled) == 0 {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frames := Frame(resampled)
	if len(frames) == 0 {
		return nil, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return FFTMagnitude(frames), nil
}
