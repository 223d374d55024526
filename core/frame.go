package core

import "math"

// FrameSize is the fixed analysis window length, in samples.
const FrameSize = 1024

// HopSize is the fixed stride between successive frame starts, in samples.
const HopSize = 512

var hannWindow = buildHannWindow(FrameSize)

func buildHannWindow(n int) []float32 {
	w := make([]float32, n)
	for i := 0; i < n; i++ {
		w[i] = float32(0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1))))
	}
	return w
}

// Frame slides a FrameSize window across mono PCM with stride HopSize,
// zero-padding the final partial frame, and applies the Hann window to
// each resulting frame. Frame k spans samples [k*HopSize, k*HopSize+FrameSize).
func Frame(mono []float32) [][]float32 {
	if len(mono) == 0 {
		return nil
	}
	n := int(math.Ceil(float64(len(mono)) / float64(HopSize)))
	frames := make([][]float32, n)
	for k := 0; k < n; k++ {
		start := k * HopSize
		frame := make([]float32, FrameSize)
		end := start + FrameSize
		if end > len(mono) {
			end = len(mono)
		}
		copy(frame, mono[start:end])
		for i := range frame {
			frame[i] *= hannWindow[i]
		}
		frames[k] = frame
	}
	return frames
}
