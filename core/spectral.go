package core

import (
	"math/cmplx"
	"runtime"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

// SpectrumBins is the number of magnitude bins kept per frame (half-spectrum).
const SpectrumBins = FrameSize / 2

// FFTMagnitude computes the length-1024 forward FFT of each frame and
// keeps the first 512 magnitude bins. Frames are independent and are
// fanned out over a bounded worker pool; each worker owns disjoint output
// rows, so output order matches input order without any locking.
func FFTMagnitude(frames [][]float32) [][]float32 {
	if len(frames) == 0 {
		return nil
	}
	out := make([][]float32, len(frames))

	workers := runtime.GOMAXPROCS(0)
	if workers > len(frames) {
		workers = len(frames)
	}
	if workers < 1 {
		workers = 1
	}

	var next int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				mu.Lock()
				i := next
				next++
				mu.Unlock()
				if i >= len(frames) {
					return
				}
				out[i] = magnitudeOf(frames[i])
			}
		}()
	}
	wg.Wait()
	return out
}

func magnitudeOf(frame []float32) []float32 {
	real := make([]float64, len(frame))
	for i, s := range frame {
		real[i] = float64(s)
	}
	spectrum := fft.FFTReal(real)

	mag := make([]float32, SpectrumBins)
	for f := 0; f < SpectrumBins; f++ {
		mag[f] = float32(cmplx.Abs(spectrum[f]))
	}
	return mag
}
