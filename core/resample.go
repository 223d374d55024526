package core

import (
	"math"
	"runtime"
	"sync"
)

// TargetSampleRate is the fixed output rate of the resampler, in Hz.
const TargetSampleRate = 11025

const (
	sincLen          = 128
	sincHalfTaps     = sincLen / 2
	oversamplingFact = 64
	sincCutoff       = 0.95
	srcChunkSize     = 1024
	srcBatchSize     = srcChunkSize * 100 // 102400
)

// sincKernel is a band-limited lowpass sinc filter, windowed by a squared
// Blackman-Harris window and precomputed at oversamplingFact phases so
// that a given fractional sample offset is found by linear interpolation
// between two adjacent phases rather than re-evaluating sin/cos per tap.
// One kernel instance is built fresh per batch, per spec: batches carry
// no filter state across their boundary.
type sincKernel struct {
	// table[p*sincHalfTaps+k] = windowedSinc(float64(k) + p/oversamplingFact)
	table  []float64
	cutoff float64
}

func newSincKernel(cutoff float64) *sincKernel {
	k := &sincKernel{
		table:  make([]float64, (oversamplingFact+1)*sincHalfTaps),
		cutoff: cutoff,
	}
	for p := 0; p <= oversamplingFact; p++ {
		frac := float64(p) / float64(oversamplingFact)
		for tap := 0; tap < sincHalfTaps; tap++ {
			x := float64(tap) + frac
			k.table[p*sincHalfTaps+tap] = windowedSinc(x, sincHalfTaps, cutoff)
		}
	}
	return k
}

// windowedSinc evaluates a cutoff-scaled sinc at distance x from the
// interpolation point, shaped by a squared Blackman-Harris window over
// the support [-halfTaps, halfTaps].
func windowedSinc(x float64, halfTaps int, cutoff float64) float64 {
	var sincVal float64
	if x == 0 {
		sincVal = cutoff
	} else {
		px := math.Pi * x
		sincVal = math.Sin(cutoff*px) / px
	}
	const a0, a1, a2, a3 = 0.35875, 0.48829, 0.14128, 0.01168
	pos := (x + float64(halfTaps)) / float64(2*halfTaps)
	bh := a0 - a1*math.Cos(2*math.Pi*pos) + a2*math.Cos(4*math.Pi*pos) - a3*math.Cos(6*math.Pi*pos)
	return sincVal * bh * bh
}

// weight returns the filter weight for the tap `tap` samples away (on the
// side implied by the caller), at fractional offset frac within [0,1),
// via linear interpolation between the two nearest precomputed phases.
func (k *sincKernel) weight(tap int, frac float64) float64 {
	pf := frac * float64(oversamplingFact)
	p0 := int(pf)
	if p0 >= oversamplingFact {
		p0 = oversamplingFact - 1
	}
	t := pf - float64(p0)
	a := k.table[p0*sincHalfTaps+tap]
	b := k.table[(p0+1)*sincHalfTaps+tap]
	return a + t*(b-a)
}

// at returns src[i] or 0 if i is out of bounds, so batch/chunk boundaries
// are implicitly zero-padded rather than requiring a separate pad step.
func at(src []float32, i int) float64 {
	if i < 0 || i >= len(src) {
		return 0
	}
	return float64(src[i])
}

// resampleWithKernel runs one band-limited sinc SRC pass over src,
// producing round(len(src)*ratio) output samples, reading out-of-range
// neighbors as zero (the boundary behavior documented in spec.md §4.3).
func resampleWithKernel(src []float32, ratio float64, k *sincKernel) []float32 {
	nOut := int(math.Round(float64(len(src)) * ratio))
	out := make([]float32, nOut)
	for i := 0; i < nOut; i++ {
		srcPos := float64(i) / ratio
		idx := int(math.Floor(srcPos))
		frac := srcPos - float64(idx)

		var sum float64
		for tap := 0; tap < sincHalfTaps; tap++ {
			sum += at(src, idx-tap) * k.weight(tap, frac)
			sum += at(src, idx+1+tap) * k.weight(tap, 1-frac)
		}
		out[i] = float32(sum)
	}
	return out
}

// Resample converts mono PCM at inRate to mono PCM at outRate via
// band-limited sinc SRC, chunk-parallel over independent batches. If
// inRate == outRate the input is returned unchanged (identity).
func Resample(mono []float32, inRate, outRate int) ([]float32, error) {
	if inRate == outRate {
		return mono, nil
	}
	if inRate <= 0 || outRate <= 0 {
		return nil, newErr(ErrResamplerInit, nil)
	}

	ratio := float64(outRate) / float64(inRate)
	cutoff := sincCutoff
	if ratio < 1 {
		cutoff *= ratio // widen the anti-alias margin when downsampling
	}

	if len(mono) == 0 {
		return nil, nil
	}

	nBatches := (len(mono) + srcBatchSize - 1) / srcBatchSize
	results := make([][]float32, nBatches)

	workers := runtime.GOMAXPROCS(0)
	if workers > nBatches {
		workers = nBatches
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
				b := next
				next++
				mu.Unlock()
				if b >= nBatches {
					return
				}
				start := b * srcBatchSize
				end := start + srcBatchSize
				if end > len(mono) {
					end = len(mono)
				}
				results[b] = resampleBatch(mono[start:end], ratio, cutoff)
			}
		}()
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]float32, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

// resampleBatch resamples one batch with a fresh kernel instance, driving
// it with srcChunkSize-sample chunks and zero-padding the trailing
// remainder to a full chunk, per spec.md §4.3.
func resampleBatch(batch []float32, ratio, cutoff float64) []float32 {
	k := newSincKernel(cutoff)
	nChunks := (len(batch) + srcChunkSize - 1) / srcChunkSize
	if nChunks == 0 {
		nChunks = 1
	}
	padded := make([]float32, nChunks*srcChunkSize)
	copy(padded, batch)

	nOut := int(math.Round(float64(len(batch)) * ratio))
	full := resampleWithKernel(padded, ratio, k)
	if nOut > len(full) {
		nOut = len(full)
	}
	return full[:nOut]
}
