package core

import "soundmark/models"

// PeakThreshold is the minimum magnitude a cell must clear to be a peak.
const PeakThreshold = 0.01

// FindPeaks scans the interior of the spectrogram (excluding the border
// rows/columns) and emits every cell that both clears PeakThreshold and
// is strictly greater than all 8 neighbors. Equal-valued neighbors
// disqualify the cell, so neither of two tied adjacent cells is reported.
// Output is row-major by (t, f) ascending.
func FindPeaks(spectrogram [][]float32) []models.Peak {
	t := len(spectrogram)
	if t < 3 {
		return nil
	}
	f := len(spectrogram[0])
	if f < 3 {
		return nil
	}

	var peaks []models.Peak
	for row := 1; row < t-1; row++ {
		for col := 1; col < f-1; col++ {
			v := spectrogram[row][col]
			if v < PeakThreshold {
				continue
			}
			if isStrictLocalMax(spectrogram, row, col, v) {
				peaks = append(peaks, models.Peak{Frame: row, Bin: col})
			}
		}
	}
	return peaks
}

func isStrictLocalMax(spec [][]float32, row, col int, v float32) bool {
	for dt := -1; dt <= 1; dt++ {
		for df := -1; df <= 1; df++ {
			if dt == 0 && df == 0 {
				continue
			}
			if spec[row+dt][col+df] >= v {
				return false
			}
		}
	}
	return true
}
