package core

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
)

// SpectrogramToImage renders a magnitude spectrogram as a grayscale PNG
// for visual debugging: horizontal axis is frequency bin, vertical axis
// is frame index, brightness is magnitude relative to the loudest bin in
// the whole spectrogram.
func SpectrogramToImage(spectrogram [][]float32, outputPath string) error {
	numFrames := len(spectrogram)
	if numFrames == 0 {
		return nil
	}
	numBins := len(spectrogram[0])

	img := image.NewGray(image.Rect(0, 0, numBins, numFrames))

	var maxMagnitude float32
	for i := range numFrames {
		for j := range numBins {
			if m := spectrogram[i][j]; m > maxMagnitude {
				maxMagnitude = m
			}
		}
	}
	if maxMagnitude == 0 {
		maxMagnitude = 1
	}

	for i := range numFrames {
		for j := range numBins {
			intensity := uint8(math.Floor(255 * float64(spectrogram[i][j]/maxMagnitude)))
			img.SetGray(j, i, color.Gray{Y: intensity})
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
