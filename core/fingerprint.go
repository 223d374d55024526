package core

import "soundmark/models"

// FanValue is the number of successor peaks an anchor is paired with.
const FanValue = 5

// MaxTimeDiff is the largest anchor-to-target frame gap a pair may span.
const MaxTimeDiff = 50

// GenerateHashes pairs each peak with up to the next FanValue peaks in the
// list (peaks must already be sorted by ascending frame, which FindPeaks
// guarantees via its row-major scan), emitting a lossy 48-bit geometry
// hash packed into a 64-bit integer for every pair within MaxTimeDiff.
//
// For an anchor (t1, f1) and target (t2, f2):
//
//	hash = ((f1 & 0xFFFF) << 32) | ((f2 & 0xFFFF) << 16) | ((t2 - t1) & 0xFFFF)
//
// Collisions across unrelated tracks are expected; they are the basis of
// robust matching via the voting elector in elect.go.
func GenerateHashes(peaks []models.Peak) []models.Fingerprint {
	var out []models.Fingerprint
	for i, anchor := range peaks {
		end := i + FanValue
		if end >= len(peaks) {
			end = len(peaks) - 1
		}
		for j := i + 1; j <= end; j++ {
			target := peaks[j]
			dt := target.Frame - anchor.Frame
			if dt > MaxTimeDiff {
				break
			}
			hash := (uint64(anchor.Bin)&0xFFFF)<<32 |
				(uint64(target.Bin)&0xFFFF)<<16 |
				(uint64(dt) & 0xFFFF)
			out = append(out, models.Fingerprint{
				Hash:       hash,
				FrameIndex: uint32(anchor.Frame),
			})
		}
	}
	return out
}
