package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundmark/models"
)

func TestGenerateHashesEmptyPeaksYieldsNone(t *testing.T) {
	assert.Nil(t, GenerateHashes(nil))
}

func TestGenerateHashesFansOutUpToFanValue(t *testing.T) {
	peaks := []models.Peak{
		{Frame: 0, Bin: 10},
		{Frame: 1, Bin: 11},
		{Frame: 2, Bin: 12},
		{Frame: 3, Bin: 13},
		{Frame: 4, Bin: 14},
		{Frame: 5, Bin: 15},
		{Frame: 6, Bin: 16},
	}
	hashes := GenerateHashes(peaks)

	fromAnchor0 := 0
	for _, h := range hashes {
		if h.FrameIndex == 0 {
			fromAnchor0++
		}
	}
	// the anchor at frame 0 pairs with the next FanValue (5) peaks
	assert.Equal(t, FanValue, fromAnchor0)
}

func TestGenerateHashesRespectsMaxTimeDiff(t *testing.T) {
	peaks := []models.Peak{
		{Frame: 0, Bin: 10},
		{Frame: MaxTimeDiff + 1, Bin: 11},
	}
	assert.Empty(t, GenerateHashes(peaks))
}

func TestGenerateHashesPacksExpectedBitLayout(t *testing.T) {
	peaks := []models.Peak{
		{Frame: 0, Bin: 100},
		{Frame: 5, Bin: 200},
	}
	hashes := GenerateHashes(peaks)
	require.Len(t, hashes, 1)

	want := (uint64(100)&0xFFFF)<<32 | (uint64(200)&0xFFFF)<<16 | (uint64(5) & 0xFFFF)
	assert.Equal(t, want, hashes[0].Hash)
	assert.Equal(t, uint32(0), hashes[0].FrameIndex)
}

func TestGenerateHashesIdenticalPeaksProduceIdenticalHashes(t *testing.T) {
	peaks := []models.Peak{
		{Frame: 0, Bin: 10},
		{Frame: 2, Bin: 20},
	}
	a := GenerateHashes(peaks)
	b := GenerateHashes(peaks)
	assert.Equal(t, a, b)
}
