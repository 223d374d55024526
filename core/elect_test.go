package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soundmark/models"
)

func TestElectNoMatchesReturnsError(t *testing.T) {
	_, err := Elect(nil)
	require.Error(t, err)
	pe, ok := err.(*PipelineError)
	require.True(t, ok)
	assert.Equal(t, ErrNoMatches, pe.Kind)
}

func TestElectPicksHighestVotedSong(t *testing.T) {
	matches := []models.Match{
		{SongID: 1, Delta: 10},
		{SongID: 1, Delta: 10},
		{SongID: 1, Delta: 10},
		{SongID: 2, Delta: 3},
		{SongID: 2, Delta: 99},
	}
	songID, err := Elect(matches)
	require.NoError(t, err)
	assert.Equal(t, int64(1), songID)
}

func TestElectDisambiguatesTwoSongsByConsistentOffset(t *testing.T) {
	var matches []models.Match
	for i := 0; i < 20; i++ {
		// song 7 votes scatter across random-looking offsets (false hashes)
		matches = append(matches, models.Match{SongID: 7, Delta: int64(i)})
	}
	for i := 0; i < 15; i++ {
		// song 3 votes concentrate at one true offset
		matches = append(matches, models.Match{SongID: 3, Delta: 42})
	}
	songID, err := Elect(matches)
	require.NoError(t, err)
	assert.Equal(t, int64(3), songID)
}

func TestElectTiesBreakByLowestSongID(t *testing.T) {
	matches := []models.Match{
		{SongID: 5, Delta: 1},
		{SongID: 5, Delta: 1},
		{SongID: 2, Delta: 9},
		{SongID: 2, Delta: 9},
	}
	songID, err := Elect(matches)
	require.NoError(t, err)
	assert.Equal(t, int64(2), songID)
}
