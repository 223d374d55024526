package core

import "soundmark/models"

// electKey is the (song_id, delta) pair the vote histogram is keyed by.
type electKey struct {
	songID int64
	delta  int64
}

// Elect histograms matches by (song_id, delta) and returns the song_id of
// the pair with the highest count. A genuine match produces many hashes
// at one consistent time offset into the reference track; false-hash
// collisions scatter across random offsets, so voting in the joint
// (song_id, delta) space isolates the true song far better than counting
// song_id alone.
//
// Ties are broken deterministically: first by highest count, then by
// lowest song_id, then by earliest-seen delta in input order.
func Elect(matches []models.Match) (int64, error) {
	if len(matches) == 0 {
		return 0, newErr(ErrNoMatches, nil)
	}

	counts := make(map[electKey]int, len(matches))
	order := make(map[electKey]int, len(matches))
	for i, m := range matches {
		k := electKey{songID: m.SongID, delta: m.Delta}
		if _, seen := order[k]; !seen {
			order[k] = i
		}
		counts[k]++
	}

	var best electKey
	bestCount := -1
	bestOrder := -1
	first := true
	for k, c := range counts {
		o := order[k]
		switch {
		case first:
			best, bestCount, bestOrder, first = k, c, o, false
		case c > bestCount:
			best, bestCount, bestOrder = k, c, o
		case c == bestCount && k.songID < best.songID:
			best, bestCount, bestOrder = k, c, o
		case c == bestCount && k.songID == best.songID && o < bestOrder:
			best, bestCount, bestOrder = k, c, o
		}
	}
	return best.songID, nil
}
