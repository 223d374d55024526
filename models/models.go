// Package models holds the shared data-model types that cross package
// boundaries: the pipeline's own result types, the wire form exchanged
// with the bus/store, and the persisted song record.
package models

// Peak is a single local maximum in a magnitude spectrogram: frame index
// (time) and bin index (frequency), both in the spectrogram's interior.
type Peak struct {
	Frame int
	Bin   int
}

// Fingerprint is the in-process result of the hash generator: a 64-bit
// geometry hash anchored at a frame index. See core/fingerprint.go for
// the exact bit layout.
type Fingerprint struct {
	Hash       uint64
	FrameIndex uint32
}

// FingerprintDTO is the wire form of a Fingerprint, used in the bus
// envelopes and any JSON transport between the extractor and the store.
type FingerprintDTO struct {
	Hash       uint64 `json:"hash"`
	FrameIndex uint64 `json:"frame_index"`
}

// ToDTO converts a Fingerprint to its wire form.
func (f Fingerprint) ToDTO() FingerprintDTO {
	return FingerprintDTO{Hash: f.Hash, FrameIndex: uint64(f.FrameIndex)}
}

// Match is a (song_id, delta) vote produced by joining a query
// fingerprint against the store on hash equality.
type Match struct {
	SongID int64
	Delta  int64
}

// Song is the persisted row identifying a fingerprinted track.
type Song struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}
