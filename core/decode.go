package core

import (
	"bytes"
	"errors"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// DecodedPCM is the Decoder's output: interleaved f32 PCM at the codec's
// native sample rate and channel count.
type DecodedPCM struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// frameReader is the capability every concrete codec decoder satisfies:
// read the next block of interleaved samples, or io.EOF when exhausted.
// Packet-level decode failures are reported as a non-io.EOF error and are
// skipped by the caller (non-fatal), per spec.
type frameReader interface {
	read() (samples []float32, err error)
	sampleRate() int
	channels() int
}

// probe reports whether data looks like this decoder's container/codec.
type probe struct {
	name string
	test func(data []byte) bool
	open func(data []byte) (frameReader, error)
}

var registry = []probe{
	{name: "wav", test: isWAV, open: openWAV},
	{name: "flac", test: isFLAC, open: openFLAC},
	{name: "mp3", test: isMP3, open: openMP3},
}

// Decode demuxes and decodes an in-memory compressed byte buffer into
// interleaved f32 PCM. It autodetects the container/codec by trying each
// registered probe in order; the first one to recognize the bytes decodes
// the default track. Per-packet decode errors are skipped; end-of-stream
// or unrecoverable demux errors (a run of consecutive read failures with
// no packet decoded in between) stop the loop and return everything
// decoded so far.
func Decode(data []byte) (DecodedPCM, error) {
	for _, p := range registry {
		if !p.test(data) {
			continue
		}
		fr, err := p.open(data)
		if err != nil {
			return DecodedPCM{}, newErr(ErrCorruptHeader, err)
		}
		rate := fr.sampleRate()
		channels := fr.channels()
		if rate <= 0 || channels <= 0 {
			return DecodedPCM{}, newErr(ErrCorruptHeader, errors.New("codec reported zero rate or channels"))
		}

		const maxConsecutiveFailures = 32
		var out []float32
		failures := 0
		for {
			chunk, err := fr.read()
			if err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				// Non-fatal: skip the bad packet and keep decoding, unless
				// the reader keeps failing without yielding any packet.
				failures++
				if failures >= maxConsecutiveFailures {
					break
				}
				continue
			}
			failures = 0
			out = append(out, chunk...)
		}
		return DecodedPCM{Samples: out, SampleRate: rate, Channels: channels}, nil
	}
	return DecodedPCM{}, newErr(ErrUnsupportedFormat, nil)
}

// --- WAV -------------------------------------------------------------

func isWAV(data []byte) bool {
	return len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WAVE"))
}

type wavReader struct {
	dec    *wav.Decoder
	format *audio.Format
	buf    *audio.IntBuffer
}

func openWAV(data []byte) (frameReader, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav header")
	}
	format := dec.Format()
	return &wavReader{
		dec:    dec,
		format: format,
		buf:    &audio.IntBuffer{Data: make([]int, 8192), Format: format},
	}, nil
}

func (r *wavReader) sampleRate() int { return int(r.format.SampleRate) }
func (r *wavReader) channels() int   { return r.format.NumChannels }

func (r *wavReader) read() ([]float32, error) {
	n, err := r.dec.PCMBuffer(r.buf)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, io.EOF
	}
	bitDepth := r.buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = 16
	}
	maxVal := float32(int(1) << (bitDepth - 1))
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = float32(r.buf.Data[i]) / maxVal
	}
	return out, nil
}

// --- MP3 ---------------------------------------------------------------

func isMP3(data []byte) bool {
	if len(data) >= 3 && bytes.Equal(data[0:3], []byte("ID3")) {
		return true
	}
	// Bare frame sync: 11 set bits at the start of a frame header.
	return len(data) >= 2 && data[0] == 0xFF && (data[1]&0xE0) == 0xE0
}

type mp3Reader struct {
	dec *mp3.Decoder
	buf []byte
}

func openMP3(data []byte) (frameReader, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &mp3Reader{dec: dec, buf: make([]byte, 8192)}, nil
}

func (r *mp3Reader) sampleRate() int { return r.dec.SampleRate() }
func (r *mp3Reader) channels() int   { return 2 } // go-mp3 always decodes to 16-bit stereo LE

func (r *mp3Reader) read() ([]float32, error) {
	n, err := r.dec.Read(r.buf)
	if n == 0 {
		if err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	n -= n % 4 // drop a trailing half-sample if the read straddled a frame
	out := make([]float32, n/2)
	for i := 0; i < n/2; i++ {
		lo := int16(r.buf[2*i]) | int16(r.buf[2*i+1])<<8
		out[i] = float32(lo) / 32768.0
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return out, nil // keep this packet, surface EOF/errors on next call
	}
	return out, nil
}

// --- FLAC ----------------------------------------------------------------

func isFLAC(data []byte) bool {
	return len(data) >= 4 && bytes.Equal(data[0:4], []byte("fLaC"))
}

type flacReader struct {
	stream *flac.Stream
	rate   int
	chans  int
}

func openFLAC(data []byte) (frameReader, error) {
	stream, err := flac.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &flacReader{
		stream: stream,
		rate:   int(stream.Info.SampleRate),
		chans:  int(stream.Info.NChannels),
	}, nil
}

func (r *flacReader) sampleRate() int { return r.rate }
func (r *flacReader) channels() int   { return r.chans }

func (r *flacReader) read() ([]float32, error) {
	frame, err := r.stream.ParseNext()
	if err != nil {
		return nil, err
	}
	maxVal := float32(int(1) << (uint(r.stream.Info.BitsPerSample) - 1))
	n := len(frame.Subframes[0].Samples)
	out := make([]float32, n*r.chans)
	for i := 0; i < n; i++ {
		for c := 0; c < r.chans; c++ {
			out[i*r.chans+c] = float32(frame.Subframes[c].Samples[i]) / maxVal
		}
	}
	return out, nil
}
