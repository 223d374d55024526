package core

import (
	"log/slog"

	"github.com/mdobak/go-xerrors"
)

// ErrKind distinguishes the error categories the core pipeline raises.
// Fatal kinds abort the invocation; EmptyAudio/EmptySpectrogram instead
// surface as an empty fingerprint list and are not wrapped as errors by
// FingerprintPipeline.
type ErrKind int

const (
	// ErrUnsupportedFormat means no registered probe recognized the bytes.
	ErrUnsupportedFormat ErrKind = iota
	// ErrNoDefaultTrack means the container exposed no default track.
	ErrNoDefaultTrack
	// ErrCorruptHeader means codec parameters (rate/channels) were absent.
	ErrCorruptHeader
	// ErrResamplerInit means the resampler ratio could not be constructed.
	ErrResamplerInit
	// ErrNoMatches means the elector was called with no match tuples.
	ErrNoMatches
)

func (k ErrKind) String() string {
	switch k {
	case ErrUnsupportedFormat:
		return "UnsupportedFormat"
	case ErrNoDefaultTrack:
		return "NoDefaultTrack"
	case ErrCorruptHeader:
		return "CorruptHeader"
	case ErrResamplerInit:
		return "ResamplerInit"
	case ErrNoMatches:
		return "NoMatches"
	default:
		return "Unknown"
	}
}

// PipelineError wraps an ErrKind with the underlying cause via go-xerrors
// so callers can both switch on Kind and errors.Is/As through to cause.
type PipelineError struct {
	Kind  ErrKind
	cause error
}

func (e *PipelineError) Error() string {
	if e.cause == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.cause.Error()
}

func (e *PipelineError) Unwrap() error { return e.cause }

// newErr wraps cause (if any) with xerrors so stack context survives
// structured logging, and tags it with kind for dispatch upstream.
func newErr(kind ErrKind, cause error) *PipelineError {
	if cause != nil {
		cause = xerrors.New(cause)
	}
	return &PipelineError{Kind: kind, cause: cause}
}

// LogFields renders a PipelineError as slog attributes for structured logs.
func LogFields(err *PipelineError) []slog.Attr {
	return []slog.Attr{
		slog.String("error_kind", err.Kind.String()),
		slog.Any("error", err.cause),
	}
}
