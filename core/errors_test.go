package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPipelineErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("boom")
	err := newErr(ErrCorruptHeader, cause)
	assert.Contains(t, err.Error(), "CorruptHeader")
	assert.Contains(t, err.Error(), "boom")
}

func TestPipelineErrorMessageWithoutCause(t *testing.T) {
	err := newErr(ErrNoMatches, nil)
	assert.Equal(t, "NoMatches", err.Error())
}

func TestPipelineErrorUnwrapsToCause(t *testing.T) {
	cause := errors.New("root")
	err := newErr(ErrResamplerInit, cause)
	assert.ErrorContains(t, errors.Unwrap(err), "root")
}

func TestErrKindStringCoversEveryKind(t *testing.T) {
	kinds := []ErrKind{ErrUnsupportedFormat, ErrNoDefaultTrack, ErrCorruptHeader, ErrResamplerInit, ErrNoMatches}
	for _, k := range kinds {
		assert.NotEqual(t, "Unknown", k.String())
	}
}
