// Package apierr is the standardized error envelope the HTTP API writes
// to the wire, and the mapping from core pipeline error kinds to HTTP
// status codes.
package apierr

import (
	"encoding/json"
	"fmt"
	"net/http"

	"soundmark/core"
)

// Code identifies the category of an API error.
type Code string

const (
	CodeBadRequest      Code = "BAD_REQUEST"
	CodeUnsupportedType Code = "UNSUPPORTED_FORMAT"
	CodeNoMatches       Code = "NO_MATCHES"
	CodeNotFound        Code = "NOT_FOUND"
	CodeInternal        Code = "INTERNAL_ERROR"
)

var statusByCode = map[Code]int{
	CodeBadRequest:      http.StatusBadRequest,
	CodeUnsupportedType: http.StatusUnprocessableEntity,
	CodeNoMatches:       http.StatusNotFound,
	CodeNotFound:        http.StatusNotFound,
	CodeInternal:        http.StatusInternalServerError,
}

// Error is the JSON envelope written for any non-2xx API response.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func newError(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Status: statusByCode[code]}
}

func BadRequest(message string) *Error { return newError(CodeBadRequest, message) }
func NotFound(resource string) *Error  { return newError(CodeNotFound, resource+" not found") }
func Internal(message string) *Error   { return newError(CodeInternal, message) }

// NoMatches is returned by the query endpoint when the elector finds no
// stored fingerprint overlapping the query.
func NoMatches() *Error {
	return newError(CodeNoMatches, "no matching song found")
}

// FromPipelineError maps a core.PipelineError to its API representation.
// UnsupportedFormat, NoDefaultTrack and CorruptHeader are all client
// input problems; ResamplerInit is ours.
func FromPipelineError(err error) *Error {
	pe, ok := err.(*core.PipelineError)
	if !ok {
		return Internal(err.Error())
	}
	switch pe.Kind {
	case core.ErrUnsupportedFormat, core.ErrNoDefaultTrack, core.ErrCorruptHeader:
		return newError(CodeUnsupportedType, pe.Error())
	case core.ErrNoMatches:
		return NoMatches()
	case core.ErrResamplerInit:
		return Internal(pe.Error())
	default:
		return Internal(pe.Error())
	}
}

// WriteJSON writes e as the HTTP response body with its mapped status code.
func (e *Error) WriteJSON(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	status := e.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}
