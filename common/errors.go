package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind groups failures by the pipeline stage that produced them.
type Kind string

const (
	KindInput      Kind = "input"
	KindStructural Kind = "structural"
	KindParser     Kind = "parser"
	KindModel      Kind = "model"
)

// Error is the pipeline error. Cause is one of the sentinels below, optionally
// wrapping the underlying library error.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

var (
	ErrEmptyInput           = errors.New("empty input")
	ErrTruncationMarker     = errors.New("truncation marker")
	ErrInvalidBase64        = errors.New("invalid base64")
	ErrTooShort             = errors.New("too short")
	ErrBadHeader            = errors.New("bad header")
	ErrMissingEOF           = errors.New("missing eof")
	ErrMissingStartxref     = errors.New("missing startxref")
	ErrXrefOffsetOutOfRange = errors.New("xref offset out of range")
	ErrXrefMarkerNotFound   = errors.New("xref marker not found")
	ErrParser               = errors.New("parser error")
	ErrUnrecognizedModel    = errors.New("unrecognized model")
)

var codes = map[error]struct {
	kind Kind
	code string
}{
	ErrEmptyInput:           {KindInput, "EmptyInput"},
	ErrTruncationMarker:     {KindInput, "TruncationMarker"},
	ErrInvalidBase64:        {KindInput, "InvalidBase64"},
	ErrTooShort:             {KindInput, "TooShort"},
	ErrBadHeader:            {KindStructural, "BadHeader"},
	ErrMissingEOF:           {KindStructural, "MissingEOF"},
	ErrMissingStartxref:     {KindStructural, "MissingStartxref"},
	ErrXrefOffsetOutOfRange: {KindStructural, "XrefOffsetOutOfRange"},
	ErrXrefMarkerNotFound:   {KindStructural, "XrefMarkerNotFound"},
	ErrParser:               {KindParser, "ParserError"},
	ErrUnrecognizedModel:    {KindModel, "UnrecognizedModel"},
}

// Newf builds an *Error for sentinel with a formatted message.
func Newf(sentinel error, format string, args ...interface{}) *Error {
	c := codes[sentinel]
	return &Error{
		Kind:    c.kind,
		Code:    c.code,
		Message: fmt.Sprintf(format, args...),
		Cause:   sentinel,
	}
}

// Wrap builds an *Error for sentinel that also unwraps to cause.
func Wrap(sentinel error, cause error, message string) *Error {
	e := Newf(sentinel, "%s: %v", message, cause)
	e.Cause = &wrapped{sentinel: sentinel, cause: cause}
	return e
}

type wrapped struct {
	sentinel error
	cause    error
}

func (w *wrapped) Error() string   { return w.cause.Error() }
func (w *wrapped) Unwrap() []error { return []error{w.sentinel, w.cause} }

// KindOf reports the Kind of err, or "" when err is not a pipeline error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// CodeOf reports the failure code of err, or "" when err is not a pipeline error.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// HTTPStatus maps a Kind to the status the transport answers with.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindInput, KindStructural:
		return http.StatusBadRequest
	case KindParser, KindModel:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
